package faqrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/charityfund/faqbot/internal/domain/catalog"
	"github.com/charityfund/faqbot/internal/domain/faq"
	"github.com/charityfund/faqbot/internal/domain/triage"
)

// PostgresRepository implements the faq, catalog and triage storage
// contracts over a shared pgx pool. Embeddings live in BYTEA columns using
// the fixed little-endian float32 layout the matcher decodes.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListVariants returns the full corpus snapshot. The single query result is
// materialized into a slice, so concurrent scans never observe writes.
func (r *PostgresRepository) ListVariants(ctx context.Context) ([]faq.VariantRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT qv.id, qv.embedding, qv.variant_text,
			sq.id AS standard_question_id, sq.answer_id, COALESCE(sq.intent, '')
		FROM question_variants qv
		JOIN standard_questions sq ON qv.standard_question_id = sq.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []faq.VariantRow
	for rows.Next() {
		var row faq.VariantRow
		if err := rows.Scan(&row.VariantID, &row.Embedding, &row.Text, &row.CanonicalID, &row.AnswerID, &row.Intent); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetAnswerText fetches one answer by ID.
func (r *PostgresRepository) GetAnswerText(ctx context.Context, answerID int64) (string, bool, error) {
	var text string
	err := r.pool.QueryRow(ctx, `SELECT answer_text FROM answers WHERE id = $1`, answerID).Scan(&text)
	if isNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// LogUserQuestion records a processed question for audit and triage.
func (r *PostgresRepository) LogUserQuestion(ctx context.Context, entry faq.UserQuestionLog) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_questions (
			session_id, client_id, raw_question, normalized_text, embedding,
			standard_question_id, answer_id, is_found, confidence, response_time_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, entry.SessionID, nullString(entry.ClientID), entry.RawQuestion, entry.NormalizedText, entry.Embedding,
		entry.CanonicalID, entry.AnswerID, entry.Found, entry.Confidence, entry.ResponseTimeMs).Scan(&id)
	return id, err
}

// LogPendingQuestion queues an unanswered question for curators.
func (r *PostgresRepository) LogPendingQuestion(ctx context.Context, userQuestionID int64) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO pending_questions (user_question_id) VALUES ($1)`, userQuestionID)
	return err
}

// GetOrCreateGroup returns the group ID, creating the row when missing.
func (r *PostgresRepository) GetOrCreateGroup(ctx context.Context, name, description string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM question_groups WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !isNoRows(err) {
		return 0, err
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO question_groups (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, nullString(description)).Scan(&id)
	return id, err
}

// InsertAnswer stores a new answer row.
func (r *PostgresRepository) InsertAnswer(ctx context.Context, text string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO answers (answer_text) VALUES ($1) RETURNING id`, text).Scan(&id)
	return id, err
}

// FindAnswerByText locates an answer with identical text.
func (r *PostgresRepository) FindAnswerByText(ctx context.Context, text string) (int64, bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM answers WHERE answer_text = $1 LIMIT 1`, text).Scan(&id)
	if isNoRows(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// InsertStandardQuestion stores a canonical question.
func (r *PostgresRepository) InsertStandardQuestion(ctx context.Context, title string, groupID, answerID int64, intent string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO standard_questions (title, group_id, answer_id, intent)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, title, groupID, answerID, nullString(intent)).Scan(&id)
	return id, err
}

// FindStandardQuestion locates a canonical question by group and title.
func (r *PostgresRepository) FindStandardQuestion(ctx context.Context, groupID int64, title string) (int64, bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM standard_questions WHERE group_id = $1 AND title = $2 LIMIT 1
	`, groupID, title).Scan(&id)
	if isNoRows(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// InsertVariant stores a variant unless the same (text, question) pair exists.
func (r *PostgresRepository) InsertVariant(ctx context.Context, text string, embedding []byte, standardQuestionID int64) (int64, bool, error) {
	var existing int64
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM question_variants WHERE variant_text = $1 AND standard_question_id = $2
	`, text, standardQuestionID).Scan(&existing)
	if err == nil {
		return existing, false, nil
	}
	if !isNoRows(err) {
		return 0, false, err
	}

	var id int64
	err = r.pool.QueryRow(ctx, `
		INSERT INTO question_variants (variant_text, embedding, standard_question_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, text, embedding, standardQuestionID).Scan(&id)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ListGroups returns every question group.
func (r *PostgresRepository) ListGroups(ctx context.Context) ([]catalog.Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, COALESCE(description, '') FROM question_groups ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Group
	for rows.Next() {
		var g catalog.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListStandardQuestions returns every canonical question.
func (r *PostgresRepository) ListStandardQuestions(ctx context.Context) ([]catalog.StandardQuestion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, group_id, answer_id, COALESCE(intent, '') FROM standard_questions ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.StandardQuestion
	for rows.Next() {
		var q catalog.StandardQuestion
		if err := rows.Scan(&q.ID, &q.Title, &q.GroupID, &q.AnswerID, &q.Intent); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ListAnswers returns every stored answer.
func (r *PostgresRepository) ListAnswers(ctx context.Context) ([]catalog.Answer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, answer_text FROM answers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Answer
	for rows.Next() {
		var a catalog.Answer
		if err := rows.Scan(&a.ID, &a.Text); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListPending returns unprocessed pending questions with their sources.
func (r *PostgresRepository) ListPending(ctx context.Context) ([]triage.PendingQuestion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pq.id, pq.user_question_id, uq.raw_question, uq.normalized_text, pq.created_at
		FROM pending_questions pq
		JOIN user_questions uq ON pq.user_question_id = uq.id
		WHERE pq.processed = FALSE
		ORDER BY pq.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []triage.PendingQuestion
	for rows.Next() {
		var p triage.PendingQuestion
		if err := rows.Scan(&p.ID, &p.UserQuestionID, &p.RawQuestion, &p.NormalizedText, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPending fetches one unprocessed pending question.
func (r *PostgresRepository) GetPending(ctx context.Context, pendingID int64) (triage.PendingQuestion, bool, error) {
	var p triage.PendingQuestion
	err := r.pool.QueryRow(ctx, `
		SELECT pq.id, pq.user_question_id, uq.raw_question, uq.normalized_text, pq.created_at
		FROM pending_questions pq
		JOIN user_questions uq ON pq.user_question_id = uq.id
		WHERE pq.id = $1 AND pq.processed = FALSE
	`, pendingID).Scan(&p.ID, &p.UserQuestionID, &p.RawQuestion, &p.NormalizedText, &p.CreatedAt)
	if isNoRows(err) {
		return triage.PendingQuestion{}, false, nil
	}
	if err != nil {
		return triage.PendingQuestion{}, false, err
	}
	return p, true, nil
}

// MarkProcessed flags a pending question as handled.
func (r *PostgresRepository) MarkProcessed(ctx context.Context, pendingID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE pending_questions SET processed = TRUE WHERE id = $1`, pendingID)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isNoRows matches pgx.ErrNoRows through errors.Is so wrapped scan errors
// are still recognized as an empty result.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

var (
	_ faq.CorpusRepository = (*PostgresRepository)(nil)
	_ catalog.Repository   = (*PostgresRepository)(nil)
	_ triage.Repository    = (*PostgresRepository)(nil)
)
