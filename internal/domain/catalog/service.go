package catalog

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charityfund/faqbot/internal/domain/faq"
	apperrors "github.com/charityfund/faqbot/pkg/errors"
)

// Service exposes curator operations over the FAQ catalog.
type Service interface {
	CreateGroup(ctx context.Context, name, description string) (Group, error)
	CreateAnswer(ctx context.Context, text string) (Answer, error)
	CreateQuestion(ctx context.Context, title string, groupID int64, answerText, intent string) (StandardQuestion, error)
	AddVariant(ctx context.Context, standardQuestionID int64, text string) (int64, bool, error)
	ListGroups(ctx context.Context) ([]Group, error)
	ListQuestions(ctx context.Context) ([]StandardQuestion, error)
	ListAnswers(ctx context.Context) ([]Answer, error)
	LoadDataset(ctx context.Context, ref string) (LoadReport, error)
}

type service struct {
	cfg    Config
	repo   Repository
	embed  BatchEmbedder
	source DatasetSource
	logger *slog.Logger
}

// NewService wires up the catalog domain.
func NewService(cfg Config, repo Repository, embed BatchEmbedder, source DatasetSource, logger *slog.Logger) Service {
	cfg.Normalization = faq.SanitizeProfile(cfg.Normalization)
	return &service{
		cfg:    cfg,
		repo:   repo,
		embed:  embed,
		source: source,
		logger: logger.With("component", "catalog.service"),
	}
}

func (s *service) CreateGroup(ctx context.Context, name, description string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, apperrors.Wrap(apperrors.CodeInvalidInput, "group name cannot be empty", nil)
	}
	id, err := s.repo.GetOrCreateGroup(ctx, name, strings.TrimSpace(description))
	if err != nil {
		return Group{}, apperrors.Wrap(apperrors.CodeCatalogError, "failed to create group", err)
	}
	return Group{ID: id, Name: name, Description: description}, nil
}

func (s *service) CreateAnswer(ctx context.Context, text string) (Answer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Answer{}, apperrors.Wrap(apperrors.CodeInvalidInput, "answer text cannot be empty", nil)
	}
	id, err := s.repo.InsertAnswer(ctx, text)
	if err != nil {
		return Answer{}, apperrors.Wrap(apperrors.CodeCatalogError, "failed to create answer", err)
	}
	return Answer{ID: id, Text: text}, nil
}

// CreateQuestion inserts a standard question together with its answer and
// seeds the corpus with the question title as the first variant.
func (s *service) CreateQuestion(ctx context.Context, title string, groupID int64, answerText, intent string) (StandardQuestion, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return StandardQuestion{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question title cannot be empty", nil)
	}
	if strings.TrimSpace(answerText) == "" {
		return StandardQuestion{}, apperrors.Wrap(apperrors.CodeInvalidInput, "answer text cannot be empty", nil)
	}

	answer, err := s.CreateAnswer(ctx, answerText)
	if err != nil {
		return StandardQuestion{}, err
	}
	questionID, err := s.repo.InsertStandardQuestion(ctx, title, groupID, answer.ID, strings.TrimSpace(intent))
	if err != nil {
		return StandardQuestion{}, apperrors.Wrap(apperrors.CodeCatalogError, "failed to create question", err)
	}
	if _, _, err := s.AddVariant(ctx, questionID, title); err != nil {
		return StandardQuestion{}, err
	}
	return StandardQuestion{ID: questionID, Title: title, GroupID: groupID, AnswerID: answer.ID, Intent: intent}, nil
}

// AddVariant embeds the variant text with the corpus normalization profile
// and stores it in the at-rest byte layout the matcher decodes.
func (s *service) AddVariant(ctx context.Context, standardQuestionID int64, text string) (int64, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false, apperrors.Wrap(apperrors.CodeInvalidInput, "variant text cannot be empty", nil)
	}

	normalized := faq.NormalizeQuestion(text, s.cfg.Normalization)
	vectors, err := s.embed.EmbedBatch(ctx, []string{normalized})
	if err != nil {
		return 0, false, apperrors.Wrap(apperrors.CodeEmbeddingFailed, "failed to embed variant", err)
	}
	if len(vectors) != 1 || len(vectors[0]) != s.cfg.EmbeddingDimension {
		return 0, false, apperrors.Wrap(apperrors.CodeEmbeddingFailed, "embedding has unexpected dimension", nil)
	}

	id, inserted, err := s.repo.InsertVariant(ctx, text, faq.EncodeEmbedding(vectors[0]), standardQuestionID)
	if err != nil {
		return 0, false, apperrors.Wrap(apperrors.CodeCatalogError, "failed to insert variant", err)
	}
	if !inserted {
		s.logger.Info("variant already exists", "question_id", standardQuestionID, "text", text)
	}
	return id, inserted, nil
}

func (s *service) ListGroups(ctx context.Context) ([]Group, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCatalogError, "failed to list groups", err)
	}
	return groups, nil
}

func (s *service) ListQuestions(ctx context.Context) ([]StandardQuestion, error) {
	questions, err := s.repo.ListStandardQuestions(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCatalogError, "failed to list questions", err)
	}
	return questions, nil
}

func (s *service) ListAnswers(ctx context.Context) ([]Answer, error) {
	answers, err := s.repo.ListAnswers(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCatalogError, "failed to list answers", err)
	}
	return answers, nil
}

// LoadDataset bulk-imports a CSV dataset. Embeddings for new variants are
// requested in batches; rows with missing mandatory fields are skipped and
// counted, never fatal.
func (s *service) LoadDataset(ctx context.Context, ref string) (LoadReport, error) {
	reader, err := s.source.Open(ctx, ref)
	if err != nil {
		return LoadReport{}, apperrors.Wrap(apperrors.CodeCatalogError, "failed to open dataset", err)
	}
	defer reader.Close()

	return s.loadDataset(ctx, reader)
}

func (s *service) loadDataset(ctx context.Context, r io.Reader) (LoadReport, error) {
	rows, skipped, err := parseDataset(r)
	if err != nil {
		return LoadReport{}, apperrors.Wrap(apperrors.CodeInvalidInput, "failed to parse dataset", err)
	}

	report := LoadReport{Rows: len(rows) + skipped, Skipped: skipped}

	groupIDs := make(map[string]int64)
	answerIDs := make(map[string]int64)
	questionIDs := make(map[string]int64)
	pending := make([]pendingVariant, 0, len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		groupID, ok := groupIDs[row.Group]
		if !ok {
			groupID, err = s.repo.GetOrCreateGroup(ctx, row.Group, "")
			if err != nil {
				s.logger.Warn("dataset group insert failed", "group", row.Group, "error", err)
				report.Skipped++
				continue
			}
			groupIDs[row.Group] = groupID
			report.Groups++
		}

		answerID, ok := answerIDs[row.Answer]
		if !ok {
			answerID, err = s.ensureAnswer(ctx, row.Answer)
			if err != nil {
				s.logger.Warn("dataset answer insert failed", "error", err)
				report.Skipped++
				continue
			}
			answerIDs[row.Answer] = answerID
			report.Answers++
		}

		questionKey := row.Group + "\x00" + row.Question
		questionID, ok := questionIDs[questionKey]
		if !ok {
			questionID, err = s.ensureQuestion(ctx, row.Question, groupID, answerID, row.Intent)
			if err != nil {
				s.logger.Warn("dataset question insert failed", "question", row.Question, "error", err)
				report.Skipped++
				continue
			}
			questionIDs[questionKey] = questionID
			report.Questions++
		}

		text := strings.TrimSpace(row.Variant)
		if text == "" {
			report.Skipped++
			continue
		}
		pending = append(pending, pendingVariant{
			questionID: questionID,
			text:       text,
			normalized: faq.NormalizeQuestion(text, s.cfg.Normalization),
		})
	}

	if err := s.insertVariants(ctx, pending, &report); err != nil {
		return report, err
	}

	s.logger.Info("dataset load finished",
		"rows", report.Rows,
		"variants", report.VariantsInserted,
		"skipped", report.Skipped)
	return report, nil
}

// pendingVariant is a dataset row that survived catalog resolution and
// still needs an embedding.
type pendingVariant struct {
	questionID int64
	text       string
	normalized string
}

// insertVariants embeds every pending variant in a single batch call so the
// embedder can pack them under its own token and count budgets, then stores
// each vector. A wrong-dimension vector skips its row, never the load.
func (s *service) insertVariants(ctx context.Context, pending []pendingVariant, report *LoadReport) error {
	if len(pending) == 0 {
		return nil
	}

	texts := make([]string, len(pending))
	for i, p := range pending {
		texts[i] = p.normalized
	}
	vectors, err := s.embed.EmbedBatch(ctx, texts)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeEmbeddingFailed, "failed to embed dataset variants", err)
	}
	if len(vectors) != len(pending) {
		return apperrors.Wrap(apperrors.CodeEmbeddingFailed, "embedding batch size mismatch", nil)
	}

	for i, p := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(vectors[i]) != s.cfg.EmbeddingDimension {
			s.logger.Warn("dataset variant embedding has unexpected dimension", "variant", p.text, "dimension", len(vectors[i]))
			report.Skipped++
			continue
		}
		_, inserted, err := s.repo.InsertVariant(ctx, p.text, faq.EncodeEmbedding(vectors[i]), p.questionID)
		if err != nil {
			s.logger.Warn("dataset variant insert failed", "variant", p.text, "error", err)
			report.Skipped++
			continue
		}
		if inserted {
			report.VariantsInserted++
		}
	}
	return nil
}

func (s *service) ensureAnswer(ctx context.Context, text string) (int64, error) {
	id, found, err := s.repo.FindAnswerByText(ctx, text)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	return s.repo.InsertAnswer(ctx, text)
}

func (s *service) ensureQuestion(ctx context.Context, title string, groupID, answerID int64, intent string) (int64, error) {
	id, found, err := s.repo.FindStandardQuestion(ctx, groupID, title)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	return s.repo.InsertStandardQuestion(ctx, title, groupID, answerID, intent)
}
