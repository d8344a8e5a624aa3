package catalog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/charityfund/faqbot/internal/domain/faq"
	apperrors "github.com/charityfund/faqbot/pkg/errors"
)

type memRepo struct {
	groups    map[string]int64
	answers   map[string]int64
	questions map[string]int64
	variants  map[string][]byte
	nextID    int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		groups:    make(map[string]int64),
		answers:   make(map[string]int64),
		questions: make(map[string]int64),
		variants:  make(map[string][]byte),
		nextID:    1,
	}
}

func (r *memRepo) id() int64 {
	id := r.nextID
	r.nextID++
	return id
}

func (r *memRepo) GetOrCreateGroup(_ context.Context, name, _ string) (int64, error) {
	if id, ok := r.groups[name]; ok {
		return id, nil
	}
	id := r.id()
	r.groups[name] = id
	return id, nil
}

func (r *memRepo) InsertAnswer(_ context.Context, text string) (int64, error) {
	id := r.id()
	r.answers[text] = id
	return id, nil
}

func (r *memRepo) FindAnswerByText(_ context.Context, text string) (int64, bool, error) {
	id, ok := r.answers[text]
	return id, ok, nil
}

func (r *memRepo) InsertStandardQuestion(_ context.Context, title string, groupID, _ int64, _ string) (int64, error) {
	id := r.id()
	r.questions[questionKey(groupID, title)] = id
	return id, nil
}

func (r *memRepo) FindStandardQuestion(_ context.Context, groupID int64, title string) (int64, bool, error) {
	id, ok := r.questions[questionKey(groupID, title)]
	return id, ok, nil
}

func (r *memRepo) InsertVariant(_ context.Context, text string, embedding []byte, standardQuestionID int64) (int64, bool, error) {
	key := variantKey(standardQuestionID, text)
	if _, ok := r.variants[key]; ok {
		return 0, false, nil
	}
	r.variants[key] = embedding
	return r.id(), true, nil
}

func (r *memRepo) ListGroups(context.Context) ([]Group, error)                       { return nil, nil }
func (r *memRepo) ListStandardQuestions(context.Context) ([]StandardQuestion, error) { return nil, nil }
func (r *memRepo) ListAnswers(context.Context) ([]Answer, error)                     { return nil, nil }

func questionKey(groupID int64, title string) string {
	return string(rune(groupID)) + "\x00" + title
}

func variantKey(questionID int64, text string) string {
	return string(rune(questionID)) + "\x00" + text
}

type fixedEmbedder struct {
	dim   int
	calls [][]string
}

func (e *fixedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls = append(e.calls, texts)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, e.dim)
		out[i][0] = 1
	}
	return out, nil
}

type stringSource struct{ data string }

func (s *stringSource) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.data)), nil
}

func testService(repo Repository, embed BatchEmbedder, source DatasetSource) Service {
	cfg := Config{EmbeddingDimension: 4, Normalization: faq.ProfileBasic}
	return NewService(cfg, repo, embed, source, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAddVariantEncodesEmbedding(t *testing.T) {
	repo := newMemRepo()
	svc := testService(repo, &fixedEmbedder{dim: 4}, nil)

	id, inserted, err := svc.AddVariant(context.Background(), 7, "  How Do I Donate?  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inserted || id == 0 {
		t.Fatal("expected variant to be inserted")
	}

	blob := repo.variants[variantKey(7, "How Do I Donate?")]
	if len(blob) != 16 {
		t.Fatalf("expected 16-byte blob, got %d bytes", len(blob))
	}
	vec, err := faq.DecodeEmbedding(blob, 4)
	if err != nil {
		t.Fatalf("stored blob does not decode: %v", err)
	}
	if vec[0] != 1 {
		t.Fatalf("unexpected decoded vector %v", vec)
	}
}

func TestAddVariantDeduplicates(t *testing.T) {
	repo := newMemRepo()
	svc := testService(repo, &fixedEmbedder{dim: 4}, nil)

	if _, inserted, err := svc.AddVariant(context.Background(), 1, "same text"); err != nil || !inserted {
		t.Fatalf("first insert failed: inserted=%v err=%v", inserted, err)
	}
	if _, inserted, err := svc.AddVariant(context.Background(), 1, "same text"); err != nil || inserted {
		t.Fatalf("duplicate must not insert: inserted=%v err=%v", inserted, err)
	}
}

func TestAddVariantRejectsWrongDimension(t *testing.T) {
	svc := testService(newMemRepo(), &fixedEmbedder{dim: 3}, nil)

	_, _, err := svc.AddVariant(context.Background(), 1, "text")
	if !apperrors.IsCode(err, apperrors.CodeEmbeddingFailed) {
		t.Fatalf("expected embedding_failed, got %v", err)
	}
}

func TestLoadDataset(t *testing.T) {
	data := strings.Join([]string{
		`group,question,intent,variant,answer`,
		`Donations,How do I donate?,donate,How can I give,Use the page.`,
		`Donations,How do I donate?,donate,Where to send money,Use the page.`,
		`Help,Who can get help?,help,,Anyone in need.`,
		`,bad,row,missing,group`,
	}, "\n")

	repo := newMemRepo()
	svc := testService(repo, &fixedEmbedder{dim: 4}, &stringSource{data: data})

	report, err := svc.LoadDataset(context.Background(), "faq.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Groups != 2 {
		t.Fatalf("expected 2 groups, got %d", report.Groups)
	}
	if report.Answers != 2 {
		t.Fatalf("expected 2 answers, got %d", report.Answers)
	}
	if report.Questions != 2 {
		t.Fatalf("expected 2 questions, got %d", report.Questions)
	}
	if report.VariantsInserted != 3 {
		t.Fatalf("expected 3 variants, got %d", report.VariantsInserted)
	}
	if report.Skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", report.Skipped)
	}
}

func TestLoadDatasetEmbedsVariantsInOneBatch(t *testing.T) {
	data := strings.Join([]string{
		`group,question,intent,variant,answer`,
		`Donations,How do I donate?,donate,How can I give,Use the page.`,
		`Donations,How do I donate?,donate,Where to send money,Use the page.`,
		`Help,Who can get help?,help,,Anyone in need.`,
	}, "\n")

	embed := &fixedEmbedder{dim: 4}
	svc := testService(newMemRepo(), embed, &stringSource{data: data})

	report, err := svc.LoadDataset(context.Background(), "faq.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.VariantsInserted != 3 {
		t.Fatalf("expected 3 variants, got %d", report.VariantsInserted)
	}
	if len(embed.calls) != 1 {
		t.Fatalf("expected one embedding call for the whole dataset, got %d", len(embed.calls))
	}
	want := []string{"how can i give", "where to send money", "who can get help?"}
	got := embed.calls[0]
	if len(got) != len(want) {
		t.Fatalf("expected %d texts in the batch, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("batch text %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCreateQuestionSeedsVariant(t *testing.T) {
	repo := newMemRepo()
	svc := testService(repo, &fixedEmbedder{dim: 4}, nil)

	q, err := svc.CreateQuestion(context.Background(), "Who can get help?", 1, "Anyone in need.", "help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID == 0 || q.AnswerID == 0 {
		t.Fatalf("missing ids: %+v", q)
	}
	if _, ok := repo.variants[variantKey(q.ID, "Who can get help?")]; !ok {
		t.Fatal("expected question title to seed the corpus as a variant")
	}
}
