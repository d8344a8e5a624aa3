package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charityfund/faqbot/internal/domain/auth"
	"github.com/charityfund/faqbot/internal/domain/catalog"
	"github.com/charityfund/faqbot/internal/domain/faq"
	"github.com/charityfund/faqbot/internal/domain/triage"
	"github.com/charityfund/faqbot/internal/infra/config"
	apperrors "github.com/charityfund/faqbot/pkg/errors"
)

func TestRouter_AskSuccess(t *testing.T) {
	resp := faq.Response{Answer: "You can donate on our website.", Intent: "donations", Confidence: 0.93, Matched: true}
	svc := &stubFAQ{
		askFn: func(ctx context.Context, req faq.Request) (faq.Response, error) {
			require.Equal(t, "how do I donate", req.Question)
			require.NotEmpty(t, req.SessionID)
			return resp, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":"how do I donate"}`, nil, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get("X-Session-ID"))

	var got faq.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp, got)
}

func TestRouter_AskReusesSessionHeader(t *testing.T) {
	svc := &stubFAQ{
		askFn: func(ctx context.Context, req faq.Request) (faq.Response, error) {
			require.Equal(t, "session-42", req.SessionID)
			require.Equal(t, "widget-1", req.ClientID)
			return faq.Response{}, nil
		},
	}

	headers := map[string]string{"X-Session-ID": "session-42", "X-Client-ID": "widget-1"}
	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":"hi"}`, headers, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "session-42", recorder.Header().Get("X-Session-ID"))
}

func TestRouter_AskInvalidJSON(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":123}`, nil, newRouterUnderTest(t, &stubFAQ{}, nil))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_AskCorpusUnavailable(t *testing.T) {
	svc := &stubFAQ{
		askFn: func(ctx context.Context, req faq.Request) (faq.Response, error) {
			return faq.Response{}, apperrors.Wrap(apperrors.CodeCorpusUnavailable, "corpus query failed", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":"anything"}`, nil, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, apperrors.CodeCorpusUnavailable, errBody["error"]["code"])
}

func TestRouter_AskServerErrorHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	svc := &stubFAQ{
		askFn: func(ctx context.Context, req faq.Request) (faq.Response, error) {
			return faq.Response{}, apperrors.Wrap(apperrors.CodeCorpusUnavailable, "corpus query failed", cause)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":"anything"}`, nil, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "corpus query failed", errBody["error"]["message"])
	require.NotContains(t, recorder.Body.String(), "dial tcp")
	require.NotContains(t, recorder.Body.String(), "connection refused")
}

func TestRouter_LoginRejectsBadCredentials(t *testing.T) {
	authSvc := &stubAuth{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
			return auth.LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidCredentials, "invalid username or password", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/auth/login", `{"username":"x","password":"y"}`, nil, newRouterUnderTest(t, &stubFAQ{}, authSvc))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/admin/pending", "", nil, newRouterUnderTest(t, &stubFAQ{}, nil))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRouter_AdminRejectsInvalidToken(t *testing.T) {
	authSvc := &stubAuth{
		validateFn: func(ctx context.Context, token string) (auth.Claims, error) {
			return auth.Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token is invalid", nil)
		},
	}

	headers := map[string]string{"Authorization": "Bearer garbage"}
	recorder := performRequest(http.MethodGet, "/api/v1/admin/pending", "", headers, newRouterUnderTest(t, &stubFAQ{}, authSvc))
	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRouter_AdminPendingSuccess(t *testing.T) {
	authSvc := &stubAuth{
		validateFn: func(ctx context.Context, token string) (auth.Claims, error) {
			require.Equal(t, "valid-token", token)
			return auth.Claims{Subject: "curator"}, nil
		},
	}

	headers := map[string]string{"Authorization": "Bearer valid-token"}
	recorder := performRequest(http.MethodGet, "/api/v1/admin/pending", "", headers, newRouterUnderTest(t, &stubFAQ{}, authSvc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "pending")
}

func TestRouter_AdminResolveRejectsBadID(t *testing.T) {
	authSvc := &stubAuth{
		validateFn: func(ctx context.Context, token string) (auth.Claims, error) {
			return auth.Claims{Subject: "curator"}, nil
		},
	}

	headers := map[string]string{"Authorization": "Bearer valid-token"}
	recorder := performRequest(http.MethodPost, "/api/v1/admin/pending/abc/resolve", `{"standardQuestionId":1}`, headers, newRouterUnderTest(t, &stubFAQ{}, authSvc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func performRequest(method, path, body string, headers map[string]string, server *http.Server) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, faqSvc faq.Service, authSvc auth.Service) *http.Server {
	t.Helper()
	if authSvc == nil {
		authSvc = &stubAuth{}
	}
	catalogSvc := &stubCatalog{}
	triageSvc := &stubTriage{}
	logger := newTestLogger()
	handler := NewHandler(faqSvc, catalogSvc, authSvc, logger)
	admin := NewAdminHandler(catalogSvc, triageSvc, faqSvc, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, admin, authSvc)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type stubFAQ struct {
	askFn        func(ctx context.Context, req faq.Request) (faq.Response, error)
	unansweredFn func(ctx context.Context) ([]faq.UnansweredQuery, error)
}

func (s *stubFAQ) Ask(ctx context.Context, req faq.Request) (faq.Response, error) {
	if s.askFn != nil {
		return s.askFn(ctx, req)
	}
	return faq.Response{}, nil
}

func (s *stubFAQ) Unanswered(ctx context.Context) ([]faq.UnansweredQuery, error) {
	if s.unansweredFn != nil {
		return s.unansweredFn(ctx)
	}
	return nil, nil
}

type stubAuth struct {
	loginFn    func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	validateFn func(ctx context.Context, token string) (auth.Claims, error)
}

func (s *stubAuth) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return auth.LoginResponse{AccessToken: "token"}, nil
}

func (s *stubAuth) ValidateToken(ctx context.Context, token string) (auth.Claims, error) {
	if s.validateFn != nil {
		return s.validateFn(ctx, token)
	}
	return auth.Claims{Subject: "curator"}, nil
}

type stubCatalog struct{}

func (s *stubCatalog) CreateGroup(context.Context, string, string) (catalog.Group, error) {
	return catalog.Group{}, nil
}

func (s *stubCatalog) CreateAnswer(context.Context, string) (catalog.Answer, error) {
	return catalog.Answer{}, nil
}

func (s *stubCatalog) CreateQuestion(context.Context, string, int64, string, string) (catalog.StandardQuestion, error) {
	return catalog.StandardQuestion{}, nil
}

func (s *stubCatalog) AddVariant(context.Context, int64, string) (int64, bool, error) {
	return 1, true, nil
}

func (s *stubCatalog) ListGroups(context.Context) ([]catalog.Group, error) {
	return nil, nil
}

func (s *stubCatalog) ListQuestions(context.Context) ([]catalog.StandardQuestion, error) {
	return nil, nil
}

func (s *stubCatalog) ListAnswers(context.Context) ([]catalog.Answer, error) {
	return nil, nil
}

func (s *stubCatalog) LoadDataset(context.Context, string) (catalog.LoadReport, error) {
	return catalog.LoadReport{}, nil
}

type stubTriage struct{}

func (s *stubTriage) List(context.Context) ([]triage.PendingQuestion, error) {
	return []triage.PendingQuestion{}, nil
}

func (s *stubTriage) Resolve(context.Context, int64, int64) error { return nil }

func (s *stubTriage) Dismiss(context.Context, int64) error { return nil }
