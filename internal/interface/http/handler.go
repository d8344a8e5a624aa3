package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/charityfund/faqbot/internal/domain/auth"
	"github.com/charityfund/faqbot/internal/domain/catalog"
	"github.com/charityfund/faqbot/internal/domain/faq"
)

const (
	sessionHeader = "X-Session-ID"
	clientHeader  = "X-Client-ID"
)

// Handler wires the public HTTP surface to domain services.
type Handler struct {
	faqSvc     faq.Service
	catalogSvc catalog.Service
	authSvc    auth.Service
	logger     *slog.Logger
}

// NewHandler constructs the public HTTP handler.
func NewHandler(faqSvc faq.Service, catalogSvc catalog.Service, authSvc auth.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc:     faqSvc,
		catalogSvc: catalogSvc,
		authSvc:    authSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Ask answers a free-text question against the FAQ corpus.
func (h *Handler) Ask(c *gin.Context) {
	var req faq.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	req.SessionID = resolveSession(c)
	req.ClientID = strings.TrimSpace(c.GetHeader(clientHeader))
	c.Header(sessionHeader, req.SessionID)

	resp, err := h.faqSvc.Ask(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Groups lists question groups for the widget's browse view.
func (h *Handler) Groups(c *gin.Context) {
	groups, err := h.catalogSvc.ListGroups(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// Questions lists the canonical questions so the widget can suggest them.
func (h *Handler) Questions(c *gin.Context) {
	questions, err := h.catalogSvc.ListQuestions(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// Answers lists the stored answer texts.
func (h *Handler) Answers(c *gin.Context) {
	answers, err := h.catalogSvc.ListAnswers(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": answers})
}

// Login issues a curator access token.
func (h *Handler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// resolveSession reuses the caller's session when supplied, otherwise
// starts a fresh one.
func resolveSession(c *gin.Context) string {
	if sid := strings.TrimSpace(c.GetHeader(sessionHeader)); sid != "" {
		return sid
	}
	return uuid.NewString()
}
