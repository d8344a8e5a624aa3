package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/charityfund/faqbot/internal/domain/catalog"
	"github.com/charityfund/faqbot/internal/domain/faq"
	"github.com/charityfund/faqbot/internal/domain/triage"
)

// AdminHandler exposes the curator surface: catalog management, dataset
// loading and the triage queue.
type AdminHandler struct {
	catalogSvc catalog.Service
	triageSvc  triage.Service
	faqSvc     faq.Service
	logger     *slog.Logger
}

// NewAdminHandler constructs the curator HTTP handler.
func NewAdminHandler(catalogSvc catalog.Service, triageSvc triage.Service, faqSvc faq.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		catalogSvc: catalogSvc,
		triageSvc:  triageSvc,
		faqSvc:     faqSvc,
		logger:     logger.With("component", "http.admin_handler"),
	}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateGroup registers a new question group.
func (h *AdminHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	group, err := h.catalogSvc.CreateGroup(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusCreated, group)
}

type createAnswerRequest struct {
	Text string `json:"text"`
}

// CreateAnswer registers a reusable answer text.
func (h *AdminHandler) CreateAnswer(c *gin.Context) {
	var req createAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	answer, err := h.catalogSvc.CreateAnswer(c.Request.Context(), req.Text)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusCreated, answer)
}

type createQuestionRequest struct {
	Title   string `json:"title"`
	GroupID int64  `json:"groupId"`
	Answer  string `json:"answer"`
	Intent  string `json:"intent"`
}

// CreateQuestion registers a canonical question together with its answer.
// The title is embedded and stored as the question's first variant.
func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	question, err := h.catalogSvc.CreateQuestion(c.Request.Context(), req.Title, req.GroupID, req.Answer, req.Intent)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusCreated, question)
}

type addVariantRequest struct {
	Text string `json:"text"`
}

// AddVariant attaches an alternate wording to a canonical question.
func (h *AdminHandler) AddVariant(c *gin.Context) {
	questionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	variantID, inserted, err := h.catalogSvc.AddVariant(c.Request.Context(), questionID, req.Text)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	status := http.StatusCreated
	if !inserted {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"variantId": variantID, "inserted": inserted})
}

type loadDatasetRequest struct {
	Ref string `json:"ref"`
}

// LoadDataset bulk-imports a CSV dataset into the catalog.
func (h *AdminHandler) LoadDataset(c *gin.Context) {
	var req loadDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	report, err := h.catalogSvc.LoadDataset(c.Request.Context(), req.Ref)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

// Pending lists unanswered questions waiting for curator review.
func (h *AdminHandler) Pending(c *gin.Context) {
	items, err := h.triageSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": items})
}

type resolvePendingRequest struct {
	StandardQuestionID int64 `json:"standardQuestionId"`
}

// ResolvePending attaches a pending question to an existing canonical
// question and removes it from the queue.
func (h *AdminHandler) ResolvePending(c *gin.Context) {
	pendingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req resolvePendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.triageSvc.Resolve(c.Request.Context(), pendingID, req.StandardQuestionID); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": true})
}

// DismissPending removes a pending question without touching the corpus.
func (h *AdminHandler) DismissPending(c *gin.Context) {
	pendingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.triageSvc.Dismiss(c.Request.Context(), pendingID); err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"dismissed": true})
}

// Unanswered reports the most frequently missed questions.
func (h *AdminHandler) Unanswered(c *gin.Context) {
	items, err := h.faqSvc.Unanswered(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"unanswered": items})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid id parameter", err))
		return 0, false
	}
	return id, true
}
