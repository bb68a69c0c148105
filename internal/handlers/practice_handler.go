package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soma-study/exam-service/internal/models"
	"github.com/soma-study/exam-service/internal/services"
	"github.com/soma-study/exam-service/internal/utils"
)

type PracticeHandler struct {
	BaseHandler
	service services.PracticeService
}

func NewPracticeHandler(service services.PracticeService, logger utils.Logger) *PracticeHandler {
	return &PracticeHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GeneratePractice creates an untimed practice session.
// POST /api/v1/practice/generate
func (h *PracticeHandler) GeneratePractice(c *gin.Context) {
	var req services.StartPracticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	view, err := h.service.Start(c.Request.Context(), CurrentUserID(c), &req)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession returns the current practice state.
// GET /api/v1/practice/:id
func (h *PracticeHandler) GetSession(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type practiceAnswerRequest struct {
	Answer models.UserAnswer `json:"answer"`
}

// SubmitAnswer records the answer for the current question.
// POST /api/v1/practice/:id/answer
func (h *PracticeHandler) SubmitAnswer(c *gin.Context) {
	var req practiceAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	if err := h.service.Answer(c.Request.Context(), CurrentUserID(c), c.Param("id"), req.Answer); err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "answer recorded"})
}

// CheckAnswer evaluates the current answer exactly once.
// POST /api/v1/practice/:id/check
func (h *PracticeHandler) CheckAnswer(c *gin.Context) {
	evaluation, err := h.service.Check(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, evaluation)
}

// NextQuestion advances past a checked question; on the last question this
// finishes the session and the returned view carries the final score.
// POST /api/v1/practice/:id/next
func (h *PracticeHandler) NextQuestion(c *gin.Context) {
	view, err := h.service.Next(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
