package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soma-study/exam-service/internal/services"
	"github.com/soma-study/exam-service/internal/utils"
)

type ExamHandler struct {
	BaseHandler
	service services.ExamService
}

func NewExamHandler(service services.ExamService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GenerateExam creates a new timed exam session from uploaded materials.
// POST /api/v1/exams/generate
func (h *ExamHandler) GenerateExam(c *gin.Context) {
	var req services.StartExamRequest
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

// GetSession returns the live session state including time remaining.
// GET /api/v1/sessions/:id
func (h *ExamHandler) GetSession(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitAnswer records the answer for one question slot; the index may be
// any prior question, not only the current one.
// POST /api/v1/sessions/:id/answer
func (h *ExamHandler) SubmitAnswer(c *gin.Context) {
	var req services.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body", Details: err.Error()})
		return
	}

	if err := h.service.Answer(c.Request.Context(), CurrentUserID(c), c.Param("id"), &req); err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "answer recorded"})
}

// NextQuestion advances the current position.
// POST /api/v1/sessions/:id/next
func (h *ExamHandler) NextQuestion(c *gin.Context) {
	view, err := h.service.Next(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PreviousQuestion moves the current position back.
// POST /api/v1/sessions/:id/previous
func (h *ExamHandler) PreviousQuestion(c *gin.Context) {
	view, err := h.service.Previous(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitExam grades every question in order and returns the finished result.
// POST /api/v1/sessions/:id/submit
func (h *ExamHandler) SubmitExam(c *gin.Context) {
	result, err := h.service.Submit(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
