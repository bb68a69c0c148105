package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soma-study/exam-service/internal/services"
	"github.com/soma-study/exam-service/internal/session"
	"github.com/soma-study/exam-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER =====

// BaseHandler provides common logging and error mapping for all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// RespondError maps service and session errors to HTTP status codes.
func (h *BaseHandler) RespondError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err) || errors.Is(err, session.ErrIndexOutOfRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case services.IsAccessDenied(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})
	case isSessionStateError(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	default:
		h.logger.LogError(err, "Unhandled service error",
			"path", c.Request.URL.Path,
			"method", c.Request.Method)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
	}
}

func isSessionStateError(err error) bool {
	return errors.Is(err, session.ErrNotActive) ||
		errors.Is(err, session.ErrAlreadyFinished) ||
		errors.Is(err, session.ErrAlreadyChecked) ||
		errors.Is(err, session.ErrNotChecked) ||
		errors.Is(err, session.ErrFinished)
}
