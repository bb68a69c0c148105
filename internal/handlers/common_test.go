package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/soma-study/exam-service/internal/services"
	"github.com/soma-study/exam-service/internal/session"
	"github.com/soma-study/exam-service/internal/utils"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(utils.NewDefaultLogger())

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", services.ErrValidationFailed, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("%w: numQuestions", services.ErrValidationFailed), http.StatusBadRequest},
		{"no materials", services.ErrNoMaterials, http.StatusBadRequest},
		{"index out of range", session.ErrIndexOutOfRange, http.StatusBadRequest},
		{"session not found", services.ErrSessionNotFound, http.StatusNotFound},
		{"history not found", services.ErrHistoryNotFound, http.StatusNotFound},
		{"session access denied", services.ErrSessionAccessDenied, http.StatusForbidden},
		{"not active", session.ErrNotActive, http.StatusConflict},
		{"already finished", session.ErrAlreadyFinished, http.StatusConflict},
		{"already checked", session.ErrAlreadyChecked, http.StatusConflict},
		{"not checked", session.ErrNotChecked, http.StatusConflict},
		{"practice finished", session.ErrFinished, http.StatusConflict},
		{"unknown", fmt.Errorf("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			h.RespondError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(utils.NewDefaultLogger())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	h.RespondError(c, fmt.Errorf("pq: connection refused at 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
	assert.Contains(t, w.Body.String(), "internal server error")
}
