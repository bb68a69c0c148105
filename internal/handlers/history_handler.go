package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soma-study/exam-service/internal/services"
	"github.com/soma-study/exam-service/internal/utils"
)

type HistoryHandler struct {
	BaseHandler
	service services.HistoryService
}

func NewHistoryHandler(service services.HistoryService, logger utils.Logger) *HistoryHandler {
	return &HistoryHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListResults returns the caller's exam history, newest first.
// GET /api/v1/history?limit=20&offset=0
func (h *HistoryHandler) ListResults(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, total, err := h.service.List(c.Request.Context(), CurrentUserID(c), limit, offset)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results": records,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetResult returns one fully decoded exam result.
// GET /api/v1/history/:id
func (h *HistoryHandler) GetResult(c *gin.Context) {
	id, ok := h.resultID(c)
	if !ok {
		return
	}

	result, err := h.service.Get(c.Request.Context(), CurrentUserID(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetReport returns the per-topic breakdown of one exam result.
// GET /api/v1/history/:id/report
func (h *HistoryHandler) GetReport(c *gin.Context) {
	id, ok := h.resultID(c)
	if !ok {
		return
	}

	report, err := h.service.Report(c.Request.Context(), CurrentUserID(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportResult streams one exam result as an XLSX workbook.
// GET /api/v1/history/:id/export
func (h *HistoryHandler) ExportResult(c *gin.Context) {
	id, ok := h.resultID(c)
	if !ok {
		return
	}

	payload, err := h.service.ExportXLSX(c.Request.Context(), CurrentUserID(c), id)
	if err != nil {
		h.RespondError(c, err)
		return
	}

	filename := fmt.Sprintf("exam-result-%d.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}

func (h *HistoryHandler) resultID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid result id"})
		return 0, false
	}
	return uint(id), true
}
