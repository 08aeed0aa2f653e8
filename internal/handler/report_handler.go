package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/response"
	"github.com/stemsi/codetest-backend/internal/service"
)

// ReportHandler serves test reports to admins.
type ReportHandler struct {
	reportService *service.ReportService
	log           zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		log:           log.With().Str("component", "report_handler").Logger(),
	}
}

// GetReport godoc
// GET /api/v1/admin/tests/:id/report?page=1&per_page=20
func (h *ReportHandler) GetReport(c *gin.Context) {
	page, perPage := pageParams(c)

	rep, total, err := h.reportService.GetReport(c.Request.Context(), c.Param("id"), page, perPage)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, rep, response.NewPagination(page, perPage, total))
}

// DeleteEntry godoc
// DELETE /api/v1/admin/tests/:id/report/:email
// Removes the entry and the candidate's enrollment, allowing a fresh attempt.
func (h *ReportHandler) DeleteEntry(c *gin.Context) {
	testID, email := c.Param("id"), c.Param("email")

	if err := h.reportService.DeleteEntry(c.Request.Context(), testID, email); err != nil {
		h.log.Warn().Err(err).Str("test_id", testID).Str("email", email).Msg("Delete report entry failed")
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CandidateHistory godoc
// GET /api/v1/admin/candidates/:email/history
func (h *ReportHandler) CandidateHistory(c *gin.Context) {
	attempts, err := h.reportService.History(c.Request.Context(), c.Param("email"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// Leaderboard godoc
// GET /api/v1/admin/tests/:id/leaderboard?page=1&per_page=20
func (h *ReportHandler) Leaderboard(c *gin.Context) {
	page, perPage := pageParams(c)

	rows, total, err := h.reportService.Leaderboard(c.Request.Context(), c.Param("id"), page, perPage)
	if err != nil {
		h.log.Error().Err(err).Msg("Leaderboard query failed")
		failFromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"rows": rows}, response.NewPagination(page, perPage, total))
}
