package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/middleware"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/response"
	"github.com/stemsi/codetest-backend/internal/service"
)

// PortalHandler handles candidate-facing endpoints.
type PortalHandler struct {
	portalService *service.PortalService
	reportService *service.ReportService
	log           zerolog.Logger
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(portalService *service.PortalService, reportService *service.ReportService, log zerolog.Logger) *PortalHandler {
	return &PortalHandler{
		portalService: portalService,
		reportService: reportService,
		log:           log.With().Str("component", "portal_handler").Logger(),
	}
}

// ListTests godoc
// GET /api/v1/candidate/tests
// Returns running tests, marking the ones the candidate already opened.
func (h *PortalHandler) ListTests(c *gin.Context) {
	claims := middleware.GetClaims(c)

	tests, err := h.portalService.ListRunning(c.Request.Context(), claims.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("List running tests failed")
		failFromError(c, err)
		return
	}
	if tests == nil {
		tests = []model.TestSummary{}
	}

	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// OpenAttempt godoc
// POST /api/v1/candidate/tests/:id/attempt
// Checks admission and enrolls the candidate before the stream opens.
func (h *PortalHandler) OpenAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)

	summary, err := h.portalService.OpenAttempt(c.Request.Context(), claims.Email, c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// History godoc
// GET /api/v1/candidate/history
func (h *PortalHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)

	attempts, err := h.reportService.History(c.Request.Context(), claims.Email)
	if err != nil {
		h.log.Error().Err(err).Str("email", claims.Email).Msg("Load history failed")
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}
