package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/codetest-backend/internal/response"
	"github.com/stemsi/codetest-backend/internal/service"
)

// TestHandler exposes the test lifecycle to admins.
type TestHandler struct {
	lifecycle *service.LifecycleService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(lifecycle *service.LifecycleService) *TestHandler {
	return &TestHandler{lifecycle: lifecycle}
}

// Start godoc
// POST /api/v1/admin/tests/:id/start
func (h *TestHandler) Start(c *gin.Context) {
	h.apply(c, "started", h.lifecycle.Start)
}

// End godoc
// POST /api/v1/admin/tests/:id/end
func (h *TestHandler) End(c *gin.Context) {
	h.apply(c, "ended", h.lifecycle.End)
}

// Reconduct godoc
// POST /api/v1/admin/tests/:id/reconduct
// Reopens an ended test. Existing report entries are kept.
func (h *TestHandler) Reconduct(c *gin.Context) {
	h.apply(c, "reconducted", h.lifecycle.Reconduct)
}

func (h *TestHandler) apply(c *gin.Context, status string, fn func(context.Context, string) error) {
	id := c.Param("id")
	if err := fn(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": status})
}
