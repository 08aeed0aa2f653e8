package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/stemsi/codetest-backend/internal/response"
	"github.com/stemsi/codetest-backend/internal/service"
	"github.com/stemsi/codetest-backend/internal/session"
)

const (
	refreshInterval   = 15 * time.Second
	keepAliveInterval = 30 * time.Second
)

// MonitorHandler streams a test's live sessions to admins.
type MonitorHandler struct {
	tests          service.TestStore
	live           *service.LiveService
	monitorService *service.MonitorService
	log            zerolog.Logger
}

func NewMonitorHandler(tests service.TestStore, live *service.LiveService, monitorService *service.MonitorService, log zerolog.Logger) *MonitorHandler {
	return &MonitorHandler{
		tests:          tests,
		live:           live,
		monitorService: monitorService,
		log:            log.With().Str("component", "monitor_handler").Logger(),
	}
}

type monitorSnapshot struct {
	Type      string           `json:"type"`
	TestID    string           `json:"test_id"`
	TestName  string           `json:"test_name,omitempty"`
	Status    string           `json:"status,omitempty"`
	Aggregate report.Aggregate `json:"aggregate"`
	Sessions  []session.State  `json:"sessions"`
}

// MonitorTestSSE godoc
// GET /api/v1/admin/tests/:id/monitor
// Sends a snapshot, then relays session events from every instance. Sessions
// on this instance are re-sent every refreshInterval so countdowns stay
// current without relaying every tick.
func (h *MonitorHandler) MonitorTestSSE(c *gin.Context) {
	testID := c.Param("id")
	reqCtx := c.Request.Context()

	t, err := h.tests.GetByID(reqCtx, testID)
	if err != nil {
		failFromError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	_, agg := report.SummarizeAll(t.Report)
	h.writeEvent(c, monitorSnapshot{
		Type:      "snapshot",
		TestID:    t.ID,
		TestName:  t.Name,
		Status:    string(t.Status()),
		Aggregate: agg,
		Sessions:  h.sessions(testID),
	})

	pubsub := h.monitorService.Subscribe(reqCtx, testID)
	defer pubsub.Close()
	ch := pubsub.Channel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()
	refresh := time.NewTicker(refreshInterval)
	defer refresh.Stop()

	h.log.Info().Str("test_id", testID).Msg("Admin attached to live monitor SSE")

	pingPayload, _ := json.Marshal(map[string]string{"type": "ping"})

	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Str("test_id", testID).Msg("Admin disconnected from live monitor SSE")
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Forward raw JSON directly, no deserialization needed
			h.writeRaw(c, []byte(msg.Payload))

		case <-refresh.C:
			if sessions := h.sessions(testID); len(sessions) > 0 {
				h.writeEvent(c, monitorSnapshot{Type: "refresh", TestID: testID, Sessions: sessions})
			}

		case <-keepAlive.C:
			h.writeRaw(c, pingPayload)
		}
	}
}

func (h *MonitorHandler) sessions(testID string) []session.State {
	s := h.live.Snapshots(testID)
	if s == nil {
		s = []session.State{}
	}
	return s
}

func (h *MonitorHandler) writeEvent(c *gin.Context, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to encode monitor event")
		return
	}
	h.writeRaw(c, data)
}

func (h *MonitorHandler) writeRaw(c *gin.Context, data []byte) {
	c.Writer.Write([]byte("data: "))
	c.Writer.Write(data)
	c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}

// ListSessions godoc
// GET /api/v1/admin/tests/:id/sessions
func (h *MonitorHandler) ListSessions(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"sessions": h.sessions(c.Param("id"))})
}
