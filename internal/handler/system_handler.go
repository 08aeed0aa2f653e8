package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/response"
	"github.com/stemsi/codetest-backend/internal/service"
	"github.com/stemsi/codetest-backend/internal/session"
)

const (
	metricsInterval = 7 * time.Second
	healthTimeout   = 2 * time.Second
)

// Pinger checks one backing service.
type Pinger func(ctx context.Context) error

// SystemHandler reports health and streams runtime metrics.
type SystemHandler struct {
	rdb       *redis.Client
	live      *service.LiveService
	checks    map[string]Pinger
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(rdb *redis.Client, live *service.LiveService, checks map[string]Pinger, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		live:      live,
		checks:    checks,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Pings every backing service; any failure answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	if status != http.StatusOK {
		c.JSON(status, gin.H{"status": "degraded", "dependencies": deps})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok", "dependencies": deps})
}

type systemMetrics struct {
	Timestamp  int64  `json:"timestamp"`
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`

	LiveSessions int                   `json:"live_sessions"`
	Phases       map[session.Phase]int `json:"phases"`

	QueueIntegrity int64 `json:"queue_integrity"`
	QueueScores    int64 `json:"queue_scores"`
	QueueReports   int64 `json:"queue_reports"`
}

// SystemMetricsSSE godoc
// GET /api/v1/admin/system/metrics
func (h *SystemHandler) SystemMetricsSSE(c *gin.Context) {
	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	h.log.Info().Msg("Admin connected to system metrics SSE")

	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	h.writeMetrics(c)
	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Msg("Admin disconnected from system metrics SSE")
			return
		case <-ticker.C:
			h.writeMetrics(c)
		}
	}
}

func (h *SystemHandler) writeMetrics(c *gin.Context) {
	data, err := json.Marshal(h.collect(c.Request.Context()))
	if err != nil {
		return
	}
	c.Writer.Write([]byte("data: "))
	c.Writer.Write(data)
	c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}

func (h *SystemHandler) collect(ctx context.Context) systemMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	m := systemMetrics{
		Timestamp:  time.Now().Unix(),
		Uptime:     formatDuration(time.Since(h.startTime)),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		NumGC:      ms.NumGC,
		GoVersion:  runtime.Version(),
		Phases:     map[session.Phase]int{},
	}

	if h.live != nil {
		m.LiveSessions = h.live.Count()
		m.Phases = h.live.PhaseCounts()
	}

	if h.rdb != nil {
		pipe := h.rdb.Pipeline()
		integrityCmd := pipe.LLen(ctx, config.WorkerKey.PersistIntegrityQueue)
		scoresCmd := pipe.LLen(ctx, config.WorkerKey.PersistScoresQueue)
		reportsCmd := pipe.LLen(ctx, config.WorkerKey.PersistReportQueue)
		if _, err := pipe.Exec(ctx); err == nil {
			m.QueueIntegrity = integrityCmd.Val()
			m.QueueScores = scoresCmd.Val()
			m.QueueReports = reportsCmd.Val()
		}
	}

	return m
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
