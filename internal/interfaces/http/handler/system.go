package handler

import (
	"net/http"
	"time"

	"github.com/gestock/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	version   string
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		version:   version,
		startedAt: time.Now(),
	}
}

// Health handles GET /health. Always returns 200 while the process is up.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready handles GET /ready. Returns 503 when the database is unreachable.
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  "database unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Stats handles GET /system/stats. Reports connection pool statistics.
func (h *SystemHandler) Stats(c *gin.Context) {
	if h.db == nil {
		h.Success(c, gin.H{})
		return
	}

	stats, err := h.db.Stats()
	if err != nil {
		h.InternalError(c, "Failed to collect database statistics")
		return
	}

	h.Success(c, gin.H{
		"db_max_open_connections": stats.MaxOpenConnections,
		"db_open_connections":     stats.OpenConnections,
		"db_in_use":               stats.InUse,
		"db_idle":                 stats.Idle,
		"db_wait_count":           stats.WaitCount,
		"db_wait_duration":        stats.WaitDuration.String(),
	})
}
