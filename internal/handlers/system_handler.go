package handlers

import (
	"context"
	"net/http"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StoreInfo describes the configured store for GET /debug and GET /health.
// Ping is optional; without it the store is assumed reachable.
type StoreInfo struct {
	Driver          string
	MongoConfigured bool
	Ping            func(ctx context.Context) error
}

// SystemHandler handles reset, debug and health endpoints
type SystemHandler struct {
	seeder services.Seeder
	board  services.Leaderboard
	store  StoreInfo
	log    logrus.FieldLogger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(seeder services.Seeder, board services.Leaderboard, store StoreInfo, log logrus.FieldLogger) *SystemHandler {
	return &SystemHandler{
		seeder: seeder,
		board:  board,
		store:  store,
		log:    log,
	}
}

// Reset handles POST /reset
func (h *SystemHandler) Reset(c *gin.Context) {
	if err := h.seeder.Reset(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Database reset successfully"})
}

// Debug handles GET /debug
func (h *SystemHandler) Debug(c *gin.Context) {
	debug, err := h.board.Debug(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	debug.MongoURI = "Not configured"
	if h.store.MongoConfigured {
		debug.MongoURI = "Configured"
	}
	debug.StoreDriver = h.store.Driver

	c.JSON(http.StatusOK, debug)
}

// Health handles GET /health. It reports 503 when the store does not answer a ping.
func (h *SystemHandler) Health(c *gin.Context) {
	if h.store.Ping != nil {
		if err := h.store.Ping(c.Request.Context()); err != nil {
			h.log.WithError(err).Warn("store ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
