package handlers

import (
	"net/http"
	"strconv"

	"github.com/ArowuTest/leaderboard-backend/internal/services"
	"github.com/ArowuTest/leaderboard-backend/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HistoryHandler serves the recent claim history
type HistoryHandler struct {
	board services.Leaderboard
	log   logrus.FieldLogger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(board services.Leaderboard, log logrus.FieldLogger) *HistoryHandler {
	return &HistoryHandler{
		board: board,
		log:   log,
	}
}

// GetRecentHistory handles GET /history?limit=
func (h *HistoryHandler) GetRecentHistory(c *gin.Context) {
	limit := 0
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, h.log, apperrors.InvalidField("limit", "must be a number"))
			return
		}
		limit = clampLimit(n)
	}

	history, err := h.board.ListRecentHistory(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func clampLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > services.MaxHistoryLimit {
		return services.MaxHistoryLimit
	}
	return n
}
