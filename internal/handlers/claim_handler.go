package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ClaimHandler handles point claims
type ClaimHandler struct {
	claimer services.Claimer
	log     logrus.FieldLogger
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claimer services.Claimer, log logrus.FieldLogger) *ClaimHandler {
	return &ClaimHandler{
		claimer: claimer,
		log:     log,
	}
}

// Claim handles POST /claim. An empty body is treated as a claim with no userId.
func (h *ClaimHandler) Claim(c *gin.Context) {
	var req models.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindingError(c, err)
		return
	}

	result, err := h.claimer.Claim(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
