package handlers

import (
	"net/http"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	board     services.Leaderboard
	registrar services.Registrar
	log       logrus.FieldLogger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(board services.Leaderboard, registrar services.Registrar, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		board:     board,
		registrar: registrar,
		log:       log,
	}
}

// GetAllUsers handles GET /users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.board.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input := services.AddUserInput{
		Name:       req.Name,
		ProfilePic: req.ProfilePic,
	}
	if req.TotalPoints != nil {
		input.TotalPoints = *req.TotalPoints
	}

	user, err := h.registrar.AddUser(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
