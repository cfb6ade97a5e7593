package routes

import (
	"github.com/ArowuTest/leaderboard-backend/internal/config"
	"github.com/ArowuTest/leaderboard-backend/internal/handlers"
	"github.com/ArowuTest/leaderboard-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HandlerDependencies holds the handlers mounted by SetupRouter
type HandlerDependencies struct {
	ClaimHandler   *handlers.ClaimHandler
	UserHandler    *handlers.UserHandler
	HistoryHandler *handlers.HistoryHandler
	SystemHandler  *handlers.SystemHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))

	api := router.Group("/api")
	{
		api.GET("/health", deps.SystemHandler.Health)

		api.POST("/claim", deps.ClaimHandler.Claim)

		api.GET("/users", deps.UserHandler.GetAllUsers)
		api.POST("/users", deps.UserHandler.CreateUser)

		api.GET("/history", deps.HistoryHandler.GetRecentHistory)

		api.POST("/reset", deps.SystemHandler.Reset)
		api.GET("/debug", deps.SystemHandler.Debug)
	}

	return router
}
