// Package app builds the backend from configuration: store, services,
// handlers and router, with one Close for everything it opened.
package app

import (
	"context"
	"fmt"

	"github.com/ArowuTest/leaderboard-backend/api/routes"
	"github.com/ArowuTest/leaderboard-backend/internal/config"
	"github.com/ArowuTest/leaderboard-backend/internal/handlers"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/leaderboard-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/leaderboard-backend/internal/services"
	"github.com/ArowuTest/leaderboard-backend/pkg/mongodb"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Repositories is the store the services run against. Ping, when set,
// backs the health check.
type Repositories struct {
	Users   repositories.UserRepository
	History repositories.HistoryRepository
	Tx      repositories.Transactor
	Ping    func(ctx context.Context) error
}

// App is the wired backend.
type App struct {
	Config *config.Config
	Log    logrus.FieldLogger
	Router *gin.Engine

	Awards      *services.AwardService
	Leaderboard *services.LeaderboardService
	Users       *services.UserService
	Seeder      *services.SeedService

	mongo *mongodb.Client
}

// New opens the configured store and wires the application on top of it.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		repos := Repositories{
			Users:   store.Users(),
			History: store.History(),
			Tx:      memory.NewTransactor(store, true),
		}
		return NewWithRepositories(cfg, repos, log), nil

	case config.StoreDriverMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db := client.Database()
		repos := Repositories{
			Users:   mongorepo.NewUserRepository(db),
			History: mongorepo.NewHistoryRepository(db),
			Tx:      mongorepo.NewTransactor(client.Mongo(), cfg.MongoDB.Transactions),
			Ping:    client.Ping,
		}
		a := NewWithRepositories(cfg, repos, log)
		a.mongo = client
		log.WithFields(logrus.Fields{
			"database":     cfg.MongoDB.Database,
			"transactions": cfg.MongoDB.Transactions,
		}).Info("connected to MongoDB")
		return a, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewWithRepositories wires services, handlers and the router over repos.
func NewWithRepositories(cfg *config.Config, repos Repositories, log logrus.FieldLogger) *App {
	awards := services.NewAwardService(repos.Users, repos.History, repos.Tx, log)
	board := services.NewLeaderboardService(repos.Users, repos.History, cfg.History.Limit)
	users := services.NewUserService(repos.Users, log)
	seeder := services.NewSeedService(repos.Users, repos.History, repos.Tx, log)

	storeInfo := handlers.StoreInfo{
		Driver:          cfg.Store.Driver,
		MongoConfigured: cfg.MongoDB.URI != "",
		Ping:            repos.Ping,
	}

	deps := routes.HandlerDependencies{
		ClaimHandler:   handlers.NewClaimHandler(awards, log),
		UserHandler:    handlers.NewUserHandler(board, users, log),
		HistoryHandler: handlers.NewHistoryHandler(board, log),
		SystemHandler:  handlers.NewSystemHandler(seeder, board, storeInfo, log),
	}

	return &App{
		Config:      cfg,
		Log:         log,
		Router:      routes.SetupRouter(cfg, deps, log),
		Awards:      awards,
		Leaderboard: board,
		Users:       users,
		Seeder:      seeder,
	}
}

// Init prepares the store for serving: indexes on MongoDB, then the
// initial roster if there are no users yet.
func (a *App) Init(ctx context.Context) error {
	if a.mongo != nil {
		if err := mongorepo.EnsureIndexes(ctx, a.mongo.Database()); err != nil {
			return fmt.Errorf("failed to ensure indexes: %w", err)
		}
	}

	if _, err := a.Seeder.EnsureSeeded(ctx); err != nil {
		return err
	}
	return nil
}

// Close releases the store connection, if any.
func (a *App) Close(ctx context.Context) error {
	if a.mongo == nil {
		return nil
	}
	return a.mongo.Disconnect(ctx)
}
