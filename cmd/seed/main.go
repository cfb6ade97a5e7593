package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/ArowuTest/leaderboard-backend/internal/app"
	"github.com/ArowuTest/leaderboard-backend/internal/config"
	"github.com/ArowuTest/leaderboard-backend/internal/utils"
	"github.com/ArowuTest/leaderboard-backend/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env file not found, using environment variables")
	}

	seedCfg, err := config.LoadSeed()
	if err != nil {
		logrus.Fatalf("Failed to load seed configuration: %v", err)
	}

	reset := flag.Bool("reset", seedCfg.Reset, "delete all users and history, then insert the initial roster")
	csvPath := flag.String("csv", seedCfg.CSV, "import extra users from a name,totalPoints,profilePic CSV file")
	timeout := flag.Int("timeout", seedCfg.TimeoutSeconds, "overall timeout in seconds")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeout)*time.Second)
	defer cancel()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer application.Close(context.Background())

	if *reset {
		if err := application.Seeder.Reset(ctx); err != nil {
			log.Fatalf("Failed to reset database: %v", err)
		}
		log.Info("Database reset successfully")
	}
	if err := application.Init(ctx); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	if *csvPath == "" {
		return
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	result, err := utils.NewCSVUserImporter(application.Users).ImportUsers(ctx, file)
	if err != nil {
		log.Fatalf("Failed to import data: %v", err)
	}
	for _, rowErr := range result.Errors {
		log.Warn(rowErr)
	}
	log.WithFields(logrus.Fields{
		"rows":         result.TotalRows,
		"usersCreated": result.UsersCreated,
		"rowErrors":    len(result.Errors),
	}).Info("Data imported successfully")
}
