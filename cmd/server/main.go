package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/studypilot/studypilot-back/internal/api"
	"github.com/studypilot/studypilot-back/internal/auth"
	"github.com/studypilot/studypilot-back/internal/cache"
	"github.com/studypilot/studypilot-back/internal/config"
	"github.com/studypilot/studypilot-back/internal/cron"
	"github.com/studypilot/studypilot-back/internal/db"
	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/oracle"
	"github.com/studypilot/studypilot-back/internal/planner"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	cfg := config.Load()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Sync()

	store, err := db.InitDB(cfg.DBUrl, appLog)
	if err != nil {
		appLog.Fatal("database init failed", "error", err)
	}

	summaries := cache.Connect(context.Background(), cfg.RedisAddr, cfg.SummaryTTL, appLog)
	defer summaries.Close()

	drafter, err := oracle.NewClient(context.Background(), oracle.Options{
		APIKey:   cfg.OracleAPIKey,
		Model:    cfg.OracleModel,
		Endpoint: cfg.OracleEndpoint,
	}, appLog)
	if err != nil {
		appLog.Fatal("oracle client init failed", "error", err)
	}
	defer drafter.Close()

	plans := planner.NewService(store, drafter, appLog, planner.ServiceOptions{
		DraftTimeout: cfg.OracleTimeout,
		Summaries:    summaries,
	})
	rescheduler := planner.NewRescheduler(store, appLog, planner.RescheduleOptions{
		MaxSessionsPerDay: cfg.MaxSessionsPerDay,
		HorizonDays:       cfg.RescheduleHorizonDays,
	})

	tokens, err := auth.NewTokens(cfg.JWTSecret)
	if err != nil {
		appLog.Fatal("token issuer init failed", "error", err)
	}
	var google *auth.Google
	if cfg.GoogleClientID != "" {
		google = auth.NewGoogle(cfg, store, tokens, appLog)
	} else {
		appLog.Warn("GOOGLE_CLIENT_ID not set, Google login disabled")
	}

	r := api.SetupRouter(api.Deps{
		Store:       store,
		Plans:       plans,
		Rescheduler: rescheduler,
		Summaries:   summaries,
		Tokens:      tokens,
		Google:      google,
		Log:         appLog,
		Now:         time.Now,
	})

	jobs, err := cron.StartJobs(cfg, store, rescheduler, appLog)
	if err != nil {
		appLog.Fatal("cron init failed", "error", err)
	}
	defer jobs.Stop()

	appLog.Info("server running", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
}
