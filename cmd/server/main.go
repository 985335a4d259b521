package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/cccstore/shift-scheduler/internal/api"
	"github.com/cccstore/shift-scheduler/internal/calendar"
	"github.com/cccstore/shift-scheduler/internal/config"
	"github.com/cccstore/shift-scheduler/internal/forecast"
	"github.com/cccstore/shift-scheduler/internal/pkg/httpretry"
	"github.com/cccstore/shift-scheduler/internal/pkg/logger"
	"github.com/cccstore/shift-scheduler/internal/repository/postgres"
	"github.com/cccstore/shift-scheduler/internal/scheduler"
	"github.com/cccstore/shift-scheduler/internal/service/schedule"
	"github.com/cccstore/shift-scheduler/internal/service/staff"
	"github.com/cccstore/shift-scheduler/internal/solver"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to reach database: %v", err)
	}
	if err := postgres.InitSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("Failed to init schema: %v", err)
	}
	cancel()

	// Weather cache: Redis when configured, in-process otherwise.
	var cache calendar.Cache = calendar.NewMemoryCache()
	if cfg.Weather.RedisAddr != "" {
		cache = calendar.NewRedisCache(cfg.Weather.RedisAddr)
		logger.Info("weather cache backed by redis", "addr", cfg.Weather.RedisAddr)
	}
	weather := calendar.NewWeatherProvider(
		httpretry.New(nil, cfg.Weather.MaxRetries),
		cache,
		cfg.Weather.CacheTTL(),
		cfg.Weather.BaseURL,
		cfg.Weather.Latitude,
		cfg.Weather.Longitude,
	)

	model, err := forecast.Load(cfg.Forecast.ModelPath)
	if err != nil {
		log.Fatalf("Failed to load sales model: %v", err)
	}
	forecaster, err := forecast.New(model)
	if err != nil {
		log.Fatalf("Failed to build forecaster: %v", err)
	}

	staffSvc := staff.NewService(postgres.NewStaffRepo(db))
	scheduleSvc := schedule.NewService(
		postgres.NewScheduleRepo(db),
		weather,
		calendar.NewFestivalCalendar(),
		forecaster,
		scheduler.New(solver.NewSAT(), cfg.Scheduler.TimeBudget()),
	)

	server := api.NewServer(cfg.Server, api.NewHandlers(staffSvc, scheduleSvc))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		errCh <- server.ListenAndServe()
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-done:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err.Error())
	}
}
