package main

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/avolkov/orchat/internal/config"
	"github.com/avolkov/orchat/internal/openrouter"
	"github.com/avolkov/orchat/internal/repo"
	"github.com/avolkov/orchat/internal/services"
	"github.com/avolkov/orchat/internal/sysutil"
)

// app wires the configuration, store, and services every command needs.
type app struct {
	cfg       config.Config
	db        *gorm.DB
	auth      *services.AuthService
	history   *services.HistoryService
	analytics *services.AnalyticsService
}

// newApp loads configuration, configures logging, opens the store, and builds
// the service layer. The analytics history is loaded once here and shared by
// every command in the process.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.DBPath, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return &app{
		cfg: cfg,
		db:  db,
		auth: &services.AuthService{
			DB: db,
			Validator: &services.Validator{
				BaseURL: cfg.BaseURL,
				Timeout: cfg.ValidateTimeout,
			},
		},
		history:   &services.HistoryService{DB: db},
		analytics: services.NewAnalyticsService(ctx, db),
	}, nil
}

// apiClient builds an OpenRouter client for the given key using the
// configured base URL and rate limits.
func (a *app) apiClient(apiKey string) *openrouter.Client {
	return openrouter.New(openrouter.Config{
		APIKey:  apiKey,
		BaseURL: a.cfg.BaseURL,
		Timeout: a.cfg.ValidateTimeout,
		RPS:     a.cfg.RateRPS,
		Burst:   a.cfg.RateBurst,
	})
}
