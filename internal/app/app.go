package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"weekly-menu/internal/auth"
	"weekly-menu/internal/clipper"
	"weekly-menu/internal/config"
	"weekly-menu/internal/database"
	"weekly-menu/internal/llm"
	"weekly-menu/internal/metrics"
	"weekly-menu/internal/planner"
	"weekly-menu/internal/recipe"
	"weekly-menu/internal/shopping"
	"weekly-menu/internal/user"

	"go.uber.org/zap"
)

// App holds the application's dependencies.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB         *database.DB
	Recipes    *recipe.Repository
	Users      *user.Repository
	Plans      *planner.Service
	Shopping   *shopping.Service
	Generator  *recipe.Generator
	Clipper    *clipper.Clipper
	Auth       *auth.Provider
	Metrics    *metrics.Store
	Collectors *metrics.Collectors
	Recorder   *metrics.Recorder

	closers []func() error
}

// New wires the application from cfg, building the LLM client it selects.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	textGen, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	a, err := NewWithGenerator(ctx, cfg, logger, textGen)
	if err != nil {
		if c, ok := textGen.(llm.Closer); ok {
			c.Close()
		}
		return nil, err
	}
	if c, ok := textGen.(llm.Closer); ok {
		a.closers = append(a.closers, c.Close)
	}
	return a, nil
}

// NewWithGenerator wires the application around an existing text generator.
func NewWithGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger, textGen llm.TextGenerator) (*App, error) {
	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a := &App{Config: cfg, Logger: logger, DB: db}
	a.closers = append(a.closers, db.Close)

	cache, err := newPlanCache(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := cache.(*planner.RedisCache); ok {
		a.closers = append(a.closers, c.Close)
	}

	a.Recipes = recipe.NewRepository(db.SQL, logger)
	a.Users = user.NewRepository(db.SQL)
	a.Plans = planner.NewService(planner.NewPlanRepository(db.SQL), cache, logger)
	a.Shopping = shopping.NewService(
		shopping.NewRepository(db.SQL),
		a.Plans,
		a.Recipes,
		shopping.ReferencePrices(),
		textGen,
		logger,
	)
	a.Generator = recipe.NewGenerator(textGen)
	a.Clipper = clipper.NewClipper(a.Recipes, textGen)
	a.Auth = auth.NewProvider(cfg.JWTSecret, a.Users)
	a.Metrics = metrics.NewStore(db.SQL)
	a.Collectors = metrics.NewCollectors()
	a.Recorder = metrics.NewRecorder(a.Metrics, a.Collectors, logger)
	return a, nil
}

func newPlanCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (planner.Cache, error) {
	if cfg.RedisURL == "" {
		logger.Info("using in-memory plan cache")
		return planner.NewMemoryCache(cfg.PlanCacheTTL), nil
	}
	cache, err := planner.NewRedisCacheFromURL(ctx, cfg.RedisURL, cfg.PlanCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan cache: %w", err)
	}
	logger.Info("using redis plan cache")
	return cache, nil
}

// SysHealth reports process figures and the size of the data directory.
func (a *App) SysHealth() metrics.SysHealth {
	return metrics.GetSysHealth(filepath.Dir(a.Config.DatabasePath))
}

// Close releases every resource in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
