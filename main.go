package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/sumitbaghel/portfolio/internal/clock"
	"github.com/sumitbaghel/portfolio/internal/config"
	"github.com/sumitbaghel/portfolio/internal/contact"
	"github.com/sumitbaghel/portfolio/internal/content"
	"github.com/sumitbaghel/portfolio/internal/grid"
	"github.com/sumitbaghel/portfolio/internal/session"
	"github.com/sumitbaghel/portfolio/internal/site"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "portfolio:", err)
		os.Exit(1)
	}
}

func run() error {
	path := os.Getenv("PORTFOLIO_CONFIG")
	if path == "" {
		path = "portfolio.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Mode)

	portfolio, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	if cfg.BackendURL == "" {
		logger.Warn("backend_url is not set; contact submissions will fail")
	}

	g := grid.New()
	sessions := session.NewManager(session.Options{
		Sections: portfolio.Sections,
		Anchors:  site.Anchors,
		Roles:    portfolio.Roles,
		Grid:     g,
		Sender:   contact.NewClient(cfg.BackendURL, cfg.HTTPTimeout),
		Clock:    clock.Real{},
		Logger:   logger,
	}, cfg.SessionTimeout)

	srv, err := site.New(site.Config{ResumePath: cfg.ResumePath}, portfolio, g, sessions, logger)
	if err != nil {
		return err
	}
	engine, err := srv.Routes()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("mode", cfg.Mode))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		return sessions.Run(ctx, cfg.SweepInterval)
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
