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

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"iwingmobile-store/app"
	"iwingmobile-store/config"
	"iwingmobile-store/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	var envErr error
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envErr = godotenv.Overload(".env")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Service: "iwingmobile-store", Env: cfg.Env, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer log.Sync()

	if envErr != nil {
		log.Debug("⚠️  .env file not loaded, using system environment variables", zap.Error(envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Initialize(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("🚀 Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("🛑 Shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("❌ Server stopped with error", zap.Error(err))
		return err
	}
	log.Info("✅ Server stopped")
	return nil
}
