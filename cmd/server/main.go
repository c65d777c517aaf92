package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nyirongo2000/tagme.in/internal/api"
	"github.com/Nyirongo2000/tagme.in/internal/api/middleware"
	"github.com/Nyirongo2000/tagme.in/internal/config"
	"github.com/Nyirongo2000/tagme.in/internal/handlers"
	"github.com/Nyirongo2000/tagme.in/internal/scroll"
	"github.com/Nyirongo2000/tagme.in/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx := context.Background()

	// Connect the key-value backend
	kind := store.Kind(cfg.Backend)
	connectCtx, cancelConnect := context.WithTimeout(ctx, 30*time.Second)
	kv, err := store.Open(connectCtx, store.Options{
		Kind:        kind,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		PebbleDir:   cfg.PebbleDir,
	})
	cancelConnect()
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Backend).Msg("backend connection failed")
	}
	defer kv.Close()
	logger.Info().Str("backend", cfg.Backend).Msg("connected to key-value backend")

	routerOpts := api.Options{
		RateLimit: middleware.RateLimiterConfig{
			Whitelist:        cfg.RateLimitWhitelist,
			AutoBlockEnabled: cfg.AutoBlockEnabled,
		},
	}
	if rs, ok := kv.(*store.RedisStore); ok {
		routerOpts.RateLimitClient = rs.Client()
	}

	// Wire the scroll engine
	scrollStore := scroll.NewStore(store.Instrument(kv, kind), cfg.KVTimeout)
	opts := scroll.Options{Window: cfg.Window, Scope: scroll.Scope(cfg.ChannelScope)}
	h := handlers.NewHandler(
		scroll.NewSender(scrollStore, opts, logger.With().Str("component", "send").Logger()),
		scroll.NewSeeker(scrollStore, opts),
		kv, cfg.Backend, logger,
	)

	// Create router
	router := api.NewRouter(logger, h, routerOpts)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Int("window", cfg.Window).
			Str("channel_scope", cfg.ChannelScope).
			Msg("starting tagme.in server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
