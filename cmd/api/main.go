package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ewilliams-labs/moodlist/internal/adapters/openai"
	"github.com/ewilliams-labs/moodlist/internal/adapters/rest"
	"github.com/ewilliams-labs/moodlist/internal/adapters/spotify"
	"github.com/ewilliams-labs/moodlist/internal/adapters/sqlite"
	"github.com/ewilliams-labs/moodlist/internal/config"
	"github.com/ewilliams-labs/moodlist/internal/core/services"
	"github.com/ewilliams-labs/moodlist/internal/worker"
)

func main() {
	configPath := flag.String("config", "./moodlist.toml", "path to the TOML config file")
	flag.Parse()

	// .env is a development convenience; a missing file is fine.
	_ = godotenv.Load()

	// 1. Configuration
	// It's best practice to crash early if required config is missing.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Error loading configuration")
	}
	setupLogging(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Database Adapter
	repo, err := sqlite.NewAdapter(cfg.Database.Path)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer repo.Close()

	// -- Catalog Adapter
	// With a redirect URL configured the server runs the browser login at
	// startup and publishing works; without one it falls back to the
	// client-credentials flow, where publish requests fail at the catalog.
	catalog, err := buildCatalog(ctx, cfg.Spotify)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to authenticate with Spotify")
	}

	// -- Completion Adapter
	completions := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	})

	// 3. Initialize Core Logic (The Driver)
	// This is Dependency Injection in action.
	// We inject the specific adapters into the agnostic service.
	pool := worker.NewPool(repo, completions, cfg.Worker.QueueSize)
	pool.Start(cfg.Worker.Workers)
	defer pool.Stop()

	resolver := services.NewResolver(catalog)
	svc := services.NewGenerator(completions, resolver, catalog, repo, pool)

	// 4. Initialize "Driving" Adapter (The Interface)
	handler := rest.NewHandler(svc)

	// 5. Start the Server
	logrus.WithField("addr", cfg.Server.Addr()).Info("🎶 Moodlist API is running")

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logrus.WithError(err).Fatal("Server failed")
		}
	case <-ctx.Done():
		logrus.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("shutdown error")
		}
	}
}

func buildCatalog(ctx context.Context, cfg config.SpotifyConfig) (*spotify.Client, error) {
	if cfg.RedirectURL == "" {
		return spotify.NewAppClient(ctx, cfg.ClientID, cfg.ClientSecret, cfg.Market)
	}

	flow := spotify.NewUserAuth(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL)
	logrus.WithField("url", flow.AuthURL()).Info("Open this URL in a browser to log in to Spotify")
	return flow.Wait(ctx, cfg.Market)
}

func setupLogging(cfg config.LoggingConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
