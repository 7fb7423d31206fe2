package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/auth"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/config"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/content"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/elasticsearch"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/events"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/httpapi"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/logger"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/metrics"
	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/users"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	store, err := users.NewStore(users.Seed(), cfg.BcryptCost)
	if err != nil {
		log.Error("init users", slog.Any("err", err))
		os.Exit(1)
	}

	catalog, err := content.Open(cfg.ContentPath)
	if err != nil {
		log.Error("load content catalog", slog.String("path", cfg.ContentPath), slog.Any("err", err))
		os.Exit(1)
	}

	opts := httpapi.Options{
		Log:             log,
		Users:           store,
		Content:         catalog,
		Metrics:         metrics.New(),
		ActivityPage:    cfg.ActivityPage,
		ActivityMaxPage: cfg.ActivityMaxPage,
	}

	if issuer := auth.NewIssuer(cfg.TokenSecret, cfg.TokenTTL); issuer != nil {
		opts.Tokens = issuer
	} else {
		log.Warn("AUTH_TOKEN_SECRET not set, login responses carry no token")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventsEnabled() {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic, log)
		log.Info("publishing activity events", slog.String("topic", cfg.EventsTopic))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("close publisher", slog.Any("err", err))
		}
	}()
	opts.Events = publisher

	if cfg.ActivityEnabled() {
		esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
		if err != nil {
			log.Error("init elasticsearch", slog.Any("err", err))
			os.Exit(1)
		}
		opts.Activity = esClient
	}

	srv := httpapi.New(opts)
	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("api server starting",
			slog.String("addr", cfg.BindAddr),
			slog.Int("users", store.Len()),
			slog.Any("countries", catalog.Countries()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.Error("server stopped", slog.Any("err", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}
