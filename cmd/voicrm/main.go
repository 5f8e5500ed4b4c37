package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oakmontrealty/voicrm-coaching/internal/adapters/http/api"
	"github.com/oakmontrealty/voicrm-coaching/internal/adapters/repository"
	app "github.com/oakmontrealty/voicrm-coaching/internal/app"
	"github.com/oakmontrealty/voicrm-coaching/internal/config"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/analyzer"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/compliance"
	"github.com/oakmontrealty/voicrm-coaching/internal/domain/scoring"
	"github.com/oakmontrealty/voicrm-coaching/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	scanner := compliance.NewScanner(
		compliance.WithIdentityTokens(cfg.RequiredIdentityTokens),
		compliance.WithProhibitedPhrases(cfg.ProhibitedPhrases),
		compliance.WithLongCallThreshold(cfg.LongCallThresholdChars),
	)
	transcriptAnalyzer := analyzer.NewSimulated(
		analyzer.WithLatencyRange(
			time.Duration(cfg.AnalyzerLatencyMinMS)*time.Millisecond,
			time.Duration(cfg.AnalyzerLatencyMaxMS)*time.Millisecond,
		),
	)

	opts := []app.Option{
		app.WithLogger(log),
		app.WithAnalyzer(transcriptAnalyzer),
		app.WithAggregator(scoring.New(scoring.WithComplianceScanner(scanner))),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		app.WithSkillGapThreshold(cfg.SkillGapThreshold),
	}

	if cfg.StoreDriver == "postgres" {
		store, err := repository.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error(ctx, "postgres store init failed", logger.Error(err))
			return
		}
		defer store.Close()
		opts = append(opts, app.WithStore(store))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}

	mux := http.NewServeMux()
	api.NewServer(svc).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	svc.Stop(shutdownCtx)

	log.Info(ctx, "server stopped")
}
