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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"callintake/internal/config"
	"callintake/internal/gazetteer"
	"callintake/internal/handler"
	"callintake/internal/intake"
	"callintake/internal/logging"
	"callintake/internal/metrics"
	"callintake/internal/repository"
	"callintake/internal/service"
	"callintake/internal/session"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Logging, os.Stdout)
	log.Logger = logger
	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("call intake service starting")

	gin.SetMode(cfg.Server.GinMode)
	m := metrics.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional database: audit log and correction memory
	var repo *repository.PostgresRepository
	if cfg.PostgreSQL.Enabled {
		repo = connectDatabase(ctx, cfg, logger)
	} else {
		logger.Info().Msg("PostgreSQL disabled, intake audit log and correction memory are off")
	}
	if repo != nil {
		defer repo.Close()
	}

	// Fallback classifier
	var ai service.AIClient
	if cfg.OpenAI.Enabled {
		ai = service.NewOpenAIClient(&cfg.OpenAI, logger)
		logger.Info().
			Str("api_base", cfg.OpenAI.APIBase).
			Str("chat_model", cfg.OpenAI.ChatModel).
			Str("embedding_model", cfg.OpenAI.EmbeddingModel).
			Float64("temperature", cfg.OpenAI.ChatTemperature).
			Int("max_tokens", cfg.OpenAI.ChatMaxTokens).
			Msg("fallback classifier enabled")
	} else {
		logger.Warn().Msg("OpenAI is disabled, unknown fragments stay unknown. Set OPENAI_API_KEY to enable the fallback classifier")
	}

	fallbackOpts := []service.FallbackOption{
		service.WithFallbackMetrics(m),
		service.WithFallbackLogger(logger),
	}
	intakeOpts := []service.IntakeOption{
		service.WithMetrics(m),
		service.WithLogger(logger),
		service.WithLocation(cfg.Pipeline.Location()),
	}
	if repo != nil {
		fallbackOpts = append(fallbackOpts, service.WithCorrections(repo))
		intakeOpts = append(intakeOpts, service.WithAudit(repo))
	}

	detector := intake.NewDetector(gazetteer.Default(), intake.WithLogger(logger))
	fallback := service.NewFallbackClassifier(ai, cfg.Pipeline, fallbackOpts...)
	intakeService := service.NewIntakeService(detector, fallback, intakeOpts...)

	sessions := session.NewManager(intakeService,
		session.WithThreshold(cfg.Pipeline.AutoConfirmThreshold),
		session.WithDebounce(cfg.Session.Debounce()),
		session.WithTTL(cfg.Session.TTL()),
		session.WithMetrics(m),
		session.WithLogger(logger),
	)
	go sessions.Run(ctx)

	deps := handler.RouterDeps{
		Server:   cfg.Server,
		Intake:   intakeService,
		Sessions: sessions,
		Logger:   logger,
		Build:    handler.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit},
	}
	if repo != nil {
		deps.Intakes = repo
	}
	router := handler.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	sessions.CloseAll()
	logger.Info().Msg("server stopped")
}

// connectDatabase returns nil when the database is unreachable; the service
// then runs without audit and correction memory
func connectDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *repository.PostgresRepository {
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database, continuing without persistence")
		return nil
	}

	schemaCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := repo.EnsureSchema(schemaCtx); err != nil {
		logger.Error().Err(err).Msg("failed to prepare database schema, continuing without persistence")
		_ = repo.Close()
		return nil
	}

	logger.Info().Msg("connected to PostgreSQL")
	return repo
}
