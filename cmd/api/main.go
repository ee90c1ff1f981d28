package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ecodrive/internal/analysis"
	"ecodrive/internal/config"
	"ecodrive/internal/ingest"
	"ecodrive/internal/llm"
	"ecodrive/internal/logger"
	"ecodrive/internal/metrics"
	"ecodrive/internal/report"
	"ecodrive/internal/report/archive"
	"ecodrive/internal/server"
	"ecodrive/internal/telemetry"
)

func main() {
	root := &cobra.Command{
		Use:   "ecodrive",
		Short: "EcoDrive - vehicle telemetry ingestion and driving-behavior analysis",
	}
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New("api")

	points, reports, cleanup, err := initStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	client, err := initLLMClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	met, err := metrics.NewAnalysis(nil)
	if err != nil {
		return err
	}

	pipeline := analysis.NewPipeline(points, reports, client, analysis.Options{
		Archive: initArchive(cfg, log),
		Metrics: met,
		Logger:  logger.New("pipeline"),
		Timeout: cfg.LLM.Timeout,
	})

	if cfg.MQTT.Broker != "" {
		consumer, err := ingest.NewMQTTConsumer(ingest.MQTTConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			QoS:      cfg.MQTT.QoS,
		}, points, logger.New("mqtt"))
		if err != nil {
			return fmt.Errorf("mqtt connect: %w", err)
		}
		defer consumer.Close()
		if err := consumer.Start(); err != nil {
			return fmt.Errorf("mqtt subscribe: %w", err)
		}
	}

	handlers := server.NewHandlers(pipeline, points, reports, logger.New("http"))
	srv := server.New(cfg.Port, server.NewRouter(handlers, logger.New("http")), log)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	return srv.Start()
}

// initStores opens Postgres when a DSN is configured and falls back to
// in-memory stores otherwise, mirroring the archive's opt-in behavior.
func initStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (telemetry.Store, report.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("no database configured, using in-memory stores")
		return telemetry.NewMemoryStore(), report.NewMemoryRepository(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	pg, err := telemetry.NewPostgresStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	repo, err := report.NewPostgresRepository(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	points := telemetry.NewCachedStore(pg, 256, 30*time.Second)
	return points, repo, pool.Close, nil
}

func initLLMClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (llm.Client, error) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, using deterministic fake LLM client")
		return llm.NewFakeClient(), nil
	}
	client, err := llm.NewGeminiClient(ctx, cfg.LLM.Model)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	log.Info().Str("model", cfg.LLM.Model).Msg("using Gemini analysis client")
	return client, nil
}

func initArchive(cfg *config.Config, log zerolog.Logger) archive.Store {
	if !cfg.Archive.Enabled {
		return nil
	}
	store, err := archive.NewS3Store(archive.S3Config{
		Endpoint:  cfg.Archive.Endpoint,
		Region:    cfg.Archive.Region,
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
		Bucket:    cfg.Archive.Bucket,
		UseSSL:    cfg.Archive.UseSSL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("audit archive disabled")
		return nil
	}
	log.Info().Str("bucket", cfg.Archive.Bucket).Msg("audit archive enabled")
	return store
}
