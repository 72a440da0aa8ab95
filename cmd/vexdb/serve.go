package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vexdb/vexdb"
	"github.com/vexdb/vexdb/infrastructure/api"
	"github.com/vexdb/vexdb/infrastructure/provider"
	"github.com/vexdb/vexdb/internal/config"
	"github.com/vexdb/vexdb/internal/log"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile    string
		configFile string
		host       string
		port       int
		dbURL      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. YAML config file (if --config specified)
  3. .env file (if --env-file specified or .env exists in current directory)
  4. Environment variables
  5. Command line flags

Environment variables:
  HOST                Server host to bind to (default: 0.0.0.0)
  PORT                Server port to listen on (default: 8444)
  DB_URL              Database URL; empty keeps documents in memory only
                      (sqlite:///vexdb.sqlite, postgres://...)
  LOG_LEVEL           Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT          Log format: pretty, json (default: pretty)
  API_KEYS            Comma-separated list of valid API keys
  MAX_DOCUMENTS       Maximum number of stored documents (default: unbounded)

  EMBEDDING_ENDPOINT_*  Embedding service for the ingest command
    BASE_URL            Base URL (e.g. https://api.openai.com/v1)
    MODEL               Model identifier (default: text-embedding-3-small)
    API_KEY             API key for authentication
    TIMEOUT             Request timeout (default: 60s)
    MAX_RETRIES         Retry attempts (default: 5)
    BATCH_SIZE          Texts per embedding request (default: 10)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, configFile, host, port, dbURL)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8444)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (default: in-memory only)")

	return cmd
}

func runServe(envFile, configFile, host string, port int, dbURL string) error {
	cfg, err := loadConfig(envFile, configFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port, dbURL)

	logger := log.Configure(cfg)

	opts, err := clientOptions(cfg)
	if err != nil {
		return err
	}
	opts = append(opts, vexdb.WithLogger(logger))

	logger.Info("starting vexdb",
		slog.String("version", version),
		slog.String("addr", cfg.Addr()),
		slog.Bool("durable", cfg.DBURL() != ""),
	)

	ctx := context.Background()
	client, err := vexdb.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create vexdb client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close vexdb client", slog.Any("error", err))
		}
	}()

	server := api.NewAPIServer(client.Documents, client.Search, cfg.APIKeys(), logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := server.ListenAndServe(cfg.Addr()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// clientOptions selects the store backend from the database URL.
func clientOptions(cfg config.AppConfig) ([]vexdb.Option, error) {
	var opts []vexdb.Option

	dbURL := cfg.DBURL()
	switch {
	case dbURL == "":
		opts = append(opts, vexdb.WithMemory())
	case strings.HasPrefix(dbURL, "sqlite:///"):
		opts = append(opts, vexdb.WithSQLite(strings.TrimPrefix(dbURL, "sqlite:///")))
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		opts = append(opts, vexdb.WithPostgres(dbURL))
	default:
		return nil, fmt.Errorf("unsupported database URL %q", dbURL)
	}

	if cfg.MaxDocuments() > 0 {
		opts = append(opts, vexdb.WithMaxDocuments(cfg.MaxDocuments()))
	}

	if ep := cfg.EmbeddingEndpoint(); ep.Configured() {
		embedder, err := provider.NewOpenAIEmbedderFromEndpoint(ep)
		if err != nil {
			return nil, fmt.Errorf("configure embedder: %w", err)
		}
		opts = append(opts, vexdb.WithEmbedder(embedder))
	}

	return opts, nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int, dbURL string) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}
	if dbURL != "" {
		opts = append(opts, config.WithDBURL(dbURL))
	}

	return cfg.Apply(opts...)
}
