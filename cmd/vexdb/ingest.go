package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	client "github.com/vexdb/vexdb/clients/go"
	"github.com/vexdb/vexdb/infrastructure/provider"
	"github.com/vexdb/vexdb/internal/log"
)

func ingestCmd() *cobra.Command {
	var (
		envFile     string
		configFile  string
		serverURL   string
		apiKey      string
		startID     int64
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Embed text files and add them to a vexdb server",
		Long: `Embed text files with the configured embedding endpoint and add
them to a running vexdb server. Each file becomes one document: the file
path is stored as metadata and the file body as content.

Requires EMBEDDING_ENDPOINT_BASE_URL or EMBEDDING_ENDPOINT_API_KEY to be set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), envFile, configFile, serverURL, apiKey, startID, parallelism, args)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8444", "vexdb server URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the vexdb server")
	cmd.Flags().Int64Var(&startID, "start-id", 1, "Document id assigned to the first file")
	cmd.Flags().IntVar(&parallelism, "parallelism", 4, "Number of files processed concurrently")

	return cmd
}

func runIngest(ctx context.Context, envFile, configFile, serverURL, apiKey string, startID int64, parallelism int, paths []string) error {
	cfg, err := loadConfig(envFile, configFile)
	if err != nil {
		return err
	}
	logger := log.Configure(cfg)

	embedder, err := provider.NewOpenAIEmbedderFromEndpoint(cfg.EmbeddingEndpoint())
	if err != nil {
		return fmt.Errorf("configure embedder: %w", err)
	}
	defer func() { _ = embedder.Close() }()

	var clientOpts []client.Option
	if apiKey != "" {
		clientOpts = append(clientOpts, client.WithAPIKey(apiKey))
	}
	api := client.New(serverURL, clientOpts...)

	if err := api.Health(ctx); err != nil {
		return fmt.Errorf("server %s not reachable: %w", serverURL, err)
	}

	var ingested atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, path := range paths {
		path := path
		id := startID + int64(i)
		g.Go(func() error {
			body, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			vectors, err := embedder.Embed(gctx, []string{string(body)})
			if err != nil {
				return fmt.Errorf("embed %s: %w", path, err)
			}

			metadata := filepath.ToSlash(path)
			if err := api.AddDocument(gctx, id, vectors[0], metadata, string(body)); err != nil {
				return fmt.Errorf("add %s: %w", path, err)
			}

			ingested.Add(1)
			logger.Info("ingested document",
				slog.Int64("id", id),
				slog.String("path", path),
				slog.Int("dimension", len(vectors[0])),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("ingest complete", slog.Int64("documents", ingested.Load()))
	return nil
}
