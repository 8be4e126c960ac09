package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/keevingfu/infranodus-geo-system/internal/config"
	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/observability"
)

var (
	configFile string
	verbose    bool

	cfg *config.Config
	log *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "geo",
	Short: "GEO - knowledge graph content gap discovery and Graph-RAG answering",
	Long: `GEO builds and queries a knowledge graph for content strategy:
it detects structure holes between topic clusters, scores content assets
for citation readiness, and answers questions grounded in graph evidence.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.NewLoader().LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	handler := observability.NewHandler(os.Stderr, level, cfg.Logging.Format)
	log = observability.NewLogger(handler, "geo")
	return nil
}

// newClient connects to the graph store and returns the client with its
// cleanup function.
func newClient(ctx context.Context) (graph.Client, func(), error) {
	client, err := graph.NewNeo4jClient(graph.ClientConfig{
		URI:                     cfg.Graph.URI,
		Username:                cfg.Graph.Username,
		Password:                cfg.Graph.Password,
		Database:                cfg.Graph.Database,
		MaxConnectionPoolSize:   cfg.Graph.PoolSize,
		ConnectionTimeout:       cfg.Graph.ConnectionTimeout,
		MaxTransactionRetryTime: cfg.Graph.QueryTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, nil, err
	}

	traced := graph.NewTracedClient(client, otel.Tracer("geo"))
	cleanup := func() {
		if err := traced.Close(ctx); err != nil {
			log.Warn(ctx, "failed to close graph client", "error", err.Error())
		}
	}
	return traced, cleanup, nil
}

// printJSON renders a result on stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "geo.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(gapsCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(statusCmd)
}
