package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keevingfu/infranodus-geo-system/internal/ingest"
	"github.com/keevingfu/infranodus-geo-system/internal/schema"
)

// datasetFile is the JSON export consumed by the import command: the
// keyword network with community assignments plus its co-occurrence edges.
type datasetFile struct {
	Keywords []schema.Keyword      `json:"keywords"`
	Clusters []schema.TopicCluster `json:"clusters"`
	Edges    []ingest.CoOccurrence `json:"edges"`
}

var importCmd = &cobra.Command{
	Use:   "import <dataset.json>",
	Short: "Import a keyword network export into the graph store",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	var dataset datasetFile
	if err := json.Unmarshal(data, &dataset); err != nil {
		return fmt.Errorf("failed to parse dataset: %w", err)
	}

	client, cleanup, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	importer := ingest.NewImporter(client, log)
	stats, err := importer.ImportDataset(ctx, dataset.Keywords, dataset.Clusters, dataset.Edges)
	if err != nil {
		return err
	}

	return printJSON(stats)
}
