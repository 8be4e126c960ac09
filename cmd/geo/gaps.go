package main

import (
	"github.com/spf13/cobra"

	"github.com/keevingfu/infranodus-geo-system/internal/analyzer"
	"github.com/keevingfu/infranodus-geo-system/internal/ingest"
)

var (
	gapsMinScore    float64
	gapsLimit       int
	kwGapsLimit     int
	gapsPersist     bool
	gapsGenPrompts  bool
	bridgesClusterA string
	bridgesClusterB string
	bridgesLimit    int
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Find structure holes between topic clusters",
	Long: `Analyzes the co-occurrence network for weakly connected topic
cluster pairs and ranks them as content opportunities. Use --persist to
store the results as Gap nodes and --prompts to also generate content
prompts from them.`,
	RunE: runGaps,
}

var keywordGapsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Find high-importance keyword pairs with weak co-occurrence",
	RunE:  runKeywordGaps,
}

var bridgesCmd = &cobra.Command{
	Use:   "bridges",
	Short: "Find keywords bridging two topic clusters",
	RunE:  runBridges,
}

func runGaps(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, cleanup, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	an := analyzer.New(client, log,
		analyzer.WithRepresentativeKeywords(cfg.Analyzer.RepresentativeKeywords))

	gaps, err := an.FindStructureHoles(ctx, gapsMinScore, gapsLimit)
	if err != nil {
		return err
	}

	if gapsPersist && len(gaps) > 0 {
		if _, err := an.PersistGaps(ctx, gaps); err != nil {
			return err
		}
		if gapsGenPrompts {
			importer := ingest.NewImporter(client, log)
			if _, err := importer.GeneratePromptsFromGaps(ctx, gaps); err != nil {
				return err
			}
		}
	}

	return printJSON(gaps)
}

func runKeywordGaps(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, cleanup, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	an := analyzer.New(client, log)
	gaps, err := an.FindKeywordGaps(ctx, kwGapsLimit)
	if err != nil {
		return err
	}
	return printJSON(gaps)
}

func runBridges(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, cleanup, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	an := analyzer.New(client, log)
	bridges, err := an.FindBridgingKeywords(ctx, bridgesClusterA, bridgesClusterB, bridgesLimit)
	if err != nil {
		return err
	}
	return printJSON(bridges)
}

func init() {
	gapsCmd.Flags().Float64Var(&gapsMinScore, "min-score", 0.5, "Minimum opportunity score")
	gapsCmd.Flags().IntVar(&gapsLimit, "limit", 10, "Maximum number of results")
	gapsCmd.Flags().BoolVar(&gapsPersist, "persist", false, "Persist results as Gap nodes")
	gapsCmd.Flags().BoolVar(&gapsGenPrompts, "prompts", false, "Generate content prompts from persisted gaps")

	keywordGapsCmd.Flags().IntVar(&kwGapsLimit, "limit", 20, "Maximum number of results")

	bridgesCmd.Flags().StringVar(&bridgesClusterA, "cluster-a", "", "First topic cluster name")
	bridgesCmd.Flags().StringVar(&bridgesClusterB, "cluster-b", "", "Second topic cluster name")
	bridgesCmd.Flags().IntVar(&bridgesLimit, "limit", 5, "Maximum number of results")
	_ = bridgesCmd.MarkFlagRequired("cluster-a")
	_ = bridgesCmd.MarkFlagRequired("cluster-b")

	gapsCmd.AddCommand(keywordGapsCmd)
	gapsCmd.AddCommand(bridgesCmd)
}
