package main

import (
	"github.com/spf13/cobra"

	"github.com/keevingfu/infranodus-geo-system/internal/scorer"
)

var (
	scoreUpdate   bool
	lowQualityMax float64
)

var scoreCmd = &cobra.Command{
	Use:   "score <asset-id>",
	Short: "Calculate the citation-ready score for a content asset",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

var lowQualityCmd = &cobra.Command{
	Use:   "low-quality",
	Short: "List assets needing citation score improvement",
	RunE:  runLowQuality,
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, cleanup, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sc := scorer.New(client, log, scorer.WithMaxPersonas(cfg.Scorer.MaxPersonas))

	if scoreUpdate {
		score, err := sc.UpdateAssetScore(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"asset_id": args[0],
			"score":    score,
			"rating":   scorer.QualityRating(score),
			"updated":  true,
		})
	}

	breakdown, err := sc.CalculateCitationScore(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(breakdown)
}

func runLowQuality(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, cleanup, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sc := scorer.New(client, log)
	assets, err := sc.LowQualityAssets(ctx, lowQualityMax)
	if err != nil {
		return err
	}
	return printJSON(assets)
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreUpdate, "update", false, "Persist the score on the Asset node")

	lowQualityCmd.Flags().Float64Var(&lowQualityMax, "max-score", 0.5, "Score threshold")

	scoreCmd.AddCommand(lowQualityCmd)
}
