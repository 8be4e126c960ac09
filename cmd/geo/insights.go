package main

import (
	"github.com/spf13/cobra"

	"github.com/keevingfu/infranodus-geo-system/internal/insights"
)

var (
	insightsMinSeverity int
	insightsMinConf     float64
	insightsMinPriority int
	insightsLimit       int
	insightsClaimText   string
	insightsBrand       string
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Audience, claim, and prompt coverage insights",
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Persona x scenario x pain point matrix",
	RunE: withInsights(func(cmd *cobra.Command, svc *insights.Service) (any, error) {
		return svc.PersonaScenarioMatrix(cmd.Context())
	}),
}

var underservedCmd = &cobra.Command{
	Use:   "underserved",
	Short: "Personas with severe pain points and few solutions",
	RunE: withInsights(func(cmd *cobra.Command, svc *insights.Service) (any, error) {
		return svc.UnderservedPersonas(cmd.Context(), insightsMinSeverity)
	}),
}

var differentiationCmd = &cobra.Command{
	Use:   "differentiation",
	Short: "Pain points a brand solves that competitors barely address",
	RunE: withInsights(func(cmd *cobra.Command, svc *insights.Service) (any, error) {
		return svc.DifferentiationOpportunities(cmd.Context(), insightsBrand)
	}),
}

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Claims with their supporting evidence",
	RunE: withInsights(func(cmd *cobra.Command, svc *insights.Service) (any, error) {
		return svc.VerifyClaims(cmd.Context(), insightsClaimText)
	}),
}

var unsupportedCmd = &cobra.Command{
	Use:   "unsupported",
	Short: "High-confidence claims lacking evidence",
	RunE: withInsights(func(cmd *cobra.Command, svc *insights.Service) (any, error) {
		return svc.UnsupportedClaims(cmd.Context(), insightsMinConf)
	}),
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Prompts ranked by composite priority",
	RunE: withInsights(func(cmd *cobra.Command, svc *insights.Service) (any, error) {
		return svc.RankPrompts(cmd.Context(), insightsLimit)
	}),
}

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Prompt-to-content coverage statistics",
	RunE: withInsights(func(cmd *cobra.Command, svc *insights.Service) (any, error) {
		return svc.PromptCoverage(cmd.Context())
	}),
}

var uncoveredCmd = &cobra.Command{
	Use:   "uncovered",
	Short: "High-priority prompts without content",
	RunE: withInsights(func(cmd *cobra.Command, svc *insights.Service) (any, error) {
		return svc.UncoveredHighPriorityPrompts(cmd.Context(), insightsMinPriority)
	}),
}

// withInsights wires the shared client/service setup around one insight
// query.
func withInsights(fn func(*cobra.Command, *insights.Service) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, cleanup, err := newClient(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := fn(cmd, insights.NewService(client, log))
		if err != nil {
			return err
		}
		return printJSON(result)
	}
}

func init() {
	underservedCmd.Flags().IntVar(&insightsMinSeverity, "min-severity", 7, "Minimum pain point severity")
	differentiationCmd.Flags().StringVar(&insightsBrand, "brand", "", "Brand to find differentiation opportunities for")
	_ = differentiationCmd.MarkFlagRequired("brand")
	claimsCmd.Flags().StringVar(&insightsClaimText, "text", "", "Filter claims containing this text")
	unsupportedCmd.Flags().Float64Var(&insightsMinConf, "min-confidence", 0.7, "Minimum claim confidence")
	promptsCmd.Flags().IntVar(&insightsLimit, "limit", 20, "Maximum number of results")
	uncoveredCmd.Flags().IntVar(&insightsMinPriority, "min-priority", 7, "Minimum prompt priority")

	insightsCmd.AddCommand(matrixCmd)
	insightsCmd.AddCommand(underservedCmd)
	insightsCmd.AddCommand(differentiationCmd)
	insightsCmd.AddCommand(claimsCmd)
	insightsCmd.AddCommand(unsupportedCmd)
	insightsCmd.AddCommand(promptsCmd)
	insightsCmd.AddCommand(coverageCmd)
	insightsCmd.AddCommand(uncoveredCmd)
}
