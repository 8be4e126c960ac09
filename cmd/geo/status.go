package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keevingfu/infranodus-geo-system/internal/analyzer"
	"github.com/keevingfu/infranodus-geo-system/internal/monitor"
)

var statusReport bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system health and graph metrics",
	Long: `Probes the graph store and prints health and node counts. With
--report, generates the full weekly report with insights and
recommendations, rendered as YAML.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, cleanup, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	an := analyzer.New(client, log,
		analyzer.WithRepresentativeKeywords(cfg.Analyzer.RepresentativeKeywords))
	dashboard := monitor.NewDashboard(client, an, log)

	if statusReport {
		report, err := dashboard.GenerateWeeklyReport(ctx)
		if err != nil {
			return err
		}
		rendered, err := monitor.RenderYAML(report)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	}

	health := dashboard.CheckSystemHealth(ctx)
	metrics, err := dashboard.GraphMetrics(ctx)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"health":  health,
		"metrics": metrics,
	})
}

func init() {
	statusCmd.Flags().BoolVar(&statusReport, "report", false, "Generate the full weekly report as YAML")
}
