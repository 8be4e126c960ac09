// Package monitor collects system health and pipeline metrics and renders
// periodic reports.
package monitor

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/keevingfu/infranodus-geo-system/internal/analyzer"
	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/observability"
	"github.com/keevingfu/infranodus-geo-system/internal/schema"
	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

// SystemHealth describes store reachability and graph population.
// HealthScore is 0-100: minus 50 for an unreachable store, minus 30 for a
// near-empty graph, minus 20 when no import has ever run.
type SystemHealth struct {
	Store              types.HealthStatus `json:"store" yaml:"store"`
	TotalNodes         int                `json:"total_nodes" yaml:"total_nodes"`
	TotalRelationships int                `json:"total_relationships" yaml:"total_relationships"`
	LastImport         string             `json:"last_import,omitempty" yaml:"last_import,omitempty"`
	HealthScore        float64            `json:"health_score" yaml:"health_score"`
}

// GraphMetrics holds per-label node counts.
type GraphMetrics struct {
	NodeCounts map[string]int `json:"node_counts" yaml:"node_counts"`
	TotalNodes int            `json:"total_nodes" yaml:"total_nodes"`
}

// PipelineMetrics summarizes content pipeline state.
type PipelineMetrics struct {
	TotalPrompts     int          `json:"total_prompts" yaml:"total_prompts"`
	AvgCitationScore float64      `json:"avg_citation_score" yaml:"avg_citation_score"`
	TopGaps          []schema.Gap `json:"top_gaps" yaml:"top_gaps"`
}

// WeeklyReport bundles all metrics with derived insights and
// recommendations.
type WeeklyReport struct {
	GeneratedAt     time.Time       `json:"generated_at" yaml:"generated_at"`
	Health          SystemHealth    `json:"health" yaml:"health"`
	Graph           GraphMetrics    `json:"graph" yaml:"graph"`
	Pipeline        PipelineMetrics `json:"pipeline" yaml:"pipeline"`
	Insights        []string        `json:"insights" yaml:"insights"`
	Recommendations []string        `json:"recommendations" yaml:"recommendations"`
}

// Dashboard collects metrics from the graph store.
type Dashboard struct {
	client   graph.Client
	analyzer *analyzer.Analyzer
	log      *observability.Logger
}

// NewDashboard creates a Dashboard. The analyzer supplies the top
// opportunity gaps included in pipeline metrics.
func NewDashboard(client graph.Client, an *analyzer.Analyzer, log *observability.Logger) *Dashboard {
	return &Dashboard{client: client, analyzer: an, log: log}
}

const storeStatsCypher = `
	MATCH (n)
	WITH count(n) AS total_nodes
	OPTIONAL MATCH ()-[r]->()
	RETURN total_nodes, count(r) AS total_relationships
`

const lastImportCypher = `
	MATCH (k:Keyword)
	WHERE k.last_updated IS NOT NULL
	RETURN toString(k.last_updated) AS last_import
	ORDER BY k.last_updated DESC
	LIMIT 1
`

// CheckSystemHealth probes the store and computes the health score. An
// unreachable store yields a degraded SystemHealth rather than an error.
func (d *Dashboard) CheckSystemHealth(ctx context.Context) SystemHealth {
	health := SystemHealth{HealthScore: 100}

	stats, err := d.client.Query(ctx, storeStatsCypher, map[string]any{})
	if err != nil {
		health.Store = types.Unhealthy(fmt.Sprintf("store unreachable: %v", err))
		health.HealthScore -= 50
	} else {
		health.Store = d.client.Health(ctx)
		if len(stats.Records) > 0 {
			if n, ok := graph.AsInt64(stats.Records[0]["total_nodes"]); ok {
				health.TotalNodes = int(n)
			}
			if n, ok := graph.AsInt64(stats.Records[0]["total_relationships"]); ok {
				health.TotalRelationships = int(n)
			}
		}
	}
	if health.TotalNodes < 10 {
		health.HealthScore -= 30
	}

	if importResult, err := d.client.Query(ctx, lastImportCypher, map[string]any{}); err == nil && len(importResult.Records) > 0 {
		health.LastImport = graph.AsString(importResult.Records[0]["last_import"])
	}
	if health.LastImport == "" {
		health.HealthScore -= 20
	}
	if health.HealthScore < 0 {
		health.HealthScore = 0
	}

	if d.log != nil {
		d.log.Info(ctx, "system health checked",
			"score", health.HealthScore,
			"nodes", health.TotalNodes,
			"relationships", health.TotalRelationships)
	}
	return health
}

const nodeCountsCypher = `
	MATCH (n)
	RETURN labels(n)[0] AS node_type, count(n) AS count
	ORDER BY node_type ASC
`

// GraphMetrics counts nodes per label. Every known label appears in the
// result, zero when absent from the store.
func (d *Dashboard) GraphMetrics(ctx context.Context) (GraphMetrics, error) {
	result, err := d.client.Query(ctx, nodeCountsCypher, map[string]any{})
	if err != nil {
		return GraphMetrics{}, err
	}

	metrics := GraphMetrics{NodeCounts: make(map[string]int, len(schema.AllNodeTypes()))}
	for _, nt := range schema.AllNodeTypes() {
		metrics.NodeCounts[nt.String()] = 0
	}
	for _, record := range result.Records {
		label := graph.AsString(record["node_type"])
		if label == "" {
			continue
		}
		n, _ := graph.AsInt64(record["count"])
		metrics.NodeCounts[label] = int(n)
		metrics.TotalNodes += int(n)
	}
	return metrics, nil
}

const promptCountCypher = `
	MATCH (p:Prompt)
	RETURN count(p) AS total
`

const avgCitationCypher = `
	MATCH (a:Asset)
	WHERE a.citation_ready_score IS NOT NULL
	RETURN avg(a.citation_ready_score) AS avg_score
`

// PipelineMetrics gathers prompt volume, average asset quality, and the
// current top opportunity gaps.
func (d *Dashboard) PipelineMetrics(ctx context.Context) (PipelineMetrics, error) {
	var metrics PipelineMetrics

	promptResult, err := d.client.Query(ctx, promptCountCypher, map[string]any{})
	if err != nil {
		return metrics, err
	}
	if len(promptResult.Records) > 0 {
		if n, ok := graph.AsInt64(promptResult.Records[0]["total"]); ok {
			metrics.TotalPrompts = int(n)
		}
	}

	citationResult, err := d.client.Query(ctx, avgCitationCypher, map[string]any{})
	if err != nil {
		return metrics, err
	}
	if len(citationResult.Records) > 0 {
		metrics.AvgCitationScore, _ = graph.AsFloat64(citationResult.Records[0]["avg_score"])
	}

	if d.analyzer != nil {
		gaps, err := d.analyzer.FindStructureHoles(ctx, 0.7, 5)
		if err != nil {
			return metrics, err
		}
		metrics.TopGaps = gaps
	}
	return metrics, nil
}

// GenerateWeeklyReport collects all metrics and derives insights and
// recommendations.
func (d *Dashboard) GenerateWeeklyReport(ctx context.Context) (WeeklyReport, error) {
	health := d.CheckSystemHealth(ctx)

	graphMetrics, err := d.GraphMetrics(ctx)
	if err != nil {
		return WeeklyReport{}, err
	}
	pipelineMetrics, err := d.PipelineMetrics(ctx)
	if err != nil {
		return WeeklyReport{}, err
	}

	report := WeeklyReport{
		GeneratedAt:     time.Now(),
		Health:          health,
		Graph:           graphMetrics,
		Pipeline:        pipelineMetrics,
		Insights:        generateInsights(health, graphMetrics, pipelineMetrics),
		Recommendations: generateRecommendations(health, graphMetrics, pipelineMetrics),
	}

	if d.log != nil {
		d.log.Info(ctx, "weekly report generated",
			"insights", len(report.Insights),
			"recommendations", len(report.Recommendations))
	}
	return report, nil
}

func generateInsights(health SystemHealth, gm GraphMetrics, pm PipelineMetrics) []string {
	var insights []string

	switch {
	case health.HealthScore >= 90:
		insights = append(insights, "System operating at optimal health")
	case health.HealthScore >= 70:
		insights = append(insights, "System health is good with minor issues")
	default:
		insights = append(insights, "System health needs attention")
	}

	switch {
	case gm.TotalNodes > 100:
		insights = append(insights, fmt.Sprintf("Knowledge graph contains %d entities", gm.TotalNodes))
	case gm.TotalNodes > 50:
		insights = append(insights, fmt.Sprintf("Knowledge graph growing steadily (%d entities)", gm.TotalNodes))
	default:
		insights = append(insights, fmt.Sprintf("Knowledge graph in early stage (%d entities)", gm.TotalNodes))
	}

	evidenceCount := gm.NodeCounts[schema.NodeTypeEvidence.String()]
	claimCount := gm.NodeCounts[schema.NodeTypeClaim.String()]
	if evidenceCount > 0 {
		denominator := claimCount
		if denominator < 1 {
			denominator = 1
		}
		ratio := float64(evidenceCount) / float64(denominator)
		switch {
		case ratio >= 0.8:
			insights = append(insights, fmt.Sprintf("Strong evidence coverage (%.0f%%)", ratio*100))
		case ratio >= 0.5:
			insights = append(insights, fmt.Sprintf("Moderate evidence coverage (%.0f%%)", ratio*100))
		default:
			insights = append(insights, fmt.Sprintf("Low evidence coverage (%.0f%%)", ratio*100))
		}
	}

	switch {
	case pm.AvgCitationScore >= 0.7:
		insights = append(insights, fmt.Sprintf("Excellent citation quality (avg %.2f)", pm.AvgCitationScore))
	case pm.AvgCitationScore >= 0.5:
		insights = append(insights, fmt.Sprintf("Good citation quality (avg %.2f)", pm.AvgCitationScore))
	default:
		insights = append(insights, fmt.Sprintf("Citation quality needs improvement (avg %.2f)", pm.AvgCitationScore))
	}

	return insights
}

func generateRecommendations(health SystemHealth, gm GraphMetrics, pm PipelineMetrics) []string {
	var recs []string

	if health.HealthScore < 90 {
		recs = append(recs, "Review system logs and address connectivity issues")
	}
	if gm.NodeCounts[schema.NodeTypeKeyword.String()] < 50 {
		recs = append(recs, "Import more data sources to enrich the knowledge graph")
	}
	if gm.NodeCounts[schema.NodeTypeEvidence.String()] < gm.NodeCounts[schema.NodeTypeClaim.String()]/2 {
		recs = append(recs, "Add more evidence sources to strengthen claims")
	}
	if gm.NodeCounts[schema.NodeTypePersona.String()] < 3 {
		recs = append(recs, "Define additional user personas for better targeting")
	}
	if pm.TotalPrompts < 5 {
		recs = append(recs, "Run structure hole analysis to generate new content prompts")
	}
	if pm.AvgCitationScore < 0.6 {
		recs = append(recs, "Focus on evidence-backed content to improve citation scores")
	}
	if len(pm.TopGaps) > 3 {
		recs = append(recs, fmt.Sprintf("%d high-opportunity gaps identified, prioritize for content", len(pm.TopGaps)))
	}
	if gm.NodeCounts[schema.NodeTypeBrief.String()] > 10 && gm.NodeCounts[schema.NodeTypeAsset.String()] < 5 {
		recs = append(recs, "Convert briefs to published assets to increase output")
	}

	if len(recs) == 0 {
		recs = append(recs, "System performing well, continue current operations")
	}
	return recs
}

// RenderYAML serializes a report for file output or dashboards.
func RenderYAML(report WeeklyReport) (string, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return string(data), nil
}
