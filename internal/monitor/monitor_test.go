package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keevingfu/infranodus-geo-system/internal/analyzer"
	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

func newConnectedMock(t *testing.T) *graph.MockClient {
	t.Helper()
	client := graph.NewMockClient()
	require.NoError(t, client.Connect(context.Background()))
	return client
}

func queueHealthyStore(client *graph.MockClient, nodes, rels int64, lastImport string) {
	client.AddQueryResult(graph.QueryResult{Records: []map[string]any{
		{"total_nodes": nodes, "total_relationships": rels},
	}})
	importRecords := []map[string]any{}
	if lastImport != "" {
		importRecords = append(importRecords, map[string]any{"last_import": lastImport})
	}
	client.AddQueryResult(graph.QueryResult{Records: importRecords})
}

func TestCheckSystemHealthHealthy(t *testing.T) {
	client := newConnectedMock(t)
	queueHealthyStore(client, 150, 300, "2026-08-24T10:00:00Z")

	d := NewDashboard(client, nil, nil)
	health := d.CheckSystemHealth(context.Background())

	assert.Equal(t, float64(100), health.HealthScore)
	assert.Equal(t, 150, health.TotalNodes)
	assert.Equal(t, 300, health.TotalRelationships)
	assert.Equal(t, "2026-08-24T10:00:00Z", health.LastImport)
	assert.Equal(t, types.HealthStateHealthy, health.Store.State)
}

func TestCheckSystemHealthUnreachableStore(t *testing.T) {
	client := newConnectedMock(t)
	client.SetQueryError(errors.New("connection refused"))

	d := NewDashboard(client, nil, nil)
	health := d.CheckSystemHealth(context.Background())

	assert.Equal(t, float64(0), health.HealthScore)
	assert.Equal(t, types.HealthStateUnhealthy, health.Store.State)
	assert.Zero(t, health.TotalNodes)
	assert.Empty(t, health.LastImport)
}

func TestCheckSystemHealthNearEmptyGraph(t *testing.T) {
	client := newConnectedMock(t)
	queueHealthyStore(client, 5, 2, "2026-08-24T10:00:00Z")

	d := NewDashboard(client, nil, nil)
	health := d.CheckSystemHealth(context.Background())

	assert.Equal(t, float64(70), health.HealthScore)
}

func TestCheckSystemHealthNoImportYet(t *testing.T) {
	client := newConnectedMock(t)
	queueHealthyStore(client, 150, 300, "")

	d := NewDashboard(client, nil, nil)
	health := d.CheckSystemHealth(context.Background())

	assert.Equal(t, float64(80), health.HealthScore)
}

func TestGraphMetricsZeroFillsKnownLabels(t *testing.T) {
	client := newConnectedMock(t)
	client.AddQueryResult(graph.QueryResult{Records: []map[string]any{
		{"node_type": "Keyword", "count": int64(120)},
		{"node_type": "Claim", "count": int64(4)},
	}})

	d := NewDashboard(client, nil, nil)
	metrics, err := d.GraphMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 120, metrics.NodeCounts["Keyword"])
	assert.Equal(t, 4, metrics.NodeCounts["Claim"])
	assert.Equal(t, 0, metrics.NodeCounts["Persona"])
	assert.Equal(t, 0, metrics.NodeCounts["Asset"])
	assert.Len(t, metrics.NodeCounts, 13)
	assert.Equal(t, 124, metrics.TotalNodes)
}

func TestPipelineMetricsWithoutAnalyzer(t *testing.T) {
	client := newConnectedMock(t)
	client.AddQueryResult(graph.QueryResult{Records: []map[string]any{{"total": int64(12)}}})
	client.AddQueryResult(graph.QueryResult{Records: []map[string]any{{"avg_score": 0.72}}})

	d := NewDashboard(client, nil, nil)
	metrics, err := d.PipelineMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, metrics.TotalPrompts)
	assert.InDelta(t, 0.72, metrics.AvgCitationScore, 1e-9)
	assert.Empty(t, metrics.TopGaps)
}

func TestGenerateWeeklyReport(t *testing.T) {
	client := newConnectedMock(t)
	queueHealthyStore(client, 150, 300, "2026-08-24T10:00:00Z")
	client.AddQueryResult(graph.QueryResult{Records: []map[string]any{
		{"node_type": "Keyword", "count": int64(120)},
		{"node_type": "Claim", "count": int64(4)},
		{"node_type": "Evidence", "count": int64(3)},
	}})
	client.AddQueryResult(graph.QueryResult{Records: []map[string]any{{"total": int64(12)}}})
	client.AddQueryResult(graph.QueryResult{Records: []map[string]any{{"avg_score": 0.72}}})
	client.AddQueryResult(graph.QueryResult{})

	d := NewDashboard(client, analyzer.New(client, nil), nil)
	report, err := d.GenerateWeeklyReport(context.Background())
	require.NoError(t, err)

	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, float64(100), report.Health.HealthScore)
	assert.Contains(t, report.Insights, "System operating at optimal health")
	assert.Contains(t, report.Insights, "Knowledge graph contains 127 entities")
	assert.Contains(t, report.Insights, "Moderate evidence coverage (75%)")
	assert.Contains(t, report.Insights, "Excellent citation quality (avg 0.72)")
	assert.Equal(t, []string{"Define additional user personas for better targeting"}, report.Recommendations)
}

func TestGenerateRecommendationsAllClear(t *testing.T) {
	health := SystemHealth{HealthScore: 100}
	gm := GraphMetrics{NodeCounts: map[string]int{
		"Keyword":  200,
		"Evidence": 40,
		"Claim":    30,
		"Persona":  5,
		"Brief":    3,
		"Asset":    8,
	}, TotalNodes: 286}
	pm := PipelineMetrics{TotalPrompts: 25, AvgCitationScore: 0.8}

	recs := generateRecommendations(health, gm, pm)
	assert.Equal(t, []string{"System performing well, continue current operations"}, recs)
}

func TestRenderYAML(t *testing.T) {
	report := WeeklyReport{
		GeneratedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		Health:      SystemHealth{HealthScore: 80, TotalNodes: 150},
		Graph:       GraphMetrics{NodeCounts: map[string]int{"Keyword": 120}, TotalNodes: 120},
		Insights:    []string{"System health is good with minor issues"},
	}

	out, err := RenderYAML(report)
	require.NoError(t, err)
	assert.Contains(t, out, "health_score: 80")
	assert.Contains(t, out, "Keyword: 120")
	assert.Contains(t, out, "System health is good with minor issues")
}
