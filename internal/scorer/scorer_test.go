package scorer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

func newConnectedMock(t *testing.T) *graph.MockClient {
	t.Helper()
	client := graph.NewMockClient()
	require.NoError(t, client.Connect(context.Background()))
	return client
}

func queueScoreResults(client *graph.MockClient, evidenceCount int64, avgCredibility float64, keywordCoverage int64, avgBetweenness float64, personaCoverage int64) {
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{{
			"asset_id":        "asset-1",
			"evidence_count":  evidenceCount,
			"avg_credibility": avgCredibility,
		}},
	})
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{{
			"keyword_coverage": keywordCoverage,
			"avg_betweenness":  avgBetweenness,
		}},
	})
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{{
			"persona_coverage": personaCoverage,
		}},
	})
}

func TestCalculateCitationScoreEvidenceOnly(t *testing.T) {
	client := newConnectedMock(t)
	// Two evidence nodes with credibility 0.9 and 0.75.
	queueScoreResults(client, 2, 0.825, 0, 0, 0)

	s := New(client, nil)
	breakdown, err := s.CalculateCitationScore(context.Background(), "asset-1")
	require.NoError(t, err)

	assert.InDelta(t, 0.165, breakdown.EvidenceScore, 1e-9)
	assert.Zero(t, breakdown.ConnectivityScore)
	assert.Zero(t, breakdown.CompletenessScore)
	assert.InDelta(t, 0.166, breakdown.Total, 1e-9)
}

func TestCalculateCitationScoreAllComponents(t *testing.T) {
	client := newConnectedMock(t)
	queueScoreResults(client, 5, 0.8, 10, 0.6, 3)

	s := New(client, nil)
	breakdown, err := s.CalculateCitationScore(context.Background(), "asset-1")
	require.NoError(t, err)

	assert.InDelta(t, 0.4, breakdown.EvidenceScore, 1e-9)     // 5*0.8/10
	assert.InDelta(t, 0.6, breakdown.ConnectivityScore, 1e-9) // 10*0.6/10
	assert.InDelta(t, 1.0, breakdown.CompletenessScore, 1e-9) // 3/3
	assert.InDelta(t, 0.4*0.4+0.3*0.6+0.2*1.0+0.1, breakdown.Total, 1e-9)
}

func TestCalculateCitationScoreClampsSubScores(t *testing.T) {
	client := newConnectedMock(t)
	// Pathological inputs push every raw sub-score past 1.
	queueScoreResults(client, 100, 0.9, 500, 0.9, 50)

	s := New(client, nil)
	breakdown, err := s.CalculateCitationScore(context.Background(), "asset-1")
	require.NoError(t, err)

	assert.Equal(t, 1.0, breakdown.EvidenceScore)
	assert.Equal(t, 1.0, breakdown.ConnectivityScore)
	assert.Equal(t, 1.0, breakdown.CompletenessScore)
	assert.Equal(t, 1.0, breakdown.Total)
}

func TestCalculateCitationScoreMonotonicInEvidence(t *testing.T) {
	prev := -1.0
	for _, count := range []int64{0, 1, 2, 5, 20, 200} {
		client := newConnectedMock(t)
		queueScoreResults(client, count, 0.7, 4, 0.5, 1)

		s := New(client, nil)
		breakdown, err := s.CalculateCitationScore(context.Background(), "asset-1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, breakdown.Total, prev)
		assert.LessOrEqual(t, breakdown.Total, 1.0)
		prev = breakdown.Total
	}
}

func TestCalculateCitationScoreNotFound(t *testing.T) {
	client := newConnectedMock(t)
	client.AddQueryResult(graph.QueryResult{Records: []map[string]any{}})

	s := New(client, nil)
	_, err := s.CalculateCitationScore(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, types.ASSET_NOT_FOUND, types.CodeOf(err))
}

func TestCalculateCitationScoreEmptyID(t *testing.T) {
	s := New(graph.NewMockClient(), nil)
	_, err := s.CalculateCitationScore(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, types.SCORER_INVALID_INPUT, types.CodeOf(err))
}

func TestCalculateCitationScoreConfigurableMaxPersonas(t *testing.T) {
	client := newConnectedMock(t)
	queueScoreResults(client, 0, 0, 0, 0, 2)

	s := New(client, nil, WithMaxPersonas(5))
	breakdown, err := s.CalculateCitationScore(context.Background(), "asset-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, breakdown.CompletenessScore, 1e-9)
}

func TestUpdateAssetScorePersists(t *testing.T) {
	client := newConnectedMock(t)
	queueScoreResults(client, 2, 0.825, 0, 0, 0)

	s := New(client, nil)
	score, err := s.UpdateAssetScore(context.Background(), "asset-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.166, score, 1e-9)

	writes := client.GetCallsByMethod("Write")
	require.Len(t, writes, 1)
	assert.Equal(t, "asset-1", writes[0].Params["asset_id"])
	assert.InDelta(t, 0.166, writes[0].Params["score"].(float64), 1e-9)
}

func TestCalculateCitationScorePropagatesStoreError(t *testing.T) {
	client := newConnectedMock(t)
	client.SetQueryError(types.NewRetryableError(types.GRAPH_QUERY_TIMEOUT, "timeout"))

	s := New(client, nil)
	_, err := s.CalculateCitationScore(context.Background(), "asset-1")
	require.Error(t, err)
	assert.Equal(t, types.GRAPH_QUERY_TIMEOUT, types.CodeOf(err))
}

func TestLowQualityAssets(t *testing.T) {
	client := newConnectedMock(t)
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{
			{"asset_id": "a1", "type": "article", "current_score": 0.1, "mentions": int64(1), "claims": int64(0)},
			{"asset_id": "a2", "type": "video", "current_score": 0.3, "mentions": int64(5), "claims": int64(1)},
			{"asset_id": "a3", "type": "article", "current_score": 0.45, "mentions": int64(5), "claims": int64(4)},
		},
	})

	s := New(client, nil)
	assets, err := s.LowQualityAssets(context.Background(), 0.5)
	require.NoError(t, err)
	require.Len(t, assets, 3)

	assert.Equal(t, "Add more product/feature mentions", assets[0].Recommendation)
	assert.Equal(t, "Add more claims with evidence", assets[1].Recommendation)
	assert.Equal(t, "Improve evidence quality", assets[2].Recommendation)
}

func TestQualityRating(t *testing.T) {
	assert.Equal(t, "Excellent", QualityRating(0.85))
	assert.Equal(t, "Good", QualityRating(0.6))
	assert.Equal(t, "Fair", QualityRating(0.4))
	assert.Equal(t, "Needs Improvement", QualityRating(0.39))
}
