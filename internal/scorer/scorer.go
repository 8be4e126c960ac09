// Package scorer computes citation-readiness scores for content assets from
// graph-derived signals.
package scorer

import (
	"context"
	"fmt"

	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/observability"
	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

// Fixed design weights. The trailing constant stands in for freshness,
// which is not modeled on assets.
const (
	weightEvidence     = 0.4
	weightConnectivity = 0.3
	weightCompleteness = 0.2
	freshnessFloor     = 0.1
)

// ScoreBreakdown carries the total citation-ready score and its weighted
// components. All values are in [0,1].
type ScoreBreakdown struct {
	AssetID           string  `json:"asset_id"`
	Total             float64 `json:"total"`
	EvidenceScore     float64 `json:"evidence_score"`
	ConnectivityScore float64 `json:"connectivity_score"`
	CompletenessScore float64 `json:"completeness_score"`
	EvidenceCount     int     `json:"evidence_count"`
	KeywordCoverage   int     `json:"keyword_coverage"`
	PersonaCoverage   int     `json:"persona_coverage"`
}

// Scorer computes and persists citation-ready scores.
type Scorer struct {
	client graph.Client
	log    *observability.Logger

	// maxPersonas is the persona count at which completeness saturates.
	maxPersonas int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithMaxPersonas overrides the persona saturation point (default 3).
func WithMaxPersonas(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.maxPersonas = n
		}
	}
}

// New creates a Scorer over the given graph client.
func New(client graph.Client, log *observability.Logger, opts ...Option) *Scorer {
	s := &Scorer{client: client, log: log, maxPersonas: 3}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// evidenceStatsCypher resolves the asset and traces its evidence chain:
// asset to brief to prompt to pain point, then the claims about that pain
// point and their supporting evidence.
const evidenceStatsCypher = `
	MATCH (a:Asset {id: $asset_id})
	OPTIONAL MATCH (a)-[:DERIVES_FROM]->(:Brief)
	               -[:GENERATED_FROM]->(:Prompt)
	               -[:ADDRESSES]->(:PainPoint)
	               <-[:ABOUT]-(claim:Claim)
	               -[:SUPPORTED_BY]->(evidence:Evidence)
	RETURN a.id AS asset_id,
	       count(DISTINCT evidence) AS evidence_count,
	       avg(evidence.credibility_score) AS avg_credibility
`

// keywordStatsCypher counts the keywords reachable through the asset's
// covered topic clusters.
const keywordStatsCypher = `
	MATCH (a:Asset {id: $asset_id})
	OPTIONAL MATCH (a)-[:DERIVES_FROM]->(:Brief)
	               -[:COVERS]->(:TopicCluster)
	               <-[:BELONGS_TO]-(k:Keyword)
	RETURN count(DISTINCT k) AS keyword_coverage,
	       avg(k.betweenness) AS avg_betweenness
`

// personaStatsCypher counts the personas targeted by the prompts the asset
// derives from.
const personaStatsCypher = `
	MATCH (a:Asset {id: $asset_id})
	OPTIONAL MATCH (a)-[:DERIVES_FROM]->(:Brief)
	               -[:GENERATED_FROM]->(:Prompt)
	               -[:TARGETS]->(p:Persona)
	RETURN count(DISTINCT p) AS persona_coverage
`

// CalculateCitationScore computes the citation-ready score for one asset:
//
//	score = 0.4*evidence + 0.3*connectivity + 0.2*completeness + 0.1
//
// where evidence = evidence_count * avg_credibility / 10, connectivity =
// keyword_coverage * avg_betweenness / 10, and completeness =
// persona_coverage / maxPersonas. Each sub-score is clamped to [0,1] before
// weighting and the total is clamped again, so the result stays in [0,1]
// for any input. Missing sub-components contribute zero to their term.
func (s *Scorer) CalculateCitationScore(ctx context.Context, assetID string) (ScoreBreakdown, error) {
	if assetID == "" {
		return ScoreBreakdown{}, types.NewError(types.SCORER_INVALID_INPUT, "asset id cannot be empty")
	}

	params := map[string]any{"asset_id": assetID}

	evidenceResult, err := s.client.Query(ctx, evidenceStatsCypher, params)
	if err != nil {
		return ScoreBreakdown{}, err
	}
	if len(evidenceResult.Records) == 0 {
		return ScoreBreakdown{}, types.NewError(types.ASSET_NOT_FOUND,
			fmt.Sprintf("asset not found: %s", assetID))
	}
	evidenceRecord := evidenceResult.Records[0]
	evidenceCount, _ := graph.AsInt64(evidenceRecord["evidence_count"])
	avgCredibility, _ := graph.AsFloat64(evidenceRecord["avg_credibility"])

	keywordResult, err := s.client.Query(ctx, keywordStatsCypher, params)
	if err != nil {
		return ScoreBreakdown{}, err
	}
	var keywordCoverage int64
	var avgBetweenness float64
	if len(keywordResult.Records) > 0 {
		keywordCoverage, _ = graph.AsInt64(keywordResult.Records[0]["keyword_coverage"])
		avgBetweenness, _ = graph.AsFloat64(keywordResult.Records[0]["avg_betweenness"])
	}

	personaResult, err := s.client.Query(ctx, personaStatsCypher, params)
	if err != nil {
		return ScoreBreakdown{}, err
	}
	var personaCoverage int64
	if len(personaResult.Records) > 0 {
		personaCoverage, _ = graph.AsInt64(personaResult.Records[0]["persona_coverage"])
	}

	breakdown := ScoreBreakdown{
		AssetID:           assetID,
		EvidenceScore:     clamp01(float64(evidenceCount) * avgCredibility / 10.0),
		ConnectivityScore: clamp01(float64(keywordCoverage) * avgBetweenness / 10.0),
		CompletenessScore: clamp01(float64(personaCoverage) / float64(s.maxPersonas)),
		EvidenceCount:     int(evidenceCount),
		KeywordCoverage:   int(keywordCoverage),
		PersonaCoverage:   int(personaCoverage),
	}
	breakdown.Total = clamp01(weightEvidence*breakdown.EvidenceScore +
		weightConnectivity*breakdown.ConnectivityScore +
		weightCompleteness*breakdown.CompletenessScore +
		freshnessFloor)

	if s.log != nil {
		s.log.Debug(ctx, "citation score calculated",
			"asset_id", assetID,
			"total", breakdown.Total,
			"evidence", breakdown.EvidenceScore,
			"connectivity", breakdown.ConnectivityScore,
			"completeness", breakdown.CompletenessScore)
	}

	return breakdown, nil
}

const updateScoreCypher = `
	MATCH (a:Asset {id: $asset_id})
	SET a.citation_ready_score = $score,
	    a.scored_at = datetime()
	RETURN a.id AS asset_id
`

// UpdateAssetScore recomputes the asset's citation-ready score and persists
// it on the Asset node. Returns the new score.
func (s *Scorer) UpdateAssetScore(ctx context.Context, assetID string) (float64, error) {
	breakdown, err := s.CalculateCitationScore(ctx, assetID)
	if err != nil {
		return 0, err
	}

	_, err = s.client.Write(ctx, updateScoreCypher, map[string]any{
		"asset_id": assetID,
		"score":    breakdown.Total,
	})
	if err != nil {
		return 0, types.WrapError(types.GRAPH_WRITE_FAILED, "failed to persist citation score", err)
	}

	if s.log != nil {
		s.log.Info(ctx, "asset score updated", "asset_id", assetID, "score", breakdown.Total)
	}

	return breakdown.Total, nil
}

// QualityRating maps a score to a coarse label for reporting.
func QualityRating(score float64) string {
	switch {
	case score >= 0.8:
		return "Excellent"
	case score >= 0.6:
		return "Good"
	case score >= 0.4:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// AssetQuality is a low-scoring asset with an improvement recommendation.
type AssetQuality struct {
	AssetID        string  `json:"asset_id"`
	Type           string  `json:"type"`
	CurrentScore   float64 `json:"current_score"`
	Mentions       int     `json:"mentions"`
	Claims         int     `json:"claims"`
	Recommendation string  `json:"recommendation"`
}

const lowQualityAssetsCypher = `
	MATCH (a:Asset)
	WHERE a.citation_ready_score < $max_score
	   OR a.citation_ready_score IS NULL
	OPTIONAL MATCH (a)-[:MENTIONS]->(mentioned)
	WITH a, count(DISTINCT mentioned) AS mentions
	OPTIONAL MATCH (a)-[:DERIVES_FROM]->(:Brief)
	               -[:GENERATED_FROM]->(:Prompt)
	               -[:ADDRESSES]->(:PainPoint)
	               <-[:ABOUT]-(claim:Claim)
	WITH a, mentions, count(DISTINCT claim) AS claims
	RETURN a.id AS asset_id,
	       a.type AS type,
	       coalesce(a.citation_ready_score, 0.0) AS current_score,
	       mentions,
	       claims
	ORDER BY current_score ASC, asset_id ASC
`

// LowQualityAssets lists assets scoring below maxScore (or never scored),
// worst first, each with a recommendation diagnosing the weakest signal.
func (s *Scorer) LowQualityAssets(ctx context.Context, maxScore float64) ([]AssetQuality, error) {
	if maxScore < 0 || maxScore > 1 {
		return nil, types.NewError(types.SCORER_INVALID_INPUT,
			fmt.Sprintf("max score must be in [0,1], got %f", maxScore))
	}

	result, err := s.client.Query(ctx, lowQualityAssetsCypher, map[string]any{"max_score": maxScore})
	if err != nil {
		return nil, err
	}

	assets := make([]AssetQuality, 0, len(result.Records))
	for _, record := range result.Records {
		aq := AssetQuality{
			AssetID: graph.AsString(record["asset_id"]),
			Type:    graph.AsString(record["type"]),
		}
		aq.CurrentScore, _ = graph.AsFloat64(record["current_score"])
		if n, ok := graph.AsInt64(record["mentions"]); ok {
			aq.Mentions = int(n)
		}
		if n, ok := graph.AsInt64(record["claims"]); ok {
			aq.Claims = int(n)
		}
		aq.Recommendation = recommend(aq.Mentions, aq.Claims)
		assets = append(assets, aq)
	}

	return assets, nil
}

func recommend(mentions, claims int) string {
	switch {
	case mentions < 3:
		return "Add more product/feature mentions"
	case claims < 2:
		return "Add more claims with evidence"
	default:
		return "Improve evidence quality"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
