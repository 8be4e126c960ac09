// Package analyzer detects structure holes between topic clusters and ranks
// them as content opportunities.
package analyzer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/observability"
	"github.com/keevingfu/infranodus-geo-system/internal/schema"
	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

// Analyzer computes structure holes and keyword-level gaps from the
// co-occurrence network. All operations are read-only; PersistGaps is the
// single explicit write.
type Analyzer struct {
	client graph.Client
	log    *observability.Logger

	// representativeKeywords is how many member keywords each gap carries
	// per side, ordered by frequency descending.
	representativeKeywords int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRepresentativeKeywords overrides the number of member keywords carried
// per gap side (default 5).
func WithRepresentativeKeywords(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.representativeKeywords = n
		}
	}
}

// New creates an Analyzer using the given graph client.
func New(client graph.Client, log *observability.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:                 client,
		log:                    log,
		representativeKeywords: 5,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// pairStatsCypher returns, for every unordered cluster pair, the cluster
// sizes and the number of distinct cross-cluster keyword pairs connected by
// a CO_OCCURS_WITH edge. Weighted multi-edges between the same keyword pair
// count once. The CASE guard is load-bearing: an unmatched OPTIONAL MATCH
// yields one row with k1/k2 null, and a bare [null, null] list is itself
// non-null, so counting the list directly would report 1 connection for a
// fully disconnected pair.
const pairStatsCypher = `
	MATCH (tc1:TopicCluster), (tc2:TopicCluster)
	WHERE tc1.name < tc2.name
	OPTIONAL MATCH (k1:Keyword)-[:BELONGS_TO]->(tc1),
	               (k2:Keyword)-[:BELONGS_TO]->(tc2),
	               (k1)-[:CO_OCCURS_WITH]-(k2)
	WITH tc1, tc2,
	     count(DISTINCT CASE WHEN k1 IS NOT NULL THEN [k1.name, k2.name] END) AS connections
	RETURN tc1.name AS cluster_a,
	       tc2.name AS cluster_b,
	       tc1.size AS size_a,
	       tc2.size AS size_b,
	       connections
	ORDER BY cluster_a, cluster_b
`

// representativeKeywordsCypher collects the top member keywords for each
// named cluster, ordered by frequency descending with name as tiebreak so
// results are stable across runs.
const representativeKeywordsCypher = `
	MATCH (k:Keyword)-[:BELONGS_TO]->(tc:TopicCluster)
	WHERE tc.name IN $names
	WITH tc, k
	ORDER BY k.frequency DESC, k.name ASC
	WITH tc.name AS cluster, collect(k.name)[0..$limit] AS keywords
	RETURN cluster, keywords
`

// FindStructureHoles identifies weakly-connected topic cluster pairs.
//
// For each unordered pair the opportunity score is
// 1 - connections/(size_a+size_b); a pair with no cross-cluster
// co-occurrence scores 1.0 (maximum gap). Pairs whose combined size is zero
// are excluded. Results are filtered by minScore, sorted by score descending
// with cluster-name ascending as tiebreak, and truncated to limit.
//
// Read-only: persisting the result as Gap nodes is a separate explicit step
// (PersistGaps).
func (a *Analyzer) FindStructureHoles(ctx context.Context, minScore float64, limit int) ([]schema.Gap, error) {
	if minScore < 0 || minScore > 1 {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT,
			fmt.Sprintf("min opportunity score must be in [0,1], got %f", minScore))
	}
	if limit <= 0 {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT,
			fmt.Sprintf("limit must be positive, got %d", limit))
	}

	result, err := a.client.Query(ctx, pairStatsCypher, map[string]any{})
	if err != nil {
		return nil, err
	}

	gaps := make([]schema.Gap, 0, len(result.Records))
	for _, record := range result.Records {
		clusterA, _ := record["cluster_a"].(string)
		clusterB, _ := record["cluster_b"].(string)
		sizeA, _ := graph.AsInt64(record["size_a"])
		sizeB, _ := graph.AsInt64(record["size_b"])
		connections, _ := graph.AsInt64(record["connections"])

		combined := sizeA + sizeB
		if combined == 0 {
			// Empty pair carries no signal; skip rather than divide by zero.
			continue
		}

		score := 1.0 - float64(connections)/float64(combined)
		if score < 0 {
			score = 0
		}
		if score < minScore {
			continue
		}

		gaps = append(gaps, schema.Gap{
			TopicA:           clusterA,
			TopicB:           clusterB,
			OpportunityScore: score,
			DiscoveredAt:     time.Now(),
		})
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].OpportunityScore != gaps[j].OpportunityScore {
			return gaps[i].OpportunityScore > gaps[j].OpportunityScore
		}
		if gaps[i].TopicA != gaps[j].TopicA {
			return gaps[i].TopicA < gaps[j].TopicA
		}
		return gaps[i].TopicB < gaps[j].TopicB
	})

	if len(gaps) > limit {
		gaps = gaps[:limit]
	}

	if err := a.attachRepresentativeKeywords(ctx, gaps); err != nil {
		return nil, err
	}

	if a.log != nil {
		a.log.Info(ctx, "structure hole analysis complete",
			"pairs_considered", len(result.Records),
			"gaps_found", len(gaps),
			"min_score", minScore)
	}

	return gaps, nil
}

// attachRepresentativeKeywords fills KeywordsA/KeywordsB for each gap with
// the top member keywords of its clusters.
func (a *Analyzer) attachRepresentativeKeywords(ctx context.Context, gaps []schema.Gap) error {
	if len(gaps) == 0 {
		return nil
	}

	nameSet := make(map[string]struct{})
	names := make([]string, 0, len(gaps)*2)
	for _, g := range gaps {
		for _, name := range []string{g.TopicA, g.TopicB} {
			if _, seen := nameSet[name]; !seen {
				nameSet[name] = struct{}{}
				names = append(names, name)
			}
		}
	}

	result, err := a.client.Query(ctx, representativeKeywordsCypher, map[string]any{
		"names": names,
		"limit": a.representativeKeywords,
	})
	if err != nil {
		return err
	}

	byCluster := make(map[string][]string, len(result.Records))
	for _, record := range result.Records {
		cluster, _ := record["cluster"].(string)
		byCluster[cluster] = graph.AsStringSlice(record["keywords"])
	}

	for i := range gaps {
		gaps[i].KeywordsA = byCluster[gaps[i].TopicA]
		gaps[i].KeywordsB = byCluster[gaps[i].TopicB]
	}

	return nil
}

// persistGapsCypher upserts gaps keyed on the (topic_a, topic_b) pair so
// re-running an analysis updates scores instead of duplicating nodes.
const persistGapsCypher = `
	UNWIND $gaps AS gap
	MERGE (g:Gap {topic_a: gap.topic_a, topic_b: gap.topic_b})
	SET g.opportunity_score = gap.opportunity_score,
	    g.keywords_a = gap.keywords_a,
	    g.keywords_b = gap.keywords_b,
	    g.discovered_at = datetime($discovered_at)
	RETURN count(g) AS persisted
`

// PersistGaps writes the given gaps to the store as Gap nodes.
// The upsert is idempotent and safe under at-most-once retry.
func (a *Analyzer) PersistGaps(ctx context.Context, gaps []schema.Gap) (int, error) {
	if len(gaps) == 0 {
		return 0, nil
	}

	payload := make([]map[string]any, 0, len(gaps))
	for _, g := range gaps {
		if err := g.Validate(); err != nil {
			return 0, err
		}
		payload = append(payload, map[string]any{
			"topic_a":           g.TopicA,
			"topic_b":           g.TopicB,
			"opportunity_score": g.OpportunityScore,
			"keywords_a":        g.KeywordsA,
			"keywords_b":        g.KeywordsB,
		})
	}

	result, err := a.client.Write(ctx, persistGapsCypher, map[string]any{
		"gaps":          payload,
		"discovered_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return 0, types.WrapError(types.GRAPH_WRITE_FAILED, "failed to persist gaps", err)
	}

	persisted := 0
	if len(result.Records) > 0 {
		if n, ok := graph.AsInt64(result.Records[0]["persisted"]); ok {
			persisted = int(n)
		}
	}

	if a.log != nil {
		a.log.Info(ctx, "gaps persisted", "count", persisted)
	}

	return persisted, nil
}

// KeywordGap is a high-importance keyword pair from different communities
// with weak direct co-occurrence.
type KeywordGap struct {
	KeywordA         string  `json:"keyword_a"`
	KeywordB         string  `json:"keyword_b"`
	CommunityA       string  `json:"community_a"`
	CommunityB       string  `json:"community_b"`
	OpportunityScore float64 `json:"opportunity_score"`
}

const keywordGapsCypher = `
	MATCH (k1:Keyword), (k2:Keyword)
	WHERE k1.name < k2.name
	  AND k1.community <> k2.community
	  AND k1.betweenness > 0.5
	  AND k2.betweenness > 0.5
	OPTIONAL MATCH (k1)-[co:CO_OCCURS_WITH]-(k2)
	WITH k1, k2,
	     (k1.betweenness + k2.betweenness) / 2.0 AS avg_importance,
	     coalesce(co.weight, 0.0) AS connection_strength
	WITH k1.name AS keyword_a,
	     k2.name AS keyword_b,
	     k1.community AS community_a,
	     k2.community AS community_b,
	     avg_importance * (1.0 - connection_strength) AS opportunity_score
	WHERE opportunity_score > 0.4
	RETURN keyword_a, keyword_b, community_a, community_b, opportunity_score
	ORDER BY opportunity_score DESC, keyword_a, keyword_b
	LIMIT $limit
`

// FindKeywordGaps finds keyword pairs with high individual betweenness in
// different communities but little or no direct co-occurrence.
func (a *Analyzer) FindKeywordGaps(ctx context.Context, limit int) ([]KeywordGap, error) {
	if limit <= 0 {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT,
			fmt.Sprintf("limit must be positive, got %d", limit))
	}

	result, err := a.client.Query(ctx, keywordGapsCypher, map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}

	gaps := make([]KeywordGap, 0, len(result.Records))
	for _, record := range result.Records {
		score, _ := graph.AsFloat64(record["opportunity_score"])
		kg := KeywordGap{
			OpportunityScore: score,
		}
		kg.KeywordA, _ = record["keyword_a"].(string)
		kg.KeywordB, _ = record["keyword_b"].(string)
		kg.CommunityA, _ = record["community_a"].(string)
		kg.CommunityB, _ = record["community_b"].(string)
		gaps = append(gaps, kg)
	}

	return gaps, nil
}

// BridgingKeyword is a keyword that co-occurs with members of two clusters
// and can seed cross-topic content.
type BridgingKeyword struct {
	Keyword          string  `json:"keyword"`
	Community        string  `json:"community"`
	TotalConnections int     `json:"total_connections"`
	Betweenness      float64 `json:"betweenness"`
	BridgeScore      float64 `json:"bridge_score"`
}

const bridgingKeywordsCypher = `
	MATCH (tc1:TopicCluster {name: $cluster_a})<-[:BELONGS_TO]-(k1:Keyword)
	MATCH (tc2:TopicCluster {name: $cluster_b})<-[:BELONGS_TO]-(k2:Keyword)
	MATCH (k1)-[:CO_OCCURS_WITH]-(bridge:Keyword)-[:CO_OCCURS_WITH]-(k2)
	WITH bridge,
	     count(DISTINCT k1) + count(DISTINCT k2) AS total_connections
	WITH bridge.name AS keyword,
	     bridge.community AS community,
	     total_connections,
	     bridge.betweenness AS betweenness,
	     total_connections * bridge.betweenness AS bridge_score
	RETURN keyword, community, total_connections, betweenness, bridge_score
	ORDER BY bridge_score DESC, keyword
	LIMIT $limit
`

// FindBridgingKeywords finds keywords that connect two topic clusters
// through co-occurrence, ranked by connection count times betweenness.
func (a *Analyzer) FindBridgingKeywords(ctx context.Context, clusterA, clusterB string, limit int) ([]BridgingKeyword, error) {
	if clusterA == "" || clusterB == "" {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT, "cluster names cannot be empty")
	}
	if clusterA == clusterB {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT, "cluster names must differ")
	}
	if limit <= 0 {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT,
			fmt.Sprintf("limit must be positive, got %d", limit))
	}

	result, err := a.client.Query(ctx, bridgingKeywordsCypher, map[string]any{
		"cluster_a": clusterA,
		"cluster_b": clusterB,
		"limit":     limit,
	})
	if err != nil {
		return nil, err
	}

	bridges := make([]BridgingKeyword, 0, len(result.Records))
	for _, record := range result.Records {
		var bk BridgingKeyword
		bk.Keyword, _ = record["keyword"].(string)
		bk.Community, _ = record["community"].(string)
		if n, ok := graph.AsInt64(record["total_connections"]); ok {
			bk.TotalConnections = int(n)
		}
		bk.Betweenness, _ = graph.AsFloat64(record["betweenness"])
		bk.BridgeScore, _ = graph.AsFloat64(record["bridge_score"])
		bridges = append(bridges, bk)
	}

	return bridges, nil
}
