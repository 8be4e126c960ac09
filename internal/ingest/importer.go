// Package ingest loads keyword network exports into the graph store with
// idempotent batch upserts.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/observability"
	"github.com/keevingfu/infranodus-geo-system/internal/schema"
	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

// CoOccurrence is a weighted co-occurrence edge between two keywords.
type CoOccurrence struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// ImportStats summarizes a full import run.
type ImportStats struct {
	Keywords      int `json:"keywords"`
	Clusters      int `json:"clusters"`
	Memberships   int `json:"memberships"`
	CoOccurrences int `json:"co_occurrences"`
	Prompts       int `json:"prompts"`
}

// Importer writes keyword network data into the graph store. Every operation
// uses MERGE keyed on natural identifiers, so re-importing the same dataset
// updates properties instead of duplicating nodes or relationships.
type Importer struct {
	client graph.Client
	log    *observability.Logger
}

// NewImporter creates an Importer over the given graph client.
func NewImporter(client graph.Client, log *observability.Logger) *Importer {
	return &Importer{client: client, log: log}
}

const importKeywordsCypher = `
	UNWIND $keywords AS kw
	MERGE (k:Keyword {name: kw.name})
	SET k.frequency = kw.frequency,
	    k.betweenness = kw.betweenness,
	    k.degree = kw.degree,
	    k.community = kw.community,
	    k.last_updated = datetime()
	RETURN count(k) AS imported
`

// ImportKeywords upserts keywords keyed on name. Keywords with no community
// are assigned to "uncategorized".
func (im *Importer) ImportKeywords(ctx context.Context, keywords []schema.Keyword) (int, error) {
	if len(keywords) == 0 {
		return 0, nil
	}

	payload := make([]map[string]any, 0, len(keywords))
	for _, k := range keywords {
		if err := k.Validate(); err != nil {
			return 0, err
		}
		community := k.Community
		if community == "" {
			community = "uncategorized"
		}
		payload = append(payload, map[string]any{
			"name":        k.Name,
			"frequency":   k.Frequency,
			"betweenness": k.Betweenness,
			"degree":      k.Degree,
			"community":   community,
		})
	}

	count, err := im.write(ctx, importKeywordsCypher, map[string]any{"keywords": payload}, "imported")
	if err != nil {
		return 0, err
	}
	im.info(ctx, "keywords imported", "count", count)
	return count, nil
}

const importClustersCypher = `
	UNWIND $clusters AS cluster
	MERGE (tc:TopicCluster {name: cluster.name})
	SET tc.size = cluster.size,
	    tc.modularity = cluster.modularity,
	    tc.last_updated = datetime()
	RETURN count(tc) AS imported
`

// ImportTopicClusters upserts topic clusters keyed on name.
func (im *Importer) ImportTopicClusters(ctx context.Context, clusters []schema.TopicCluster) (int, error) {
	if len(clusters) == 0 {
		return 0, nil
	}

	payload := make([]map[string]any, 0, len(clusters))
	for _, tc := range clusters {
		if err := tc.Validate(); err != nil {
			return 0, err
		}
		payload = append(payload, map[string]any{
			"name":       tc.Name,
			"size":       tc.Size,
			"modularity": tc.Modularity,
		})
	}

	count, err := im.write(ctx, importClustersCypher, map[string]any{"clusters": payload}, "imported")
	if err != nil {
		return 0, err
	}
	im.info(ctx, "topic clusters imported", "count", count)
	return count, nil
}

const linkMembershipsCypher = `
	UNWIND $memberships AS m
	MATCH (k:Keyword {name: m.keyword})
	MATCH (tc:TopicCluster {name: m.cluster})
	MERGE (k)-[:BELONGS_TO]->(tc)
	RETURN count(*) AS linked
`

// LinkKeywordsToClusters creates BELONGS_TO relationships from each keyword
// to its community cluster. Keywords with no community are skipped; both
// endpoints must already exist.
func (im *Importer) LinkKeywordsToClusters(ctx context.Context, keywords []schema.Keyword) (int, error) {
	payload := make([]map[string]any, 0, len(keywords))
	for _, k := range keywords {
		if k.Community == "" {
			continue
		}
		payload = append(payload, map[string]any{
			"keyword": k.Name,
			"cluster": k.Community,
		})
	}
	if len(payload) == 0 {
		return 0, nil
	}

	count, err := im.write(ctx, linkMembershipsCypher, map[string]any{"memberships": payload}, "linked")
	if err != nil {
		return 0, err
	}
	im.info(ctx, "cluster memberships linked", "count", count)
	return count, nil
}

const importCoOccurrencesCypher = `
	UNWIND $edges AS edge
	MATCH (k1:Keyword {name: edge.source})
	MATCH (k2:Keyword {name: edge.target})
	MERGE (k1)-[r:CO_OCCURS_WITH]->(k2)
	SET r.weight = edge.weight,
	    r.last_updated = datetime()
	RETURN count(r) AS imported
`

// ImportCoOccurrences upserts weighted CO_OCCURS_WITH edges. Edges whose
// endpoints are missing from the store are silently dropped by the MATCH,
// matching the semantics of a partial export.
func (im *Importer) ImportCoOccurrences(ctx context.Context, edges []CoOccurrence) (int, error) {
	if len(edges) == 0 {
		return 0, nil
	}

	payload := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		if e.Source == "" || e.Target == "" {
			return 0, types.NewError(types.ANALYZER_INVALID_INPUT,
				"co-occurrence edge endpoints cannot be empty")
		}
		weight := e.Weight
		if weight == 0 {
			weight = 1.0
		}
		payload = append(payload, map[string]any{
			"source": e.Source,
			"target": e.Target,
			"weight": weight,
		})
	}

	count, err := im.write(ctx, importCoOccurrencesCypher, map[string]any{"edges": payload}, "imported")
	if err != nil {
		return 0, err
	}
	im.info(ctx, "co-occurrence edges imported", "count", count)
	return count, nil
}

const generatePromptsCypher = `
	UNWIND $prompts AS prompt
	MERGE (p:Prompt {text: prompt.text})
	SET p.type = prompt.type,
	    p.priority = prompt.priority,
	    p.gap_score = prompt.gap_score,
	    p.generated_at = datetime()
	WITH p, prompt
	MATCH (g:Gap {topic_a: prompt.topic_a, topic_b: prompt.topic_b})
	MERGE (g)-[:SUGGESTS]->(p)
	RETURN count(p) AS generated
`

// GeneratePromptsFromGaps turns each gap into an exploratory Prompt node
// linked to its Gap through a SUGGESTS relationship. Prompts inherit the
// gap's opportunity score; priority follows the input order capped at 10.
// Gaps must already be persisted.
func (im *Importer) GeneratePromptsFromGaps(ctx context.Context, gaps []schema.Gap) (int, error) {
	if len(gaps) == 0 {
		return 0, nil
	}

	payload := make([]map[string]any, 0, len(gaps))
	for i, g := range gaps {
		if err := g.Validate(); err != nil {
			return 0, err
		}
		priority := i + 1
		if priority > 10 {
			priority = 10
		}
		payload = append(payload, map[string]any{
			"text":      fmt.Sprintf("How are %s and %s related?", g.TopicA, g.TopicB),
			"type":      "exploratory",
			"priority":  priority,
			"gap_score": g.OpportunityScore,
			"topic_a":   g.TopicA,
			"topic_b":   g.TopicB,
		})
	}

	count, err := im.write(ctx, generatePromptsCypher, map[string]any{"prompts": payload}, "generated")
	if err != nil {
		return 0, err
	}
	im.info(ctx, "prompts generated from gaps", "count", count)
	return count, nil
}

// ImportDataset runs the full import sequence: keywords, clusters,
// memberships, then co-occurrence edges. Gap analysis and prompt generation
// are separate steps driven by the analyzer.
func (im *Importer) ImportDataset(ctx context.Context, keywords []schema.Keyword, clusters []schema.TopicCluster, edges []CoOccurrence) (ImportStats, error) {
	var stats ImportStats
	var err error

	started := time.Now()

	if stats.Keywords, err = im.ImportKeywords(ctx, keywords); err != nil {
		return stats, err
	}
	if stats.Clusters, err = im.ImportTopicClusters(ctx, clusters); err != nil {
		return stats, err
	}
	if stats.Memberships, err = im.LinkKeywordsToClusters(ctx, keywords); err != nil {
		return stats, err
	}
	if stats.CoOccurrences, err = im.ImportCoOccurrences(ctx, edges); err != nil {
		return stats, err
	}

	im.info(ctx, "dataset import complete",
		"keywords", stats.Keywords,
		"clusters", stats.Clusters,
		"memberships", stats.Memberships,
		"co_occurrences", stats.CoOccurrences,
		"duration_ms", time.Since(started).Milliseconds())

	return stats, nil
}

func (im *Importer) write(ctx context.Context, cypher string, params map[string]any, field string) (int, error) {
	result, err := im.client.Write(ctx, cypher, params)
	if err != nil {
		return 0, types.WrapError(types.GRAPH_WRITE_FAILED, "import write failed", err)
	}
	if len(result.Records) == 0 {
		return 0, nil
	}
	n, _ := graph.AsInt64(result.Records[0][field])
	return int(n), nil
}

func (im *Importer) info(ctx context.Context, msg string, args ...any) {
	if im.log != nil {
		im.log.Info(ctx, msg, args...)
	}
}
