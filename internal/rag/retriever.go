package rag

import (
	"context"
	"strings"

	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/observability"
)

// Retriever fetches a bounded subgraph for a classified question. Each
// question type has its own query template, a 1-2 hop traversal from the
// matched entity nodes. Absence of a match is an empty Subgraph, never an
// error; only store failures propagate.
type Retriever struct {
	client graph.Client
	log    *observability.Logger
}

// NewRetriever creates a Retriever over the given graph client.
func NewRetriever(client graph.Client, log *observability.Logger) *Retriever {
	return &Retriever{client: client, log: log}
}

// Retrieve runs the template for the question type against the given entity
// terms. Terms are matched case-insensitively against node names and
// descriptions. With no terms the templates match nothing and an empty
// Subgraph is returned.
func (r *Retriever) Retrieve(ctx context.Context, qtype QuestionType, terms []string) (Subgraph, error) {
	lowered := lowerTerms(terms)
	if len(lowered) == 0 {
		return Subgraph{QuestionType: qtype}, nil
	}

	switch qtype {
	case QuestionFeature:
		return r.retrieveFeature(ctx, lowered)
	case QuestionPainPoint:
		return r.retrievePainPoint(ctx, lowered)
	case QuestionProduct:
		return r.retrieveProduct(ctx, lowered)
	case QuestionEvidence:
		return r.retrieveEvidence(ctx, lowered)
	case QuestionComparison:
		return r.retrieveComparison(ctx, lowered)
	default:
		return r.retrieveGeneral(ctx, lowered)
	}
}

const featureCypher = `
	MATCH (f:Feature)
	WHERE any(term IN $terms WHERE toLower(f.name) CONTAINS term
	                            OR toLower(f.description) CONTAINS term)
	OPTIONAL MATCH (pp:PainPoint)-[:RELIEVED_BY]->(f)
	OPTIONAL MATCH (f)-[:IMPLEMENTED_IN]->(product:Product)
	OPTIONAL MATCH (claim:Claim)-[:ABOUT]->(f)
	OPTIONAL MATCH (claim)-[:SUPPORTED_BY]->(evidence:Evidence)
	RETURN f.name AS name,
	       f.description AS description,
	       collect(DISTINCT pp.name) AS relieves,
	       collect(DISTINCT product.name) AS products,
	       collect(DISTINCT {claim: claim.text,
	                         source: evidence.source,
	                         url: evidence.url,
	                         credibility: evidence.credibility_score,
	                         quote: evidence.quote}) AS evidence
	ORDER BY name ASC
	LIMIT 1
`

func (r *Retriever) retrieveFeature(ctx context.Context, terms []string) (Subgraph, error) {
	record, err := r.queryOne(ctx, featureCypher, terms)
	if err != nil || record == nil {
		return Subgraph{QuestionType: QuestionFeature}, err
	}

	sg := Subgraph{
		QuestionType: QuestionFeature,
		Primary:      []map[string]any{primaryProps(record, "name", "description")},
		Groups: map[string][]any{
			"relieves": nameList(record["relieves"]),
			"products": nameList(record["products"]),
			"evidence": evidenceList(record["evidence"]),
		},
		Paths:     []string{"Feature"},
		MaxGroups: 3,
	}
	sg.Paths = appendPaths(sg, map[string]string{
		"relieves": "PainPoint",
		"products": "Product",
		"evidence": "Evidence",
	})
	return sg, nil
}

const painPointCypher = `
	MATCH (pp:PainPoint)
	WHERE any(term IN $terms WHERE toLower(pp.name) CONTAINS term
	                            OR toLower(pp.description) CONTAINS term)
	OPTIONAL MATCH (pp)-[:RELIEVED_BY]->(feature:Feature)
	OPTIONAL MATCH (feature)-[:IMPLEMENTED_IN]->(product:Product)
	OPTIONAL MATCH (persona:Persona)-[:OCCURS_IN]->(:Scenario)-[:SUFFERS]->(pp)
	OPTIONAL MATCH (claim:Claim)-[:ABOUT]->(pp)
	OPTIONAL MATCH (claim)-[:SUPPORTED_BY]->(evidence:Evidence)
	RETURN pp.name AS name,
	       pp.description AS description,
	       pp.severity AS severity,
	       pp.evidence_count AS reported_cases,
	       collect(DISTINCT {feature: feature.name, product: product.name}) AS solutions,
	       collect(DISTINCT persona.name) AS personas,
	       collect(DISTINCT {claim: claim.text,
	                         source: evidence.source,
	                         url: evidence.url,
	                         credibility: evidence.credibility_score,
	                         quote: evidence.quote}) AS evidence
	ORDER BY severity DESC, name ASC
	LIMIT 1
`

func (r *Retriever) retrievePainPoint(ctx context.Context, terms []string) (Subgraph, error) {
	record, err := r.queryOne(ctx, painPointCypher, terms)
	if err != nil || record == nil {
		return Subgraph{QuestionType: QuestionPainPoint}, err
	}

	sg := Subgraph{
		QuestionType: QuestionPainPoint,
		Primary:      []map[string]any{primaryProps(record, "name", "description", "severity", "reported_cases")},
		Groups: map[string][]any{
			"solutions": pairList(record["solutions"], "feature", "product"),
			"personas":  nameList(record["personas"]),
			"evidence":  evidenceList(record["evidence"]),
		},
		Paths:     []string{"PainPoint"},
		MaxGroups: 3,
	}
	sg.Paths = appendPaths(sg, map[string]string{
		"solutions": "Feature",
		"personas":  "Persona",
		"evidence":  "Evidence",
	})
	return sg, nil
}

const productCypher = `
	MATCH (p:Product)
	WHERE any(term IN $terms WHERE toLower(p.name) CONTAINS term)
	OPTIONAL MATCH (feature:Feature)-[:IMPLEMENTED_IN]->(p)
	OPTIONAL MATCH (pp:PainPoint)-[:RELIEVED_BY]->(feature)
	OPTIONAL MATCH (claim:Claim)-[:ABOUT]->(p)
	OPTIONAL MATCH (claim)-[:SUPPORTED_BY]->(evidence:Evidence)
	RETURN p.name AS name,
	       p.brand AS brand,
	       p.price_tier AS price_tier,
	       collect(DISTINCT feature.name) AS features,
	       collect(DISTINCT pp.name) AS relieves,
	       collect(DISTINCT {claim: claim.text,
	                         source: evidence.source,
	                         url: evidence.url,
	                         credibility: evidence.credibility_score,
	                         quote: evidence.quote}) AS evidence
	ORDER BY name ASC
	LIMIT 1
`

func (r *Retriever) retrieveProduct(ctx context.Context, terms []string) (Subgraph, error) {
	record, err := r.queryOne(ctx, productCypher, terms)
	if err != nil || record == nil {
		return Subgraph{QuestionType: QuestionProduct}, err
	}

	sg := Subgraph{
		QuestionType: QuestionProduct,
		Primary:      []map[string]any{primaryProps(record, "name", "brand", "price_tier")},
		Groups: map[string][]any{
			"features": nameList(record["features"]),
			"relieves": nameList(record["relieves"]),
			"evidence": evidenceList(record["evidence"]),
		},
		Paths:     []string{"Product"},
		MaxGroups: 3,
	}
	sg.Paths = appendPaths(sg, map[string]string{
		"features": "Feature",
		"relieves": "PainPoint",
		"evidence": "Evidence",
	})
	return sg, nil
}

const evidenceCypher = `
	MATCH (claim:Claim)
	WHERE any(term IN $terms WHERE toLower(claim.text) CONTAINS term)
	OPTIONAL MATCH (claim)-[:SUPPORTED_BY]->(evidence:Evidence)
	RETURN claim.text AS name,
	       claim.confidence AS confidence,
	       claim.verification_status AS verification_status,
	       collect(DISTINCT {claim: claim.text,
	                         source: evidence.source,
	                         url: evidence.url,
	                         credibility: evidence.credibility_score,
	                         quote: evidence.quote}) AS evidence
	ORDER BY confidence DESC, name ASC
	LIMIT 1
`

func (r *Retriever) retrieveEvidence(ctx context.Context, terms []string) (Subgraph, error) {
	record, err := r.queryOne(ctx, evidenceCypher, terms)
	if err != nil || record == nil {
		return Subgraph{QuestionType: QuestionEvidence}, err
	}

	sg := Subgraph{
		QuestionType: QuestionEvidence,
		Primary:      []map[string]any{primaryProps(record, "name", "confidence", "verification_status")},
		Groups: map[string][]any{
			"evidence": evidenceList(record["evidence"]),
		},
		Paths:     []string{"Claim"},
		MaxGroups: 1,
	}
	sg.Paths = appendPaths(sg, map[string]string{"evidence": "Evidence"})
	return sg, nil
}

const comparisonCypher = `
	MATCH (p1:Product)
	WHERE toLower(p1.name) CONTAINS $product_a
	MATCH (p2:Product)
	WHERE toLower(p2.name) CONTAINS $product_b AND p1 <> p2
	OPTIONAL MATCH (f1:Feature)-[:IMPLEMENTED_IN]->(p1)
	OPTIONAL MATCH (f2:Feature)-[:IMPLEMENTED_IN]->(p2)
	WITH p1, p2,
	     collect(DISTINCT f1.name) AS features_a,
	     collect(DISTINCT f2.name) AS features_b
	RETURN p1.name AS product_a,
	       p2.name AS product_b,
	       [f IN features_a WHERE NOT f IN features_b] AS unique_to_a,
	       [f IN features_b WHERE NOT f IN features_a] AS unique_to_b,
	       [f IN features_a WHERE f IN features_b] AS shared
	ORDER BY product_a ASC, product_b ASC
	LIMIT 1
`

// retrieveComparison needs two entity terms, one per compared product. With
// fewer the comparison cannot be anchored and an empty Subgraph is returned.
func (r *Retriever) retrieveComparison(ctx context.Context, terms []string) (Subgraph, error) {
	if len(terms) < 2 {
		return Subgraph{QuestionType: QuestionComparison}, nil
	}

	result, err := r.client.Query(ctx, comparisonCypher, map[string]any{
		"product_a": terms[0],
		"product_b": terms[1],
	})
	if err != nil {
		return Subgraph{QuestionType: QuestionComparison}, err
	}
	if len(result.Records) == 0 {
		return Subgraph{QuestionType: QuestionComparison}, nil
	}
	record := result.Records[0]

	sg := Subgraph{
		QuestionType: QuestionComparison,
		Primary: []map[string]any{
			{"name": record["product_a"]},
			{"name": record["product_b"]},
		},
		Groups: map[string][]any{
			"unique_to_a": nameList(record["unique_to_a"]),
			"unique_to_b": nameList(record["unique_to_b"]),
			"shared":      nameList(record["shared"]),
		},
		Paths:     []string{"Product", "Feature"},
		MaxGroups: 3,
	}
	return sg, nil
}

// retrieveGeneral falls back to the pain point template first, then the
// feature template, mirroring how unclassified questions are usually about
// either a problem or a capability.
func (r *Retriever) retrieveGeneral(ctx context.Context, terms []string) (Subgraph, error) {
	sg, err := r.retrievePainPoint(ctx, terms)
	if err != nil {
		return Subgraph{QuestionType: QuestionGeneral}, err
	}
	if !sg.Empty() {
		sg.QuestionType = QuestionGeneral
		return sg, nil
	}

	sg, err = r.retrieveFeature(ctx, terms)
	if err != nil {
		return Subgraph{QuestionType: QuestionGeneral}, err
	}
	sg.QuestionType = QuestionGeneral
	return sg, nil
}

// queryOne runs a single-record template and returns nil when nothing
// matched.
func (r *Retriever) queryOne(ctx context.Context, cypher string, terms []string) (map[string]any, error) {
	result, err := r.client.Query(ctx, cypher, map[string]any{"terms": terms})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, nil
	}
	return result.Records[0], nil
}

func lowerTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// primaryProps copies the named scalar fields from a record into a property
// map, skipping nils.
func primaryProps(record map[string]any, keys ...string) map[string]any {
	props := make(map[string]any, len(keys))
	for _, key := range keys {
		if v, ok := record[key]; ok && v != nil {
			props[key] = v
		}
	}
	return props
}

// nameList filters a collected list down to its non-empty strings.
func nameList(v any) []any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []any
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// pairList filters a collected list of maps down to entries where at least
// one of the named keys is a non-empty string. OPTIONAL MATCH misses come
// back as all-nil maps.
func pairList(v any, keys ...string) []any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []any
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range keys {
			if s, ok := m[key].(string); ok && s != "" {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// evidenceList filters a collected evidence list down to entries with a
// non-empty source.
func evidenceList(v any) []any {
	return pairList(v, "source")
}

// appendPaths extends the path with the label of each populated group, in
// the order given by the template.
func appendPaths(sg Subgraph, labels map[string]string) []string {
	paths := sg.Paths
	for _, role := range []string{"relieves", "solutions", "features", "products", "personas", "evidence"} {
		label, ok := labels[role]
		if !ok {
			continue
		}
		if len(sg.groupValues(role)) > 0 {
			paths = append(paths, label)
		}
	}
	return paths
}
