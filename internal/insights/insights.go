// Package insights exposes higher-level read queries over the knowledge
// graph: audience coverage, claim validation, and prompt prioritization.
package insights

import (
	"context"
	"fmt"

	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/observability"
	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

// Service runs insight queries. All operations are read-only.
type Service struct {
	client graph.Client
	log    *observability.Logger
}

// NewService creates a Service over the given graph client.
func NewService(client graph.Client, log *observability.Logger) *Service {
	return &Service{client: client, log: log}
}

// MatrixEntry is one persona-scenario-painpoint combination with the
// features and products that address it.
type MatrixEntry struct {
	Persona             string   `json:"persona"`
	Scenario            string   `json:"scenario"`
	Frequency           int      `json:"frequency"`
	PainPoint           string   `json:"pain_point"`
	Severity            int      `json:"severity"`
	ReportedCount       int      `json:"reported_count"`
	ValidatedEvidence   int      `json:"validated_evidence"`
	RelievingFeatures   []string `json:"relieving_features"`
	RecommendedProducts []string `json:"recommended_products"`
}

const matrixCypher = `
	MATCH (persona:Persona)-[:OCCURS_IN]->(scenario:Scenario)
	      -[:SUFFERS]->(pp:PainPoint)
	OPTIONAL MATCH (pp)-[:RELIEVED_BY]->(feature:Feature)
	OPTIONAL MATCH (feature)-[:IMPLEMENTED_IN]->(product:Product)
	OPTIONAL MATCH (claim:Claim)-[:ABOUT]->(pp)
	OPTIONAL MATCH (claim)-[:SUPPORTED_BY]->(evidence:Evidence)
	WITH persona, scenario, pp,
	     collect(DISTINCT feature.name) AS features,
	     collect(DISTINCT product.name) AS products,
	     count(DISTINCT evidence) AS validated_evidence
	RETURN persona.name AS persona,
	       scenario.name AS scenario,
	       scenario.frequency AS frequency,
	       pp.name AS pain_point,
	       pp.severity AS severity,
	       pp.evidence_count AS reported_count,
	       validated_evidence,
	       features,
	       products
	ORDER BY persona ASC, severity DESC, frequency DESC
`

// PersonaScenarioMatrix builds the persona by scenario by pain point matrix
// showing which problems each audience faces and what addresses them.
func (s *Service) PersonaScenarioMatrix(ctx context.Context) ([]MatrixEntry, error) {
	result, err := s.client.Query(ctx, matrixCypher, map[string]any{})
	if err != nil {
		return nil, err
	}

	entries := make([]MatrixEntry, 0, len(result.Records))
	for _, record := range result.Records {
		entry := MatrixEntry{
			Persona:             graph.AsString(record["persona"]),
			Scenario:            graph.AsString(record["scenario"]),
			PainPoint:           graph.AsString(record["pain_point"]),
			RelievingFeatures:   graph.AsStringSlice(record["features"]),
			RecommendedProducts: graph.AsStringSlice(record["products"]),
		}
		entry.Frequency = asInt(record["frequency"])
		entry.Severity = asInt(record["severity"])
		entry.ReportedCount = asInt(record["reported_count"])
		entry.ValidatedEvidence = asInt(record["validated_evidence"])
		entries = append(entries, entry)
	}

	if s.log != nil {
		s.log.Debug(ctx, "persona matrix built", "entries", len(entries))
	}
	return entries, nil
}

// UnderservedPersona is a persona facing a severe pain point with fewer
// than two relieving features.
type UnderservedPersona struct {
	Persona       string `json:"persona"`
	Description   string `json:"description"`
	PainPoint     string `json:"pain_point"`
	Severity      int    `json:"severity"`
	EvidenceCount int    `json:"evidence_count"`
	FeatureCount  int    `json:"feature_count"`
	ProductCount  int    `json:"product_count"`
}

const underservedCypher = `
	MATCH (persona:Persona)-[:OCCURS_IN]->(:Scenario)
	      -[:SUFFERS]->(pp:PainPoint)
	WHERE pp.severity >= $min_severity
	OPTIONAL MATCH (pp)-[:RELIEVED_BY]->(feature:Feature)
	OPTIONAL MATCH (feature)-[:IMPLEMENTED_IN]->(product:Product)
	WITH persona, pp,
	     count(DISTINCT feature) AS feature_count,
	     count(DISTINCT product) AS product_count
	WHERE feature_count < 2
	RETURN persona.name AS persona,
	       persona.description AS description,
	       pp.name AS pain_point,
	       pp.severity AS severity,
	       pp.evidence_count AS evidence_count,
	       feature_count,
	       product_count
	ORDER BY severity DESC, evidence_count DESC, persona ASC
`

// UnderservedPersonas finds personas whose severe pain points lack
// solutions. minSeverity is inclusive on the 0-10 scale.
func (s *Service) UnderservedPersonas(ctx context.Context, minSeverity int) ([]UnderservedPersona, error) {
	if minSeverity < 0 || minSeverity > 10 {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT,
			fmt.Sprintf("min severity must be in [0,10], got %d", minSeverity))
	}

	result, err := s.client.Query(ctx, underservedCypher, map[string]any{"min_severity": minSeverity})
	if err != nil {
		return nil, err
	}

	personas := make([]UnderservedPersona, 0, len(result.Records))
	for _, record := range result.Records {
		personas = append(personas, UnderservedPersona{
			Persona:       graph.AsString(record["persona"]),
			Description:   graph.AsString(record["description"]),
			PainPoint:     graph.AsString(record["pain_point"]),
			Severity:      asInt(record["severity"]),
			EvidenceCount: asInt(record["evidence_count"]),
			FeatureCount:  asInt(record["feature_count"]),
			ProductCount:  asInt(record["product_count"]),
		})
	}
	return personas, nil
}

// DifferentiationOpportunity is a pain point one brand solves while fewer
// than two competitor products address it.
type DifferentiationOpportunity struct {
	PainPoint           string   `json:"pain_point"`
	Severity            int      `json:"severity"`
	EvidenceCount       int      `json:"evidence_count"`
	BrandSolutions      []string `json:"brand_solutions"`
	CompetitorSolutions []string `json:"competitor_solutions"`
	CompetitorCount     int      `json:"competitor_count"`
}

// differentiationCypher guards the competitor count with a CASE so products
// whose OPTIONAL MATCH found no relieving feature are not counted as
// addressing the pain point.
const differentiationCypher = `
	MATCH (pp:PainPoint)-[:RELIEVED_BY]->(feature:Feature)
	      -[:IMPLEMENTED_IN]->(:Product {brand: $brand})
	WITH pp, collect(DISTINCT feature.name) AS brand_solutions
	MATCH (comp:Product)
	WHERE comp.brand <> $brand
	OPTIONAL MATCH (pp)-[:RELIEVED_BY]->(comp_feature:Feature)
	               -[:IMPLEMENTED_IN]->(comp)
	WITH pp, brand_solutions,
	     collect(DISTINCT comp_feature.name) AS competitor_solutions,
	     count(DISTINCT CASE WHEN comp_feature IS NOT NULL THEN comp END) AS competitor_count
	WHERE competitor_count < 2
	RETURN pp.name AS pain_point,
	       pp.severity AS severity,
	       pp.evidence_count AS evidence_count,
	       brand_solutions,
	       competitor_solutions,
	       competitor_count
	ORDER BY severity DESC, evidence_count DESC, pain_point ASC
`

// DifferentiationOpportunities finds pain points the given brand relieves
// while at most one competitor product does.
func (s *Service) DifferentiationOpportunities(ctx context.Context, brand string) ([]DifferentiationOpportunity, error) {
	if brand == "" {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT, "brand cannot be empty")
	}

	result, err := s.client.Query(ctx, differentiationCypher, map[string]any{"brand": brand})
	if err != nil {
		return nil, err
	}

	opportunities := make([]DifferentiationOpportunity, 0, len(result.Records))
	for _, record := range result.Records {
		opportunities = append(opportunities, DifferentiationOpportunity{
			PainPoint:           graph.AsString(record["pain_point"]),
			Severity:            asInt(record["severity"]),
			EvidenceCount:       asInt(record["evidence_count"]),
			BrandSolutions:      graph.AsStringSlice(record["brand_solutions"]),
			CompetitorSolutions: graph.AsStringSlice(record["competitor_solutions"]),
			CompetitorCount:     asInt(record["competitor_count"]),
		})
	}
	return opportunities, nil
}

// VerifiedClaim is a claim with its supporting evidence summary.
type VerifiedClaim struct {
	Claim          string  `json:"claim"`
	Confidence     float64 `json:"confidence"`
	Status         string  `json:"status"`
	SubjectType    string  `json:"subject_type"`
	SubjectName    string  `json:"subject_name"`
	EvidenceCount  int     `json:"evidence_count"`
	AvgCredibility float64 `json:"avg_credibility"`
}

const verifyClaimsCypher = `
	MATCH (claim:Claim)
	WHERE $claim_text = '' OR toLower(claim.text) CONTAINS toLower($claim_text)
	MATCH (claim)-[:SUPPORTED_BY]->(evidence:Evidence)
	OPTIONAL MATCH (claim)-[:ABOUT]->(subject)
	RETURN claim.text AS claim,
	       claim.confidence AS confidence,
	       claim.verification_status AS status,
	       labels(subject)[0] AS subject_type,
	       coalesce(subject.name, 'N/A') AS subject_name,
	       count(DISTINCT evidence) AS evidence_count,
	       avg(evidence.credibility_score) AS avg_credibility
	ORDER BY confidence DESC, avg_credibility DESC, claim ASC
`

// VerifyClaims lists claims that have at least one piece of supporting
// evidence. An empty claimText matches all claims.
func (s *Service) VerifyClaims(ctx context.Context, claimText string) ([]VerifiedClaim, error) {
	result, err := s.client.Query(ctx, verifyClaimsCypher, map[string]any{"claim_text": claimText})
	if err != nil {
		return nil, err
	}

	claims := make([]VerifiedClaim, 0, len(result.Records))
	for _, record := range result.Records {
		vc := VerifiedClaim{
			Claim:         graph.AsString(record["claim"]),
			Status:        graph.AsString(record["status"]),
			SubjectType:   graph.AsString(record["subject_type"]),
			SubjectName:   graph.AsString(record["subject_name"]),
			EvidenceCount: asInt(record["evidence_count"]),
		}
		vc.Confidence, _ = graph.AsFloat64(record["confidence"])
		vc.AvgCredibility, _ = graph.AsFloat64(record["avg_credibility"])
		claims = append(claims, vc)
	}
	return claims, nil
}

// UnsupportedClaim is a high-confidence claim with under two pieces of
// evidence.
type UnsupportedClaim struct {
	Claim          string  `json:"claim"`
	Confidence     float64 `json:"confidence"`
	SubjectType    string  `json:"subject_type"`
	SubjectName    string  `json:"subject_name"`
	EvidenceCount  int     `json:"evidence_count"`
	AvgCredibility float64 `json:"avg_credibility"`
}

const unsupportedClaimsCypher = `
	MATCH (claim:Claim)
	WHERE claim.confidence >= $min_confidence
	OPTIONAL MATCH (claim)-[:SUPPORTED_BY]->(evidence:Evidence)
	WITH claim,
	     count(evidence) AS evidence_count,
	     avg(evidence.credibility_score) AS avg_credibility
	WHERE evidence_count < 2
	OPTIONAL MATCH (claim)-[:ABOUT]->(subject)
	RETURN claim.text AS claim,
	       claim.confidence AS confidence,
	       labels(subject)[0] AS subject_type,
	       coalesce(subject.name, 'Unknown') AS subject_name,
	       evidence_count,
	       coalesce(avg_credibility, 0.0) AS avg_credibility
	ORDER BY confidence DESC, evidence_count ASC, claim ASC
`

// UnsupportedClaims finds claims asserted with high confidence but backed
// by insufficient evidence.
func (s *Service) UnsupportedClaims(ctx context.Context, minConfidence float64) ([]UnsupportedClaim, error) {
	if minConfidence < 0 || minConfidence > 1 {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT,
			fmt.Sprintf("min confidence must be in [0,1], got %f", minConfidence))
	}

	result, err := s.client.Query(ctx, unsupportedClaimsCypher, map[string]any{"min_confidence": minConfidence})
	if err != nil {
		return nil, err
	}

	claims := make([]UnsupportedClaim, 0, len(result.Records))
	for _, record := range result.Records {
		uc := UnsupportedClaim{
			Claim:         graph.AsString(record["claim"]),
			SubjectType:   graph.AsString(record["subject_type"]),
			SubjectName:   graph.AsString(record["subject_name"]),
			EvidenceCount: asInt(record["evidence_count"]),
		}
		uc.Confidence, _ = graph.AsFloat64(record["confidence"])
		uc.AvgCredibility, _ = graph.AsFloat64(record["avg_credibility"])
		claims = append(claims, uc)
	}
	return claims, nil
}

// RankedPrompt is a prompt with its composite priority score.
type RankedPrompt struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	FinalScore float64 `json:"final_score"`
}

// rankPromptsCypher combines the gap opportunity behind each prompt, the
// severity of the pain point it addresses, how few assets already cover it,
// and its base priority into one score. Missing signals fall back to
// neutral midpoints.
const rankPromptsCypher = `
	MATCH (prompt:Prompt)
	OPTIONAL MATCH (gap:Gap)-[:SUGGESTS]->(prompt)
	WITH prompt, gap.opportunity_score AS gap_score
	OPTIONAL MATCH (prompt)-[:ADDRESSES]->(pp:PainPoint)
	WITH prompt, gap_score, pp.severity AS pain_severity
	OPTIONAL MATCH (asset:Asset)-[:DERIVES_FROM]->(:Brief)-[:GENERATED_FROM]->(prompt)
	WITH prompt, gap_score, pain_severity,
	     count(DISTINCT asset) AS existing_assets
	WITH prompt,
	     coalesce(gap_score, 0.5) AS gap_component,
	     coalesce(pain_severity, 5.0) / 10.0 AS pain_component,
	     1.0 / (existing_assets + 1.0) AS novelty_component,
	     coalesce(prompt.priority, 5) AS base_priority
	WITH prompt.text AS text,
	     prompt.type AS type,
	     gap_component * 0.4 +
	     pain_component * 0.3 +
	     novelty_component * 0.2 +
	     (base_priority / 10.0) * 0.1 AS final_score
	RETURN text, type, final_score
	ORDER BY final_score DESC, text ASC
	LIMIT $limit
`

// RankPrompts orders prompts by composite priority, best first.
func (s *Service) RankPrompts(ctx context.Context, limit int) ([]RankedPrompt, error) {
	if limit <= 0 {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT,
			fmt.Sprintf("limit must be positive, got %d", limit))
	}

	result, err := s.client.Query(ctx, rankPromptsCypher, map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}

	prompts := make([]RankedPrompt, 0, len(result.Records))
	for _, record := range result.Records {
		rp := RankedPrompt{
			Text: graph.AsString(record["text"]),
			Type: graph.AsString(record["type"]),
		}
		rp.FinalScore, _ = graph.AsFloat64(record["final_score"])
		prompts = append(prompts, rp)
	}
	return prompts, nil
}

// Coverage summarizes how many prompts have progressed to briefs and
// published assets.
type Coverage struct {
	TotalPrompts      int     `json:"total_prompts"`
	PromptsWithBriefs int     `json:"prompts_with_briefs"`
	PromptsWithAssets int     `json:"prompts_with_assets"`
	UncoveredPrompts  int     `json:"uncovered_prompts"`
	CoverageRate      float64 `json:"coverage_rate"`
}

const coverageCypher = `
	OPTIONAL MATCH (prompt:Prompt)
	WITH count(prompt) AS total_prompts
	OPTIONAL MATCH (p1:Prompt)<-[:GENERATED_FROM]-(:Brief)
	WITH total_prompts, count(DISTINCT p1) AS prompts_with_briefs
	OPTIONAL MATCH (p2:Prompt)<-[:GENERATED_FROM]-(:Brief)<-[:DERIVES_FROM]-(:Asset)
	RETURN total_prompts,
	       prompts_with_briefs,
	       count(DISTINCT p2) AS prompts_with_assets
`

// PromptCoverage reports prompt-to-content coverage. A graph with no
// prompts yields a zero Coverage, not an error.
func (s *Service) PromptCoverage(ctx context.Context) (Coverage, error) {
	result, err := s.client.Query(ctx, coverageCypher, map[string]any{})
	if err != nil {
		return Coverage{}, err
	}
	if len(result.Records) == 0 {
		return Coverage{}, nil
	}

	record := result.Records[0]
	cov := Coverage{
		TotalPrompts:      asInt(record["total_prompts"]),
		PromptsWithBriefs: asInt(record["prompts_with_briefs"]),
		PromptsWithAssets: asInt(record["prompts_with_assets"]),
	}
	cov.UncoveredPrompts = cov.TotalPrompts - cov.PromptsWithAssets
	if cov.TotalPrompts > 0 {
		cov.CoverageRate = float64(cov.PromptsWithAssets) / float64(cov.TotalPrompts)
	}
	return cov, nil
}

// UncoveredPrompt is a high-priority prompt no asset covers yet.
type UncoveredPrompt struct {
	Text           string   `json:"text"`
	Type           string   `json:"type"`
	Priority       int      `json:"priority"`
	GapScore       float64  `json:"gap_score"`
	PainPoints     []string `json:"pain_points"`
	TargetPersonas []string `json:"target_personas"`
}

const uncoveredPromptsCypher = `
	MATCH (prompt:Prompt)
	WHERE prompt.priority >= $min_priority
	OPTIONAL MATCH (prompt)<-[:GENERATED_FROM]-(:Brief)<-[:DERIVES_FROM]-(asset:Asset)
	WITH prompt, count(asset) AS asset_count
	WHERE asset_count = 0
	OPTIONAL MATCH (prompt)-[:ADDRESSES]->(pp:PainPoint)
	OPTIONAL MATCH (prompt)-[:TARGETS]->(persona:Persona)
	RETURN prompt.text AS text,
	       prompt.type AS type,
	       prompt.priority AS priority,
	       prompt.gap_score AS gap_score,
	       collect(DISTINCT pp.name) AS pain_points,
	       collect(DISTINCT persona.name) AS target_personas
	ORDER BY priority DESC, gap_score DESC, text ASC
`

// UncoveredHighPriorityPrompts finds prompts at or above minPriority that
// no published asset derives from.
func (s *Service) UncoveredHighPriorityPrompts(ctx context.Context, minPriority int) ([]UncoveredPrompt, error) {
	if minPriority < 0 || minPriority > 10 {
		return nil, types.NewError(types.ANALYZER_INVALID_INPUT,
			fmt.Sprintf("min priority must be in [0,10], got %d", minPriority))
	}

	result, err := s.client.Query(ctx, uncoveredPromptsCypher, map[string]any{"min_priority": minPriority})
	if err != nil {
		return nil, err
	}

	prompts := make([]UncoveredPrompt, 0, len(result.Records))
	for _, record := range result.Records {
		up := UncoveredPrompt{
			Text:           graph.AsString(record["text"]),
			Type:           graph.AsString(record["type"]),
			Priority:       asInt(record["priority"]),
			PainPoints:     graph.AsStringSlice(record["pain_points"]),
			TargetPersonas: graph.AsStringSlice(record["target_personas"]),
		}
		up.GapScore, _ = graph.AsFloat64(record["gap_score"])
		prompts = append(prompts, up)
	}
	return prompts, nil
}

func asInt(v any) int {
	n, _ := graph.AsInt64(v)
	return int(n)
}
