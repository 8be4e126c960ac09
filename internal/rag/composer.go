package rag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/keevingfu/infranodus-geo-system/internal/graph"
)

// Composer turns a retrieved subgraph into answer text with citations and a
// confidence estimate. Text generation is deterministic template filling;
// any LLM refinement happens downstream of this component.
type Composer struct{}

// NewComposer creates a Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// noKnowledgeText maps a question type to the reply used when the graph
// holds nothing relevant.
func noKnowledgeText(qtype QuestionType) string {
	switch qtype {
	case QuestionFeature:
		return "I don't have information about that feature in the knowledge graph."
	case QuestionPainPoint:
		return "I don't have specific solutions for that issue in the knowledge graph."
	case QuestionProduct:
		return "I don't have information about that product in the knowledge graph."
	case QuestionEvidence:
		return "I don't have evidence about that claim in the knowledge graph."
	case QuestionComparison:
		return "I don't have enough information to compare those products."
	default:
		return "I don't have information about that in the knowledge graph."
	}
}

// Compose builds the answer for a question from its subgraph. An empty
// subgraph yields a no-knowledge answer with confidence exactly 0.0 and no
// citations.
func (c *Composer) Compose(question string, sg Subgraph) Answer {
	if sg.Empty() {
		return Answer{
			Question:   question,
			Text:       noKnowledgeText(sg.QuestionType),
			Citations:  []Citation{},
			Confidence: 0.0,
			GraphPath:  []string{},
			Type:       sg.QuestionType,
		}
	}

	citations := extractCitations(sg)

	var text string
	switch sg.QuestionType {
	case QuestionPainPoint:
		text = c.painPointText(sg)
	case QuestionProduct:
		text = c.productText(sg)
	case QuestionEvidence:
		text = c.evidenceText(sg)
	case QuestionComparison:
		text = c.comparisonText(sg)
	default:
		text = c.featureText(sg)
	}

	return Answer{
		Question:   question,
		Text:       text,
		Citations:  citations,
		Confidence: confidence(sg, citations),
		GraphPath:  sg.Paths,
		Type:       sg.QuestionType,
	}
}

// confidence scores an answer in [0,1] from three signals: a matched
// primary node (the 0.3 base), how many related-node groups the template
// populated, and citation volume weighted by average credibility saturating
// at three strong citations. Each term is non-negative and non-decreasing
// in its inputs, so richer subgraphs never score lower.
func confidence(sg Subgraph, citations []Citation) float64 {
	density := 0.0
	if sg.MaxGroups > 0 {
		density = float64(sg.populatedGroups()) / float64(sg.MaxGroups)
	}

	citationSignal := 0.0
	if len(citations) > 0 {
		total := 0.0
		for _, cit := range citations {
			total += cit.CredibilityScore
		}
		avg := total / float64(len(citations))
		citationSignal = float64(len(citations)) * avg / 3.0
		if citationSignal > 1 {
			citationSignal = 1
		}
	}

	score := 0.3 + 0.3*density + 0.4*citationSignal
	if score > 1 {
		score = 1
	}
	return score
}

// extractCitations collects one citation per distinct evidence source in
// the subgraph, sorted by credibility descending then source ascending.
func extractCitations(sg Subgraph) []Citation {
	seen := make(map[string]struct{})
	citations := []Citation{}
	for _, item := range sg.groupValues("evidence") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		source := graph.AsString(m["source"])
		if source == "" {
			continue
		}
		url := graph.AsString(m["url"])
		key := source + "\x00" + url
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		credibility, ok := graph.AsFloat64(m["credibility"])
		if !ok {
			credibility = 0.5
		}
		citations = append(citations, Citation{
			Source:           source,
			URL:              url,
			CredibilityScore: credibility,
			Quote:            graph.AsString(m["quote"]),
		})
	}
	sort.SliceStable(citations, func(i, j int) bool {
		if citations[i].CredibilityScore != citations[j].CredibilityScore {
			return citations[i].CredibilityScore > citations[j].CredibilityScore
		}
		return citations[i].Source < citations[j].Source
	})
	return citations
}

func (c *Composer) featureText(sg Subgraph) string {
	primary := sg.Primary[0]
	name := graph.AsString(primary["name"])
	description := graph.AsString(primary["description"])

	var parts []string
	if description != "" {
		parts = append(parts, fmt.Sprintf("%s is a feature that %s.", name, strings.TrimSuffix(description, ".")))
	} else {
		parts = append(parts, fmt.Sprintf("%s is a documented feature.", name))
	}
	if relieves := joinNames(sg.groupValues("relieves"), 3); relieves != "" {
		parts = append(parts, fmt.Sprintf("It helps relieve %s.", relieves))
	}
	if products := joinNames(sg.groupValues("products"), 3); products != "" {
		parts = append(parts, fmt.Sprintf("You can find this feature in %s.", products))
	}
	return strings.Join(parts, " ")
}

func (c *Composer) painPointText(sg Subgraph) string {
	primary := sg.Primary[0]
	name := graph.AsString(primary["name"])
	severity, _ := graph.AsInt64(primary["severity"])
	reported, _ := graph.AsInt64(primary["reported_cases"])

	severityText := "moderate"
	if severity >= 7 {
		severityText = "significant"
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%s is a %s issue (severity: %d/10).", name, severityText, severity))
	if reported > 0 {
		parts = append(parts, fmt.Sprintf("It has been reported %d times.", reported))
	}

	var features, products []string
	for _, item := range sg.groupValues("solutions") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if f := graph.AsString(m["feature"]); f != "" && len(features) < 3 && !containsString(features, f) {
			features = append(features, f)
		}
		if p := graph.AsString(m["product"]); p != "" && len(products) < 2 && !containsString(products, p) {
			products = append(products, p)
		}
	}
	if len(features) > 0 {
		parts = append(parts, fmt.Sprintf("Solutions include: %s.", strings.Join(features, ", ")))
	}
	if len(products) > 0 {
		parts = append(parts, fmt.Sprintf("You can find these features in %s.", strings.Join(products, " or ")))
	}
	return strings.Join(parts, " ")
}

func (c *Composer) productText(sg Subgraph) string {
	primary := sg.Primary[0]
	name := graph.AsString(primary["name"])
	brand := graph.AsString(primary["brand"])
	priceTier := graph.AsString(primary["price_tier"])

	var parts []string
	switch {
	case brand != "" && priceTier != "":
		parts = append(parts, fmt.Sprintf("%s is a %s product by %s.", name, priceTier, brand))
	case brand != "":
		parts = append(parts, fmt.Sprintf("%s is a product by %s.", name, brand))
	default:
		parts = append(parts, fmt.Sprintf("%s is a documented product.", name))
	}
	if features := joinNames(sg.groupValues("features"), 3); features != "" {
		parts = append(parts, fmt.Sprintf("Its key features include %s.", features))
	}
	if relieves := joinNames(sg.groupValues("relieves"), 3); relieves != "" {
		parts = append(parts, fmt.Sprintf("It helps with %s.", relieves))
	}
	return strings.Join(parts, " ")
}

func (c *Composer) evidenceText(sg Subgraph) string {
	primary := sg.Primary[0]
	claim := graph.AsString(primary["name"])
	status := graph.AsString(primary["verification_status"])

	var parts []string
	parts = append(parts, fmt.Sprintf("Claim: %q.", claim))
	if status != "" {
		parts = append(parts, fmt.Sprintf("Verification status: %s.", status))
	}
	evidenceCount := len(sg.groupValues("evidence"))
	if evidenceCount > 0 {
		parts = append(parts, fmt.Sprintf("It is backed by %d evidence source(s).", evidenceCount))
	} else {
		parts = append(parts, "No supporting evidence is recorded yet.")
	}
	return strings.Join(parts, " ")
}

func (c *Composer) comparisonText(sg Subgraph) string {
	nameA := ""
	nameB := ""
	if len(sg.Primary) > 0 {
		nameA = graph.AsString(sg.Primary[0]["name"])
	}
	if len(sg.Primary) > 1 {
		nameB = graph.AsString(sg.Primary[1]["name"])
	}

	var parts []string
	uniqueA := sg.groupValues("unique_to_a")
	uniqueB := sg.groupValues("unique_to_b")
	shared := sg.groupValues("shared")

	if list := joinNames(uniqueA, 3); list != "" {
		parts = append(parts, fmt.Sprintf("%s uniquely offers %s.", nameA, list))
	}
	if list := joinNames(uniqueB, 3); list != "" {
		parts = append(parts, fmt.Sprintf("%s uniquely offers %s.", nameB, list))
	}
	if len(shared) > 0 {
		parts = append(parts, fmt.Sprintf("They share %d common feature(s).", len(shared)))
	}
	switch {
	case len(uniqueA) > len(uniqueB):
		parts = append(parts, fmt.Sprintf("%s has %d unique advantages vs %d for %s.",
			nameA, len(uniqueA), len(uniqueB), nameB))
	case len(uniqueB) > len(uniqueA):
		parts = append(parts, fmt.Sprintf("%s has %d unique advantages vs %d for %s.",
			nameB, len(uniqueB), len(uniqueA), nameA))
	default:
		parts = append(parts, "Both products have similar feature counts.")
	}
	return strings.Join(parts, " ")
}

func joinNames(values []any, limit int) string {
	var names []string
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			names = append(names, s)
			if len(names) == limit {
				break
			}
		}
	}
	return strings.Join(names, ", ")
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
