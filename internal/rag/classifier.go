package rag

import (
	"sort"
	"strings"
)

// triggerRule maps a question type to its trigger phrases. Rules are checked
// in slice order and the first phrase hit wins, so the priority order below
// is part of the contract: comparison, evidence, pain_point, feature,
// product, then general as the fallback.
type triggerRule struct {
	qtype    QuestionType
	triggers []string
}

var classificationRules = []triggerRule{
	{QuestionComparison, []string{"compare", " vs ", " vs.", "versus", "difference between"}},
	{QuestionEvidence, []string{"evidence", "prove", "research", "study", "studies", "support"}},
	{QuestionPainPoint, []string{"problem", "issue", "solve", "fix", "relieve", "pain", "help with", "suffer"}},
	{QuestionFeature, []string{"what is", "how does", "how to", "how can", "explain", "describe", "work", "feature"}},
	{QuestionProduct, []string{"recommend", "best", "which", "should i", "suggest", "buy"}},
}

// Classifier categorizes questions by phrase matching and extracts candidate
// entity terms for retrieval.
type Classifier struct{}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the question type for a question. Matching is
// case-insensitive substring containment; the first rule with a matching
// phrase wins. Questions matching no rule, including the empty string,
// classify as general.
func (c *Classifier) Classify(question string) QuestionType {
	q := strings.ToLower(question)
	for _, rule := range classificationRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(q, trigger) {
				return rule.qtype
			}
		}
	}
	return QuestionGeneral
}

// ExtractEntities finds known entity names present in the question, longest
// match first. Overlapping shorter matches are dropped, so "memory foam
// mattress" wins over "memory foam" when both are known. Matching is
// case-insensitive; returned names keep their stored casing.
func (c *Classifier) ExtractEntities(question string, knownNames []string) []string {
	q := strings.ToLower(question)
	if q == "" || len(knownNames) == 0 {
		return nil
	}

	candidates := make([]string, len(knownNames))
	copy(candidates, knownNames)
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	var matched []string
	var covered []string
	for _, name := range candidates {
		lower := strings.ToLower(name)
		if lower == "" || !strings.Contains(q, lower) {
			continue
		}
		overlaps := false
		for _, prev := range covered {
			if strings.Contains(prev, lower) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		matched = append(matched, name)
		covered = append(covered, lower)
	}
	return matched
}

// FallbackTerms extracts significant lowercase tokens from the question for
// lower-precision retrieval when no known entity matched. Tokens of three or
// fewer characters are dropped.
func FallbackTerms(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	var terms []string
	for _, f := range fields {
		if len(f) > 3 {
			terms = append(terms, f)
		}
	}
	return terms
}
