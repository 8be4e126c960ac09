package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featureSubgraph() Subgraph {
	return Subgraph{
		QuestionType: QuestionFeature,
		Primary: []map[string]any{{
			"name":        "cooling gel",
			"description": "dissipates body heat during sleep",
		}},
		Groups: map[string][]any{
			"relieves": {"hot sleeping", "night sweats"},
			"products": {"CoolDream Hybrid"},
			"evidence": {
				map[string]any{"source": "Sleep Journal", "url": "https://example.org/sj", "credibility": 0.9},
				map[string]any{"source": "Lab Report", "url": "", "credibility": 0.7},
			},
		},
		Paths:     []string{"Feature", "PainPoint", "Product", "Evidence"},
		MaxGroups: 3,
	}
}

func TestComposeEmptySubgraph(t *testing.T) {
	c := NewComposer()

	for _, qtype := range []QuestionType{
		QuestionFeature, QuestionPainPoint, QuestionProduct,
		QuestionEvidence, QuestionComparison, QuestionGeneral,
	} {
		answer := c.Compose("anything", Subgraph{QuestionType: qtype})
		assert.Equal(t, 0.0, answer.Confidence, "type %s", qtype)
		assert.Empty(t, answer.Citations, "type %s", qtype)
		assert.Empty(t, answer.GraphPath, "type %s", qtype)
		assert.NotEmpty(t, answer.Text, "type %s", qtype)
	}
}

func TestComposeFeatureAnswer(t *testing.T) {
	c := NewComposer()
	answer := c.Compose("How does cooling gel work?", featureSubgraph())

	assert.Contains(t, answer.Text, "cooling gel is a feature that dissipates body heat during sleep.")
	assert.Contains(t, answer.Text, "hot sleeping, night sweats")
	assert.Contains(t, answer.Text, "CoolDream Hybrid")
	assert.Equal(t, "How does cooling gel work?", answer.Question)
	assert.Equal(t, []string{"Feature", "PainPoint", "Product", "Evidence"}, answer.GraphPath)
	assert.Greater(t, answer.Confidence, 0.0)
}

func TestComposeProductAnswer(t *testing.T) {
	sg := Subgraph{
		QuestionType: QuestionProduct,
		Primary: []map[string]any{{
			"name":       "CoolDream Hybrid",
			"brand":      "SweetNight",
			"price_tier": "mid-range",
		}},
		Groups: map[string][]any{
			"features": {"cooling gel", "zoned support"},
			"relieves": {"overheating"},
			"evidence": {},
		},
		Paths:     []string{"Product", "Feature", "PainPoint"},
		MaxGroups: 3,
	}

	answer := NewComposer().Compose("Which mattress should I buy?", sg)
	assert.Contains(t, answer.Text, "CoolDream Hybrid is a mid-range product by SweetNight.")
	assert.Contains(t, answer.Text, "cooling gel, zoned support")
	assert.Contains(t, answer.Text, "overheating")
}

func TestComposeProductAnswerWithoutBrand(t *testing.T) {
	sg := Subgraph{
		QuestionType: QuestionProduct,
		Primary:      []map[string]any{{"name": "CoolDream Hybrid"}},
		Groups:       map[string][]any{},
		MaxGroups:    3,
	}

	answer := NewComposer().Compose("q", sg)
	assert.Contains(t, answer.Text, "CoolDream Hybrid is a documented product.")
}

func TestComposeCitations(t *testing.T) {
	c := NewComposer()
	answer := c.Compose("q", featureSubgraph())

	require.Len(t, answer.Citations, 2)
	// Sorted by credibility descending.
	assert.Equal(t, "Sleep Journal", answer.Citations[0].Source)
	assert.Equal(t, 0.9, answer.Citations[0].CredibilityScore)
	assert.Equal(t, "Lab Report", answer.Citations[1].Source)
}

func TestComposeDeduplicatesCitations(t *testing.T) {
	sg := featureSubgraph()
	sg.Groups["evidence"] = []any{
		map[string]any{"source": "Sleep Journal", "url": "https://example.org/sj", "credibility": 0.9},
		map[string]any{"source": "Sleep Journal", "url": "https://example.org/sj", "credibility": 0.9},
		map[string]any{"source": "", "url": "https://example.org/anon", "credibility": 0.8},
	}

	answer := NewComposer().Compose("q", sg)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "Sleep Journal", answer.Citations[0].Source)
}

func TestConfidenceMonotonicInEvidence(t *testing.T) {
	c := NewComposer()

	sparse := featureSubgraph()
	sparse.Groups["evidence"] = nil
	sparse.Groups["relieves"] = nil
	sparse.Groups["products"] = nil

	partial := featureSubgraph()
	partial.Groups["evidence"] = partial.Groups["evidence"][:1]

	full := featureSubgraph()

	low := c.Compose("q", sparse).Confidence
	mid := c.Compose("q", partial).Confidence
	high := c.Compose("q", full).Confidence

	assert.Greater(t, low, 0.0)
	assert.GreaterOrEqual(t, mid, low)
	assert.GreaterOrEqual(t, high, mid)
	assert.LessOrEqual(t, high, 1.0)
}

func TestComposePainPointAnswer(t *testing.T) {
	sg := Subgraph{
		QuestionType: QuestionPainPoint,
		Primary: []map[string]any{{
			"name":           "back pain",
			"severity":       int64(8),
			"reported_cases": int64(42),
		}},
		Groups: map[string][]any{
			"solutions": {
				map[string]any{"feature": "zoned support", "product": "OrthoRest"},
				map[string]any{"feature": "memory foam", "product": "CloudSleep"},
			},
			"personas": {"side sleeper"},
			"evidence": {
				map[string]any{"source": "Chiro Review", "credibility": 0.8},
			},
		},
		Paths:     []string{"PainPoint", "Feature", "Persona", "Evidence"},
		MaxGroups: 3,
	}

	answer := NewComposer().Compose("How to fix back pain?", sg)
	assert.Contains(t, answer.Text, "back pain is a significant issue (severity: 8/10).")
	assert.Contains(t, answer.Text, "reported 42 times")
	assert.Contains(t, answer.Text, "zoned support, memory foam")
	assert.Contains(t, answer.Text, "OrthoRest or CloudSleep")
	require.Len(t, answer.Citations, 1)
}

func TestComposeComparisonAnswer(t *testing.T) {
	sg := Subgraph{
		QuestionType: QuestionComparison,
		Primary: []map[string]any{
			{"name": "CoolDream"},
			{"name": "SleepWell"},
		},
		Groups: map[string][]any{
			"unique_to_a": {"cooling gel", "zoned support"},
			"unique_to_b": {"latex layer"},
			"shared":      {"memory foam"},
		},
		Paths:     []string{"Product", "Feature"},
		MaxGroups: 3,
	}

	answer := NewComposer().Compose("Compare CoolDream vs SleepWell", sg)
	assert.Contains(t, answer.Text, "CoolDream uniquely offers cooling gel, zoned support.")
	assert.Contains(t, answer.Text, "SleepWell uniquely offers latex layer.")
	assert.Contains(t, answer.Text, "They share 1 common feature(s).")
	assert.Contains(t, answer.Text, "CoolDream has 2 unique advantages vs 1 for SleepWell.")
	assert.Empty(t, answer.Citations)
}

func TestComposeEvidenceAnswer(t *testing.T) {
	sg := Subgraph{
		QuestionType: QuestionEvidence,
		Primary: []map[string]any{{
			"name":                "cooling gel reduces night sweats",
			"confidence":          0.85,
			"verification_status": "verified",
		}},
		Groups: map[string][]any{
			"evidence": {
				map[string]any{"source": "Sleep Journal", "credibility": 0.9},
				map[string]any{"source": "Clinical Trial", "credibility": 0.95},
			},
		},
		Paths:     []string{"Claim", "Evidence"},
		MaxGroups: 1,
	}

	answer := NewComposer().Compose("What evidence supports cooling?", sg)
	assert.Contains(t, answer.Text, "verified")
	assert.Contains(t, answer.Text, "2 evidence source(s)")
	require.Len(t, answer.Citations, 2)
	assert.Equal(t, "Clinical Trial", answer.Citations[0].Source)
}
