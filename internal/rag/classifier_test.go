package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		want     QuestionType
	}{
		{"How does cooling gel work?", QuestionFeature},
		{"What is memory foam?", QuestionFeature},
		{"Explain the hybrid construction", QuestionFeature},
		{"I have back pain, how to fix it?", QuestionPainPoint},
		{"How to solve night sweats?", QuestionPainPoint},
		{"My main issue is tossing and turning", QuestionPainPoint},
		{"Compare CoolDream vs SleepWell", QuestionComparison},
		{"What's the difference between latex and foam?", QuestionComparison},
		{"What evidence backs the cooling claim?", QuestionEvidence},
		{"Is there a study on mattress firmness?", QuestionEvidence},
		{"Which mattress do you recommend?", QuestionProduct},
		{"Best option for side sleepers", QuestionProduct},
		{"asdkjasd", QuestionGeneral},
		{"", QuestionGeneral},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.question))
		})
	}
}

// Priority order: comparison wins over feature even when both trigger.
func TestClassifyPriorityOrder(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, QuestionComparison, c.Classify("How does CoolDream compare to SleepWell?"))
	assert.Equal(t, QuestionEvidence, c.Classify("What research explains how cooling works?"))
	assert.Equal(t, QuestionPainPoint, c.Classify("How does one fix hip pain?"))
}

func TestExtractEntitiesLongestMatch(t *testing.T) {
	c := NewClassifier()
	known := []string{"memory foam", "memory foam mattress", "cooling gel", "foam"}

	entities := c.ExtractEntities("Is a memory foam mattress good for hot sleepers?", known)
	assert.Equal(t, []string{"memory foam mattress"}, entities)
}

func TestExtractEntitiesMultiple(t *testing.T) {
	c := NewClassifier()
	known := []string{"cooling gel", "back pain", "latex"}

	entities := c.ExtractEntities("Does cooling gel help with back pain?", known)
	assert.ElementsMatch(t, []string{"cooling gel", "back pain"}, entities)
}

func TestExtractEntitiesCaseInsensitive(t *testing.T) {
	c := NewClassifier()
	entities := c.ExtractEntities("does COOLING GEL work?", []string{"Cooling Gel"})
	assert.Equal(t, []string{"Cooling Gel"}, entities)
}

func TestExtractEntitiesNoMatch(t *testing.T) {
	c := NewClassifier()
	assert.Empty(t, c.ExtractEntities("something unrelated", []string{"cooling gel"}))
	assert.Empty(t, c.ExtractEntities("", []string{"cooling gel"}))
	assert.Empty(t, c.ExtractEntities("anything", nil))
}

func TestFallbackTerms(t *testing.T) {
	terms := FallbackTerms("How to fix my back pain at night?")
	assert.Equal(t, []string{"back", "pain", "night"}, terms)

	assert.Empty(t, FallbackTerms("a to do"))
	assert.Empty(t, FallbackTerms(""))
}
