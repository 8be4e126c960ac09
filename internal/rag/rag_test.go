package rag

import (
	"context"
	"errors"
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

func TestAnswerQuestionEmptyGraph(t *testing.T) {
	client := newConnectedMock(t)
	// Entity name lookup and retrieval both come back empty.

	p := NewPipeline(client, nil)
	answer, err := p.AnswerQuestion(context.Background(), "How does cooling gel work?")
	require.NoError(t, err)

	assert.Equal(t, 0.0, answer.Confidence)
	assert.Empty(t, answer.Citations)
	assert.Equal(t, QuestionFeature, answer.Type)
	assert.NotEmpty(t, answer.Text)
}

func TestAnswerQuestionEmptyQuestion(t *testing.T) {
	client := newConnectedMock(t)

	p := NewPipeline(client, nil)
	answer, err := p.AnswerQuestion(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, QuestionGeneral, answer.Type)
	assert.Equal(t, 0.0, answer.Confidence)
	assert.Empty(t, answer.Citations)
}

func TestAnswerQuestionFeature(t *testing.T) {
	client := newConnectedMock(t)
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{{"name": "cooling gel"}},
	})
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{{
			"name":        "cooling gel",
			"description": "dissipates body heat",
			"relieves":    []any{"hot sleeping"},
			"products":    []any{"CoolDream"},
			"evidence": []any{
				map[string]any{"claim": "keeps sleepers cool", "source": "Sleep Journal",
					"url": "https://example.org", "credibility": 0.9, "quote": "cooler nights"},
			},
		}},
	})

	p := NewPipeline(client, nil)
	answer, err := p.AnswerQuestion(context.Background(), "How does cooling gel work?")
	require.NoError(t, err)

	assert.Equal(t, QuestionFeature, answer.Type)
	assert.Contains(t, answer.Text, "cooling gel")
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "Sleep Journal", answer.Citations[0].Source)
	assert.Greater(t, answer.Confidence, 0.0)

	// Retrieval should anchor on the matched entity name.
	queries := client.GetCallsByMethod("Query")
	require.Len(t, queries, 2)
	terms, ok := queries[1].Params["terms"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"cooling gel"}, terms)
}

func TestAnswerQuestionFallsBackToTokenTerms(t *testing.T) {
	client := newConnectedMock(t)
	// No known entity names, so retrieval uses question tokens.
	client.AddQueryResult(graph.QueryResult{})
	client.AddQueryResult(graph.QueryResult{})

	p := NewPipeline(client, nil)
	_, err := p.AnswerQuestion(context.Background(), "How to solve back pain?")
	require.NoError(t, err)

	queries := client.GetCallsByMethod("Query")
	require.Len(t, queries, 2)
	terms, ok := queries[1].Params["terms"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"solve", "back", "pain"}, terms)
}

func TestAnswerQuestionPropagatesStoreError(t *testing.T) {
	client := newConnectedMock(t)
	client.SetQueryError(types.NewRetryableError(types.GRAPH_CONNECTION_FAILED, "store down"))

	p := NewPipeline(client, nil)
	_, err := p.AnswerQuestion(context.Background(), "How does cooling gel work?")
	require.Error(t, err)
	assert.Equal(t, types.GRAPH_CONNECTION_FAILED, types.CodeOf(err))
}

type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) Generate(ctx context.Context, question, groundedAnswer string, citations []Citation) (string, error) {
	return s.text, s.err
}

func TestAnswerQuestionUsesGenerator(t *testing.T) {
	client := newConnectedMock(t)
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{{"name": "cooling gel"}},
	})
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{{
			"name":        "cooling gel",
			"description": "dissipates body heat",
			"relieves":    []any{},
			"products":    []any{},
			"evidence":    []any{},
		}},
	})

	p := NewPipeline(client, nil, WithGenerator(&stubGenerator{text: "refined answer"}))
	answer, err := p.AnswerQuestion(context.Background(), "How does cooling gel work?")
	require.NoError(t, err)
	assert.Equal(t, "refined answer", answer.Text)
}

func TestAnswerQuestionGeneratorFailureFallsBack(t *testing.T) {
	client := newConnectedMock(t)
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{{"name": "cooling gel"}},
	})
	client.AddQueryResult(graph.QueryResult{
		Records: []map[string]any{{
			"name":        "cooling gel",
			"description": "dissipates body heat",
			"relieves":    []any{},
			"products":    []any{},
			"evidence":    []any{},
		}},
	})

	p := NewPipeline(client, nil, WithGenerator(&stubGenerator{err: errors.New("model offline")}))
	answer, err := p.AnswerQuestion(context.Background(), "How does cooling gel work?")
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "cooling gel")
}

func TestAnswerQuestionGeneratorSkippedOnEmptySubgraph(t *testing.T) {
	client := newConnectedMock(t)

	gen := &stubGenerator{text: "should not be used"}
	p := NewPipeline(client, nil, WithGenerator(gen))
	answer, err := p.AnswerQuestion(context.Background(), "How does cooling gel work?")
	require.NoError(t, err)
	assert.NotEqual(t, "should not be used", answer.Text)
	assert.Equal(t, 0.0, answer.Confidence)
}
