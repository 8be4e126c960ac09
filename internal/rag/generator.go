package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Generator refines a template answer with a language model. The graph
// remains the source of truth: the model only rephrases the grounded
// context, and any generator failure falls back to the template text.
type Generator interface {
	Generate(ctx context.Context, question, groundedAnswer string, citations []Citation) (string, error)
}

// llmGenerator drives a langchaingo model.
type llmGenerator struct {
	model llms.Model
}

// NewOllamaGenerator creates a Generator backed by a local Ollama server.
func NewOllamaGenerator(model, serverURL string) (Generator, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama model: %w", err)
	}
	return &llmGenerator{model: llm}, nil
}

// NewGenerator wraps an existing langchaingo model.
func NewGenerator(model llms.Model) Generator {
	return &llmGenerator{model: model}
}

const generatorPrompt = `You are answering a question using only the facts below.
Rephrase the facts into a clear, direct answer. Do not add information that
is not in the facts. Keep it under 120 words.

Question: %s

Facts: %s

Sources: %s

Answer:`

func (g *llmGenerator) Generate(ctx context.Context, question, groundedAnswer string, citations []Citation) (string, error) {
	sources := make([]string, 0, len(citations))
	for _, c := range citations {
		sources = append(sources, c.Source)
	}
	if len(sources) == 0 {
		sources = append(sources, "none")
	}

	prompt := fmt.Sprintf(generatorPrompt, question, groundedAnswer, strings.Join(sources, "; "))
	completion, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(0.2))
	if err != nil {
		return "", err
	}

	completion = strings.TrimSpace(completion)
	if completion == "" {
		return "", fmt.Errorf("model returned empty completion")
	}
	return completion, nil
}
