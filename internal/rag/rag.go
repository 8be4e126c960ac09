package rag

import (
	"context"

	"github.com/keevingfu/infranodus-geo-system/internal/graph"
	"github.com/keevingfu/infranodus-geo-system/internal/observability"
)

// Pipeline is the question answering entry point: classify, extract
// entities, retrieve a subgraph, compose a grounded answer, then optionally
// refine it with a language model.
type Pipeline struct {
	classifier *Classifier
	retriever  *Retriever
	composer   *Composer
	generator  Generator
	client     graph.Client
	log        *observability.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithGenerator attaches an optional answer generator. Without one the
// pipeline returns template answers only.
func WithGenerator(g Generator) PipelineOption {
	return func(p *Pipeline) {
		p.generator = g
	}
}

// NewPipeline creates a Pipeline over the given graph client.
func NewPipeline(client graph.Client, log *observability.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		classifier: NewClassifier(),
		retriever:  NewRetriever(client, log),
		composer:   NewComposer(),
		client:     client,
		log:        log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// entityNamesCypher lists the names retrieval can anchor on.
const entityNamesCypher = `
	MATCH (n)
	WHERE n:Keyword OR n:Feature OR n:Product OR n:PainPoint
	RETURN DISTINCT n.name AS name
	ORDER BY name ASC
`

// AnswerQuestion runs the full pipeline for one question. A question with
// no matching knowledge yields a zero-confidence answer with no citations;
// only store failures return an error.
func (p *Pipeline) AnswerQuestion(ctx context.Context, question string) (Answer, error) {
	qtype := p.classifier.Classify(question)

	names, err := p.knownEntityNames(ctx)
	if err != nil {
		return Answer{}, err
	}

	terms := p.classifier.ExtractEntities(question, names)
	if len(terms) == 0 {
		terms = FallbackTerms(question)
	}

	sg, err := p.retriever.Retrieve(ctx, qtype, terms)
	if err != nil {
		return Answer{}, err
	}

	answer := p.composer.Compose(question, sg)

	if p.generator != nil && !sg.Empty() {
		refined, genErr := p.generator.Generate(ctx, question, answer.Text, answer.Citations)
		if genErr != nil {
			// Degraded mode: the template answer already stands on its own.
			if p.log != nil {
				p.log.Warn(ctx, "answer generation failed, using template answer",
					"error", genErr.Error())
			}
		} else {
			answer.Text = refined
		}
	}

	if p.log != nil {
		p.log.Info(ctx, "question answered",
			"type", qtype.String(),
			"entities", len(terms),
			"citations", len(answer.Citations),
			"confidence", answer.Confidence)
	}

	return answer, nil
}

func (p *Pipeline) knownEntityNames(ctx context.Context) ([]string, error) {
	result, err := p.client.Query(ctx, entityNamesCypher, map[string]any{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(result.Records))
	for _, record := range result.Records {
		if name := graph.AsString(record["name"]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
