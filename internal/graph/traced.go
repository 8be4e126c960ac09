package graph

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

// TracedClient wraps a Client with OpenTelemetry tracing.
// Creates spans for all store operations and records query attributes.
//
// Span names:
//   - Connect: "geo.graph.connect"
//   - Query:   "geo.graph.query"
//   - Write:   "geo.graph.write"
//
// Thread-safety: safe for concurrent access (delegates to inner client).
type TracedClient struct {
	inner  Client
	tracer trace.Tracer
}

// NewTracedClient wraps the inner client with OpenTelemetry tracing.
func NewTracedClient(inner Client, tracer trace.Tracer) *TracedClient {
	return &TracedClient{
		inner:  inner,
		tracer: tracer,
	}
}

// Connect establishes the store connection with tracing.
func (c *TracedClient) Connect(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "geo.graph.connect")
	defer span.End()

	err := c.inner.Connect(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Close closes the store connection with tracing.
func (c *TracedClient) Close(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "geo.graph.close")
	defer span.End()

	return c.inner.Close(ctx)
}

// Health delegates to the inner client without a span; health probes are
// high-frequency and low-value as traces.
func (c *TracedClient) Health(ctx context.Context) types.HealthStatus {
	return c.inner.Health(ctx)
}

// Query executes a read query with tracing.
func (c *TracedClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.traced(ctx, "geo.graph.query", cypher, params, c.inner.Query)
}

// Write executes a write query with tracing.
func (c *TracedClient) Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.traced(ctx, "geo.graph.write", cypher, params, c.inner.Write)
}

func (c *TracedClient) traced(
	ctx context.Context,
	name, cypher string,
	params map[string]any,
	run func(context.Context, string, map[string]any) (QueryResult, error),
) (QueryResult, error) {
	ctx, span := c.tracer.Start(ctx, name)
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "neo4j"),
		attribute.Int("db.query.param_count", len(params)),
	)

	startTime := time.Now()
	result, err := run(ctx, cypher, params)
	duration := time.Since(startTime)

	span.SetAttributes(attribute.Float64("geo.graph.duration_ms", float64(duration.Milliseconds())))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("error", true))
		return QueryResult{}, err
	}

	span.SetAttributes(attribute.Int("geo.graph.record_count", len(result.Records)))
	span.SetStatus(codes.Ok, "")
	return result, nil
}
