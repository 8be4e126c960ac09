package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoErrorFormatting(t *testing.T) {
	err := NewError(GRAPH_QUERY_FAILED, "query failed")
	assert.Equal(t, "[GRAPH_QUERY_FAILED] query failed", err.Error())

	wrapped := WrapError(GRAPH_CONNECTION_FAILED, "connect failed", errors.New("dial tcp: refused"))
	assert.Equal(t, "[GRAPH_CONNECTION_FAILED] connect failed: dial tcp: refused", wrapped.Error())
}

func TestGeoErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := WrapError(GRAPH_WRITE_FAILED, "write failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestGeoErrorIsMatchesByCode(t *testing.T) {
	err := NewError(ASSET_NOT_FOUND, "asset x missing")
	target := NewError(ASSET_NOT_FOUND, "different message")

	assert.ErrorIs(t, err, target)
	assert.NotErrorIs(t, err, NewError(GRAPH_QUERY_FAILED, "other"))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRetryableError(GRAPH_QUERY_TIMEOUT, "timeout")))
	assert.False(t, IsRetryable(NewError(ANALYZER_INVALID_INPUT, "bad input")))
	assert.False(t, IsRetryable(errors.New("plain error")))
	assert.False(t, IsRetryable(nil))

	// Retryability survives fmt wrapping.
	wrapped := fmt.Errorf("outer: %w", WrapRetryableError(GRAPH_CONNECTION_FAILED, "down", errors.New("io")))
	assert.True(t, IsRetryable(wrapped))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, SCORER_INVALID_INPUT, CodeOf(NewError(SCORER_INVALID_INPUT, "bad")))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))

	wrapped := fmt.Errorf("outer: %w", NewError(CONFIG_LOAD_FAILED, "missing"))
	assert.Equal(t, CONFIG_LOAD_FAILED, CodeOf(wrapped))
}

func TestHealthStatusConstructors(t *testing.T) {
	h := Healthy("ok")
	assert.Equal(t, HealthStateHealthy, h.State)
	assert.Equal(t, "ok", h.Message)
	assert.False(t, h.CheckedAt.IsZero())

	assert.Equal(t, HealthStateDegraded, Degraded("slow").State)
	assert.Equal(t, HealthStateUnhealthy, Unhealthy("down").State)
}

func TestHealthStateValidation(t *testing.T) {
	assert.True(t, HealthStateHealthy.IsValid())
	assert.False(t, HealthState("bogus").IsValid())
}

func TestIDRoundTrip(t *testing.T) {
	id := NewID()
	require.NoError(t, id.Validate())
	assert.False(t, id.IsZero())

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not-a-uuid")
	assert.Error(t, err)
}
