package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keevingfu/infranodus-geo-system/internal/types"
)

func TestMockClientRequiresConnect(t *testing.T) {
	client := NewMockClient()

	_, err := client.Query(context.Background(), "MATCH (n) RETURN n", nil)
	require.Error(t, err)
	assert.Equal(t, types.GRAPH_CONNECTION_CLOSED, types.CodeOf(err))

	_, err = client.Write(context.Background(), "MERGE (n:Keyword {name: 'x'})", nil)
	require.Error(t, err)
	assert.Equal(t, types.GRAPH_CONNECTION_CLOSED, types.CodeOf(err))

	assert.Equal(t, types.HealthStateUnhealthy, client.Health(context.Background()).State)
}

func TestMockClientQueryResultsFIFO(t *testing.T) {
	client := NewMockClient()
	require.NoError(t, client.Connect(context.Background()))

	client.AddQueryResult(QueryResult{Records: []map[string]any{{"n": int64(1)}}})
	client.AddQueryResult(QueryResult{Records: []map[string]any{{"n": int64(2)}}})

	first, err := client.Query(context.Background(), "RETURN 1 AS n", nil)
	require.NoError(t, err)
	second, err := client.Query(context.Background(), "RETURN 2 AS n", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Records[0]["n"])
	assert.Equal(t, int64(2), second.Records[0]["n"])

	third, err := client.Query(context.Background(), "RETURN 3 AS n", nil)
	require.NoError(t, err)
	assert.Empty(t, third.Records)
}

func TestMockClientRecordsCalls(t *testing.T) {
	client := NewMockClient()
	require.NoError(t, client.Connect(context.Background()))

	_, _ = client.Query(context.Background(), "MATCH (n) RETURN count(n)", map[string]any{"limit": 5})
	_, _ = client.Write(context.Background(), "MERGE (n:Keyword {name: $name})", map[string]any{"name": "cooling"})

	queries := client.GetCallsByMethod("Query")
	require.Len(t, queries, 1)
	assert.Equal(t, 5, queries[0].Params["limit"])

	writes := client.GetCallsByMethod("Write")
	require.Len(t, writes, 1)
	assert.Equal(t, "cooling", writes[0].Params["name"])

	client.Reset()
	assert.Empty(t, client.GetCallsByMethod("Query"))
	assert.Empty(t, client.GetCallsByMethod("Write"))
}

func TestMockClientInjectedErrors(t *testing.T) {
	client := NewMockClient()
	require.NoError(t, client.Connect(context.Background()))

	queryErr := errors.New("query boom")
	writeErr := errors.New("write boom")
	client.SetQueryError(queryErr)
	client.SetWriteError(writeErr)

	_, err := client.Query(context.Background(), "RETURN 1", nil)
	assert.ErrorIs(t, err, queryErr)

	_, err = client.Write(context.Background(), "RETURN 1", nil)
	assert.ErrorIs(t, err, writeErr)
}

func TestAsInt64(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{int64(7), 7, true},
		{int(3), 3, true},
		{float64(2.9), 2, true},
		{"7", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := AsInt64(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
}

func TestAsFloat64(t *testing.T) {
	got, ok := AsFloat64(0.825)
	assert.True(t, ok)
	assert.Equal(t, 0.825, got)

	got, ok = AsFloat64(int64(4))
	assert.True(t, ok)
	assert.Equal(t, 4.0, got)

	_, ok = AsFloat64("0.8")
	assert.False(t, ok)
}

func TestAsString(t *testing.T) {
	assert.Equal(t, "cooling", AsString("cooling"))
	assert.Equal(t, "", AsString(nil))
	assert.Equal(t, "", AsString(int64(7)))
}

func TestAsStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, AsStringSlice([]any{"a", "b"}))
	assert.Equal(t, []string{"a"}, AsStringSlice([]any{"a", nil, int64(2)}))
	assert.Nil(t, AsStringSlice("not a slice"))
	assert.Nil(t, AsStringSlice(nil))
}
