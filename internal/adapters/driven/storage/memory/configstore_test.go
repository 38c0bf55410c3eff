package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_TypedGetters(t *testing.T) {
	s := NewConfigStore(map[string]any{
		"vector.backend":        "sqlite",
		"vector.k":              int64(4),
		"llm.temperature":       0.5,
		"transcript.translate":  true,
		"transcript.languages":  []any{"en", "hi", 3},
		"transcript.rate_limit": 2,
	})

	assert.Equal(t, "sqlite", s.GetString("vector.backend"))
	assert.Equal(t, 4, s.GetInt("vector.k"))
	assert.InDelta(t, 0.5, s.GetFloat("llm.temperature"), 1e-9)
	assert.InDelta(t, 2.0, s.GetFloat("transcript.rate_limit"), 1e-9)
	assert.True(t, s.GetBool("transcript.translate"))
	assert.Equal(t, []string{"en", "hi"}, s.GetStringSlice("transcript.languages"))

	assert.Empty(t, s.GetString("missing"))
	assert.Zero(t, s.GetInt("vector.backend"))
	assert.False(t, s.GetBool("vector.backend"))
	assert.Nil(t, s.GetStringSlice("vector.k"))
}

func TestConfigStore_SetUnsetKeys(t *testing.T) {
	s := NewConfigStore(nil)

	require.NoError(t, s.Set("output.encoding", "utf-8"))
	require.NoError(t, s.Set("output.path", "out/response.md"))
	assert.Equal(t, []string{"output.encoding", "output.path"}, s.Keys())

	require.NoError(t, s.Unset("output.encoding"))
	_, ok := s.Get("output.encoding")
	assert.False(t, ok)

	assert.NoError(t, s.Save())
	assert.NoError(t, s.Load())
	assert.Empty(t, s.Path())
}
