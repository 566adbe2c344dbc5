package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]any{
		"api_key", "sk-ant-123",
		"learner_id", "maya",
		"items", 12,
		"dangling",
	})
	require.Len(t, out, 7)
	assert.Equal(t, "[REDACTED]", out[1])
	assert.True(t, strings.HasPrefix(out[3].(string), "hash:"))
	assert.NotContains(t, out[3], "maya")
	assert.Equal(t, 12, out[5])
	assert.Equal(t, "dangling", out[6])
}

func TestHashValue_Stable(t *testing.T) {
	assert.Equal(t, hashValue("maya"), hashValue("maya"))
	assert.NotEqual(t, hashValue("maya"), hashValue("leo"))
	assert.Equal(t, "", hashValue(""))
}

func TestLogger_WritesSanitizedFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "test").Info("estimate", "learner_id", "maya", "theta", 0.4)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "test", fields["component"])
	assert.Equal(t, 0.4, fields["theta"])
	assert.NotEqual(t, "maya", fields["learner_id"])
}

func TestNew(t *testing.T) {
	l, err := New("prod", "warn")
	require.NoError(t, err)
	assert.NotNil(t, l.SugaredLogger)

	_, err = New("dev", "loud")
	assert.Error(t, err)
}
