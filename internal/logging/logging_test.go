package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitializeWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWriter(Config{Level: "debug", Format: "json"}, &buf))
	t.Cleanup(InitializeDefault)

	Debug("solving", zap.String("unknown", "rate"))
	Sync()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "solving", entry["msg"])
	assert.Equal(t, "rate", entry["unknown"])
	assert.Equal(t, "debug", entry["level"])
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWriter(Config{Level: "warn", Format: "json"}, &buf))
	t.Cleanup(InitializeDefault)

	Info("hidden")
	assert.Empty(t, buf.String())

	Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitializeRejectsBadSettings(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, InitializeWriter(Config{Level: "loud", Format: "json"}, &buf))
	assert.Error(t, InitializeWriter(Config{Level: "info", Format: "xml"}, &buf))
}
