package internal

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", "info")

	logger.Info("invoice verified", "invoice_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "invoice verified", entry["msg"])
	assert.Equal(t, "tally", entry["service"])
	assert.Equal(t, "abc", entry["invoice_id"])
	assert.NotEmpty(t, entry["time"])
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "dev", "warn")

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", "debug")

	logger.Debug("classified", "seller_state", "27")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.NotNil(t, entry["source"])
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "dev", "chatty")

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}
