package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sondreb/foodie/internal/config"
)

func TestNewWithOutput_JSONCarriesServiceFields(t *testing.T) {
	cfg := &config.Config{Version: "1.0.0"}
	cfg.Server.Environment = "production"
	cfg.Log = config.LogConfig{Level: "debug", Format: "json"}

	var buf bytes.Buffer
	logger := NewWithOutput(cfg, &buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	WithRequest(logger, "GET", "/restaurants", 200, 1.5).Info("Request handled")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Request handled", entry["msg"])
	assert.Equal(t, "foodie", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, "production", entry["environment"])
	assert.Equal(t, 1.5, entry["latency_ms"])

	httpFields, ok := entry["http"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/restaurants", httpFields["route"])
	assert.Equal(t, float64(200), httpFields["status"])
}

func TestNewWithOutput_BadLevelDefaultsToInfo(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log = config.LogConfig{Level: "chatty", Format: "text"}

	var buf bytes.Buffer
	logger := NewWithOutput(cfg, &buf)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	assert.Contains(t, buf.String(), "Invalid log level")

	logger.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}
