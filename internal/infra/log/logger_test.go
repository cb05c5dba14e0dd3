package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"rentalhub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_JSONWithServiceAttributes(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Env = "develop"
	cfg.Env.ServiceName = "rentalhub"
	cfg.Env.Log.Level = "debug"

	var buf bytes.Buffer
	logger, err := build(cfg, &buf)
	require.NoError(t, err)

	logger.Debug("order settled", slog.Int64("final_amount", 153000))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order settled", line["msg"])
	assert.Equal(t, "rentalhub", line["service"])
	assert.Equal(t, "develop", line["env"])
	assert.InDelta(t, 153000, line["final_amount"], 0)
}

func TestParseLogLevel(t *testing.T) {
	level, err := parseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = parseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	_, err = parseLogLevel("verbose")
	assert.Error(t, err)
}
