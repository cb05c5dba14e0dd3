package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"pubsub": map[string]any{
			"topicId": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"serviceFee": map[string]any{
			"defaultRatePercent": "3",
		},
		"checkout": map[string]any{
			"idempotencyTTL": "24h",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "PUBSUB_TOPICID", want: "pubsub.topicId"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "SERVICEFEE_DEFAULTRATEPERCENT", want: "serviceFee.defaultRatePercent"},
		{envKey: "CHECKOUT_IDEMPOTENCYTTL", want: "checkout.idempotencyTTL"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

const testConfigYAML = `
env:
  env: develop
  serviceName: rentalhub
storage:
  driver: memory
serviceFee:
  defaultRatePercent: "3"
checkout:
  idempotencyTTL: 1h
`

func TestLoadWithEnv_DecodesDecimalAndDuration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfigYAML), 0o600))
	t.Chdir(dir)
	t.Setenv("SERVICEFEE_DEFAULTRATEPERCENT", "4.5")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.True(t, decimal.RequireFromString("4.5").Equal(cfg.ServiceFee.DefaultRatePercent))
	assert.Equal(t, time.Hour, cfg.Checkout.IdempotencyTTL)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.True(t, decimal.NewFromInt(3).Equal(cfg.ServiceFee.DefaultRatePercent))
	assert.Equal(t, defaultIdempotencyTTL, cfg.Checkout.IdempotencyTTL)
	assert.Equal(t, defaultPageSize, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, defaultMaxPageSize, cfg.Pagination.MaxPageSize)
	assert.Equal(t, defaultAccessTokenTTL, cfg.Auth.AccessTokenTTL)
}
