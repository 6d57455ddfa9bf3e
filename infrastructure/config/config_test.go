package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "medremind", cfg.DynamoDBTable)
	assert.Equal(t, "MedicationIndex", cfg.IndexName)
	assert.Equal(t, "medremind-events", cfg.EventBusName)
	assert.Equal(t, "medremind-backend", cfg.JWTIssuer)
	assert.Equal(t, MinEvaluationInterval, cfg.EvaluationInterval)
}

func TestEvaluationIntervalFloor(t *testing.T) {
	t.Run("short interval is clamped", func(t *testing.T) {
		t.Setenv("EVALUATION_INTERVAL", "1m")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, MinEvaluationInterval, cfg.EvaluationInterval)
	})

	t.Run("longer interval passes through", func(t *testing.T) {
		t.Setenv("EVALUATION_INTERVAL", "1h")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, time.Hour, cfg.EvaluationInterval)
	})

	t.Run("unparseable interval falls back to floor", func(t *testing.T) {
		t.Setenv("EVALUATION_INTERVAL", "every morning")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, MinEvaluationInterval, cfg.EvaluationInterval)
	})
}

func TestValidateProduction(t *testing.T) {
	t.Run("production requires JWT secret", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("production with secret passes", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "sufficiently-long-production-secret")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.False(t, cfg.IsDevelopment())
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TABLE_NAME", "medremind-test")
	t.Setenv("ENABLE_METRICS", "true")
	t.Setenv("ENABLE_CORS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "medremind-test", cfg.DynamoDBTable)
	assert.True(t, cfg.EnableMetrics)
	assert.False(t, cfg.EnableCORS)
}
