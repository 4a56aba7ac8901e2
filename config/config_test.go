package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "TEST_CACHE_TTL", "LLM_MODEL", "AUDIO_FAILURE_POLICY", "CORS_ORIGINS", "RABBITMQ_URI"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TestCacheTTL)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLMModel)
	assert.Equal(t, "degrade", cfg.AudioFailurePolicy)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.RabbitMQURI)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TEST_CACHE_TTL", "90")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("LLM_TIMEOUT", "soon")
	t.Setenv("AUDIO_FAILURE_POLICY", "abort")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.TestCacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 120*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "abort", cfg.AudioFailurePolicy)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("SILENT"))
	assert.Equal(t, logger.Error, gormLogLevel("error"))
	assert.Equal(t, logger.Info, gormLogLevel("info"))
	assert.Equal(t, logger.Warn, gormLogLevel(""))
}
