package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "memory", cfg.Pantry.Backend)
	assert.Equal(t, "pantry", cfg.Pantry.Key)
	assert.False(t, cfg.LLM.Enabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-1234567890")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("PUBLIC_BASE_URL", "https://chef.example.com/")
	t.Setenv("PANTRY_BACKEND", "Redis")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.True(t, cfg.LLM.Enabled())
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "https://chef.example.com", cfg.Share.BaseURL)
	assert.Equal(t, "redis", cfg.Pantry.Backend)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("PANTRY_BACKEND", "sqlite")

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pantry backend")
}
