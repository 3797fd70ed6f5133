package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://maps.googleapis.com/maps/api/place", cfg.Google.BaseURL)
	assert.Equal(t, "https://api.hunter.io/v2", cfg.Hunter.BaseURL)
	assert.Equal(t, 25, cfg.Hunter.MonthlyLimit)
	assert.Equal(t, "https://api.apollo.io/v1", cfg.Apollo.BaseURL)
	assert.Equal(t, "San Antonio, Texas, United States", cfg.Apollo.Location)
	assert.Equal(t, "https://www.zohoapis.com/bigin/v2", cfg.Bigin.BaseURL)
	assert.Equal(t, "San Antonio, TX", cfg.Search.Location)
	assert.Equal(t, 40000, cfg.Search.RadiusM)
	assert.Equal(t, 60, cfg.Search.MaxResults)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LEADGEN_GOOGLE_API_KEY", "env-key")
	t.Setenv("LEADGEN_SEARCH_LOCATION", "Austin, TX")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Google.APIKey)
	assert.Equal(t, "Austin, TX", cfg.Search.Location)
}

func TestValidate_DryRun(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	err := cfg.Validate(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google.api_key")

	cfg.Google.APIKey = "k"
	assert.NoError(t, cfg.Validate(false))
}

func TestValidate_LiveNeedsToken(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.Google.APIKey = "k"

	err := cfg.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bigin.token")

	cfg.Bigin.Token = "tok"
	assert.NoError(t, cfg.Validate(true))
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
