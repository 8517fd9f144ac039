package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_URL", " https://sigbox.example/api/ ")
	t.Setenv("API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://sigbox.example/api/", cfg.ServerURL)
	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 7*24*time.Hour, cfg.StorageTTL)
	require.Equal(t, "bbolt", cfg.StorageType)
	require.Equal(t, "local", cfg.SinkType)
	require.True(t, cfg.PlacementEnabled)
	require.Equal(t, []int{1, 50, 50, 296, 180},
		[]int{cfg.PlacementPage, cfg.PlacementX, cfg.PlacementY, cfg.PlacementW, cfg.PlacementH})
	require.Equal(t, "SigServer", cfg.DocumentLocation)
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-positive timeout")
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("STORAGE_TYPE", " Redis ")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PLACEMENT_ENABLED", "false")
	t.Setenv("TEMPLATE_ID", "262")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "redis", cfg.StorageType)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.False(t, cfg.PlacementEnabled)
	require.Equal(t, 262, cfg.TemplateID)
}

func TestValidateReportsEveryMissingSetting(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{"SERVER_URL", "API_KEY", "sales@a-trust.at", "SUCCESS_URL", "ERROR_URL"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("validation message missing %q: %s", want, msg)
		}
	}

	cfg = &Config{ServerURL: "https://x", APIKey: "k", SuccessURL: "https://ok", ErrorURL: "https://err"}
	require.NoError(t, cfg.Validate())
}
