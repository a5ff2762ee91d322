package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/advistors/esu-bridge/internal/config"
)

func TestParseAllowedOrigins(t *testing.T) {
	t.Run("splits and trims", func(t *testing.T) {
		origins := config.ParseAllowedOrigins(" https://a.test ,https://b.test, ")
		require.Equal(t, config.AllowedOrigins{"https://a.test", "https://b.test"}, origins)
		require.True(t, origins.IsAllowedOrigin("https://a.test"))
		require.False(t, origins.IsAllowedOrigin("https://c.test"))
	})

	t.Run("empty input means no restriction", func(t *testing.T) {
		require.Empty(t, config.ParseAllowedOrigins(""))
		require.Empty(t, config.ParseAllowedOrigins(" , , "))
	})
}

func TestSecurityStateSecretFallback(t *testing.T) {
	t.Run("fallback active when unset", func(t *testing.T) {
		t.Setenv("ESU_STATE_SECRET", "")
		require.Equal(t, config.DevStateSecret, config.Security{}.GetStateSecret())
		require.True(t, config.Security{}.IsStateSecretDefaulted())
	})

	t.Run("explicit secret wins", func(t *testing.T) {
		t.Setenv("ESU_STATE_SECRET", "real-secret")
		require.Equal(t, "real-secret", config.Security{}.GetStateSecret())
		require.False(t, config.Security{}.IsStateSecretDefaulted())
	})
}
