package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDecodesTypedConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("server.host", "127.0.0.1")
	viper.Set("server.port", 8199)
	viper.Set("server.read_timeout", "45s")
	viper.Set("cli.binary", "claude")
	viper.Set("cli.timeout", "2m")
	viper.Set("cli.args", "--dangerously-skip-permissions")
	viper.Set("sessions.enabled", true)
	viper.Set("sessions.path", ":memory:")
	viper.Set("logging.level", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 8199, cfg.Server.Port)
	require.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "claude", cfg.CLI.Binary)
	require.Equal(t, 2*time.Minute, cfg.CLI.Timeout)
	require.Equal(t, []string{"--dangerously-skip-permissions"}, cfg.CLI.Args)
	require.True(t, cfg.Sessions.Enabled)
	require.Equal(t, ":memory:", cfg.Sessions.Path)
	require.Equal(t, "debug", cfg.Logging.Level)

	require.Same(t, cfg, GetConfig())
}

func TestLoadDefaultsSessionPathWhenUnset(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Sessions.Path)
}
