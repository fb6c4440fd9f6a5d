// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "a11yprobe", cfg.Logger.ServiceName)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 20*time.Second, cfg.Network.NavigationTimeout)
	assert.Equal(t, 50, cfg.Walker.MaxTabSteps)
	assert.Equal(t, 50*time.Millisecond, cfg.Walker.SettleDelay)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.EqualValues(t, 4, cfg.Server.MaxSessions)
}

func TestNewConfigFromViperOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")

	yaml := []byte(`
walker:
  max_tab_steps: 30
  settle_delay: 100ms
browser:
  headless: false
network:
  navigation_timeout: 5s
`)
	require.NoError(t, v.ReadConfig(bytes.NewReader(yaml)))

	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Walker.MaxTabSteps)
	assert.Equal(t, 100*time.Millisecond, cfg.Walker.SettleDelay)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 5*time.Second, cfg.Network.NavigationTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, 500*time.Millisecond, cfg.Network.PostLoadWait)
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero tab steps",
			mutate:  func(c *Config) { c.Walker.MaxTabSteps = 0 },
			wantErr: "walker.max_tab_steps must be a positive integer",
		},
		{
			name:    "negative settle delay",
			mutate:  func(c *Config) { c.Walker.SettleDelay = -time.Millisecond },
			wantErr: "walker.settle_delay must not be negative",
		},
		{
			name:    "zero navigation timeout",
			mutate:  func(c *Config) { c.Network.NavigationTimeout = 0 },
			wantErr: "network.navigation_timeout must be a positive duration",
		},
		{
			name:    "zero max sessions",
			mutate:  func(c *Config) { c.Server.MaxSessions = 0 },
			wantErr: "server.max_sessions must be a positive integer",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.Server.RateLimit = 0 },
			wantErr: "server.rate_limit must be positive",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
