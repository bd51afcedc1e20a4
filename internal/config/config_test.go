package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "ENVIRONMENT", "PORT", "SHUTDOWN_TIMEOUT", "WS_SEND_BUFFER",
		"PRICES_URL", "FETCH_TIMEOUT", "DEBOUNCE_DELAY", "DISPLAY_PRECISION",
		"THOUSAND_SEPARATOR", "DECIMAL_SEPARATOR",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 16, cfg.Server.WSSendBuffer)
	assert.Equal(t, DefaultPricesURL, cfg.Prices.URL)
	assert.Equal(t, 10*time.Second, cfg.Prices.FetchTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Converter.DebounceDelay)
	assert.Equal(t, 3, cfg.Converter.DisplayPrecision)
	assert.Equal(t, ",", cfg.Converter.ThousandSeparator)
	assert.Equal(t, ".", cfg.Converter.DecimalSeparator)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("PRICES_URL", "http://localhost:9999/prices.json")
	t.Setenv("DEBOUNCE_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://localhost:9999/prices.json", cfg.Prices.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.Converter.DebounceDelay)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: staging
server:
  port: "7070"
converter:
  debounce_delay: 1s
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, time.Second, cfg.Converter.DebounceDelay)
	assert.Equal(t, DefaultPricesURL, cfg.Prices.URL)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Prices:    PricesConfig{URL: DefaultPricesURL},
			Server:    ServerConfig{WSSendBuffer: 1},
			Converter: ConverterConfig{DebounceDelay: time.Millisecond, DisplayPrecision: 3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "Valid", mutate: func(c *Config) {}},
		{name: "Empty URL", mutate: func(c *Config) { c.Prices.URL = "" }, wantErr: true},
		{name: "Negative delay", mutate: func(c *Config) { c.Converter.DebounceDelay = -time.Second }, wantErr: true},
		{name: "Zero delay", mutate: func(c *Config) { c.Converter.DebounceDelay = 0 }},
		{name: "Negative precision", mutate: func(c *Config) { c.Converter.DisplayPrecision = -1 }, wantErr: true},
		{name: "No send buffer", mutate: func(c *Config) { c.Server.WSSendBuffer = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
