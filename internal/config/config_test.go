package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadFrom tests configuration precedence across sources
func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8501, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://localhost:8501"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, DefaultCacheSize, cfg.Data.CacheSize)
				assert.Equal(t, DefaultCacheTTL, cfg.Data.CacheTTL)
				assert.Equal(t, 50.0, cfg.Data.DaytimeThreshold)
				assert.Equal(t, 50, cfg.Data.HistogramBins)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Empty(t, cfg.Paths.DataDir)
			},
		},
		{
			name: "file values override defaults",
			file: `
server:
  port: 9000
data:
  cache_ttl: 2m
  histogram_bins: 30
paths:
  data_dir: /srv/solar
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, 2*time.Minute, cfg.Data.CacheTTL)
				assert.Equal(t, 30, cfg.Data.HistogramBins)
				assert.Equal(t, "/srv/solar", cfg.Paths.DataDir)
				// untouched sections keep their defaults
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultCacheSize, cfg.Data.CacheSize)
			},
		},
		{
			name: "env overrides file",
			file: `
server:
  port: 9000
logging:
  level: warn
`,
			env: map[string]string{
				"SOLAR_SERVER_PORT":     "9100",
				"SOLAR_DATA_CACHE_SIZE": "4",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9100, cfg.Server.Port)
				assert.Equal(t, 4, cfg.Data.CacheSize)
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
		{
			name: "env list value",
			env: map[string]string{
				"SOLAR_SECURITY_ALLOWED_ORIGINS": "http://a.example,http://b.example",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name: "unknown logging output is normalized",
			env:  map[string]string{"SOLAR_LOGGING_OUTPUT": "syslog"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"SOLAR_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"SOLAR_SERVER_PORT": "not-a-port"},
			wantErr: true,
		},
		{
			name:    "histogram bins out of range",
			file:    "data:\n  histogram_bins: 501\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [unterminated",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetConfigFilePathFromEnv(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 8600\n")
	t.Setenv("SOLAR_CONFIG_FILE", path)

	assert.Equal(t, path, getConfigFilePath())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8600, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid default", func(*Config) {}, ""},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "read timeout"},
		{"cors without origins", func(c *Config) { c.Security.AllowedOrigins = nil }, "allowed origin"},
		{"cors disabled without origins", func(c *Config) {
			c.Security.EnableCORS = false
			c.Security.AllowedOrigins = nil
		}, ""},
		{"rate limit without burst", func(c *Config) { c.Security.RateLimit.Burst = 0 }, "rate limit"},
		{"zero cache size", func(c *Config) { c.Data.CacheSize = 0 }, "cache size"},
		{"too few series points", func(c *Config) { c.Data.MaxSeriesPoints = 5 }, "series points"},
		{"zero z-score threshold", func(c *Config) { c.Data.ZScoreThreshold = 0 }, "z-score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
