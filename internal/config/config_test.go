// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package config

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestDefaultPolicyValues(t *testing.T) {
	cfg := defaultConfig()

	// Forecast policy carries the documented business constants.
	if cfg.Forecast.LeadTimeDays != 7 || cfg.Forecast.SafetyStockDays != 7 {
		t.Errorf("lead/safety = %d/%d, want 7/7", cfg.Forecast.LeadTimeDays, cfg.Forecast.SafetyStockDays)
	}
	if cfg.Forecast.StockoutSentinelDays != 999 {
		t.Errorf("stockout sentinel = %d, want 999", cfg.Forecast.StockoutSentinelDays)
	}
	if cfg.Forecast.CriticalDays != 3 || cfg.Forecast.HighDays != 7 || cfg.Forecast.MediumDays != 14 {
		t.Errorf("risk boundaries = %d/%d/%d, want 3/7/14",
			cfg.Forecast.CriticalDays, cfg.Forecast.HighDays, cfg.Forecast.MediumDays)
	}
	if cfg.Forecast.CandidateMaxStock != 50 {
		t.Errorf("candidate max stock = %d, want 50", cfg.Forecast.CandidateMaxStock)
	}

	// Frequently-bought-together is the same algorithm with a smaller default.
	if cfg.Recommend.BoughtTogetherLimit >= cfg.Recommend.DefaultLimit {
		t.Errorf("bought together limit %d should be below default %d",
			cfg.Recommend.BoughtTogetherLimit, cfg.Recommend.DefaultLimit)
	}

	// RFM combined score spans 3-15 with these thresholds.
	if cfg.RFM.VIPScore != 13 || cfg.RFM.LoyalScore != 10 || cfg.RFM.RegularScore != 7 {
		t.Errorf("segment thresholds = %d/%d/%d, want 13/10/7",
			cfg.RFM.VIPScore, cfg.RFM.LoyalScore, cfg.RFM.RegularScore)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "negative window",
			mutate:  func(c *Config) { c.Forecast.DefaultWindowDays = 0 },
			wantErr: "default_window_days",
		},
		{
			name:    "inverted risk boundaries",
			mutate:  func(c *Config) { c.Forecast.CriticalDays = 20 },
			wantErr: "risk boundaries",
		},
		{
			name:    "non-positive trend threshold",
			mutate:  func(c *Config) { c.Forecast.TrendDownPct = 0 },
			wantErr: "trend thresholds",
		},
		{
			name:    "zero recommendation limit",
			mutate:  func(c *Config) { c.Recommend.DefaultLimit = 0 },
			wantErr: "recommendation limits",
		},
		{
			name:    "unordered rfm segments",
			mutate:  func(c *Config) { c.RFM.VIPScore = 5 },
			wantErr: "segment thresholds",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"SEED_MOCK_DATA", "database.seed_mock_data"},
		{"FORECAST_LEAD_TIME_DAYS", "forecast.lead_time_days"},
		{"RECOMMEND_FBT_LIMIT", "recommend.bought_together_limit"},
		{"RFM_AT_RISK_DAYS", "rfm.at_risk_days"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},    // unmapped noise is dropped
		{"HOME", ""},    // unmapped noise is dropped
		{"GOPROXY", ""}, // unmapped noise is dropped
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FORECAST_STOCKOUT_SENTINEL", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Forecast.StockoutSentinelDays != 500 {
		t.Errorf("sentinel = %d, want 500", cfg.Forecast.StockoutSentinelDays)
	}
	// Untouched settings keep defaults.
	if cfg.Forecast.LeadTimeDays != 7 {
		t.Errorf("lead time = %d, want default 7", cfg.Forecast.LeadTimeDays)
	}
}

func TestLoadSplitsCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(cfg.API.CORSOrigins) != 2 {
		t.Fatalf("cors origins = %v, want 2 entries", cfg.API.CORSOrigins)
	}
	if cfg.API.CORSOrigins[0] != "https://a.example" || cfg.API.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v", cfg.API.CORSOrigins)
	}
}
