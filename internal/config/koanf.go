// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ordersight/config.yaml",
	"/etc/ordersight/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are applied
// first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8094,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:         "/data/ordersight.duckdb",
			MaxMemory:    "2GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			SeedMockData: false,
		},
		API: APIConfig{
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxFailures: 5,
			OpenTimeout: 30 * time.Second,
		},
		Forecast: ForecastPolicy{
			DefaultWindowDays:     30,
			LeadTimeDays:          7,
			SafetyStockDays:       7,
			StockoutSentinelDays:  999,
			OrderHorizonDays:      30,
			IncreasingHorizonDays: 60,
			TrendUpPct:            20.0,
			TrendDownPct:          20.0,
			CriticalDays:          3,
			HighDays:              7,
			MediumDays:            14,
			CandidateMaxStock:     50,
			SummaryExcludeDays:    365,
		},
		Recommend: RecommendPolicy{
			DefaultLimit:           4,
			BoughtTogetherLimit:    3,
			TrendingWindowDays:     30,
			PersonalizedOrderCount: 10,
		},
		RFM: RFMPolicy{
			RecencyDays1:     180,
			RecencyDays2:     90,
			RecencyDays3:     60,
			RecencyDays4:     30,
			FrequencyOrders5: 20,
			FrequencyOrders4: 10,
			FrequencyOrders3: 5,
			FrequencyOrders2: 2,
			MonetarySpend5:   1000,
			MonetarySpend4:   500,
			MonetarySpend3:   250,
			MonetarySpend2:   100,
			VIPScore:         13,
			LoyalScore:       10,
			RegularScore:     7,
			AtRiskDays:       90,
			TopCategories:    5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// Precedence: ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; known slice fields need splitting.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from the YAML file)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are dropped so random environment noise cannot pollute
// the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",

		// Database mappings
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",
		"seed_mock_data":    "database.seed_mock_data",

		// API mappings
		"rate_limit_requests": "api.rate_limit_reqs",
		"rate_limit_window":   "api.rate_limit_window",
		"cors_origins":        "api.cors_origins",

		// Circuit breaker mappings
		"breaker_enabled":      "breaker.enabled",
		"breaker_max_failures": "breaker.max_failures",
		"breaker_open_timeout": "breaker.open_timeout",

		// Forecast policy mappings
		"forecast_window_days":        "forecast.default_window_days",
		"forecast_lead_time_days":     "forecast.lead_time_days",
		"forecast_safety_stock_days":  "forecast.safety_stock_days",
		"forecast_stockout_sentinel":  "forecast.stockout_sentinel_days",
		"forecast_order_horizon":      "forecast.order_horizon_days",
		"forecast_increasing_horizon": "forecast.increasing_horizon_days",
		"forecast_trend_up_pct":       "forecast.trend_up_pct",
		"forecast_trend_down_pct":     "forecast.trend_down_pct",
		"forecast_critical_days":      "forecast.critical_days",
		"forecast_high_days":          "forecast.high_days",
		"forecast_medium_days":        "forecast.medium_days",
		"forecast_candidate_stock":    "forecast.candidate_max_stock",
		"forecast_summary_exclude":    "forecast.summary_exclude_days",

		// Recommendation policy mappings
		"recommend_default_limit":   "recommend.default_limit",
		"recommend_fbt_limit":       "recommend.bought_together_limit",
		"recommend_trending_window": "recommend.trending_window_days",
		"recommend_personal_orders": "recommend.personalized_order_count",

		// RFM policy mappings
		"rfm_vip_score":      "rfm.vip_score",
		"rfm_loyal_score":    "rfm.loyal_score",
		"rfm_regular_score":  "rfm.regular_score",
		"rfm_at_risk_days":   "rfm.at_risk_days",
		"rfm_top_categories": "rfm.top_categories",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
