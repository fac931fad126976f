// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

// Package config provides layered configuration loading for Ordersight using
// Koanf v2. Settings come from built-in defaults, an optional YAML file, and
// environment variables, with environment variables taking highest priority.
//
// Business policy (forecast lead times, trend thresholds, RFM bucket edges,
// recommendation limits) lives in explicit policy structs rather than
// hard-coded literals, so policy changes never touch algorithm code.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure for Ordersight.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	API       APIConfig       `koanf:"api"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Forecast  ForecastPolicy  `koanf:"forecast"`
	Recommend RecommendPolicy `koanf:"recommend"`
	RFM       RFMPolicy       `koanf:"rfm"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Use ":memory:" for ephemeral storage.
	Path string `koanf:"path"`

	// MaxMemory is the DuckDB memory limit (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`

	// SeedMockData populates the store with generated orders and products.
	// Intended for development and screenshot environments only.
	SeedMockData bool `koanf:"seed_mock_data"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	// RateLimitReqs is the per-client request budget per window.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// BreakerConfig holds circuit breaker settings for repository access.
// A tripped breaker surfaces as a repository failure to callers; the engine
// performs no retries of its own.
type BreakerConfig struct {
	Enabled     bool          `koanf:"enabled"`
	MaxFailures uint32        `koanf:"max_failures"`
	OpenTimeout time.Duration `koanf:"open_timeout"`
}

// ForecastPolicy holds the business constants behind inventory forecasting.
// These are policy, not mechanism: changing a threshold must not require an
// algorithm change.
type ForecastPolicy struct {
	// DefaultWindowDays is the analysis window when the caller gives none.
	DefaultWindowDays int `koanf:"default_window_days"`

	// LeadTimeDays is the supplier lead time used for the reorder point.
	LeadTimeDays int `koanf:"lead_time_days"`

	// SafetyStockDays is the safety buffer used for the reorder point.
	SafetyStockDays int `koanf:"safety_stock_days"`

	// StockoutSentinelDays is reported as days-until-stockout when there are
	// no sales in the window. A finite sentinel keeps the value sortable and
	// comparable; it is deliberately not +Inf.
	StockoutSentinelDays int `koanf:"stockout_sentinel_days"`

	// OrderHorizonDays is the restock horizon for stable/decreasing demand.
	OrderHorizonDays int `koanf:"order_horizon_days"`

	// IncreasingHorizonDays is the restock horizon for increasing demand.
	IncreasingHorizonDays int `koanf:"increasing_horizon_days"`

	// TrendUpPct and TrendDownPct classify the half-window percent change.
	// Both are positive magnitudes: change above TrendUpPct is increasing,
	// change below -TrendDownPct is decreasing.
	TrendUpPct   float64 `koanf:"trend_up_pct"`
	TrendDownPct float64 `koanf:"trend_down_pct"`

	// Risk bucket upper bounds in days, inclusive.
	CriticalDays int `koanf:"critical_days"`
	HighDays     int `koanf:"high_days"`
	MediumDays   int `koanf:"medium_days"`

	// CandidateMaxStock bounds the fleet scan: products stocked above this
	// level are never at risk within normal sales velocities and are skipped.
	CandidateMaxStock int `koanf:"candidate_max_stock"`

	// SummaryExcludeDays excludes long-tail forecasts (and the sentinel) from
	// the fleet average so they do not skew the mean.
	SummaryExcludeDays int `koanf:"summary_exclude_days"`
}

// RecommendPolicy holds recommendation strategy settings.
type RecommendPolicy struct {
	// DefaultLimit is the result count for co-purchase, category-affinity,
	// trending, and personalized strategies.
	DefaultLimit int `koanf:"default_limit"`

	// BoughtTogetherLimit is the result count for the frequently-bought-
	// together alias. Same algorithm as co-purchase, smaller default.
	BoughtTogetherLimit int `koanf:"bought_together_limit"`

	// TrendingWindowDays is the sales window for the trending strategy.
	TrendingWindowDays int `koanf:"trending_window_days"`

	// PersonalizedOrderCount caps how many recent orders feed preference
	// extraction for the personalized strategy.
	PersonalizedOrderCount int `koanf:"personalized_order_count"`
}

// RFMPolicy holds RFM scoring bucket edges and segment thresholds.
// All score buckets map to 1-5; the combined score spans 3-15.
type RFMPolicy struct {
	// Recency bucket edges in days since last order, evaluated high to low.
	RecencyDays1 int `koanf:"recency_days_1"` // beyond this: score 1
	RecencyDays2 int `koanf:"recency_days_2"`
	RecencyDays3 int `koanf:"recency_days_3"`
	RecencyDays4 int `koanf:"recency_days_4"` // within this: score 5

	// Frequency bucket edges in lifetime order counts.
	FrequencyOrders5 int `koanf:"frequency_orders_5"` // at or above: score 5
	FrequencyOrders4 int `koanf:"frequency_orders_4"`
	FrequencyOrders3 int `koanf:"frequency_orders_3"`
	FrequencyOrders2 int `koanf:"frequency_orders_2"`

	// Monetary bucket edges in lifetime spend.
	MonetarySpend5 float64 `koanf:"monetary_spend_5"` // at or above: score 5
	MonetarySpend4 float64 `koanf:"monetary_spend_4"`
	MonetarySpend3 float64 `koanf:"monetary_spend_3"`
	MonetarySpend2 float64 `koanf:"monetary_spend_2"`

	// Segment thresholds on the combined score, evaluated top-down.
	VIPScore     int `koanf:"vip_score"`
	LoyalScore   int `koanf:"loyal_score"`
	RegularScore int `koanf:"regular_score"`

	// AtRiskDays marks long-inactive repeat customers as At Risk when no
	// score band matched.
	AtRiskDays int `koanf:"at_risk_days"`

	// TopCategories is how many category preferences the analysis returns.
	TopCategories int `koanf:"top_categories"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for consistency. It is called after
// loading, so a misconfigured service fails at startup rather than at the
// first query.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateForecast(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateRFM(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must not be negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateForecast() error {
	f := c.Forecast
	if f.DefaultWindowDays < 1 {
		return fmt.Errorf("forecast.default_window_days must be at least 1, got %d", f.DefaultWindowDays)
	}
	if f.LeadTimeDays < 0 || f.SafetyStockDays < 0 {
		return fmt.Errorf("forecast lead time and safety stock must not be negative")
	}
	if f.StockoutSentinelDays < 1 {
		return fmt.Errorf("forecast.stockout_sentinel_days must be positive, got %d", f.StockoutSentinelDays)
	}
	if !(f.CriticalDays < f.HighDays && f.HighDays < f.MediumDays) {
		return fmt.Errorf("forecast risk boundaries must be strictly increasing: critical=%d high=%d medium=%d",
			f.CriticalDays, f.HighDays, f.MediumDays)
	}
	if f.TrendUpPct <= 0 || f.TrendDownPct <= 0 {
		return fmt.Errorf("forecast trend thresholds must be positive percentages: up=%.1f down=%.1f",
			f.TrendUpPct, f.TrendDownPct)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.DefaultLimit < 1 || r.BoughtTogetherLimit < 1 {
		return fmt.Errorf("recommendation limits must be at least 1")
	}
	if r.TrendingWindowDays < 1 {
		return fmt.Errorf("recommend.trending_window_days must be at least 1, got %d", r.TrendingWindowDays)
	}
	if r.PersonalizedOrderCount < 1 {
		return fmt.Errorf("recommend.personalized_order_count must be at least 1, got %d", r.PersonalizedOrderCount)
	}
	return nil
}

func (c *Config) validateRFM() error {
	r := c.RFM
	if !(r.RecencyDays4 < r.RecencyDays3 && r.RecencyDays3 < r.RecencyDays2 && r.RecencyDays2 < r.RecencyDays1) {
		return fmt.Errorf("rfm recency edges must be strictly increasing")
	}
	if !(r.FrequencyOrders2 < r.FrequencyOrders3 && r.FrequencyOrders3 < r.FrequencyOrders4 && r.FrequencyOrders4 < r.FrequencyOrders5) {
		return fmt.Errorf("rfm frequency edges must be strictly increasing")
	}
	if !(r.MonetarySpend2 < r.MonetarySpend3 && r.MonetarySpend3 < r.MonetarySpend4 && r.MonetarySpend4 < r.MonetarySpend5) {
		return fmt.Errorf("rfm monetary edges must be strictly increasing")
	}
	if !(r.RegularScore < r.LoyalScore && r.LoyalScore < r.VIPScore) {
		return fmt.Errorf("rfm segment thresholds must be strictly increasing")
	}
	if r.TopCategories < 1 {
		return fmt.Errorf("rfm.top_categories must be at least 1, got %d", r.TopCategories)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
