// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory call event queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of call pipeline workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the call-ID idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// AnalyzerLatencyMinMS and AnalyzerLatencyMaxMS bound the simulated
	// transcript analyzer latency.
	AnalyzerLatencyMinMS int `koanf:"analyzer_latency_min_ms"`
	AnalyzerLatencyMaxMS int `koanf:"analyzer_latency_max_ms"`

	// StoreDriver selects the repository backend: "memory" or "postgres".
	StoreDriver string `koanf:"store_driver"`

	// PostgresURL is the connection string used when StoreDriver is "postgres".
	PostgresURL string `koanf:"postgres_url"`

	// RequiredIdentityTokens: a transcript missing every token draws a
	// compliance warning.
	RequiredIdentityTokens []string `koanf:"required_identity_tokens"`

	// ProhibitedPhrases are hard compliance violations.
	ProhibitedPhrases []string `koanf:"prohibited_phrases"`

	// LongCallThresholdChars marks a transcript long enough that a missing
	// appointment attempt draws a warning.
	LongCallThresholdChars int `koanf:"long_call_threshold_chars"`

	// SkillGapThreshold is the proficiency score below which a subskill
	// counts as a gap.
	SkillGapThreshold int `koanf:"skill_gap_threshold"`
}

// New creates a Config with service defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		QueueSize:            10_000,
		WorkerCount:          runtime.NumCPU() * 2,
		DedupeSize:           100_000,
		MaxLeaderboardLimit:  100,
		AnalyzerLatencyMinMS: 80,
		AnalyzerLatencyMaxMS: 150,
		StoreDriver:          "memory",
		RequiredIdentityTokens: []string{
			"oakmont",
			"realty",
		},
		ProhibitedPhrases: []string{
			"guarantee",
			"risk-free",
			"no risk",
			"definitely sell",
		},
		LongCallThresholdChars: 1000,
		SkillGapThreshold:      60,
	}
}
