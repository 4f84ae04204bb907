// Package config loads and validates engine configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the ranking engine. Every tunable
// the scoring pipeline uses lives here; nothing is hard-coded in logic.
type Config struct {
	Decay    DecayConfig    `yaml:"decay"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Learning LearningConfig `yaml:"learning"`
	Gate     GateConfig     `yaml:"gate"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`

	// ContextModifiers maps context types to per-component weight
	// multipliers. Loaded alongside the built-in table so deployments can
	// add context types without code changes.
	ContextModifiers ModifierTable `yaml:"context_modifiers"`
}

// DecayConfig parameterizes the temporal decay model.
type DecayConfig struct {
	// RatePerDay is the linear decay applied per day of age.
	RatePerDay float64 `yaml:"rate_per_day"`

	// Floor is the minimum decay multiplier; age alone never pushes
	// effective salience below Floor × base.
	Floor float64 `yaml:"floor"`

	// BoostPerAccess is the reinforcement added per recorded access.
	BoostPerAccess float64 `yaml:"boost_per_access"`

	// MaxBoost caps the reinforcement multiplier.
	MaxBoost float64 `yaml:"max_boost"`

	// AttentionThreshold is the effective score below which a memory is
	// considered to have faded from attention.
	AttentionThreshold float64 `yaml:"attention_threshold"`

	// ContextBoostMax caps the context-relevance multiplier.
	ContextBoostMax float64 `yaml:"context_boost_max"`
}

// RankingConfig parameterizes the retrieval ranker.
type RankingConfig struct {
	// SemanticWeight and SalienceWeight split the base score between
	// query similarity and decayed salience. They must sum to 1.0.
	SemanticWeight float64 `yaml:"semantic_weight"`
	SalienceWeight float64 `yaml:"salience_weight"`

	DefaultLimit int `yaml:"default_limit"`

	// Temporal-focus bonuses, applied when a candidate's age matches the
	// requested focus window.
	DefaultFocusBonus    float64 `yaml:"default_focus_bonus"`
	RecentFocusBonus     float64 `yaml:"recent_focus_bonus"`
	ThisWeekFocusBonus   float64 `yaml:"this_week_focus_bonus"`
	HistoricalFocusBonus float64 `yaml:"historical_focus_bonus"`
	UpcomingFocusBonus   float64 `yaml:"upcoming_focus_bonus"`

	// ImminentEventBonus applies when the memory's contact has a calendar
	// event within ImminentEventWindow.
	ImminentEventBonus  float64       `yaml:"imminent_event_bonus"`
	ImminentEventWindow time.Duration `yaml:"imminent_event_window"`

	// DeadlineBonusMax scales linearly with deadline proximity inside
	// DeadlineWindow for candidates with an open commitment.
	DeadlineBonusMax float64       `yaml:"deadline_bonus_max"`
	DeadlineWindow   time.Duration `yaml:"deadline_window"`

	// EngagedRelationshipBonus applies when the candidate's contact was
	// engaged within EngagedWindow.
	EngagedRelationshipBonus float64       `yaml:"engaged_relationship_bonus"`
	EngagedWindow            time.Duration `yaml:"engaged_window"`
}

// LearningConfig parameterizes the adaptive weight learner.
type LearningConfig struct {
	// WindowDays bounds how far back retrieval history is analyzed.
	WindowDays int `yaml:"window_days"`

	// MinSampleSize is the minimum number of log rows required before a
	// recalibration may overwrite learned weights.
	MinSampleSize int `yaml:"min_sample_size"`

	// MinConfidence gates whether learned weights participate in
	// effective-weight resolution at all.
	MinConfidence float64 `yaml:"min_confidence"`

	// LearningRate blends learned with default weights: 0 is always
	// default, 1 is always learned.
	LearningRate float64 `yaml:"learning_rate"`

	// ConfidenceSaturation is the sample size at which confidence reaches
	// ~0.63 (1-1/e); confidence saturates toward 1 beyond it.
	ConfidenceSaturation int `yaml:"confidence_saturation"`
}

// GateConfig parameterizes the context gates.
type GateConfig struct {
	// Threshold is the minimum neural gate score for a pass.
	Threshold float64 `yaml:"threshold"`

	// Dimension is the expected embedding dimensionality.
	Dimension int `yaml:"dimension"`

	// NeutralScore is assigned by the semantic gate to candidates with no
	// stored context frame, avoiding unfair exclusion.
	NeutralScore float64 `yaml:"neutral_score"`
}

// StoreConfig parameterizes persistence and the weight cache.
type StoreConfig struct {
	// Path is the sqlite database file; empty means in-memory.
	Path string `yaml:"path"`

	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// LoggingConfig parameterizes structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Decay: DecayConfig{
			RatePerDay:         0.01,
			Floor:              0.3,
			BoostPerAccess:     0.02,
			MaxBoost:           1.5,
			AttentionThreshold: 30,
			ContextBoostMax:    1.2,
		},
		Ranking: RankingConfig{
			SemanticWeight:           0.6,
			SalienceWeight:           0.4,
			DefaultLimit:             10,
			DefaultFocusBonus:        0.05,
			RecentFocusBonus:         0.15,
			ThisWeekFocusBonus:       0.10,
			HistoricalFocusBonus:     0.10,
			UpcomingFocusBonus:       0.12,
			ImminentEventBonus:       0.10,
			ImminentEventWindow:      3 * 24 * time.Hour,
			DeadlineBonusMax:         0.15,
			DeadlineWindow:           7 * 24 * time.Hour,
			EngagedRelationshipBonus: 0.05,
			EngagedWindow:            14 * 24 * time.Hour,
		},
		Learning: LearningConfig{
			WindowDays:           30,
			MinSampleSize:        20,
			MinConfidence:        0.3,
			LearningRate:         0.3,
			ConfidenceSaturation: 50,
		},
		Gate: GateConfig{
			Threshold:    0.5,
			Dimension:    1536,
			NeutralScore: 0.3,
		},
		Store: StoreConfig{
			Path:      "",
			CacheSize: 1000,
			CacheTTL:  5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		ContextModifiers: DefaultModifierTable(),
	}
}

// Load reads a yaml config file, expands environment variables, merges it
// over defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot safely correct. Weight
// vectors that merely drift from 1.0 are renormalized at use; the defects
// rejected here (negative rates, inverted ranges) have no safe fix.
func (c *Config) Validate() error {
	if c.Decay.RatePerDay < 0 {
		return fmt.Errorf("decay.rate_per_day must be >= 0, got %v", c.Decay.RatePerDay)
	}
	if c.Decay.Floor < 0 || c.Decay.Floor > 1 {
		return fmt.Errorf("decay.floor must be in [0,1], got %v", c.Decay.Floor)
	}
	if c.Decay.BoostPerAccess < 0 {
		return fmt.Errorf("decay.boost_per_access must be >= 0, got %v", c.Decay.BoostPerAccess)
	}
	if c.Decay.MaxBoost < 1 {
		return fmt.Errorf("decay.max_boost must be >= 1, got %v", c.Decay.MaxBoost)
	}
	if c.Decay.ContextBoostMax < 1 {
		return fmt.Errorf("decay.context_boost_max must be >= 1, got %v", c.Decay.ContextBoostMax)
	}
	if c.Ranking.SemanticWeight < 0 || c.Ranking.SalienceWeight < 0 {
		return fmt.Errorf("ranking weights must be >= 0")
	}
	if sum := c.Ranking.SemanticWeight + c.Ranking.SalienceWeight; sum < 0.95 || sum > 1.05 {
		return fmt.Errorf("ranking semantic+salience weights must sum to ~1.0, got %v", sum)
	}
	if c.Learning.MinSampleSize < 1 {
		return fmt.Errorf("learning.min_sample_size must be >= 1, got %d", c.Learning.MinSampleSize)
	}
	if c.Learning.LearningRate < 0 || c.Learning.LearningRate > 1 {
		return fmt.Errorf("learning.learning_rate must be in [0,1], got %v", c.Learning.LearningRate)
	}
	if c.Learning.MinConfidence < 0 || c.Learning.MinConfidence > 1 {
		return fmt.Errorf("learning.min_confidence must be in [0,1], got %v", c.Learning.MinConfidence)
	}
	if c.Gate.Threshold < 0 || c.Gate.Threshold > 1 {
		return fmt.Errorf("gate.threshold must be in [0,1], got %v", c.Gate.Threshold)
	}
	if c.Gate.Dimension < 1 {
		return fmt.Errorf("gate.dimension must be >= 1, got %d", c.Gate.Dimension)
	}
	if err := c.ContextModifiers.Validate(); err != nil {
		return fmt.Errorf("context_modifiers: %w", err)
	}
	return nil
}
