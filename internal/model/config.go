package model

import (
	"fmt"
	"time"
)

// Config is the full runtime configuration. Policy knobs the engines consume
// (platform weights, confidence thresholds) are explicit typed fields with
// enumerated keys, validated at load time, never open-ended maps.
type Config struct {
	Data         DataConfig         `yaml:"data"`
	Output       OutputConfig       `yaml:"output"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency"`
	Platforms    PlatformConfig     `yaml:"platforms"`
	Verification VerificationConfig `yaml:"verification"`
	LLM          LLMConfig          `yaml:"llm"`
}

// DataConfig locates the dataset export files
type DataConfig struct {
	Dir string `yaml:"dir"` // directory holding creators.csv, evidence.csv, metrics.csv, business.csv
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// ConcurrencyConfig controls the batch orchestrator
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers"`
	CreatorsPerSecond float64 `yaml:"creators_per_second"` // 0 disables throttling
	ResultTTLMinutes  int     `yaml:"result_ttl_minutes"`  // retention in the run's result store
}

// ResultTTL returns the result-store retention as a duration
func (c ConcurrencyConfig) ResultTTL() time.Duration {
	return time.Duration(c.ResultTTLMinutes) * time.Minute
}

// PlatformConfig is the footprint weighting policy. Every key is a
// recognized Platform; weights reflect discoverability, not size.
type PlatformConfig struct {
	Weights       map[Platform]float64 `yaml:"weights"`
	DefaultWeight float64              `yaml:"default_weight"` // for platforms absent from the table
}

// Weight returns the configured weight for a platform
func (p PlatformConfig) Weight(platform Platform) float64 {
	if w, ok := p.Weights[platform]; ok {
		return w
	}
	return p.DefaultWeight
}

// VerificationConfig holds the confidence policy: level thresholds and the
// single-source certainty rules. All overridable by a calling configuration.
type VerificationConfig struct {
	HighThreshold   float64 `yaml:"high_threshold"`    // confidence >= -> High
	MediumThreshold float64 `yaml:"medium_threshold"`  // confidence >= -> Medium
	SingleSourceCap float64 `yaml:"single_source_cap"` // ceiling without certainty-grade evidence
	CertaintyWeight float64 `yaml:"certainty_weight"`  // Verified weight >= this relaxes the cap to 1.0
}

// LLMConfig configures the optional narrative summarizer. It runs strictly
// after scoring and can never change a score.
type LLMConfig struct {
	Provider       string `yaml:"provider"` // "openai" or "" (disabled)
	Model          string `yaml:"model"`
	APIKey         string `yaml:"-"` // from environment only, never persisted
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxTokens      int    `yaml:"max_tokens"`
}

// Default confidence policy values
const (
	DefaultHighThreshold   = 0.75
	DefaultMediumThreshold = 0.45
	DefaultSingleSourceCap = 0.95
	DefaultCertaintyWeight = 0.95
)

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "./data/exports",
		},
		Output: OutputConfig{
			Dir: "./reports",
		},
		Concurrency: ConcurrencyConfig{
			Workers:          4,
			ResultTTLMinutes: 60,
		},
		Platforms: PlatformConfig{
			Weights: map[Platform]float64{
				PlatformX:         0.8,
				PlatformInstagram: 0.9,
				PlatformTikTok:    0.85,
				PlatformReddit:    0.6,
				PlatformOnlyFans:  0.4,
				PlatformFansly:    0.4,
				PlatformManyVids:  0.3,
				PlatformYouTube:   0.7,
				PlatformTwitch:    0.5,
			},
			DefaultWeight: 0.5,
		},
		Verification: VerificationConfig{
			HighThreshold:   DefaultHighThreshold,
			MediumThreshold: DefaultMediumThreshold,
			SingleSourceCap: DefaultSingleSourceCap,
			CertaintyWeight: DefaultCertaintyWeight,
		},
		LLM: LLMConfig{
			Provider:       "",
			TimeoutSeconds: 30,
			MaxTokens:      800,
		},
	}
}

// Validate checks the configuration for unrecognized keys and incoherent
// policy values
func (c *Config) Validate() error {
	for platform, weight := range c.Platforms.Weights {
		if !platform.Valid() {
			return fmt.Errorf("config: unrecognized platform %q in weight table", platform)
		}
		if weight < 0 || weight > 1 {
			return fmt.Errorf("config: platform weight %v for %s outside [0,1]", weight, platform)
		}
	}
	if c.Platforms.DefaultWeight < 0 || c.Platforms.DefaultWeight > 1 {
		return fmt.Errorf("config: default platform weight %v outside [0,1]", c.Platforms.DefaultWeight)
	}
	v := c.Verification
	if v.HighThreshold <= v.MediumThreshold {
		return fmt.Errorf("config: high threshold %v must exceed medium threshold %v", v.HighThreshold, v.MediumThreshold)
	}
	if v.MediumThreshold <= 0 || v.HighThreshold >= 1 {
		return fmt.Errorf("config: thresholds must lie strictly inside (0,1)")
	}
	if v.SingleSourceCap <= 0 || v.SingleSourceCap > 1 {
		return fmt.Errorf("config: single source cap %v outside (0,1]", v.SingleSourceCap)
	}
	if v.CertaintyWeight <= 0 || v.CertaintyWeight > 1 {
		return fmt.Errorf("config: certainty weight %v outside (0,1]", v.CertaintyWeight)
	}
	if c.Concurrency.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0")
	}
	if c.Concurrency.CreatorsPerSecond < 0 {
		return fmt.Errorf("config: creators_per_second must be >= 0")
	}
	return nil
}
