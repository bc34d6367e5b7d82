package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/prairielab/credence/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Credence configuration",
	Long: `Manage Credence configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CREDENCE_*)
3. Config file (~/.credence/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Println(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		configDir := home + "/.credence"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'credence config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("create config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		header := `# Credence Configuration File
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (CREDENCE_*)
#   3. This config file
#   4. Built-in defaults

`
		if _, err := f.WriteString(header); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		if _, err := f.Write(yamlData); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		footer := `
# The LLM API key is read from the environment, never from this file:
#   export OPENAI_API_KEY=sk-...
`
		if _, err := f.WriteString(footer); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Printf("Created default configuration: %s\n", configPath)
		return nil
	},
}

// loadConfig builds the runtime configuration: defaults overlaid with the
// recognized config-file/environment keys, then validated. Unknown platform
// keys or incoherent thresholds fail here, before any scoring.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if v := viper.GetString("data.dir"); v != "" {
		cfg.Data.Dir = v
	}
	if v := viper.GetString("output.dir"); v != "" {
		cfg.Output.Dir = v
	}
	cfg.Output.Verbose = viper.GetBool("output.verbose")

	if viper.IsSet("concurrency.workers") {
		cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	}
	if viper.IsSet("concurrency.creators_per_second") {
		cfg.Concurrency.CreatorsPerSecond = viper.GetFloat64("concurrency.creators_per_second")
	}
	if viper.IsSet("concurrency.result_ttl_minutes") {
		cfg.Concurrency.ResultTTLMinutes = viper.GetInt("concurrency.result_ttl_minutes")
	}

	if viper.IsSet("verification.high_threshold") {
		cfg.Verification.HighThreshold = viper.GetFloat64("verification.high_threshold")
	}
	if viper.IsSet("verification.medium_threshold") {
		cfg.Verification.MediumThreshold = viper.GetFloat64("verification.medium_threshold")
	}
	if viper.IsSet("verification.single_source_cap") {
		cfg.Verification.SingleSourceCap = viper.GetFloat64("verification.single_source_cap")
	}
	if viper.IsSet("verification.certainty_weight") {
		cfg.Verification.CertaintyWeight = viper.GetFloat64("verification.certainty_weight")
	}

	if viper.IsSet("platforms.default_weight") {
		cfg.Platforms.DefaultWeight = viper.GetFloat64("platforms.default_weight")
	}
	if weights := viper.GetStringMapString("platforms.weights"); len(weights) > 0 {
		parsed := make(map[model.Platform]float64, len(weights))
		for name, raw := range weights {
			w, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("config: platform weight for %q: %w", name, err)
			}
			platform, _ := model.ParsePlatform(name)
			parsed[platform] = w
		}
		cfg.Platforms.Weights = parsed
	}

	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if viper.IsSet("llm.max_tokens") {
		cfg.LLM.MaxTokens = viper.GetInt("llm.max_tokens")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
