package cmd

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teamfit/teamfit/internal/ranking"
	"github.com/teamfit/teamfit/internal/team"
)

const (
	app = "teamfit"
)

type Config struct {
	Input         string             `mapstructure:"input"`
	Team          *TeamConfig        `mapstructure:"team"`
	Limit         int                `mapstructure:"limit"`
	MinScore      float64            `mapstructure:"min-score"`
	Weights       map[string]float64 `mapstructure:"weights"`
	WeightsPreset string             `mapstructure:"weights-preset"`
	AI            *AIConfig          `mapstructure:"ai"`
}

// TeamConfig is the configuration-file shape of a team profile. The
// deadline is accepted either as a date or as a relative day count.
type TeamConfig struct {
	Size             int          `mapstructure:"size"`
	ExperienceLevel  string       `mapstructure:"experience-level"`
	Skills           []team.Skill `mapstructure:"skills"`
	PreferredDomains []string     `mapstructure:"preferred-domains"`
	Deadline         string       `mapstructure:"deadline"`
	DeadlineDays     int          `mapstructure:"deadline-days"`
}

type AIConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Provider     string        `mapstructure:"provider"`
	Embeddings   bool          `mapstructure:"embeddings"`
	NarrativeTop int           `mapstructure:"narrative-top"`
	Concurrency  int           `mapstructure:"concurrency"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	MaxRetries     int    `mapstructure:"max-retries"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "teamfit matches problem statements from spreadsheets against a team profile and ranks them by fit",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is teamfit.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the match and ingest commands.
	if matchCmd.CalledAs() == "" && ingestCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// Profile converts the configuration shape into the engine's team profile.
func (c *TeamConfig) Profile() (*team.Profile, error) {
	if c == nil {
		return nil, fmt.Errorf("team section is required in the configuration")
	}

	profile := &team.Profile{
		Size:             c.Size,
		ExperienceLevel:  c.ExperienceLevel,
		Skills:           c.Skills,
		PreferredDomains: c.PreferredDomains,
		DeadlineDays:     c.DeadlineDays,
	}

	if deadline := strings.TrimSpace(c.Deadline); deadline != "" {
		parsed, err := parseDeadline(deadline)
		if err != nil {
			return nil, err
		}
		profile.Deadline = parsed
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

func parseDeadline(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse team deadline %q: expected RFC3339 or YYYY-MM-DD", value)
}

// resolveWeights picks the weight table for ranking: an explicit table
// wins over a named preset, which defaults to ranking.DefaultPreset.
func resolveWeights(config *Config) (ranking.Weights, error) {
	if len(config.Weights) > 0 {
		return ranking.Weights(config.Weights), nil
	}

	preset := config.WeightsPreset
	if strings.TrimSpace(preset) == "" {
		preset = ranking.DefaultPreset
	}
	return ranking.Preset(preset)
}
