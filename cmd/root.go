package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "briefmatch"
)

type Config struct {
	Store    *StoreConfig    `mapstructure:"store"`
	Matching *MatchingConfig `mapstructure:"matching"`
	AI       *AIConfig       `mapstructure:"ai"`
}

type StoreConfig struct {
	CreatorsFile string `mapstructure:"creators-file"`
	BriefsFile   string `mapstructure:"briefs-file"`
	FeedbackFile string `mapstructure:"feedback-file"`
}

type MatchingConfig struct {
	Limit            int           `mapstructure:"limit"`
	MinRuleScore     int           `mapstructure:"min-rule-score"`
	TopK             int           `mapstructure:"top-k"`
	CandidateTimeout time.Duration `mapstructure:"candidate-timeout"`
	GlobalTimeout    time.Duration `mapstructure:"global-timeout"`
	EmbeddingWindow  time.Duration `mapstructure:"embedding-window"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	EmbedModel   string `mapstructure:"embed-model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "briefmatch is a cli for matching creative briefs with the creators best suited to deliver them",
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

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is briefmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A missing config file is fine: every key has a default. A present but
	// broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.Store.CreatorsFile == "" {
		config.Store.CreatorsFile = "creators.json"
	}
	if config.Store.BriefsFile == "" {
		config.Store.BriefsFile = "briefs.json"
	}
	if config.Store.FeedbackFile == "" {
		config.Store.FeedbackFile = "feedback.json"
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}

	return config, nil
}
