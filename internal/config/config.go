// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Currency struct {
		Default string `mapstructure:"default" yaml:"default"`
	} `mapstructure:"currency" yaml:"currency"`

	Split struct {
		DefaultParty string `mapstructure:"default_party" yaml:"default_party"`
	} `mapstructure:"split" yaml:"split"`

	Database struct {
		DSN string `mapstructure:"dsn" yaml:"-"` // Never serialize credentials
	} `mapstructure:"database" yaml:"database"`

	Server struct {
		Addr   string `mapstructure:"addr" yaml:"addr"`
		APIKey string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"server" yaml:"server"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`
}

// Load initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then MSGLEDGER_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.msg-ledger")
	v.AddConfigPath(".msg-ledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MSGLEDGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars when the file is unreadable
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The AI key always comes from the conventional unprefixed variable
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("database.dsn", "DATABASE_URL", "MSGLEDGER_DATABASE_DSN"); err != nil {
		fmt.Printf("Warning: failed to bind DATABASE_URL environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("currency.default", "INR")
	v.SetDefault("split.default_party", "vyas")

	v.SetDefault("database.dsn", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.api_key", "")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("categories.file", "")
}

func validate(c *Config) error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.Currency.Default == "" {
		return fmt.Errorf("currency.default must not be empty")
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai.enabled requires GEMINI_API_KEY")
	}
	return nil
}

// LoadEnv loads environment variables from a .env file when one exists in
// the working directory. Missing files are not an error.
func LoadEnv() {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return
	}
	_ = godotenv.Load(".env")
}
