// Package config loads and validates perfdiff settings via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment variables.
// A missing config file is not an error; defaults apply.
func Load(cfgFile string) {
	// explicit .env loading
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".perfdiff")
	}

	viper.SetEnvPrefix("PERFDIFF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("threshold", 0.1)
	viper.SetDefault("history.path", ".perfdiff/history.db")
	viper.SetDefault("history.limit", 20)
	viper.SetDefault("verbose", false)

	// Config file is optional.
	_ = viper.ReadInConfig()
}

// Validate checks configuration values and returns an error if any are
// invalid. Call after Load.
func Validate() error {
	var errors []string

	if t := viper.GetFloat64("threshold"); t < 0 {
		errors = append(errors, fmt.Sprintf("threshold must be non-negative, got: %v", t))
	}
	if viper.GetString("history.path") == "" {
		errors = append(errors, "history.path must not be empty")
	}
	if l := viper.GetInt("history.limit"); l <= 0 {
		errors = append(errors, fmt.Sprintf("history.limit must be positive, got: %d", l))
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errors, "; "))
	}
	return nil
}
