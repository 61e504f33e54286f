package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// Config holds tool-wide settings
type Config struct {
	DefaultSafe    string `mapstructure:"default_safe"`
	MinIterations  uint32 `mapstructure:"min_iterations"`
	SaveIterations uint32 `mapstructure:"save_iterations"`
}

// LoadConfig loads tool configuration using Viper
func LoadConfig() (*Config, error) {
	viper.SetConfigName("pwsafe-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.pwsafe")
	viper.AddConfigPath("/etc/pwsafe")

	// Set defaults
	viper.SetDefault("default_safe", "")
	viper.SetDefault("min_iterations", types.MinIterations)
	viper.SetDefault("save_iterations", types.DefaultIterations)

	// Allow environment variables
	viper.SetEnvPrefix("PWSAFE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
