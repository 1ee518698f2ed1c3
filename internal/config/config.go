package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Server  ServerConfig  `mapstructure:"server"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	PerPage int           `mapstructure:"per_page"`
}

type SessionConfig struct {
	TokenFile string `mapstructure:"token_file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadConfig loads configuration from loyaltyctl.yaml and environment variables
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win either way
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("loyaltyctl")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.loyaltyctl/")
	v.AddConfigPath("/etc/loyaltyctl/")

	// Enable environment variable override with LOYALTYCTL_ prefix
	v.SetEnvPrefix("LOYALTYCTL")
	v.AutomaticEnv()

	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.per_page", 15)
	v.SetDefault("session.token_file", defaultTokenFile())
	v.SetDefault("server.addr", ":8085")

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional as long as the base URL comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.API.BaseURL == "" {
		config.API.BaseURL = os.Getenv("LOYALTYCTL_API_BASE_URL")
	}
	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is not configured")
	}

	return &config, nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".loyaltyctl-token"
	}
	return filepath.Join(home, ".loyaltyctl", "token")
}
