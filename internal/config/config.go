package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix          = "MANUSCRIPT"
	defaultStorageRoot = "documents"
	defaultHTTPAddress = "0.0.0.0:8080"
	defaultLogLevel    = "info"
	defaultAIMaxTokens = 800
)

// AppConfig captures runtime configuration for the manuscript binary.
type AppConfig struct {
	StorageRoot string
	HTTPAddress string
	LogLevel    string
	AIAPIKey    string
	AIModel     string
	AIMaxTokens int
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("storage.root", defaultStorageRoot)
	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("ai.model", "")
	configViper.SetDefault("ai.max_tokens", defaultAIMaxTokens)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		StorageRoot: configViper.GetString("storage.root"),
		HTTPAddress: configViper.GetString("http.address"),
		LogLevel:    configViper.GetString("log.level"),
		AIAPIKey:    configViper.GetString("ai.api_key"),
		AIModel:     configViper.GetString("ai.model"),
		AIMaxTokens: configViper.GetInt("ai.max_tokens"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.StorageRoot) == "" {
		return fmt.Errorf("storage.root is required")
	}
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.AIMaxTokens < 0 {
		return fmt.Errorf("ai.max_tokens must not be negative")
	}
	return nil
}
