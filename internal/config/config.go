package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds process-level settings. Values come from config.yaml when
// present, overridden by DOUDIZHU_* environment variables.
type Config struct {
	ListenAddr   string `mapstructure:"listen_addr"`
	DatabasePath string `mapstructure:"database_path"`
	AIDifficulty string `mapstructure:"ai_difficulty"`

	LLM LLMSettings `mapstructure:"llm"`
}

// LLMSettings configures the optional LLM-backed seat. Enabled only when an
// API key is present.
type LLMSettings struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
}

// Load reads configuration, falling back to defaults when no file exists.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("database_path", "./doudizhu.db")
	v.SetDefault("ai_difficulty", "medium")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.temperature", 0.7)

	v.SetEnvPrefix("DOUDIZHU")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Println("No config file found, using defaults and environment.")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
