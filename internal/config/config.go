package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

type Config struct {
	Categorization struct {
		Provider       string `mapstructure:"provider"`        // "gemini" or "openai"
		Model          string `mapstructure:"model"`           // empty picks the provider default
		GoogleApiKey   string `mapstructure:"google_api_key"`  // API_KEY / GEMINI_API_KEY
		OpenaiApiKey   string `mapstructure:"openai_api_key"`  // OPENAI_API_KEY
		PromptTemplate string `mapstructure:"prompt_template"` // path to a template file, empty for the built-in prompt
		BaseURL        string `mapstructure:"base_url"`        // OpenAI-compatible endpoint override
	} `mapstructure:"categorization"`

	Scan struct {
		IncludeHidden bool `mapstructure:"include_hidden"`
		MaxFiles      int  `mapstructure:"max_files"` // 0 means unlimited
	} `mapstructure:"scan"`

	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string][]string{
	"categorization.google_api_key": {"API_KEY", "GEMINI_API_KEY"},
	"categorization.openai_api_key": {"OPENAI_API_KEY"},
	"categorization.provider":       {"TRIAGE_PROVIDER"},
	"categorization.model":          {"TRIAGE_MODEL"},
}

// LoadConfig reads config.yaml from the working directory or
// ~/.config/triage and overlays the environment.
func LoadConfig() (*Config, error) {
	paths := []string{"."}
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "triage"))
	}
	return LoadConfigFrom(paths...)
}

// LoadConfigFrom is LoadConfig with explicit search paths.
func LoadConfigFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetDefault("categorization.provider", ProviderGemini)
	v.SetDefault("server.addr", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")

	v.AutomaticEnv()
	// The credential is only ever read here, once, and handed to the
	// categorizer by the app.
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// ModelName returns the configured model or the provider default.
func (c *Config) ModelName() string {
	if c.Categorization.Model != "" {
		return c.Categorization.Model
	}
	if c.Categorization.Provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

// Credential returns the API key of the configured provider. It may be
// empty; the categorizer reports that when it is asked to run.
func (c *Config) Credential() string {
	if c.Categorization.Provider == ProviderOpenAI {
		return c.Categorization.OpenaiApiKey
	}
	return c.Categorization.GoogleApiKey
}

// ModelPricing looks up the per-token price of the active provider/model.
func (c *Config) ModelPricing() (PricingInfo, bool) {
	models, ok := c.Pricing[c.Categorization.Provider]
	if !ok {
		return PricingInfo{}, false
	}
	p, ok := models[c.ModelName()]
	return p, ok
}
