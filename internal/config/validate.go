package config

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Validate checks the settings that would make the process unusable. A
// missing credential is not one of them: the categorizer refuses to run
// without it, but scanning and listing still work.
func (c *Config) Validate() error {
	switch c.Categorization.Provider {
	case ProviderGemini, ProviderOpenAI:
	case "":
		return errors.New("categorization.provider is required")
	default:
		return fmt.Errorf("categorization.provider %q is not supported (use %q or %q)",
			c.Categorization.Provider, ProviderGemini, ProviderOpenAI)
	}

	if c.Scan.MaxFiles < 0 {
		return fmt.Errorf("scan.max_files (%d) must not be negative", c.Scan.MaxFiles)
	}

	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	for provider, models := range c.Pricing {
		if provider == "" {
			return errors.New("pricing contains an empty provider name")
		}
		for model, price := range models {
			if model == "" {
				return fmt.Errorf("pricing for provider '%s' contains an empty model name", provider)
			}
			if price.InputPerToken < 0 || price.OutputPerToken < 0 {
				return fmt.Errorf("pricing for provider '%s', model '%s' has negative token cost", provider, model)
			}
		}
	}

	return nil
}
