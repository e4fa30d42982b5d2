package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"triage/internal/config"
	"triage/internal/costtracker"
	"triage/internal/fileingest"
	"triage/internal/services"
	"triage/internal/store"
	"triage/pkg/categorizer"
)

type App struct {
	Config *config.Config

	Registry    store.FileRegistry
	Categorizer categorizer.FileCategorizer
	CostTracker costtracker.CostTracker

	// --- Initialized Services ---
	AnalysisService *services.AnalysisService
}

// NewApp wires the application from the configuration. The credential is
// taken from cfg here, once, and injected into the categorizer.
func NewApp(cfg *config.Config) (*App, error) {
	return NewAppWithTransport(cfg, nil)
}

// NewAppWithTransport is NewApp with an explicit transport; nil selects the
// transport of the configured provider.
func NewAppWithTransport(cfg *config.Config, transport categorizer.Transport) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &App{
		Config:      cfg,
		Registry:    store.NewRegistry(),
		CostTracker: costtracker.New(),
	}
	if err := app.initCategorizer(transport); err != nil {
		return nil, err
	}
	app.AnalysisService = services.NewAnalysisService(app.Registry, app.Categorizer)

	log.Debugf("Application initialization complete (provider %s, model %s).", cfg.Categorization.Provider, cfg.ModelName())
	return app, nil
}

// --- Private Helper Methods ---

func (a *App) initCategorizer(transport categorizer.Transport) error {
	cfg := a.Config
	if transport == nil {
		switch cfg.Categorization.Provider {
		case config.ProviderGemini:
			transport = categorizer.NewGeminiTransport()
		case config.ProviderOpenAI:
			transport = categorizer.NewOpenAITransport(cfg.Categorization.BaseURL)
		default:
			return fmt.Errorf("unknown or unsupported categorization provider configured: %s", cfg.Categorization.Provider)
		}
	}

	promptContent, err := config.LoadPromptContent(cfg.Categorization.PromptTemplate)
	if err != nil {
		return fmt.Errorf("load categorization prompt: %w", err)
	}

	if cfg.Credential() == "" {
		log.Warnf("No API key configured for provider %s. Analysis will fail until one is set.", cfg.Categorization.Provider)
	}

	a.Categorizer = categorizer.NewClient(
		transport,
		cfg.Credential(),
		cfg.ModelName(),
		promptContent,
		a.CostTracker,
		cfg.Pricing[cfg.Categorization.Provider],
	)
	return nil
}

// ScanOptions returns the configured folder scan defaults.
func (a *App) ScanOptions() fileingest.Options {
	return fileingest.Options{
		IncludeHidden: a.Config.Scan.IncludeHidden,
		MaxFiles:      a.Config.Scan.MaxFiles,
	}
}
