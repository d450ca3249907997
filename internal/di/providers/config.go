// Package providers contains dependency injection providers for the search tools.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-search/internal/config"
	"github.com/listenupapp/listenup-search/internal/logger"
	"github.com/listenupapp/listenup-search/internal/validation"
)

// Args are the command-line flags handed to config.Load.
type Args []string

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	args := do.MustInvoke[Args](i)
	return config.Load(args)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Debug("configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Index.DataPath,
		"index_scheme", cfg.Index.Scheme,
		"folders", len(cfg.Folders),
	)

	return log, nil
}

// ProvideValidator provides the criteria validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
