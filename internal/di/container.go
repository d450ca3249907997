// Package di provides dependency injection configuration for the search tools.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-search/internal/config"
	"github.com/listenupapp/listenup-search/internal/di/providers"
	"github.com/listenupapp/listenup-search/internal/logger"
	"github.com/listenupapp/listenup-search/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line flags config.Load parses.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, providers.Args(args))
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Analysis layer
	do.Provide(injector, providers.ProvideMorphology)
	do.Provide(injector, providers.ProvideAnalyzerFactory)
	do.Provide(injector, providers.ProvideReadingUtility)

	// Search layer
	do.Provide(injector, providers.ProvideDocumentMapper)
	do.Provide(injector, providers.ProvideQueryFactory)
	do.Provide(injector, providers.ProvideDirector)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Scanner layer
	do.Provide(injector, providers.ProvideScanner)

	return injector
}

// Bootstrap initializes the services every command needs, so configuration
// and index errors surface before any work starts.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.SearchService](injector); err != nil {
		return err
	}
	return nil
}
