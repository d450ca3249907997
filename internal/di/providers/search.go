package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-search/internal/analyzer"
	"github.com/listenupapp/listenup-search/internal/analyzer/morphology"
	"github.com/listenupapp/listenup-search/internal/config"
	"github.com/listenupapp/listenup-search/internal/domain"
	"github.com/listenupapp/listenup-search/internal/logger"
	"github.com/listenupapp/listenup-search/internal/reading"
	"github.com/listenupapp/listenup-search/internal/search"
	"github.com/listenupapp/listenup-search/internal/service"
	"github.com/listenupapp/listenup-search/internal/validation"
)

// MorphologyHandle carries the morphological analyzer. Morphology is nil
// when the scheme does no Japanese processing.
type MorphologyHandle struct {
	Morphology morphology.Morphology
}

// ProvideMorphology loads the shared Japanese dictionary unless the scheme
// skips Japanese processing.
func ProvideMorphology(i do.Injector) (*MorphologyHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.Index.Scheme == domain.SchemeWithoutJapanese {
		return &MorphologyHandle{}, nil
	}

	k, err := morphology.Shared()
	if err != nil {
		return nil, err
	}
	return &MorphologyHandle{Morphology: k}, nil
}

// ProvideAnalyzerFactory provides the analyzers queries are built with.
func ProvideAnalyzerFactory(i do.Injector) (*analyzer.Factory, error) {
	cfg := do.MustInvoke[*config.Config](i)
	morph := do.MustInvoke[*MorphologyHandle](i)

	return analyzer.NewFactory(analyzer.Options{
		Scheme:     cfg.Index.Scheme,
		Morphology: morph.Morphology,
	}), nil
}

// ProvideReadingUtility provides reading derivation for the configured scheme.
func ProvideReadingUtility(i do.Injector) (*reading.Utility, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return reading.New(cfg.Index.Scheme), nil
}

// ProvideDocumentMapper provides the entity to document mapper.
func ProvideDocumentMapper(i do.Injector) (*search.DocumentMapper, error) {
	return search.NewDocumentMapper(do.MustInvoke[*reading.Utility](i)), nil
}

// ProvideQueryFactory provides the query factory.
func ProvideQueryFactory(i do.Injector) (*search.QueryFactory, error) {
	cfg := do.MustInvoke[*config.Config](i)
	analyzers := do.MustInvoke[*analyzer.Factory](i)
	return search.NewQueryFactory(analyzers, cfg.Search.SearchComposer), nil
}

// ProvideDirector provides the UPnP criteria director.
func ProvideDirector(i do.Injector) (*search.Director, error) {
	cfg := do.MustInvoke[*config.Config](i)
	queries := do.MustInvoke[*search.QueryFactory](i)
	return search.NewDirector(queries, cfg.Search.UPnPID3), nil
}

// SearchIndexHandle wraps the per-type indexes with shutdown capability.
type SearchIndexHandle struct {
	*search.IndexSet
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex opens the bleve index of every type.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	indexes, err := search.OpenIndexSet(search.Options{
		DataPath: cfg.Index.DataPath,
		Scheme:   cfg.Index.Scheme,
		Logger:   log.Component("search"),
	})
	if err != nil {
		return nil, err
	}

	counts, _ := indexes.Counts()
	log.Info("search indexes initialized", "documents", counts)

	return &SearchIndexHandle{IndexSet: indexes}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(service.SearchDeps{
		Indexes:   do.MustInvoke[*SearchIndexHandle](i).IndexSet,
		Mapper:    do.MustInvoke[*search.DocumentMapper](i),
		Queries:   do.MustInvoke[*search.QueryFactory](i),
		Director:  do.MustInvoke[*search.Director](i),
		Validator: do.MustInvoke[*validation.Validator](i),
		MaxHits:   cfg.Search.MaxHits,
		Logger:    log.Component("service"),
	}), nil
}
