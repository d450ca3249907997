package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/listenup-search/internal/domain"
	"github.com/listenupapp/listenup-search/internal/errors"
)

// SearchIndex wraps the bleve index of one index type.
//
// Thread safety: All public methods are safe for concurrent use.
// The mutex protects against index corruption during rebuild operations.
type SearchIndex struct {
	index     bleve.Index
	path      string
	indexType IndexType
	scheme    domain.IndexScheme
	logger    *slog.Logger
	mu        sync.RWMutex // Protects index operations during rebuild
}

// Options configures a search index.
type Options struct {
	DataPath string             // Directory holding every index
	Type     IndexType          // Entity kind stored in this index
	Scheme   domain.IndexScheme // Reading scheme the analyzers are built for
	Logger   *slog.Logger       // Logger for operations (uses stderr if nil)
}

// mappingVersion is incremented whenever a mapping or analyzer changes.
// The version file also records the scheme, so switching schemes rebuilds.
const mappingVersion = "1"

// batchSize bounds the documents committed per bleve batch.
const batchSize = 500

// NewSearchIndex creates or opens the index for opts.Type.
// If the existing index is corrupted or was built with another mapping
// version or scheme, it's removed and recreated.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if !opts.Type.valid() {
		return nil, errors.Validationf("unknown index type %d", opts.Type)
	}
	if opts.Scheme == "" {
		opts.Scheme = domain.SchemeNativeJapanese
	}
	logger = logger.With("index", opts.Type.String())

	indexPath := filepath.Join(opts.DataPath, opts.Type.dirName())
	versionPath := indexPath + ".version"
	version := mappingVersion + "/" + string(opts.Scheme)

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil {
			logger.Info("search index has no version file, will rebuild", "new_version", version)
			needsRebuild = true
		} else if string(existingVersion) != version {
			logger.Info("search index mapping version changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", version,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate", "path", indexPath, "error", err)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = createIndex(indexPath, opts.Type, opts.Scheme)
		if err != nil {
			return nil, err
		}
		if writeErr := os.WriteFile(versionPath, []byte(version), 0o644); writeErr != nil {
			logger.Warn("failed to write search version file", "error", writeErr)
		}
		logger.Info("created new search index", "path", indexPath, "mapping_version", version)
	} else {
		logger.Info("opened existing search index", "path", indexPath)
	}

	return &SearchIndex{
		index:     index,
		path:      indexPath,
		indexType: opts.Type,
		scheme:    opts.Scheme,
		logger:    logger,
	}, nil
}

func createIndex(path string, t IndexType, scheme domain.IndexScheme) (bleve.Index, error) {
	indexMapping, err := buildIndexMapping(t, scheme)
	if err != nil {
		return nil, fmt.Errorf("build mapping: %w", err)
	}
	index, err := bleve.New(path, indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return index, nil
}

// Type returns the index type stored here.
func (s *SearchIndex) Type() IndexType {
	return s.indexType
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

func (s *SearchIndex) checkType(doc *Document) error {
	if doc.Type != s.indexType {
		return errors.Validationf("document %s is a %s document, index holds %s", doc.ID, doc.Type, s.indexType)
	}
	return nil
}

// IndexDocument indexes a single document.
func (s *SearchIndex) IndexDocument(doc *Document) error {
	if err := s.checkType(doc); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexDocuments indexes documents in batches of batchSize.
func (s *SearchIndex) IndexDocuments(docs []*Document) error {
	for _, doc := range docs {
		if err := s.checkType(doc); err != nil {
			return err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.logger.Debug("indexed documents", "count", len(docs))
	return nil
}

// DeleteDocument removes a document from the index.
func (s *SearchIndex) DeleteDocument(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DeleteDocuments removes multiple documents from the index.
func (s *SearchIndex) DeleteDocuments(ids []string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	return s.index.Batch(batch)
}

// DocumentCount returns the total number of indexed documents.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Search runs q and returns one page of hits ordered by score.
func (s *SearchIndex) Search(ctx context.Context, q Query, offset, count int) (*domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(q.Bleve(), count, offset, false)
	for field := range storedFields {
		req.Fields = append(req.Fields, field.Name())
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &domain.SearchResult{
		TotalHits: res.Total,
		Offset:    offset,
		Hits:      make([]domain.SearchHit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		result.Hits = append(result.Hits, domain.SearchHit{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Fields,
		})
	}

	s.logger.Debug("search executed",
		"query", q.String(),
		"total", res.Total,
		"took_ms", res.Took.Milliseconds(),
	)
	return result, nil
}

// Rebuild drops the existing index and creates a new one.
//
// IMPORTANT: This acquires an exclusive lock and blocks all other operations.
func (s *SearchIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}

	index, err := createIndex(s.path, s.indexType, s.scheme)
	if err != nil {
		return err
	}

	s.index = index
	s.logger.Info("rebuilt search index", "path", s.path)
	return nil
}
