// Package service ties the search indexes to the records they are built from
// and the criteria they answer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/listenupapp/listenup-search/internal/catalog"
	"github.com/listenupapp/listenup-search/internal/domain"
	"github.com/listenupapp/listenup-search/internal/errors"
	"github.com/listenupapp/listenup-search/internal/search"
	"github.com/listenupapp/listenup-search/internal/validation"
)

// randomPoolSize bounds how many matching documents a random selection
// draws from.
const randomPoolSize = 2000

// SearchService provides search across the per-type indexes.
// It bridges records and criteria with the indexes, handling document
// creation, index maintenance, and query execution.
type SearchService struct {
	indexes   *search.IndexSet
	mapper    *search.DocumentMapper
	queries   *search.QueryFactory
	director  *search.Director
	validator *validation.Validator
	maxHits   int
	logger    *slog.Logger
}

// SearchDeps are the collaborators of a SearchService.
type SearchDeps struct {
	Indexes   *search.IndexSet
	Mapper    *search.DocumentMapper
	Queries   *search.QueryFactory
	Director  *search.Director
	Validator *validation.Validator
	MaxHits   int
	Logger    *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(deps SearchDeps) *SearchService {
	if deps.MaxHits <= 0 {
		deps.MaxHits = 100
	}
	return &SearchService{
		indexes:   deps.Indexes,
		mapper:    deps.Mapper,
		queries:   deps.Queries,
		director:  deps.Director,
		validator: deps.Validator,
		maxHits:   deps.MaxHits,
		logger:    deps.Logger,
	}
}

// Index adds or replaces documents, routing each to the index of its type.
func (s *SearchService) Index(ctx context.Context, docs []*search.Document) error {
	byType := make(map[search.IndexType][]*search.Document)
	for _, doc := range docs {
		byType[doc.Type] = append(byType[doc.Type], doc)
	}

	for _, t := range search.IndexTypes() {
		batch := byType[t]
		if len(batch) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		index, err := s.indexes.Get(t)
		if err != nil {
			return err
		}
		if err := index.IndexDocuments(batch); err != nil {
			return errors.Wrapf(err, errors.CodeInternal, "index %s documents", t)
		}
	}
	return nil
}

// Delete removes documents of type t.
func (s *SearchService) Delete(_ context.Context, t search.IndexType, ids ...string) error {
	index, err := s.indexes.Get(t)
	if err != nil {
		return err
	}
	if err := index.DeleteDocuments(ids); err != nil {
		return errors.Wrapf(err, errors.CodeInternal, "delete %s documents", t)
	}
	return nil
}

// IndexCatalog maps every record of c to a document and indexes them.
// Records that cannot be mapped are logged and skipped; the number of
// skipped records is returned.
func (s *SearchService) IndexCatalog(ctx context.Context, c *catalog.Catalog) (skipped int, err error) {
	docs := make([]*search.Document, 0, c.Len())
	accept := func(kind string, id any, doc *search.Document, err error) {
		if err != nil {
			s.logger.Warn("failed to build search document", "kind", kind, "id", id, "error", err)
			skipped++
			return
		}
		docs = append(docs, doc)
	}

	for _, mf := range c.ArtistDirs {
		doc, err := s.mapper.ArtistDocument(mf)
		accept("artist", mf.ID, doc, err)
	}
	for _, mf := range c.AlbumDirs {
		doc, err := s.mapper.AlbumDocument(mf)
		accept("album", mf.ID, doc, err)
	}
	for _, mf := range c.Songs {
		doc, err := s.mapper.SongDocument(mf)
		accept("song", mf.ID, doc, err)
	}
	for _, a := range c.Artists {
		doc, err := s.mapper.ArtistID3Document(a)
		accept("artist_id3", a.ID, doc, err)
	}
	for _, a := range c.Albums {
		doc, err := s.mapper.AlbumID3Document(a)
		accept("album_id3", a.ID, doc, err)
	}
	for _, g := range c.GenreNames() {
		doc, err := s.mapper.GenreDocument(g)
		accept("genre", g, doc, err)
	}

	if err := s.Index(ctx, docs); err != nil {
		return skipped, err
	}
	s.logger.Info("indexed catalog", "documents", len(docs), "skipped", skipped)
	return skipped, nil
}

// ReindexAll drops every index and rebuilds them from c.
// This is a heavy operation - use sparingly.
func (s *SearchService) ReindexAll(ctx context.Context, c *catalog.Catalog) error {
	s.logger.Info("starting full reindex")

	for _, t := range search.IndexTypes() {
		index, err := s.indexes.Get(t)
		if err != nil {
			return err
		}
		if err := index.Rebuild(); err != nil {
			return errors.Wrapf(err, errors.CodeInternal, "rebuild %s index", t)
		}
	}

	if _, err := s.IndexCatalog(ctx, c); err != nil {
		return err
	}

	counts, _ := s.indexes.Counts()
	s.logger.Info("full reindex complete", "documents", counts)
	return nil
}

// Execute runs q against the index of type t.
func (s *SearchService) Execute(ctx context.Context, t search.IndexType, q search.Query, offset, count int) (*domain.SearchResult, error) {
	index, err := s.indexes.Get(t)
	if err != nil {
		return nil, err
	}
	result, err := index.Search(ctx, q, offset, count)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "search %s", t)
	}
	return result, nil
}

func (s *SearchService) capCount(count int) int {
	return min(count, s.maxHits)
}

// Search runs a free-text search against the index of type t.
func (s *SearchService) Search(ctx context.Context, criteria domain.SearchCriteria, t search.IndexType) (*domain.SearchResult, error) {
	if err := s.validator.Validate(criteria); err != nil {
		return nil, err
	}
	q := s.queries.Search(criteria, t)
	return s.Execute(ctx, t, q, criteria.Offset, s.capCount(criteria.Count))
}

// SearchByPhrase searches for the whole of criteria.Query as a phrase.
func (s *SearchService) SearchByPhrase(ctx context.Context, criteria domain.SearchCriteria, t search.IndexType) (*domain.SearchResult, error) {
	if err := s.validator.Validate(criteria); err != nil {
		return nil, err
	}
	q := s.queries.SearchByPhrase(criteria.Query, criteria.IncludeComposer, criteria.Folders, t)
	return s.Execute(ctx, t, q, criteria.Offset, s.capCount(criteria.Count))
}

// UPnPSearch resolves a UPnP search criteria expression and runs it.
func (s *SearchService) UPnPSearch(ctx context.Context, expr string, offset, count int, folders []domain.MusicFolder) (*search.UPnPCriteria, *domain.SearchResult, error) {
	if offset < 0 || count <= 0 {
		return nil, nil, errors.Validationf("invalid page offset %d count %d", offset, count)
	}
	criteria, err := s.director.Construct(expr, offset, s.capCount(count), folders)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.Execute(ctx, criteria.Type, criteria.Query, criteria.Offset, criteria.Count)
	if err != nil {
		return nil, nil, err
	}
	return criteria, result, nil
}

// RandomSongs returns up to criteria.Count songs chosen at random among the
// songs matching the criteria.
func (s *SearchService) RandomSongs(ctx context.Context, criteria domain.RandomSearchCriteria) ([]domain.SearchHit, error) {
	if err := s.validator.Validate(criteria); err != nil {
		return nil, err
	}
	return s.random(ctx, search.IndexSong, s.queries.RandomSongs(criteria), criteria.Count)
}

// RandomAlbums returns up to count albums chosen at random within folders.
func (s *SearchService) RandomAlbums(ctx context.Context, count int, folders []domain.MusicFolder, id3 bool) ([]domain.SearchHit, error) {
	if count <= 0 {
		return nil, errors.Validationf("count must be greater than 0, got %d", count)
	}
	if id3 {
		return s.random(ctx, search.IndexAlbumID3, s.queries.RandomAlbumsID3(folders), count)
	}
	return s.random(ctx, search.IndexAlbum, s.queries.RandomAlbums(folders), count)
}

func (s *SearchService) random(ctx context.Context, t search.IndexType, q search.Query, count int) ([]domain.SearchHit, error) {
	result, err := s.Execute(ctx, t, q, 0, randomPoolSize)
	if err != nil {
		return nil, err
	}
	hits := result.Hits
	rand.Shuffle(len(hits), func(i, j int) { hits[i], hits[j] = hits[j], hits[i] })
	return hits[:min(len(hits), s.capCount(count))], nil
}

// GenreCount counts the documents of type t in a genre: songs of the given
// media types, or ID3 albums.
func (s *SearchService) GenreCount(ctx context.Context, t search.IndexType, genre string, folders []domain.MusicFolder, types ...domain.MediaType) (uint64, error) {
	var q search.Query
	switch t {
	case search.IndexSong:
		q = s.queries.SongGenreCount(genre, folders, types...)
	case search.IndexAlbumID3:
		q = s.queries.AlbumID3GenreCount(genre, folders)
	default:
		return 0, errors.Validationf("genre counts are not kept for %s", t)
	}

	result, err := s.Execute(ctx, t, q, 0, 0)
	if err != nil {
		return 0, err
	}
	return result.TotalHits, nil
}

// Genres returns the indexed genres matching genre after analysis.
func (s *SearchService) Genres(ctx context.Context, genre string, offset, count int) (*domain.SearchResult, error) {
	return s.Execute(ctx, search.IndexGenre, s.queries.Genre(genre), offset, s.capCount(count))
}

// DocumentCount returns the number of documents in the index of type t.
func (s *SearchService) DocumentCount(t search.IndexType) (uint64, error) {
	index, err := s.indexes.Get(t)
	if err != nil {
		return 0, err
	}
	n, err := index.DocumentCount()
	if err != nil {
		return 0, fmt.Errorf("count %s documents: %w", t, err)
	}
	return n, nil
}

// DocumentCounts returns the document count of every index.
func (s *SearchService) DocumentCounts() (map[search.IndexType]uint64, error) {
	return s.indexes.Counts()
}
