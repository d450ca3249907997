package search

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/listenupapp/listenup-search/internal/analyzer"
	"github.com/listenupapp/listenup-search/internal/domain"
)

// phraseSlop lets multi-term chunks match with one position of slack.
const phraseSlop = 1

// QueryFactory turns search criteria into boosted boolean queries. It holds
// only immutable configuration and is safe for concurrent use.
type QueryFactory struct {
	analyzers      *analyzer.Factory
	searchComposer bool
}

// NewQueryFactory creates a QueryFactory. When searchComposer is set,
// composer fields are queried even if a request does not ask for them.
func NewQueryFactory(analyzers *analyzer.Factory, searchComposer bool) *QueryFactory {
	return &QueryFactory{analyzers: analyzers, searchComposer: searchComposer}
}

// Analyzers returns the analyzer factory queries are tokenized with.
func (f *QueryFactory) Analyzers() *analyzer.Factory {
	return f.analyzers
}

// queryFields returns the fields of t that take part in a text query,
// ordered by descending boost with ties kept in declaration order.
func (f *QueryFactory) queryFields(t IndexType, includeComposer bool) []analyzer.Field {
	includeComposer = includeComposer || f.searchComposer
	romanized := f.analyzers.Scheme() == domain.SchemeRomanizedJapanese

	fields := make([]analyzer.Field, 0, len(t.Fields()))
	for _, field := range t.Fields() {
		if field.IsComposer() && !includeComposer {
			continue
		}
		if field.IsRomanized() && !romanized {
			continue
		}
		fields = append(fields, field)
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return t.Boost(fields[i]) > t.Boost(fields[j])
	})
	return fields
}

// fieldClause analyzes text with the field's analyzer. One term becomes a
// prefix query, several a sloppy phrase that keeps the gaps of removed stop
// words. Text that analyzes to nothing yields no clause.
func (f *QueryFactory) fieldClause(t IndexType, field analyzer.Field, text string) (Query, bool) {
	terms := f.analyzers.Phrase(field, text)
	var q Query
	switch len(terms) {
	case 0:
		return nil, false
	case 1:
		q = &PrefixQuery{Field: field, Prefix: terms[0]}
	default:
		q = &PhraseQuery{Field: field, Terms: terms, Slop: phraseSlop}
	}
	return boosted(q, t.Boost(field)), true
}

// textClauses builds the disjunction for one chunk of query text across
// every query field.
func (f *QueryFactory) textClauses(t IndexType, fields []analyzer.Field, chunk string) *BooleanQuery {
	disj := NewBooleanQuery()
	for _, field := range fields {
		if q, ok := f.fieldClause(t, field, chunk); ok {
			disj.Add(q, Should)
		}
	}
	return disj
}

// Search builds a query in which every chunk of the query text must match
// at least one field, scoped to the criteria's folders.
//
//	+(+(c1 fields) +(c2 fields)) +(folders)
//
// A single chunk is not wrapped twice.
func (f *QueryFactory) Search(criteria domain.SearchCriteria, t IndexType) *BooleanQuery {
	fields := f.queryFields(t, criteria.IncludeComposer)

	var groups []*BooleanQuery
	for _, chunk := range analyzer.QueryChunks(criteria.Query) {
		if disj := f.textClauses(t, fields, chunk); disj.Len() > 0 {
			groups = append(groups, disj)
		}
	}

	q := NewBooleanQuery()
	switch len(groups) {
	case 0:
	case 1:
		q.Add(groups[0], Must)
	default:
		conj := NewBooleanQuery()
		for _, g := range groups {
			conj.Add(g, Must)
		}
		q.Add(conj, Must)
	}
	return q.Add(f.FolderQuery(criteria.Folders, t.IsID3()), Must)
}

// SearchByName builds a single flat disjunction over every field and chunk,
// fields outermost, scoped to folders. Any chunk matching any field is a
// hit; documents matching more chunks score higher.
func (f *QueryFactory) SearchByName(text string, folders []domain.MusicFolder, t IndexType, includeComposer bool) *BooleanQuery {
	fields := f.queryFields(t, includeComposer)
	chunks := analyzer.QueryChunks(text)

	disj := NewBooleanQuery()
	for _, field := range fields {
		for _, chunk := range chunks {
			if q, ok := f.fieldClause(t, field, chunk); ok {
				disj.Add(q, Should)
			}
		}
	}

	q := NewBooleanQuery()
	if disj.Len() > 0 {
		q.Add(disj, Must)
	}
	return q.Add(f.FolderQuery(folders, t.IsID3()), Must)
}

// SearchByPhrase analyzes the whole input per field without chunking, so a
// multi-word input must appear as a phrase in some field.
func (f *QueryFactory) SearchByPhrase(text string, includeComposer bool, folders []domain.MusicFolder, t IndexType) *BooleanQuery {
	q := NewBooleanQuery()
	if disj := f.textClauses(t, f.queryFields(t, includeComposer), text); disj.Len() > 0 {
		q.Add(disj, Must)
	}
	return q.Add(f.FolderQuery(folders, t.IsID3()), Must)
}

// TextQuery builds the text disjunction of SearchByPhrase restricted to
// targetFields, for callers that combine it with their own clauses. It
// reports false when no field produced a clause.
func (f *QueryFactory) TextQuery(targetFields []analyzer.Field, text string, t IndexType, includeComposer bool) (*BooleanQuery, bool) {
	allowed := make(map[analyzer.Field]bool, len(targetFields))
	for _, field := range targetFields {
		allowed[field] = true
	}
	var fields []analyzer.Field
	for _, field := range f.queryFields(t, includeComposer) {
		if allowed[field] {
			fields = append(fields, field)
		}
	}
	disj := f.textClauses(t, fields, text)
	return disj, disj.Len() > 0
}

// FolderQuery matches any of folders: by numeric id for ID3 indexes, by
// path otherwise.
func (f *QueryFactory) FolderQuery(folders []domain.MusicFolder, id3 bool) *BooleanQuery {
	q := NewBooleanQuery()
	for _, folder := range folders {
		if id3 {
			q.Add(&TermQuery{Field: analyzer.FieldFolderID, Term: strconv.Itoa(folder.ID)}, Should)
		} else {
			q.Add(&TermQuery{Field: analyzer.FieldFolder, Term: folder.Path}, Should)
		}
	}
	return q
}

// YearRange matches years in [from, to]; a nil bound is open.
func (f *QueryFactory) YearRange(from, to *int) *RangeQuery {
	q := &RangeQuery{Field: analyzer.FieldYear, Min: math.MinInt32, Max: math.MaxInt32}
	if from != nil {
		q.Min = *from
	}
	if to != nil {
		q.Max = *to
	}
	return q
}

// genreQuery matches any of genres after genre analysis.
func (f *QueryFactory) genreQuery(genres []string) *BooleanQuery {
	q := NewBooleanQuery()
	for _, genre := range genres {
		if genre == "" {
			continue
		}
		for _, term := range f.analyzers.Tokenize(analyzer.FieldGenre, genre) {
			q.Add(&TermQuery{Field: analyzer.FieldGenre, Term: term}, Should)
		}
	}
	return q
}

// splitGenres splits a semicolon-separated genre list.
func splitGenres(genres string) []string {
	var out []string
	for _, g := range strings.Split(genres, ";") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// Genre matches a single genre.
func (f *QueryFactory) Genre(genre string) *BooleanQuery {
	return f.genreQuery([]string{genre})
}

// PreAnalyzedGenres requires one of genres to match.
func (f *QueryFactory) PreAnalyzedGenres(genres []string) *BooleanQuery {
	return NewBooleanQuery().Add(f.genreQuery(genres), Must)
}

// MediaTypes matches any of types.
func (f *QueryFactory) MediaTypes(types ...domain.MediaType) *BooleanQuery {
	q := NewBooleanQuery()
	for _, t := range types {
		q.Add(mediaTypeTerm(t), Should)
	}
	return q
}

func mediaTypeTerm(t domain.MediaType) *TermQuery {
	return &TermQuery{Field: analyzer.FieldMediaType, Term: string(t)}
}

// RandomSongs selects music matching the criteria's genres and year range.
func (f *QueryFactory) RandomSongs(criteria domain.RandomSearchCriteria) *BooleanQuery {
	q := NewBooleanQuery().Add(mediaTypeTerm(domain.MediaTypeMusic), Must)

	var genres []string
	for _, g := range criteria.Genres {
		genres = append(genres, splitGenres(g)...)
	}
	if len(genres) > 0 {
		q.Add(f.genreQuery(genres), Must)
	}
	if criteria.FromYear != nil || criteria.ToYear != nil {
		q.Add(f.YearRange(criteria.FromYear, criteria.ToYear), Must)
	}
	return q.Add(f.FolderQuery(criteria.Folders, false), Must)
}

// RandomSongsByGenres selects music in folders, optionally limited to genres.
func (f *QueryFactory) RandomSongsByGenres(folders []domain.MusicFolder, genres ...string) *BooleanQuery {
	q := NewBooleanQuery().
		Add(mediaTypeTerm(domain.MediaTypeMusic), Must).
		Add(f.FolderQuery(folders, false), Must)
	if len(genres) > 0 {
		q.Add(f.genreQuery(genres), Must)
	}
	return q
}

// RandomAlbums matches every album in folders.
func (f *QueryFactory) RandomAlbums(folders []domain.MusicFolder) *BooleanQuery {
	return NewBooleanQuery().Add(f.FolderQuery(folders, false), Should)
}

// RandomAlbumsID3 matches every ID3 album in folders.
func (f *QueryFactory) RandomAlbumsID3(folders []domain.MusicFolder) *BooleanQuery {
	return NewBooleanQuery().Add(f.FolderQuery(folders, true), Should)
}

// AlbumID3sByGenres matches ID3 albums in any of the semicolon-separated
// genres. An empty genre list matches every album in folders.
func (f *QueryFactory) AlbumID3sByGenres(genres string, folders []domain.MusicFolder) *BooleanQuery {
	return f.byGenres(genres, folders, true)
}

// MediasByGenres is AlbumID3sByGenres for file-structure documents.
func (f *QueryFactory) MediasByGenres(genres string, folders []domain.MusicFolder) *BooleanQuery {
	return f.byGenres(genres, folders, false)
}

func (f *QueryFactory) byGenres(genres string, folders []domain.MusicFolder, id3 bool) *BooleanQuery {
	q := NewBooleanQuery()
	if list := splitGenres(genres); len(list) > 0 {
		q.Add(f.genreQuery(list), Must)
	}
	return q.Add(f.FolderQuery(folders, id3), Must)
}

// SongGenreCount matches songs of the given types in one genre.
func (f *QueryFactory) SongGenreCount(genre string, folders []domain.MusicFolder, types ...domain.MediaType) *BooleanQuery {
	return NewBooleanQuery().
		Add(f.FolderQuery(folders, false), Must).
		Add(f.Genre(genre), Must).
		Add(f.MediaTypes(types...), Must)
}

// AlbumID3GenreCount matches ID3 albums in one genre.
func (f *QueryFactory) AlbumID3GenreCount(genre string, folders []domain.MusicFolder) *BooleanQuery {
	return NewBooleanQuery().
		Add(f.FolderQuery(folders, true), Must).
		Add(f.Genre(genre), Must)
}

// AlbumChildren matches the songs of the given types in one genre, used when
// listing an album's tracks filtered by genre.
func (f *QueryFactory) AlbumChildren(genre string, folders []domain.MusicFolder, types ...domain.MediaType) *BooleanQuery {
	return NewBooleanQuery().
		Add(f.Genre(genre), Must).
		Add(f.FolderQuery(folders, false), Must).
		Add(f.MediaTypes(types...), Must)
}
