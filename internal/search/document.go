// Package search maps music metadata into per-type bleve indexes and builds
// the boosted, folder-scoped queries that run against them.
package search

import (
	"strconv"
	"strings"

	"github.com/listenupapp/listenup-search/internal/analyzer"
	"github.com/listenupapp/listenup-search/internal/domain"
	"github.com/listenupapp/listenup-search/internal/errors"
	"github.com/listenupapp/listenup-search/internal/reading"
)

// genreDocPrefix keeps genre document ids apart from numeric entity ids.
const genreDocPrefix = "genre:"

// Document is a flat field set destined for one index. Fields that are
// absent on the source entity are never present.
type Document struct {
	ID     string
	Type   IndexType
	fields map[analyzer.Field]any
}

func newDocument(t IndexType, id string) *Document {
	return &Document{ID: id, Type: t, fields: make(map[analyzer.Field]any)}
}

// set stores a string value, skipping empty ones.
func (d *Document) set(field analyzer.Field, value string) {
	if value == "" {
		return
	}
	d.fields[field] = value
}

// Get returns the value of field.
func (d *Document) Get(field analyzer.Field) (any, bool) {
	v, ok := d.fields[field]
	return v, ok
}

// Has reports whether field is present.
func (d *Document) Has(field analyzer.Field) bool {
	_, ok := d.fields[field]
	return ok
}

// Len returns the number of fields.
func (d *Document) Len() int {
	return len(d.fields)
}

// ToMap converts the document to a map keyed by index field name, the shape
// bleve indexes.
func (d *Document) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(d.fields))
	for f, v := range d.fields {
		m[f.Name()] = v
	}
	return m
}

// DocumentMapper converts entity snapshots into documents. It is stateless
// apart from the reading utility and safe for concurrent use.
type DocumentMapper struct {
	readings *reading.Utility
}

// NewDocumentMapper creates a mapper deriving readings with u.
func NewDocumentMapper(u *reading.Utility) *DocumentMapper {
	return &DocumentMapper{readings: u}
}

func (m *DocumentMapper) requireFolder(kind string, id int, folder string) error {
	if strings.TrimSpace(folder) == "" {
		return errors.Validationf("%s %d has no folder", kind, id)
	}
	return nil
}

func (m *DocumentMapper) requireFolderID(kind string, id int, folderID *int) error {
	if folderID == nil {
		return errors.MissingReferencef("%s %d has no folder id", kind, id)
	}
	return nil
}

// acceptReading writes the reading of value into field, and its romanized
// form into romanizedField when the scheme produces one.
func (m *DocumentMapper) acceptReading(doc *Document, field, romanizedField analyzer.Field, value, sort, supplied string) {
	if value == "" {
		return
	}
	pair := m.readings.Derive(value, domain.FirstNonEmpty(sort, supplied))
	if !pair.HasReading() {
		return
	}
	doc.set(field, pair.Reading)
	if pair.Romanized != "" {
		doc.set(romanizedField, pair.Romanized)
	}
}

func (m *DocumentMapper) acceptArtistReading(doc *Document, name, sort, supplied string) {
	m.acceptReading(doc, analyzer.FieldArtistReading, analyzer.FieldArtistReadingRomanized, name, sort, supplied)
}

// ArtistDocument maps a file-structure artist directory.
func (m *DocumentMapper) ArtistDocument(mf *domain.MediaFile) (*Document, error) {
	if mf == nil {
		return nil, errors.Validation("artist is nil")
	}
	if err := m.requireFolder("artist", mf.ID, mf.Folder); err != nil {
		return nil, err
	}
	doc := newDocument(IndexArtist, strconv.Itoa(mf.ID))
	doc.set(analyzer.FieldID, doc.ID)
	doc.set(analyzer.FieldArtist, mf.Artist)
	m.acceptArtistReading(doc, mf.Artist, mf.ArtistSort, mf.ArtistReading)
	doc.set(analyzer.FieldFolder, mf.Folder)
	return doc, nil
}

// ArtistID3Document maps a tag-aggregated artist.
func (m *DocumentMapper) ArtistID3Document(a *domain.Artist) (*Document, error) {
	if a == nil {
		return nil, errors.Validation("artist is nil")
	}
	if err := m.requireFolderID("artist", a.ID, a.FolderID); err != nil {
		return nil, err
	}
	doc := newDocument(IndexArtistID3, strconv.Itoa(a.ID))
	doc.set(analyzer.FieldID, doc.ID)
	doc.set(analyzer.FieldArtist, a.Name)
	m.acceptArtistReading(doc, a.Name, a.Sort, a.Reading)
	doc.set(analyzer.FieldFolderID, strconv.Itoa(*a.FolderID))
	return doc, nil
}

// AlbumDocument maps a file-structure album directory.
func (m *DocumentMapper) AlbumDocument(mf *domain.MediaFile) (*Document, error) {
	if mf == nil {
		return nil, errors.Validation("album is nil")
	}
	if err := m.requireFolder("album", mf.ID, mf.Folder); err != nil {
		return nil, err
	}
	doc := newDocument(IndexAlbum, strconv.Itoa(mf.ID))
	doc.set(analyzer.FieldID, doc.ID)
	doc.set(analyzer.FieldArtist, mf.Artist)
	m.acceptArtistReading(doc, mf.Artist, mf.ArtistSort, mf.ArtistReading)
	doc.set(analyzer.FieldGenre, mf.Genre)
	doc.set(analyzer.FieldAlbum, mf.Album)
	doc.set(analyzer.FieldAlbumReading, domain.FirstNonEmpty(mf.AlbumSort, mf.AlbumReading))
	doc.set(analyzer.FieldFolder, mf.Folder)
	return doc, nil
}

// AlbumID3Document maps a tag-aggregated album.
func (m *DocumentMapper) AlbumID3Document(a *domain.Album) (*Document, error) {
	if a == nil {
		return nil, errors.Validation("album is nil")
	}
	if err := m.requireFolderID("album", a.ID, a.FolderID); err != nil {
		return nil, err
	}
	doc := newDocument(IndexAlbumID3, strconv.Itoa(a.ID))
	doc.set(analyzer.FieldID, doc.ID)
	doc.set(analyzer.FieldArtist, a.Artist)
	m.acceptArtistReading(doc, a.Artist, a.ArtistSort, a.ArtistReading)
	doc.set(analyzer.FieldGenre, a.Genre)
	doc.set(analyzer.FieldAlbum, a.Name)
	doc.set(analyzer.FieldAlbumReading, domain.FirstNonEmpty(a.Sort, a.Reading))
	doc.set(analyzer.FieldFolderID, strconv.Itoa(*a.FolderID))
	return doc, nil
}

// SongDocument maps a media file. The title reading falls back to the title
// itself so reading-field bigrams always cover the title.
func (m *DocumentMapper) SongDocument(mf *domain.MediaFile) (*Document, error) {
	if mf == nil {
		return nil, errors.Validation("song is nil")
	}
	if err := m.requireFolder("song", mf.ID, mf.Folder); err != nil {
		return nil, err
	}
	doc := newDocument(IndexSong, strconv.Itoa(mf.ID))
	doc.set(analyzer.FieldID, doc.ID)
	doc.set(analyzer.FieldMediaType, string(mf.MediaType))
	doc.set(analyzer.FieldTitle, mf.Title)
	if mf.Title != "" {
		titleReading := m.readings.Derive(mf.Title, mf.TitleSort)
		doc.set(analyzer.FieldTitleReading, domain.FirstNonEmpty(titleReading.Reading, mf.Title))
	}
	doc.set(analyzer.FieldArtist, mf.Artist)
	m.acceptArtistReading(doc, mf.Artist, mf.ArtistSort, mf.ArtistReading)
	doc.set(analyzer.FieldComposer, mf.Composer)
	m.acceptReading(doc, analyzer.FieldComposerReading, analyzer.FieldComposerReadingRomanized,
		mf.Composer, mf.ComposerSort, "")
	doc.set(analyzer.FieldGenre, mf.Genre)
	if mf.Year != nil {
		doc.fields[analyzer.FieldYear] = *mf.Year
	}
	doc.set(analyzer.FieldFolder, mf.Folder)
	return doc, nil
}

// GenreDocument maps a genre tag. The key keeps the tag byte for byte so it
// can be joined back to the tag value; the genre field is analyzed.
func (m *DocumentMapper) GenreDocument(genre string) (*Document, error) {
	if genre == "" {
		return nil, errors.Validation("genre is empty")
	}
	doc := newDocument(IndexGenre, genreDocPrefix+genre)
	doc.set(analyzer.FieldGenreKey, genre)
	doc.set(analyzer.FieldGenre, genre)
	return doc, nil
}
