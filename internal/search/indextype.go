package search

import (
	"fmt"

	"github.com/listenupapp/listenup-search/internal/analyzer"
)

// IndexType is a searchable entity kind. Each kind has its own bleve index,
// its own ordered query field list and its own boost table.
type IndexType int

// Index types.
const (
	IndexArtist IndexType = iota
	IndexArtistID3
	IndexAlbum
	IndexAlbumID3
	IndexSong
	IndexGenre

	indexTypeCount
)

type indexTypeSpec struct {
	name   string
	id3    bool
	fields []analyzer.Field
	boosts map[analyzer.Field]float64
}

var (
	artistFields = []analyzer.Field{
		analyzer.FieldArtist,
		analyzer.FieldArtistReading,
		analyzer.FieldArtistReadingRomanized,
	}
	artistBoosts = map[analyzer.Field]float64{
		analyzer.FieldArtistReading:          1.1,
		analyzer.FieldArtistReadingRomanized: 1.1,
	}

	albumFields = []analyzer.Field{
		analyzer.FieldAlbum,
		analyzer.FieldAlbumReading,
		analyzer.FieldArtist,
		analyzer.FieldArtistReading,
		analyzer.FieldArtistReadingRomanized,
	}
	albumBoosts = map[analyzer.Field]float64{
		analyzer.FieldAlbum:                  2.0,
		analyzer.FieldAlbumReading:           2.1,
		analyzer.FieldArtistReading:          1.1,
		analyzer.FieldArtistReadingRomanized: 1.1,
	}
)

var indexTypes = [indexTypeCount]indexTypeSpec{
	IndexArtist:    {name: "ARTIST", fields: artistFields, boosts: artistBoosts},
	IndexArtistID3: {name: "ARTIST_ID3", id3: true, fields: artistFields, boosts: artistBoosts},
	IndexAlbum:     {name: "ALBUM", fields: albumFields, boosts: albumBoosts},
	IndexAlbumID3:  {name: "ALBUM_ID3", id3: true, fields: albumFields, boosts: albumBoosts},
	IndexSong: {
		name: "SONG",
		fields: []analyzer.Field{
			analyzer.FieldTitle,
			analyzer.FieldTitleReading,
			analyzer.FieldArtist,
			analyzer.FieldArtistReading,
			analyzer.FieldArtistReadingRomanized,
			analyzer.FieldComposer,
			analyzer.FieldComposerReading,
			analyzer.FieldComposerReadingRomanized,
		},
		boosts: map[analyzer.Field]float64{
			analyzer.FieldTitle:                    3.0,
			analyzer.FieldTitleReading:             3.1,
			analyzer.FieldArtist:                   2.0,
			analyzer.FieldArtistReading:            2.1,
			analyzer.FieldArtistReadingRomanized:   2.1,
			analyzer.FieldComposerReading:          1.1,
			analyzer.FieldComposerReadingRomanized: 1.1,
		},
	},
	IndexGenre: {
		name:   "GENRE",
		fields: []analyzer.Field{analyzer.FieldGenreKey, analyzer.FieldGenre},
		boosts: map[analyzer.Field]float64{analyzer.FieldGenreKey: 1.1},
	},
}

func init() {
	for t := IndexType(0); t < indexTypeCount; t++ {
		if err := indexTypes[t].validate(); err != nil {
			panic(err)
		}
	}
}

// validate checks that exactly one field carries the implicit boost and that
// every boosted field is queried.
func (s indexTypeSpec) validate() error {
	if len(s.fields) != len(s.boosts)+1 {
		return fmt.Errorf("index type %s: %d fields but %d boosts", s.name, len(s.fields), len(s.boosts))
	}
	listed := make(map[analyzer.Field]bool, len(s.fields))
	for _, f := range s.fields {
		listed[f] = true
	}
	for f, b := range s.boosts {
		if !listed[f] {
			return fmt.Errorf("index type %s: boost for unlisted field %s", s.name, f)
		}
		if b <= 0 {
			return fmt.Errorf("index type %s: non-positive boost for %s", s.name, f)
		}
	}
	return nil
}

// IndexTypes returns every index type in declaration order.
func IndexTypes() []IndexType {
	out := make([]IndexType, 0, indexTypeCount)
	for t := IndexType(0); t < indexTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// ParseIndexType resolves an index type by name, e.g. "ALBUM_ID3".
func ParseIndexType(name string) (IndexType, bool) {
	for t := IndexType(0); t < indexTypeCount; t++ {
		if indexTypes[t].name == name {
			return t, true
		}
	}
	return 0, false
}

func (t IndexType) valid() bool {
	return t >= 0 && t < indexTypeCount
}

func (t IndexType) String() string {
	if !t.valid() {
		return "UNKNOWN"
	}
	return indexTypes[t].name
}

// Fields returns the ordered query field list.
func (t IndexType) Fields() []analyzer.Field {
	if !t.valid() {
		return nil
	}
	return append([]analyzer.Field(nil), indexTypes[t].fields...)
}

// Boost returns the boost for field; fields absent from the table weigh 1.0.
func (t IndexType) Boost(field analyzer.Field) float64 {
	if t.valid() {
		if b, ok := indexTypes[t].boosts[field]; ok {
			return b
		}
	}
	return 1.0
}

// Boosts returns a copy of the explicit boost table.
func (t IndexType) Boosts() map[analyzer.Field]float64 {
	out := make(map[analyzer.Field]float64)
	if t.valid() {
		for f, b := range indexTypes[t].boosts {
			out[f] = b
		}
	}
	return out
}

// IsID3 reports whether documents of this type are scoped by folder id
// rather than folder path.
func (t IndexType) IsID3() bool {
	return t.valid() && indexTypes[t].id3
}

// FolderField is the field folder scope clauses match on.
func (t IndexType) FolderField() analyzer.Field {
	if t.IsID3() {
		return analyzer.FieldFolderID
	}
	return analyzer.FieldFolder
}

// dirName is the index directory name under the data path.
func (t IndexType) dirName() string {
	switch t {
	case IndexArtist:
		return "artist.bleve"
	case IndexArtistID3:
		return "artist_id3.bleve"
	case IndexAlbum:
		return "album.bleve"
	case IndexAlbumID3:
		return "album_id3.bleve"
	case IndexSong:
		return "song.bleve"
	default:
		return "genre.bleve"
	}
}
