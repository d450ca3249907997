package analyzer

// Field identifies an index field. Each field has a short code used as the
// index field name and in serialized queries.
type Field int

// Index fields.
const (
	FieldID Field = iota
	FieldFolder
	FieldFolderID
	FieldMediaType
	FieldYear
	FieldArtist
	FieldArtistReading
	FieldArtistReadingRomanized
	FieldAlbum
	FieldAlbumReading
	FieldTitle
	FieldTitleReading
	FieldComposer
	FieldComposerReading
	FieldComposerReadingRomanized
	FieldGenre
	FieldGenreKey

	fieldCount
)

var fieldNames = [fieldCount]struct {
	code  string
	label string
}{
	FieldID:                       {"id", "ID"},
	FieldFolder:                   {"f", "FOLDER"},
	FieldFolderID:                 {"fId", "FOLDER_ID"},
	FieldMediaType:                {"m", "MEDIA_TYPE"},
	FieldYear:                     {"y", "YEAR"},
	FieldArtist:                   {"art", "ARTIST"},
	FieldArtistReading:            {"artR", "ARTIST_READING"},
	FieldArtistReadingRomanized:   {"artRR", "ARTIST_READING_ROMANIZED"},
	FieldAlbum:                    {"alb", "ALBUM"},
	FieldAlbumReading:             {"albR", "ALBUM_READING"},
	FieldTitle:                    {"tit", "TITLE"},
	FieldTitleReading:             {"titR", "TITLE_READING"},
	FieldComposer:                 {"cmp", "COMPOSER"},
	FieldComposerReading:          {"cmpR", "COMPOSER_READING"},
	FieldComposerReadingRomanized: {"cmpRR", "COMPOSER_READING_ROMANIZED"},
	FieldGenre:                    {"g", "GENRE"},
	FieldGenreKey:                 {"gk", "GENRE_KEY"},
}

// Name returns the index field name.
func (f Field) Name() string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return fieldNames[f].code
}

// String returns the upper-case field label.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "UNKNOWN"
	}
	return fieldNames[f].label
}

// IsComposer reports whether f is one of the composer fields.
func (f Field) IsComposer() bool {
	return f == FieldComposer || f == FieldComposerReading || f == FieldComposerReadingRomanized
}

// IsRomanized reports whether f holds a romanized reading.
func (f Field) IsRomanized() bool {
	return f == FieldArtistReadingRomanized || f == FieldComposerReadingRomanized
}

// FieldByName resolves an index field name.
func FieldByName(name string) (Field, bool) {
	for f := Field(0); f < fieldCount; f++ {
		if fieldNames[f].code == name {
			return f, true
		}
	}
	return 0, false
}

// Fields returns every index field in declaration order.
func Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}
