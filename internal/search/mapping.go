package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/listenupapp/listenup-search/internal/analyzer"
	"github.com/listenupapp/listenup-search/internal/domain"
)

// storedFields are returned with search hits. Readings are search-only.
var storedFields = map[analyzer.Field]bool{
	analyzer.FieldID:        true,
	analyzer.FieldFolder:    true,
	analyzer.FieldFolderID:  true,
	analyzer.FieldMediaType: true,
	analyzer.FieldYear:      true,
	analyzer.FieldArtist:    true,
	analyzer.FieldAlbum:     true,
	analyzer.FieldTitle:     true,
	analyzer.FieldComposer:  true,
	analyzer.FieldGenre:     true,
	analyzer.FieldGenreKey:  true,
}

// documentFields lists the fields each index type writes. Query fields are a
// subset; the rest are filters.
func documentFields(t IndexType) []analyzer.Field {
	switch t {
	case IndexArtist:
		return []analyzer.Field{analyzer.FieldID, analyzer.FieldArtist, analyzer.FieldArtistReading,
			analyzer.FieldArtistReadingRomanized, analyzer.FieldFolder}
	case IndexArtistID3:
		return []analyzer.Field{analyzer.FieldID, analyzer.FieldArtist, analyzer.FieldArtistReading,
			analyzer.FieldArtistReadingRomanized, analyzer.FieldFolderID}
	case IndexAlbum:
		return []analyzer.Field{analyzer.FieldID, analyzer.FieldArtist, analyzer.FieldArtistReading,
			analyzer.FieldArtistReadingRomanized, analyzer.FieldGenre, analyzer.FieldAlbum,
			analyzer.FieldAlbumReading, analyzer.FieldFolder}
	case IndexAlbumID3:
		return []analyzer.Field{analyzer.FieldID, analyzer.FieldArtist, analyzer.FieldArtistReading,
			analyzer.FieldArtistReadingRomanized, analyzer.FieldGenre, analyzer.FieldAlbum,
			analyzer.FieldAlbumReading, analyzer.FieldFolderID}
	case IndexSong:
		return []analyzer.Field{analyzer.FieldID, analyzer.FieldMediaType, analyzer.FieldTitle,
			analyzer.FieldTitleReading, analyzer.FieldArtist, analyzer.FieldArtistReading,
			analyzer.FieldArtistReadingRomanized, analyzer.FieldComposer, analyzer.FieldComposerReading,
			analyzer.FieldComposerReadingRomanized, analyzer.FieldGenre, analyzer.FieldYear,
			analyzer.FieldFolder}
	case IndexGenre:
		return []analyzer.Field{analyzer.FieldGenreKey, analyzer.FieldGenre}
	}
	return nil
}

// buildIndexMapping creates the mapping for one index type. Every text field
// gets the custom analyzer for that field; the year is numeric. Unmapped
// properties are ignored.
func buildIndexMapping(t IndexType, scheme domain.IndexScheme) (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentStaticMapping()

	for _, field := range documentFields(t) {
		if field == analyzer.FieldYear {
			yearFieldMapping := bleve.NewNumericFieldMapping()
			yearFieldMapping.Store = storedFields[field]
			docMapping.AddFieldMappingsAt(field.Name(), yearFieldMapping)
			continue
		}

		name := analyzer.MappingAnalyzerName(field)
		if err := indexMapping.AddCustomAnalyzer(name, analyzer.AnalyzerConfig(field, scheme)); err != nil {
			return nil, fmt.Errorf("add analyzer %s: %w", name, err)
		}

		fieldMapping := bleve.NewTextFieldMapping()
		fieldMapping.Analyzer = name
		fieldMapping.Store = storedFields[field]
		fieldMapping.IncludeInAll = false
		// Positions are needed for phrase queries on analyzed fields only.
		fieldMapping.IncludeTermVectors = !isKeyword(field)
		docMapping.AddFieldMappingsAt(field.Name(), fieldMapping)
	}

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = keyword.Name
	return indexMapping, nil
}

func isKeyword(field analyzer.Field) bool {
	switch field {
	case analyzer.FieldID, analyzer.FieldFolder, analyzer.FieldFolderID,
		analyzer.FieldMediaType, analyzer.FieldGenreKey:
		return true
	}
	return false
}
