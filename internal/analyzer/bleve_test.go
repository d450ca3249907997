package analyzer

import (
	"testing"

	"github.com/blevesearch/bleve/v2/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-search/internal/domain"
)

func TestMappingAnalyzerName(t *testing.T) {
	assert.Equal(t, "field_artR", MappingAnalyzerName(FieldArtistReading))
	assert.Equal(t, "field_gk", MappingAnalyzerName(FieldGenreKey))
}

func TestAnalyzerConstructor(t *testing.T) {
	cache := registry.NewCache()
	config := AnalyzerConfig(FieldGenre, domain.SchemeWithoutJapanese)
	assert.Equal(t, AnalyzerType, config["type"])

	a, err := analyzerConstructor(config, cache)
	require.NoError(t, err)

	stream := a.Analyze([]byte("Classic Rock"))
	require.Len(t, stream, 1)
	assert.Equal(t, "classicrock", string(stream[0].Term))
}

func TestAnalyzerConstructor_PlainWithoutJapanese(t *testing.T) {
	a, err := analyzerConstructor(AnalyzerConfig(FieldTitle, domain.SchemeWithoutJapanese), registry.NewCache())
	require.NoError(t, err)
	assert.Len(t, a.Analyze([]byte("The Long Goodbye")), 2)
}

func TestAnalyzerConstructor_InvalidConfig(t *testing.T) {
	_, err := analyzerConstructor(map[string]interface{}{"field": "nope"}, registry.NewCache())
	assert.Error(t, err)

	_, err = analyzerConstructor(map[string]interface{}{"field": "tit", "scheme": "KLINGON"}, registry.NewCache())
	assert.Error(t, err)
}
