// Package analyzer builds the per-field text analysis chains used both when
// documents are indexed and when queries are parsed.
package analyzer

import (
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"

	"github.com/listenupapp/listenup-search/internal/analyzer/morphology"
	"github.com/listenupapp/listenup-search/internal/domain"
)

type chainKind int

const (
	kindKeyword chainKind = iota
	kindPlain
	kindReading
	kindRomanized
	kindGenre
)

type fieldConfig struct {
	kind  chainKind
	stops analysis.TokenMap
}

var fieldTable = [fieldCount]fieldConfig{
	FieldID:                       {kind: kindKeyword},
	FieldFolder:                   {kind: kindKeyword},
	FieldFolderID:                 {kind: kindKeyword},
	FieldMediaType:                {kind: kindKeyword},
	FieldYear:                     {kind: kindKeyword},
	FieldArtist:                   {kind: kindPlain, stops: artistStops},
	FieldArtistReading:            {kind: kindReading, stops: artistStops},
	FieldArtistReadingRomanized:   {kind: kindRomanized},
	FieldAlbum:                    {kind: kindPlain, stops: articleStops},
	FieldAlbumReading:             {kind: kindReading, stops: articleStops},
	FieldTitle:                    {kind: kindPlain, stops: articleStops},
	FieldTitleReading:             {kind: kindReading, stops: articleStops},
	FieldComposer:                 {kind: kindPlain, stops: artistStops},
	FieldComposerReading:          {kind: kindReading, stops: artistStops},
	FieldComposerReadingRomanized: {kind: kindRomanized},
	FieldGenre:                    {kind: kindGenre},
	FieldGenreKey:                 {kind: kindKeyword},
}

// Options configure a Factory.
type Options struct {
	Scheme domain.IndexScheme
	// Morphology splits Japanese runs in plain fields. When nil, Japanese
	// text is segmented by the same word-boundary rules as Latin text.
	Morphology morphology.Morphology
}

// Factory holds one analyzer per field. Analyzers are built once and only
// read afterwards, so a Factory is safe for concurrent use.
type Factory struct {
	scheme    domain.IndexScheme
	analyzers [fieldCount]analysis.Analyzer
}

// NewFactory builds the analyzers for every field.
func NewFactory(opts Options) *Factory {
	if opts.Scheme == "" {
		opts.Scheme = domain.SchemeNativeJapanese
	}
	f := &Factory{scheme: opts.Scheme}

	plainMode := japaneseMorphology
	if opts.Scheme == domain.SchemeWithoutJapanese {
		plainMode = japaneseSegment
	}

	for field := Field(0); field < fieldCount; field++ {
		cfg := fieldTable[field]
		switch cfg.kind {
		case kindPlain:
			f.analyzers[field] = &analysis.DefaultAnalyzer{
				CharFilters:  []analysis.CharFilter{widthFoldFilter{}, ligatureFilter{}, diacriticFilter{}},
				Tokenizer:    &scriptTokenizer{mode: plainMode, morph: opts.Morphology},
				TokenFilters: wordFilters(cfg.stops),
			}
		case kindReading:
			f.analyzers[field] = &analysis.DefaultAnalyzer{
				CharFilters:  []analysis.CharFilter{widthFoldFilter{}, ligatureFilter{}, diacriticFilter{}, hiraganaFilter{}},
				Tokenizer:    &scriptTokenizer{mode: japaneseBigram},
				TokenFilters: wordFilters(cfg.stops),
			}
		case kindRomanized:
			f.analyzers[field] = &analysis.DefaultAnalyzer{
				CharFilters: []analysis.CharFilter{widthFoldFilter{}, diacriticFilter{}, romanizeFilter{}},
				Tokenizer:   bigramTokenizer{},
			}
		case kindGenre:
			f.analyzers[field] = &analysis.DefaultAnalyzer{
				CharFilters:  []analysis.CharFilter{widthFoldFilter{}, diacriticFilter{}, genreFilter{}},
				Tokenizer:    single.NewSingleTokenTokenizer(),
				TokenFilters: []analysis.TokenFilter{dropEmptyFilter{}},
			}
		default:
			f.analyzers[field] = &analysis.DefaultAnalyzer{
				Tokenizer:    single.NewSingleTokenTokenizer(),
				TokenFilters: []analysis.TokenFilter{dropEmptyFilter{}},
			}
		}
	}
	return f
}

func wordFilters(stops analysis.TokenMap) []analysis.TokenFilter {
	return []analysis.TokenFilter{
		lowercase.NewLowerCaseFilter(),
		en.NewPossessiveFilter(),
		contentFilter{},
		stop.NewStopTokensFilter(stops),
	}
}

// Scheme returns the index scheme the factory was built for.
func (f *Factory) Scheme() domain.IndexScheme {
	return f.scheme
}

// Analyzer returns the analyzer for field, or nil for an unknown field.
func (f *Factory) Analyzer(field Field) analysis.Analyzer {
	if field < 0 || field >= fieldCount {
		return nil
	}
	return f.analyzers[field]
}

// Tokenize analyzes text with the field's analyzer and returns the terms.
// Input that yields nothing searchable returns an empty slice.
func (f *Factory) Tokenize(field Field, text string) []string {
	a := f.Analyzer(field)
	if a == nil || text == "" {
		return []string{}
	}
	stream := a.Analyze([]byte(text))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		terms = append(terms, string(tok.Term))
	}
	return terms
}

// Phrase analyzes text like Tokenize but keeps the holes left by removed
// stop words as empty terms, so the result lines up with the positions
// written to the index. Leading holes are dropped.
//
//	Phrase(FieldArtist, "Rage Against the Machine") // ["rage" "against" "" "machine"]
func (f *Factory) Phrase(field Field, text string) []string {
	a := f.Analyzer(field)
	if a == nil || text == "" {
		return []string{}
	}
	stream := a.Analyze([]byte(text))
	if len(stream) == 0 {
		return []string{}
	}
	first := stream[0].Position
	terms := make([]string, 0, stream[len(stream)-1].Position-first+1)
	for _, tok := range stream {
		for len(terms) < tok.Position-first {
			terms = append(terms, "")
		}
		terms = append(terms, string(tok.Term))
	}
	return terms
}
