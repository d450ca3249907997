package analyzer

import "github.com/blevesearch/bleve/v2/analysis"

// articleStopWords are removed from every plain and reading field. Only
// articles are listed: ordinary function words stay searchable.
var articleStopWords = []string{
	"a", "an", "the",
	"el", "la", "los", "las", "le", "les",
}

// creditStopWords separate multiple artists in one credit and are removed
// from artist and composer fields only.
var creditStopWords = []string{"with", "feat", "cv"}

func newStopMap(words ...[]string) analysis.TokenMap {
	m := analysis.NewTokenMap()
	for _, list := range words {
		for _, w := range list {
			m.AddToken(w)
		}
	}
	return m
}

var (
	articleStops = newStopMap(articleStopWords)
	artistStops  = newStopMap(articleStopWords, creditStopWords)
)
