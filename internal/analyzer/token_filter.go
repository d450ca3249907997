package analyzer

import "github.com/blevesearch/bleve/v2/analysis"

// contentFilter drops tokens without a letter or digit, such as a lone
// apostrophe or a run of punctuation that survived segmentation.
type contentFilter struct{}

func (contentFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	return filterTokens(input, func(tok *analysis.Token) bool {
		return hasContent(tok.Term)
	})
}

// dropEmptyFilter removes zero-length terms left behind by char filters.
type dropEmptyFilter struct{}

func (dropEmptyFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	return filterTokens(input, func(tok *analysis.Token) bool {
		return len(tok.Term) > 0
	})
}

// filterTokens keeps the tokens matching keep and renumbers positions.
func filterTokens(input analysis.TokenStream, keep func(*analysis.Token) bool) analysis.TokenStream {
	out := input[:0]
	for _, tok := range input {
		if keep(tok) {
			tok.Position = len(out) + 1
			out = append(out, tok)
		}
	}
	return out
}
