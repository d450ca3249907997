// Package morphology segments Japanese text into words with kana readings.
package morphology

// Morphology splits text into morphemes. Implementations must be safe for
// concurrent use.
type Morphology interface {
	Analyze(text string) []Token
}

// Token is one morpheme.
type Token struct {
	Surface string
	Reading string // katakana reading; equals Surface when unknown
	POS     string // top-level part of speech
}

// Func adapts a plain function to the Morphology interface.
type Func func(text string) []Token

// Analyze calls f(text).
func (f Func) Analyze(text string) []Token {
	return f(text)
}
