package analyzer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/listenupapp/listenup-search/internal/reading"
)

// Char filters rewrite the raw input before tokenization. They implement
// bleve's analysis.CharFilter.

// widthFoldFilter maps full-width ASCII to half-width and half-width kana
// to full-width.
type widthFoldFilter struct{}

func (widthFoldFilter) Filter(input []byte) []byte {
	return width.Fold.Bytes(input)
}

var ligatures = strings.NewReplacer(
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ß", "ss",
)

type ligatureFilter struct{}

func (ligatureFilter) Filter(input []byte) []byte {
	return []byte(ligatures.Replace(string(input)))
}

// isFoldableMark matches combining marks except the kana voicing marks, which
// must survive so NFC can recompose が and ぱ.
func isFoldableMark(r rune) bool {
	return unicode.Is(unicode.Mn, r) && r != '\u3099' && r != '\u309a'
}

// diacriticFilter removes Latin diacritics: é -> e, ü -> u.
type diacriticFilter struct{}

func (diacriticFilter) Filter(input []byte) []byte {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isFoldableMark)), norm.NFC)
	out, _, err := transform.Bytes(t, input)
	if err != nil {
		return input
	}
	return out
}

// hiraganaFilter converts katakana to hiragana.
type hiraganaFilter struct{}

func (hiraganaFilter) Filter(input []byte) []byte {
	return []byte(reading.ToHiragana(string(input)))
}

// romanizeFilter converts kana to lower-case Hepburn.
type romanizeFilter struct{}

func (romanizeFilter) Filter(input []byte) []byte {
	return []byte(reading.Romanize(string(input)))
}

var trailingParen = regexp.MustCompile(`\)$`)

// genreFilter normalizes a genre tag into its single search term. Brackets
// are substituted last so that "{}" and "{ }" both become "{ }".
type genreFilter struct{}

func (genreFilter) Filter(input []byte) []byte {
	s := string(input)
	s = strings.ReplaceAll(s, "(", "")
	s = trailingParen.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ")", " ")
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, "{}", "{ }")
	s = strings.ReplaceAll(s, "[]", "[ ]")
	return []byte(s)
}
