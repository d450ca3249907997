// Package reading derives phonetic readings for names and provides the
// script helpers shared by analysis and document mapping.
package reading

import (
	"strings"
	"unicode"

	"github.com/kotaroooo0/gojaconv/jaconv"
	"golang.org/x/text/width"
)

const (
	prolongedSoundMark = 'ー'
	halfwidthProlonged = 'ｰ'
)

// IsKana reports whether r is hiragana, katakana or the prolonged sound mark.
func IsKana(r rune) bool {
	return unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		r == prolongedSoundMark || r == halfwidthProlonged
}

// IsJapanese reports whether r belongs to a Japanese script: kana or CJK ideographs.
func IsJapanese(r rune) bool {
	return IsKana(r) || unicode.Is(unicode.Han, r)
}

// ContainsJapanese reports whether s has any Japanese-script code point.
func ContainsJapanese(s string) bool {
	return strings.IndexFunc(s, IsJapanese) >= 0
}

// IsKanaOnly reports whether s consists of kana and whitespace, with at
// least one kana.
func IsKanaOnly(s string) bool {
	seen := false
	for _, r := range s {
		switch {
		case IsKana(r):
			seen = true
		case unicode.IsSpace(r):
		default:
			return false
		}
	}
	return seen
}

// FoldWidth maps full-width ASCII to half-width and half-width katakana to
// full-width.
func FoldWidth(s string) string {
	return width.Fold.String(s)
}

// Fold applies width folding and lower-casing, the normalization used before
// any reading comparison.
func Fold(s string) string {
	return strings.ToLower(FoldWidth(s))
}

// ToHiragana converts katakana to hiragana, leaving other runes as they are.
func ToHiragana(s string) string {
	return jaconv.KatakanaToHiragana(s)
}

// Romanize converts the kana runs of s to lower-case Hepburn. Runes outside
// kana runs are kept and lower-cased.
func Romanize(s string) string {
	var b strings.Builder
	var run []rune
	flush := func() {
		if len(run) > 0 {
			b.WriteString(jaconv.ToHebon(ToHiragana(string(run))))
			run = run[:0]
		}
	}
	for _, r := range FoldWidth(s) {
		if IsKana(r) {
			run = append(run, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return strings.ToLower(b.String())
}

// RemovePunctuation drops punctuation and symbols from a reading, collapsing
// the whitespace left behind.
func RemovePunctuation(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == prolongedSoundMark || r == halfwidthProlonged {
			return r
		}
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(cleaned), " ")
}
