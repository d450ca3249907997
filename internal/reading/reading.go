package reading

import (
	"strings"

	"github.com/listenupapp/listenup-search/internal/domain"
)

// Pair is the set of forms derived for one name at index time.
// Reading and Romanized are empty when no such field should be written.
type Pair struct {
	Surface   string
	Reading   string
	Romanized string
	Japanese  bool
}

// HasReading reports whether a reading field should be emitted.
func (p Pair) HasReading() bool {
	return p.Reading != ""
}

// Utility derives readings under a fixed index scheme. It holds no mutable
// state and is safe for concurrent use.
type Utility struct {
	scheme domain.IndexScheme
}

// New creates a Utility for the given scheme.
func New(scheme domain.IndexScheme) *Utility {
	if scheme == "" {
		scheme = domain.SchemeNativeJapanese
	}
	return &Utility{scheme: scheme}
}

// Scheme returns the index scheme in effect.
func (u *Utility) Scheme() domain.IndexScheme {
	return u.scheme
}

// Derive computes the reading for rawName given an optional curated sort
// value. A sort value that differs from the name (after width and case
// folding) is trusted as the reading. Kanji names without a usable sort
// value get no reading: kana is never generated from kanji.
func (u *Utility) Derive(rawName, suppliedSort string) Pair {
	p := Pair{Surface: rawName}
	if strings.TrimSpace(rawName) == "" {
		return p
	}
	p.Japanese = ContainsJapanese(rawName)

	folded := Fold(rawName)
	sort := strings.TrimSpace(suppliedSort)
	if sort != "" && Fold(sort) != folded {
		p.Reading = u.clean(sort)
	} else {
		switch u.scheme {
		case domain.SchemeWithoutJapanese:
			p.Reading = folded
		case domain.SchemeRomanizedJapanese:
			if !p.Japanese {
				p.Reading = folded
			}
		}
	}

	if u.scheme == domain.SchemeRomanizedJapanese && p.Japanese && p.Reading != "" {
		p.Romanized = Romanize(RemovePunctuation(p.Reading))
	}
	return p
}

func (u *Utility) clean(sort string) string {
	if u.scheme == domain.SchemeNativeJapanese && ContainsJapanese(sort) {
		return RemovePunctuation(sort)
	}
	return sort
}
