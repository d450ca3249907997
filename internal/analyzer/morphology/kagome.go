package morphology

import (
	"sync"

	ipaneologd "github.com/ikawaha/kagome-dict-ipa-neologd"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

const (
	featurePOS      = 0
	featurePOSSub   = 1
	featureReading  = 7
	posSubBlankName = "空白"
)

// Kagome wraps the kagome tokenizer so the rest of the module does not
// depend on it directly.
type Kagome struct {
	kagome *tokenizer.Tokenizer
}

// NewKagome loads the IPA NEologd dictionary and builds a tokenizer.
func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(ipaneologd.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Kagome{kagome: t}, nil
}

var shared = sync.OnceValues(NewKagome)

// Shared returns a process-wide Kagome, loading the dictionary on first use.
func Shared() (*Kagome, error) {
	return shared()
}

// Analyze segments text in search mode, skipping whitespace morphemes.
func (k *Kagome) Analyze(text string) []Token {
	tokens := k.kagome.Analyze(text, tokenizer.Search)
	out := make([]Token, 0, len(tokens))
	for _, token := range tokens {
		features := token.Features()
		if len(features) > featurePOSSub && features[featurePOSSub] == posSubBlankName {
			continue
		}
		t := Token{Surface: token.Surface, Reading: token.Surface}
		if len(features) > featurePOS {
			t.POS = features[featurePOS]
		}
		if len(features) > featureReading {
			t.Reading = features[featureReading]
		}
		out = append(out, t)
	}
	return out
}
