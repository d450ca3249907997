package analyzer

import (
	"strings"

	"github.com/blevesearch/segment"

	"github.com/listenupapp/listenup-search/internal/reading"
)

// Strategy is how a query string is split into chunks before each chunk is
// analyzed per field.
type Strategy int

const (
	// StrategySegmenting splits on whitespace, then at script boundaries,
	// then non-Japanese text at word boundaries.
	StrategySegmenting Strategy = iota
	// StrategyWhitespace keeps every whitespace-delimited run whole. Used for
	// kana-only queries, which general segmenters tend to cut badly.
	StrategyWhitespace
)

func (s Strategy) String() string {
	if s == StrategyWhitespace {
		return "whitespace"
	}
	return "segmenting"
}

// ChooseStrategy picks the query strategy from the script makeup of text.
func ChooseStrategy(text string) Strategy {
	if reading.IsKanaOnly(text) {
		return StrategyWhitespace
	}
	return StrategySegmenting
}

// QueryChunks splits a query string into the units that become one clause
// group each.
func QueryChunks(text string) []string {
	fields := strings.Fields(text)
	if ChooseStrategy(text) == StrategyWhitespace {
		return fields
	}

	var chunks []string
	for _, field := range fields {
		b := []byte(field)
		for _, run := range splitScriptRuns(b) {
			part := b[run.start:run.end]
			if run.japanese {
				chunks = append(chunks, string(part))
				continue
			}
			seg := segment.NewWordSegmenterDirect(part)
			for seg.Segment() {
				if seg.Type() != segment.None {
					chunks = append(chunks, string(seg.Bytes()))
				}
			}
		}
	}
	return chunks
}
