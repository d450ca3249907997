package analyzer

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/segment"

	"github.com/listenupapp/listenup-search/internal/analyzer/morphology"
	"github.com/listenupapp/listenup-search/internal/reading"
)

// japaneseMode selects how a run of Japanese script is split.
type japaneseMode int

const (
	// japaneseSegment applies the same UAX#29 rules as everything else.
	japaneseSegment japaneseMode = iota
	// japaneseMorphology hands the run to the morphological analyzer.
	japaneseMorphology
	// japaneseBigram emits overlapping bigrams; a single rune is a unigram.
	japaneseBigram
)

// scriptRun is a byte range of input that is either entirely Japanese
// script or entirely something else.
type scriptRun struct {
	start, end int
	japanese   bool
}

func splitScriptRuns(input []byte) []scriptRun {
	var runs []scriptRun
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRune(input[i:])
		jp := reading.IsJapanese(r)
		if n := len(runs); n > 0 && runs[n-1].japanese == jp {
			runs[n-1].end = i + size
		} else {
			runs = append(runs, scriptRun{start: i, end: i + size, japanese: jp})
		}
		i += size
	}
	return runs
}

// scriptTokenizer segments non-Japanese text by UAX#29 word boundaries and
// treats Japanese runs according to mode.
type scriptTokenizer struct {
	mode  japaneseMode
	morph morphology.Morphology
}

func (t *scriptTokenizer) Tokenize(input []byte) analysis.TokenStream {
	stream := make(analysis.TokenStream, 0, 8)
	for _, run := range splitScriptRuns(input) {
		switch {
		case run.japanese && t.mode == japaneseBigram:
			stream = appendBigrams(stream, input, run.start, run.end)
		case run.japanese && t.mode == japaneseMorphology && t.morph != nil:
			stream = t.appendMorphemes(stream, input, run.start, run.end)
		default:
			stream = appendWords(stream, input, run.start, run.end)
		}
	}
	return stream
}

func (t *scriptTokenizer) appendMorphemes(stream analysis.TokenStream, input []byte, start, end int) analysis.TokenStream {
	run := input[start:end]
	cursor := 0
	for _, m := range t.morph.Analyze(string(run)) {
		surface := []byte(m.Surface)
		offset := cursor
		if idx := bytes.Index(run[cursor:], surface); idx >= 0 {
			offset = cursor + idx
			cursor = offset + len(surface)
		}
		if !hasContent(surface) {
			continue
		}
		stream = append(stream, &analysis.Token{
			Term:     surface,
			Start:    start + offset,
			End:      start + offset + len(surface),
			Position: len(stream) + 1,
			Type:     analysis.Ideographic,
		})
	}
	return stream
}

func appendWords(stream analysis.TokenStream, input []byte, start, end int) analysis.TokenStream {
	segmenter := segment.NewWordSegmenterDirect(input[start:end])
	offset := start
	for segmenter.Segment() {
		word := segmenter.Bytes()
		wordEnd := offset + len(word)
		if typ := segmenter.Type(); typ != segment.None {
			stream = append(stream, &analysis.Token{
				Term:     append([]byte(nil), word...),
				Start:    offset,
				End:      wordEnd,
				Position: len(stream) + 1,
				Type:     tokenType(typ),
			})
		}
		offset = wordEnd
	}
	return stream
}

func tokenType(segmentType int) analysis.TokenType {
	switch segmentType {
	case segment.Number:
		return analysis.Numeric
	case segment.Ideo, segment.Kana:
		return analysis.Ideographic
	default:
		return analysis.AlphaNumeric
	}
}

func appendBigrams(stream analysis.TokenStream, input []byte, start, end int) analysis.TokenStream {
	offsets := runeOffsets(input, start, end)
	if len(offsets) == 1 {
		return append(stream, &analysis.Token{
			Term:     append([]byte(nil), input[start:end]...),
			Start:    start,
			End:      end,
			Position: len(stream) + 1,
			Type:     analysis.Single,
		})
	}
	for i := 0; i+1 < len(offsets); i++ {
		to := end
		if i+2 < len(offsets) {
			to = offsets[i+2]
		}
		stream = append(stream, &analysis.Token{
			Term:     append([]byte(nil), input[offsets[i]:to]...),
			Start:    offsets[i],
			End:      to,
			Position: len(stream) + 1,
			Type:     analysis.Double,
		})
	}
	return stream
}

func runeOffsets(input []byte, start, end int) []int {
	offsets := make([]int, 0, end-start)
	for i := start; i < end; {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRune(input[i:end])
		i += size
	}
	return offsets
}

// bigramTokenizer splits on whitespace, keeps letters and digits, and emits
// overlapping bigrams of each chunk. Chunks of one or two runes are emitted
// whole.
type bigramTokenizer struct{}

func (bigramTokenizer) Tokenize(input []byte) analysis.TokenStream {
	stream := make(analysis.TokenStream, 0, 8)
	cursor := 0
	for _, chunk := range bytes.Fields(input) {
		start := cursor + bytes.Index(input[cursor:], chunk)
		cursor = start + len(chunk)
		kept := []rune(string(bytes.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, chunk)))
		if len(kept) == 0 {
			continue
		}
		if len(kept) <= 2 {
			stream = append(stream, &analysis.Token{
				Term:     []byte(string(kept)),
				Start:    start,
				End:      start + len(chunk),
				Position: len(stream) + 1,
				Type:     analysis.AlphaNumeric,
			})
			continue
		}
		for i := 0; i+1 < len(kept); i++ {
			stream = append(stream, &analysis.Token{
				Term:     []byte(string(kept[i : i+2])),
				Start:    start,
				End:      start + len(chunk),
				Position: len(stream) + 1,
				Type:     analysis.Double,
			})
		}
	}
	return stream
}

func hasContent(term []byte) bool {
	return bytes.IndexFunc(term, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
