package analyzer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-search/internal/analyzer/morphology"
	"github.com/listenupapp/listenup-search/internal/domain"
)

const functionWords = "and are as at be but by for if in into is it no not of on or such " +
	"that their then there these they this to was will with"

func newTestFactory(scheme domain.IndexScheme) *Factory {
	return NewFactory(Options{Scheme: scheme})
}

func TestTokenize_ArticleStopWords(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)
	articles := "a an the el la los las le les"

	for _, field := range []Field{
		FieldArtist, FieldArtistReading,
		FieldAlbum, FieldAlbumReading,
		FieldTitle, FieldTitleReading,
		FieldComposer, FieldComposerReading,
	} {
		t.Run(field.String(), func(t *testing.T) {
			assert.Empty(t, f.Tokenize(field, articles))
			assert.Empty(t, f.Tokenize(field, strings.ToUpper(articles)))
		})
	}
}

func TestTokenize_FunctionWordsKept(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)

	tests := []struct {
		field Field
		want  int
	}{
		{FieldAlbum, 30},
		{FieldAlbumReading, 30},
		{FieldTitle, 30},
		{FieldTitleReading, 30},
		{FieldArtist, 29},
		{FieldArtistReading, 29},
		{FieldComposer, 29},
		{FieldComposerReading, 29},
	}

	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			terms := f.Tokenize(tt.field, functionWords)
			assert.Len(t, terms, tt.want)
			if tt.want == 29 {
				assert.NotContains(t, terms, "with")
			} else {
				assert.Contains(t, terms, "with")
			}
		})
	}
}

func TestTokenize_CreditSeparators(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)

	assert.Equal(t, []string{"nujabes", "shing02"}, f.Tokenize(FieldArtist, "Nujabes feat. Shing02"))
	assert.Equal(t, []string{"hanazawa", "kana"}, f.Tokenize(FieldComposer, "CV Hanazawa Kana"))
	assert.Equal(t, []string{"feat", "cv"}, f.Tokenize(FieldTitle, "feat CV"))
}

func TestTokenize_PlainFieldEndToEnd(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)

	got := f.Tokenize(FieldTitle, "Bach: Goldberg Variations, BWV 988 - Aria")
	want := []string{"bach", "goldberg", "variations", "bwv", "988", "aria"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenize_Folding(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)

	assert.Equal(t, []string{"beyonce", "aeon"}, f.Tokenize(FieldArtist, "Beyoncé Æon"))
	assert.Equal(t, []string{"abc", "123"}, f.Tokenize(FieldAlbum, "ＡＢＣ １２３"))
	assert.Equal(t, []string{"bach", "music"}, f.Tokenize(FieldTitle, "Bach's Music"))
	assert.Equal(t, []string{"loved", "songs"}, f.Tokenize(FieldTitle, "Loved Songs"), "no stemming")
}

func TestTokenize_Idempotent(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)

	for _, field := range []Field{FieldArtist, FieldAlbum, FieldTitle, FieldTitleReading} {
		t.Run(field.String(), func(t *testing.T) {
			mixed := f.Tokenize(field, "Abbey Road Remastered 2009")
			lower := f.Tokenize(field, "abbey road remastered 2009")
			assert.Equal(t, lower, mixed)
			assert.Equal(t, lower, f.Tokenize(field, strings.Join(lower, " ")))
		})
	}
}

func TestTokenize_PunctuationOnly(t *testing.T) {
	f := newTestFactory(domain.SchemeRomanizedJapanese)

	for _, field := range Fields() {
		if fieldTable[field].kind == kindKeyword || fieldTable[field].kind == kindGenre {
			continue
		}
		t.Run(field.String(), func(t *testing.T) {
			assert.Empty(t, f.Tokenize(field, "!?-- ... '"))
			assert.Empty(t, f.Tokenize(field, ""))
		})
	}
}

func TestTokenize_ReadingBigrams(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)

	tests := []struct {
		name  string
		field Field
		in    string
		want  []string
	}{
		{"hiragana run", FieldTitleReading, "いぬとねこ", []string{"いぬ", "ぬと", "とね", "ねこ"}},
		{"katakana folds to hiragana", FieldArtistReading, "ネコ", []string{"ねこ"}},
		{"half-width katakana", FieldArtistReading, "ﾈｺ", []string{"ねこ"}},
		{"single rune", FieldTitleReading, "猫", []string{"猫"}},
		{"mixed script", FieldAlbumReading, "ねこABC", []string{"ねこ", "abc"}},
		{"latin words", FieldArtistReading, "The Beatles", []string{"beatles"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Tokenize(tt.field, tt.in))
		})
	}
}

func TestTokenize_RomanizedBigrams(t *testing.T) {
	f := newTestFactory(domain.SchemeRomanizedJapanese)

	tests := []struct {
		in   string
		want []string
	}{
		{"ねこ", []string{"ne", "ek", "ko"}},
		{"ネコ AB", []string{"ne", "ek", "ko", "ab"}},
		{"ABC", []string{"ab", "bc"}},
		{"x", []string{"x"}},
	}

	for _, field := range []Field{FieldArtistReadingRomanized, FieldComposerReadingRomanized} {
		for _, tt := range tests {
			t.Run(field.String()+"/"+tt.in, func(t *testing.T) {
				assert.Equal(t, tt.want, f.Tokenize(field, tt.in))
			})
		}
	}
}

func TestTokenize_Genre(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)

	tests := []struct {
		in   string
		want []string
	}{
		{"  Ab -C--", []string{"abc"}},
		{"Classic Rock", []string{"classicrock"}},
		{"Rock (Live)", []string{"rocklive"}},
		{"{}", []string{"{ }"}},
		{"{ }", []string{"{ }"}},
		{"[]", []string{"[ ]"}},
		{"  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Tokenize(FieldGenre, tt.in))
		})
	}
}

func TestTokenize_KeywordFieldsVerbatim(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)

	assert.Equal(t, []string{"  Ab -C--"}, f.Tokenize(FieldGenreKey, "  Ab -C--"))
	assert.Equal(t, []string{"/var/music1"}, f.Tokenize(FieldFolder, "/var/music1"))
	assert.Equal(t, []string{"MUSIC"}, f.Tokenize(FieldMediaType, "MUSIC"))
	assert.Empty(t, f.Tokenize(FieldFolderID, ""))
}

func TestTokenize_Morphology(t *testing.T) {
	calls := 0
	morph := morphology.Func(func(text string) []morphology.Token {
		calls++
		if text != "今日は" {
			return []morphology.Token{{Surface: text}}
		}
		return []morphology.Token{{Surface: "今日"}, {Surface: "は"}}
	})
	f := NewFactory(Options{Scheme: domain.SchemeNativeJapanese, Morphology: morph})

	assert.Equal(t, []string{"今日", "は", "abc"}, f.Tokenize(FieldTitle, "今日はABC"))
	assert.Equal(t, 1, calls)

	// Reading fields never consult morphology.
	assert.Equal(t, []string{"今日", "日は"}, f.Tokenize(FieldTitleReading, "今日は"))
	assert.Equal(t, 1, calls)
}

func TestTokenize_WithoutJapaneseIgnoresMorphology(t *testing.T) {
	morph := morphology.Func(func(text string) []morphology.Token {
		t.Fatalf("morphology called with %q", text)
		return nil
	})
	f := NewFactory(Options{Scheme: domain.SchemeWithoutJapanese, Morphology: morph})

	assert.Equal(t, []string{"ネコ"}, f.Tokenize(FieldArtist, "ネコ"))
}

func TestTokenize_TokenOffsets(t *testing.T) {
	f := newTestFactory(domain.SchemeNativeJapanese)

	stream := f.Analyzer(FieldTitle).Analyze([]byte("Hello World"))
	require.Len(t, stream, 2)
	assert.Equal(t, 0, stream[0].Start)
	assert.Equal(t, 5, stream[0].End)
	assert.Equal(t, 6, stream[1].Start)
	assert.Equal(t, 11, stream[1].End)
	assert.Equal(t, 2, stream[1].Position)
}

func TestFactory_UnknownField(t *testing.T) {
	f := newTestFactory("")

	assert.Equal(t, domain.SchemeNativeJapanese, f.Scheme())
	assert.Nil(t, f.Analyzer(Field(-1)))
	assert.Nil(t, f.Analyzer(fieldCount))
	assert.Empty(t, f.Tokenize(fieldCount, "abc"))
}

func TestPhrase_KeepsStopWordGaps(t *testing.T) {
	f := newTestFactory(domain.SchemeWithoutJapanese)

	tests := []struct {
		field Field
		text  string
		want  []string
	}{
		{FieldArtist, "Rage Against the Machine", []string{"rage", "against", "", "machine"}},
		{FieldArtistReading, "rage against the machine", []string{"rage", "against", "", "machine"}},
		{FieldTitle, "Killing in the Name", []string{"killing", "in", "", "name"}},
		{FieldArtist, "Simon with the Band", []string{"simon", "", "", "band"}},
		{FieldAlbum, "The Wall", []string{"wall"}},
		{FieldTitle, "the a an", []string{}},
		{FieldTitle, "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, f.Phrase(tt.field, tt.text)); diff != "" {
				t.Errorf("Phrase(%s, %q) mismatch (-want +got):\n%s", tt.field, tt.text, diff)
			}
		})
	}
}

func TestPhrase_MatchesTokenizeWithoutStopWords(t *testing.T) {
	f := newTestFactory(domain.SchemeWithoutJapanese)
	text := "Bach: Goldberg Variations, BWV 988 - Aria"

	assert.Equal(t, f.Tokenize(FieldTitle, text), f.Phrase(FieldTitle, text))
}

func TestBigramTokenizer_RepeatedChunkOffsets(t *testing.T) {
	stream := bigramTokenizer{}.Tokenize([]byte("ab  ab"))

	require.Len(t, stream, 2)
	assert.Equal(t, 0, stream[0].Start)
	assert.Equal(t, 2, stream[0].End)
	assert.Equal(t, 4, stream[1].Start)
	assert.Equal(t, 6, stream[1].End)
	assert.Equal(t, 2, stream[1].Position)
}
