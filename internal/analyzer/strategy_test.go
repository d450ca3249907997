package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChooseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"ねこ", StrategyWhitespace},
		{"ねこ いぬ", StrategyWhitespace},
		{"ラーメン", StrategyWhitespace},
		{"ネコ ABC", StrategySegmenting},
		{"猫", StrategySegmenting},
		{"Bach", StrategySegmenting},
		{"", StrategySegmenting},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseStrategy(tt.in))
		})
	}
}

func TestQueryChunks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"kana stays whole", "いぬとねこ", []string{"いぬとねこ"}},
		{"kana split on whitespace", " ねこ  いぬ ", []string{"ねこ", "いぬ"}},
		{"mixed script", "ネコ ABC", []string{"ネコ", "ABC"}},
		{"script boundary inside a word", "猫のABC", []string{"猫の", "ABC"}},
		{"punctuation dropped", "Bach: Goldberg", []string{"Bach", "Goldberg"}},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryChunks(tt.in))
		})
	}
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "whitespace", StrategyWhitespace.String())
	assert.Equal(t, "segmenting", StrategySegmenting.String())
}
