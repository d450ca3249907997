package reading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKanaOnly(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ねこ", true},
		{"ネコ いぬ", true},
		{"ラーメン", true},
		{"ﾈｺ", true},
		{"ねこ ABC", false},
		{"猫", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsKanaOnly(tt.in))
		})
	}
}

func TestContainsJapanese(t *testing.T) {
	assert.True(t, ContainsJapanese("abc猫"))
	assert.True(t, ContainsJapanese("ねこ"))
	assert.False(t, ContainsJapanese("Björk"))
	assert.False(t, ContainsJapanese(""))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "abc123", Fold("ＡＢＣ１２３"))
	assert.Equal(t, "ネコ", Fold("ﾈｺ"))
}

func TestToHiragana(t *testing.T) {
	assert.Equal(t, "ねこ", ToHiragana("ネコ"))
	assert.Equal(t, "abc", ToHiragana("abc"))
}

func TestRomanize(t *testing.T) {
	assert.Equal(t, "ohayo", Romanize("おはよう"))
	assert.Equal(t, "chotto", Romanize("チョット"))
	assert.Equal(t, "chotto abc", Romanize("ちょっと ABC"))
}

func TestRemovePunctuation(t *testing.T) {
	assert.Equal(t, "いきものがかり", RemovePunctuation("「いきものがかり」"))
	assert.Equal(t, "ラーメン たべたい", RemovePunctuation("ラーメン・たべたい!"))
}
