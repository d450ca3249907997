package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabledFolders(t *testing.T) {
	folders := []MusicFolder{
		{ID: 0, Path: "/a", Enabled: true},
		{ID: 1, Path: "/b"},
		{ID: 2, Path: "/c", Enabled: true},
	}

	got := EnabledFolders(folders)
	assert.Equal(t, []MusicFolder{folders[0], folders[2]}, got)
	assert.Empty(t, EnabledFolders(nil))
}

func TestParseIndexScheme(t *testing.T) {
	tests := []struct {
		name string
		want IndexScheme
		ok   bool
	}{
		{"", SchemeNativeJapanese, true},
		{"NATIVE_JAPANESE", SchemeNativeJapanese, true},
		{"ROMANIZED_JAPANESE", SchemeRomanizedJapanese, true},
		{"WITHOUT_JP_LANG_PROCESSING", SchemeWithoutJapanese, true},
		{"native_japanese", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseIndexScheme(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
	assert.Equal(t, "", FirstNonEmpty())
}
