package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(ch <-chan WalkResult) []WalkResult {
	var results []WalkResult
	for r := range ch {
		results = append(results, r)
	}
	return results
}

func TestWalker_Walk_EmptyDirectory(t *testing.T) {
	results := collect(NewWalker(discardLogger()).Walk(context.Background(), t.TempDir()))
	assert.Empty(t, results)
}

func TestWalker_Walk_FiltersFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"Artist/Album/01.MP3",
		"Artist/Album/notes.txt",
		".trash/old.mp3",
		"Artist/.hidden.flac",
	)

	results := collect(NewWalker(discardLogger()).Walk(context.Background(), root))

	if assert.Len(t, results, 1) {
		assert.Equal(t, "Artist/Album/01.MP3", results[0].RelPath)
		assert.Equal(t, ".mp3", results[0].Ext)
		assert.Equal(t, int64(1), results[0].Size)
	}
}

func TestWalker_Walk_Canceled(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.mp3", "b.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, collect(NewWalker(discardLogger()).Walk(ctx, root)))
}

func TestIsDiscDir(t *testing.T) {
	for name, want := range map[string]bool{
		"CD1":    true,
		"Disc 2": true,
		"disk3":  true,
		"CDs":    false,
		"Discog": false,
		"Album":  false,
	} {
		assert.Equal(t, want, isDiscDir(name), name)
	}
}
