package scanner

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/simonhull/audiometa"
)

// Tags are the embedded tags the search documents need.
type Tags struct {
	Title  string
	Album  string
	Artist string
	Track  int
	Format string
}

// TagReader reads embedded tags from a media file.
type TagReader interface {
	ReadTags(ctx context.Context, path string) (*Tags, error)
}

// AudioMetaReader reads tags with audiometa.
type AudioMetaReader struct{}

// ReadTags opens path and copies its tags.
func (AudioMetaReader) ReadTags(ctx context.Context, path string) (*Tags, error) {
	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return tagsFromFile(file), nil
}

func tagsFromFile(file *audiometa.File) *Tags {
	return &Tags{
		Title:  file.Tags.Title,
		Album:  file.Tags.Album,
		Artist: file.Tags.Artist,
		Track:  file.Tags.TrackNumber,
		Format: file.Format.String(),
	}
}

// taggedFile pairs a walked file with its tags. Tags is nil when they could
// not be read.
type taggedFile struct {
	WalkResult
	Tags *Tags
}

// readAll reads tags for files with a pool of workers. Files whose tags
// fail to parse are kept with nil tags; only cancellation aborts.
func readAll(ctx context.Context, reader TagReader, files []WalkResult, workers int, logger *slog.Logger) ([]taggedFile, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type job struct {
		file  WalkResult
		index int
	}

	jobs := make(chan job, len(files))
	tagged := make([]taggedFile, len(files))
	done := make(chan struct{}, len(files))

	for range workers {
		go func() {
			for j := range jobs {
				if ctx.Err() != nil {
					done <- struct{}{}
					continue
				}
				tags, err := reader.ReadTags(ctx, j.file.Path)
				if err != nil {
					logger.Warn("failed to read tags, using path", "path", j.file.Path, "error", err)
				}
				tagged[j.index] = taggedFile{WalkResult: j.file, Tags: tags}
				done <- struct{}{}
			}
		}()
	}

	for i, f := range files {
		jobs <- job{file: f, index: i}
	}
	close(jobs)

	for range files {
		<-done
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tagged, nil
}
