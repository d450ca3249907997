package scanner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Walker traverses a music folder and streams the media files in it.
type Walker struct {
	logger *slog.Logger
}

// NewWalker creates a new walker.
func NewWalker(logger *slog.Logger) *Walker {
	return &Walker{
		logger: logger,
	}
}

// WalkResult is one media file discovered during a walk.
type WalkResult struct {
	Path    string
	RelPath string // relative to the walked root, slash separated
	Ext     string // lowercased, with leading dot
	Size    int64
	ModTime int64
}

// Walk traverses rootPath and streams files whose extension is a known
// media extension. Hidden files and directories are skipped.
// The channel closes when the walk completes or ctx is canceled.
func (w *Walker) Walk(ctx context.Context, rootPath string) <-chan WalkResult {
	results := make(chan WalkResult, 100)

	go func() {
		defer close(results)

		err := filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err != nil {
				w.logger.Error("walk error", "path", path, "error", err)
				return nil
			}

			if path != rootPath && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(d.Name()))
			if !isMediaExt(ext) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				w.logger.Error("failed to get file info", "path", path, "error", err)
				return nil
			}

			relPath, err := filepath.Rel(rootPath, path)
			if err != nil {
				w.logger.Error("failed to compute relative path", "path", path, "error", err)
				relPath = d.Name()
			}

			result := WalkResult{
				Path:    path,
				RelPath: filepath.ToSlash(relPath),
				Ext:     ext,
				Size:    info.Size(),
				ModTime: info.ModTime().UnixMilli(),
			}

			select {
			case results <- result:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})

		if err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("walk failed", "root", rootPath, "error", err)
		}
	}()

	return results
}

// isDiscDir reports whether a directory name marks one disc of a
// multi-disc album, such as "CD1", "Disc 2" or "disk3".
func isDiscDir(name string) bool {
	name = strings.ToLower(name)

	for _, pattern := range []string{"cd", "disc", "disk"} {
		if rest, ok := strings.CutPrefix(name, pattern); ok {
			rest = strings.TrimSpace(rest)
			if rest != "" && rest[0] >= '0' && rest[0] <= '9' {
				return true
			}
		}
	}
	return false
}
