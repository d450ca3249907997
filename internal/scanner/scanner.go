// Package scanner walks music folders and turns the media files in them into
// the records the search indexes are built from.
package scanner

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/listenupapp/listenup-search/internal/catalog"
	"github.com/listenupapp/listenup-search/internal/domain"
)

var (
	audioExtensions = map[string]bool{
		".mp3":  true,
		".m4a":  true,
		".m4b":  true,
		".flac": true,
		".ogg":  true,
		".opus": true,
		".aac":  true,
		".wma":  true,
		".wav":  true,
	}

	videoExtensions = map[string]bool{
		".mp4":  true,
		".m4v":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".webm": true,
	}
)

func isMediaExt(ext string) bool {
	return audioExtensions[ext] || videoExtensions[ext]
}

// IsMediaFile reports whether p has an extension the scanner reads.
func IsMediaFile(p string) bool {
	return isMediaExt(strings.ToLower(filepath.Ext(p)))
}

// Scanner builds a catalog from the files under music folders.
type Scanner struct {
	walker *Walker
	reader TagReader
	logger *slog.Logger
}

// NewScanner creates a scanner. A nil reader reads tags with audiometa.
func NewScanner(reader TagReader, logger *slog.Logger) *Scanner {
	if reader == nil {
		reader = AudioMetaReader{}
	}
	return &Scanner{
		walker: NewWalker(logger),
		reader: reader,
		logger: logger,
	}
}

// ScanOptions configures a scan.
type ScanOptions struct {
	Workers int // tag reading workers (default: runtime.NumCPU())
}

// Scan walks every enabled folder and returns songs plus the album and
// artist directories that hold them. Songs, album directories and artist
// directories are numbered from 1 within their own kind.
func (s *Scanner) Scan(ctx context.Context, folders []domain.MusicFolder, opts ScanOptions) (*catalog.Catalog, error) {
	b := newBuilder()
	b.cat.Folders = folders

	for _, folder := range domain.EnabledFolders(folders) {
		var files []WalkResult
		for f := range s.walker.Walk(ctx, folder.Path) {
			files = append(files, f)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

		tagged, err := readAll(ctx, s.reader, files, opts.Workers, s.logger)
		if err != nil {
			return nil, err
		}
		for _, tf := range tagged {
			b.add(folder, tf)
		}

		s.logger.Info("scanned music folder", "folder", folder.Path, "files", len(files))
	}

	return b.cat, nil
}

type builder struct {
	cat        *catalog.Catalog
	albumDirs  map[string]bool
	artistDirs map[string]bool
}

func newBuilder() *builder {
	return &builder{
		cat:        &catalog.Catalog{},
		albumDirs:  make(map[string]bool),
		artistDirs: make(map[string]bool),
	}
}

// add records a song and, the first time they are seen, its album and
// artist directories. The album directory is the song's parent, skipping a
// disc directory; the artist directory is the album directory's parent.
// Directories at the folder root are not entities.
func (b *builder) add(folder domain.MusicFolder, tf taggedFile) {
	tags := tf.Tags
	if tags == nil {
		tags = &Tags{}
	}

	albumRel := path.Dir(tf.RelPath)
	if isDiscDir(path.Base(albumRel)) {
		albumRel = path.Dir(albumRel)
	}
	artistRel := "."
	if albumRel != "." {
		artistRel = path.Dir(albumRel)
	}

	albumName := dirName(albumRel)
	artistName := dirName(artistRel)

	song := &domain.MediaFile{
		ID:        len(b.cat.Songs) + 1,
		Path:      tf.Path,
		Folder:    folder.Path,
		MediaType: mediaType(tf.RelPath, tf.Ext),
		Title:     domain.FirstNonEmpty(tags.Title, strings.TrimSuffix(path.Base(tf.RelPath), path.Ext(tf.RelPath))),
		Artist:    domain.FirstNonEmpty(tags.Artist, artistName),
		Album:     domain.FirstNonEmpty(tags.Album, albumName),
	}
	b.cat.Songs = append(b.cat.Songs, song)

	if artistName != "" && !b.artistDirs[folder.Path+"/"+artistRel] {
		b.artistDirs[folder.Path+"/"+artistRel] = true
		b.cat.ArtistDirs = append(b.cat.ArtistDirs, &domain.MediaFile{
			ID:     len(b.cat.ArtistDirs) + 1,
			Path:   path.Join(folder.Path, artistRel),
			Folder: folder.Path,
			Artist: artistName,
		})
	}

	if albumName != "" && !b.albumDirs[folder.Path+"/"+albumRel] {
		b.albumDirs[folder.Path+"/"+albumRel] = true
		b.cat.AlbumDirs = append(b.cat.AlbumDirs, &domain.MediaFile{
			ID:     len(b.cat.AlbumDirs) + 1,
			Path:   path.Join(folder.Path, albumRel),
			Folder: folder.Path,
			Album:  domain.FirstNonEmpty(tags.Album, albumName),
			Artist: domain.FirstNonEmpty(tags.Artist, artistName),
		})
	}
}

func dirName(rel string) string {
	if rel == "." || rel == "" {
		return ""
	}
	return path.Base(rel)
}

// mediaType classifies by extension, with audio under a "podcasts"
// directory counted as podcasts.
func mediaType(relPath, ext string) domain.MediaType {
	switch {
	case videoExtensions[ext]:
		return domain.MediaTypeVideo
	case ext == ".m4b":
		return domain.MediaTypeAudiobook
	}
	for _, part := range strings.Split(path.Dir(relPath), "/") {
		if strings.EqualFold(part, "podcasts") {
			return domain.MediaTypePodcast
		}
	}
	return domain.MediaTypeMusic
}
