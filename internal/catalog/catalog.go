// Package catalog reads and writes YAML snapshots of the records that get
// indexed: file-structure directories, songs, ID3 artists and albums, and
// genres.
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/listenupapp/listenup-search/internal/domain"
)

// Catalog is one snapshot of a media library.
type Catalog struct {
	Folders    []domain.MusicFolder `yaml:"folders,omitempty"`
	ArtistDirs []*domain.MediaFile  `yaml:"artist_dirs,omitempty"`
	AlbumDirs  []*domain.MediaFile  `yaml:"album_dirs,omitempty"`
	Songs      []*domain.MediaFile  `yaml:"songs,omitempty"`
	Artists    []*domain.Artist     `yaml:"artists,omitempty"`
	Albums     []*domain.Album      `yaml:"albums,omitempty"`
	// Genres lists genre names explicitly. When empty, GenreNames derives
	// them from songs and albums.
	Genres []string `yaml:"genres,omitempty"`
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- catalog path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Decode reads a catalog from r. Unknown keys are rejected so typos in
// hand-written catalogs surface instead of silently dropping fields.
func Decode(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return &c, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

// Save writes the catalog to path.
func (c *Catalog) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Len returns the number of records that become documents.
func (c *Catalog) Len() int {
	return len(c.ArtistDirs) + len(c.AlbumDirs) + len(c.Songs) +
		len(c.Artists) + len(c.Albums) + len(c.GenreNames())
}

// GenreNames returns the explicit genres, or else the distinct genres of
// songs and albums in order of first appearance.
func (c *Catalog) GenreNames() []string {
	if len(c.Genres) > 0 {
		return c.Genres
	}

	seen := make(map[string]bool)
	var names []string
	add := func(genre string) {
		genre = strings.TrimSpace(genre)
		if genre == "" || seen[genre] {
			return
		}
		seen[genre] = true
		names = append(names, genre)
	}
	for _, s := range c.Songs {
		add(s.Genre)
	}
	for _, a := range c.Albums {
		add(a.Genre)
	}
	return names
}
