package domain

// MusicFolder is a root media directory that searches are scoped to.
type MusicFolder struct {
	ID      int    `json:"id" yaml:"id" validate:"gte=0"`
	Path    string `json:"path" yaml:"path" validate:"required"`
	Name    string `json:"name,omitempty" yaml:"name"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// EnabledFolders filters out disabled folders, preserving order.
func EnabledFolders(folders []MusicFolder) []MusicFolder {
	out := make([]MusicFolder, 0, len(folders))
	for _, f := range folders {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}
