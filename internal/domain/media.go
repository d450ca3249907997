// Package domain contains the media records the search core reads and the
// criteria it is asked to answer.
package domain

// MediaType classifies a media file for type-filtered queries.
type MediaType string

// Media types stored in the media type field.
const (
	MediaTypeMusic     MediaType = "MUSIC"
	MediaTypePodcast   MediaType = "PODCAST"
	MediaTypeAudiobook MediaType = "AUDIOBOOK"
	MediaTypeVideo     MediaType = "VIDEO"
)

// MediaFile is a file-structure entity: a song, or the directory standing in
// for an artist or album when browsing by folder.
type MediaFile struct {
	ID        int       `json:"id" yaml:"id"`
	Path      string    `json:"path" yaml:"path"`
	Folder    string    `json:"folder" yaml:"folder"` // root music folder path
	MediaType MediaType `json:"media_type" yaml:"media_type"`

	Title     string `json:"title,omitempty" yaml:"title"`
	TitleSort string `json:"title_sort,omitempty" yaml:"title_sort"`

	Artist        string `json:"artist,omitempty" yaml:"artist"`
	ArtistSort    string `json:"artist_sort,omitempty" yaml:"artist_sort"`
	ArtistReading string `json:"artist_reading,omitempty" yaml:"artist_reading"`

	Album        string `json:"album,omitempty" yaml:"album"`
	AlbumSort    string `json:"album_sort,omitempty" yaml:"album_sort"`
	AlbumReading string `json:"album_reading,omitempty" yaml:"album_reading"`

	Composer     string `json:"composer,omitempty" yaml:"composer"`
	ComposerSort string `json:"composer_sort,omitempty" yaml:"composer_sort"`

	Genre string `json:"genre,omitempty" yaml:"genre"`
	Year  *int   `json:"year,omitempty" yaml:"year"`
}

// Artist is an ID3 artist aggregated from tags.
type Artist struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Sort     string `json:"sort,omitempty" yaml:"sort"`
	Reading  string `json:"reading,omitempty" yaml:"reading"`
	FolderID *int   `json:"folder_id,omitempty" yaml:"folder_id"`
}

// Album is an ID3 album aggregated from tags.
type Album struct {
	ID            int    `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Sort          string `json:"sort,omitempty" yaml:"sort"`
	Reading       string `json:"reading,omitempty" yaml:"reading"`
	Artist        string `json:"artist,omitempty" yaml:"artist"`
	ArtistSort    string `json:"artist_sort,omitempty" yaml:"artist_sort"`
	ArtistReading string `json:"artist_reading,omitempty" yaml:"artist_reading"`
	Genre         string `json:"genre,omitempty" yaml:"genre"`
	FolderID      *int   `json:"folder_id,omitempty" yaml:"folder_id"`
}

// FirstNonEmpty returns the first argument that is not the empty string.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
