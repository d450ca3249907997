package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-search/internal/domain"
	"github.com/listenupapp/listenup-search/internal/errors"
)

func newTestDirector(searchComposer, id3 bool) *Director {
	return NewDirector(newTestQueryFactory(domain.SchemeNativeJapanese, searchComposer), id3)
}

func TestDirector_Construct(t *testing.T) {
	d := newTestDirector(false, true)
	folders := []domain.MusicFolder{music1}

	tests := []struct {
		name     string
		expr     string
		wantType IndexType
		want     string
	}{
		{
			name:     "person",
			expr:     `(upnp:class derivedfrom "object.container.person" and dc:title contains "test")`,
			wantType: IndexArtistID3,
			want:     "+(((artR:test*)^1.1 art:test*)) +(fId:0)",
		},
		{
			name:     "music artist",
			expr:     `(upnp:class = "object.container.person.musicArtist" and dc:title contains "test")`,
			wantType: IndexArtistID3,
			want:     "+(((artR:test*)^1.1 art:test*)) +(fId:0)",
		},
		{
			name:     "album",
			expr:     `(upnp:class derivedfrom "object.container.album" and dc:title contains "test")`,
			wantType: IndexAlbumID3,
			want:     "+(((albR:test*)^2.1 (alb:test*)^2.0)) +(fId:0)",
		},
		{
			name:     "audio item",
			expr:     `(upnp:class derivedfrom "object.item.audioItem" and dc:title contains "test")`,
			wantType: IndexSong,
			want:     "+(((titR:test*)^3.1 (tit:test*)^3.0)) +(m:MUSIC m:PODCAST m:AUDIOBOOK) +(f:/var/music1)",
		},
		{
			name:     "video item",
			expr:     `(upnp:class derivedfrom "object.item.videoItem" and dc:title contains "test")`,
			wantType: IndexSong,
			want:     "+(((titR:test*)^3.1 (tit:test*)^3.0)) +(+m:VIDEO) +(f:/var/music1)",
		},
		{
			name:     "music track",
			expr:     `(upnp:class = "object.item.audioItem.musicTrack" and dc:title contains "test")`,
			wantType: IndexSong,
			want:     "+(((titR:test*)^3.1 (tit:test*)^3.0)) +(m:MUSIC) +(f:/var/music1)",
		},
		{
			name:     "audio broadcast",
			expr:     `(upnp:class = "object.item.audioItem.audioBroadcast" and dc:title contains "test")`,
			wantType: IndexSong,
			want:     "+(((titR:test*)^3.1 (tit:test*)^3.0)) +(m:PODCAST) +(f:/var/music1)",
		},
		{
			name:     "audio book",
			expr:     `(upnp:class = "object.item.audioItem.audioBook" and dc:title contains "test")`,
			wantType: IndexSong,
			want:     "+(((titR:test*)^3.1 (tit:test*)^3.0)) +(m:AUDIOBOOK) +(f:/var/music1)",
		},
		{
			name:     "movie",
			expr:     `(upnp:class = "object.item.videoItem.movie" and dc:title contains "test")`,
			wantType: IndexSong,
			want:     "+(((titR:test*)^3.1 (tit:test*)^3.0)) +(+m:VIDEO) +(f:/var/music1)",
		},
		{
			name:     "creator without composer search",
			expr:     `(upnp:class derivedfrom "object.item.audioItem" and (dc:creator contains "abc" or upnp:artist contains "abc"))`,
			wantType: IndexSong,
			want:     "+(((artR:abc*)^2.1 (art:abc*)^2.0)) +(m:MUSIC m:PODCAST m:AUDIOBOOK) +(f:/var/music1)",
		},
		{
			name:     "all properties required",
			expr:     `(upnp:class = "object.container.album.musicAlbum" and dc:title contains "abc" and upnp:artist contains "def")`,
			wantType: IndexAlbumID3,
			want:     "+(+((albR:abc*)^2.1 (alb:abc*)^2.0) +((artR:def*)^1.1 art:def*)) +(fId:0)",
		},
		{
			name:     "repeated property skipped",
			expr:     `(upnp:class = "object.container.album.musicAlbum" and (upnp:artist contains "abc" or upnp:albumArtist contains "abc"))`,
			wantType: IndexAlbumID3,
			want:     "+(((artR:abc*)^1.1 art:abc*)) +(fId:0)",
		},
		{
			name:     "genre",
			expr:     `(upnp:class derivedfrom "object.container.album" and upnp:genre = "Rock")`,
			wantType: IndexAlbumID3,
			want:     "+((g:rock)) +(fId:0)",
		},
		{
			name:     "class only",
			expr:     `upnp:class derivedfrom "object.container.album"`,
			wantType: IndexAlbumID3,
			want:     "+(fId:0)",
		},
		{
			name:     "album property on songs is dropped",
			expr:     `(upnp:class = "object.item.audioItem.musicTrack" and upnp:album contains "abc")`,
			wantType: IndexSong,
			want:     "+(m:MUSIC) +(f:/var/music1)",
		},
		{
			name:     "audio or video",
			expr:     `(upnp:class derivedfrom "object.item.audioItem" or upnp:class derivedfrom "object.item.videoItem") and dc:title contains "abc"`,
			wantType: IndexSong,
			want:     "+(((titR:abc*)^3.1 (tit:abc*)^3.0)) +(m:MUSIC m:PODCAST m:AUDIOBOOK m:VIDEO) +(f:/var/music1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria, err := d.Construct(tt.expr, 0, 50, folders)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, criteria.Type)
			assert.Equal(t, tt.want, criteria.Query.String())
		})
	}
}

func TestDirector_ComposerSearch(t *testing.T) {
	d := newTestDirector(true, true)

	criteria, err := d.Construct(
		`(upnp:class derivedfrom "object.item.audioItem" and (dc:creator contains "abc" or upnp:artist contains "abc"))`,
		4, 54, []domain.MusicFolder{music1})
	require.NoError(t, err)

	assert.Equal(t,
		"+(((cmpR:abc*)^1.1 cmp:abc*) ((artR:abc*)^2.1 (art:abc*)^2.0)) +(m:MUSIC m:PODCAST m:AUDIOBOOK) +(f:/var/music1)",
		criteria.Query.String())
}

func TestDirector_KeepsPagingAndExpression(t *testing.T) {
	d := newTestDirector(false, true)
	expr := `(upnp:class = "object.container.person.musicArtist" and dc:title contains "いきものがかり")`

	criteria, err := d.Construct(expr, 1, 51, []domain.MusicFolder{music1})
	require.NoError(t, err)

	assert.Equal(t, expr, criteria.Expression)
	assert.Equal(t, 1, criteria.Offset)
	assert.Equal(t, 51, criteria.Count)
	assert.Empty(t, criteria.MediaTypes)
}

func TestDirector_FileStructure(t *testing.T) {
	d := newTestDirector(false, false)

	criteria, err := d.Construct(
		`(upnp:class derivedfrom "object.container.person" and dc:title contains "test")`,
		0, 50, []domain.MusicFolder{music1})
	require.NoError(t, err)

	assert.Equal(t, IndexArtist, criteria.Type)
	assert.Equal(t, "+(((artR:test*)^1.1 art:test*)) +(f:/var/music1)", criteria.Query.String())
}

func TestDirector_UnsupportedClasses(t *testing.T) {
	d := newTestDirector(false, true)

	unsupported := []string{
		"object.container.album.photoAlbum",
		"object.container.playlistContainer",
		"object.container.genre",
		"object.container.genre.musicGenre",
		"object.container.genre.movieGenre",
		"object.container.storageSystem",
		"object.container.storageVolume",
		"object.container.storageFolder",
	}
	for _, class := range unsupported {
		for _, op := range []string{"derivedfrom", "="} {
			t.Run(op+" "+class, func(t *testing.T) {
				expr := `(upnp:class ` + op + ` "` + class + `" and dc:title contains "test")`
				_, err := d.Construct(expr, 0, 50, []domain.MusicFolder{music1})

				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrUnsupportedQueryClass))
				assert.EqualError(t, err,
					"The current version does not support searching for this class. : upnp:class "+op+" "+class)
			})
		}
	}
}

func TestDirector_InsufficientHierarchy(t *testing.T) {
	d := newTestDirector(false, true)

	for _, class := range []string{"object.container.album", "object.item.audioItem", "object.item.videoItem"} {
		t.Run(class, func(t *testing.T) {
			_, err := d.Construct(`(upnp:class = "`+class+`" and dc:title contains "test")`, 0, 50, nil)

			assert.True(t, errors.Is(err, errors.ErrUnsupportedQueryClass))
			assert.EqualError(t, err,
				"An insufficient class hierarchy from derivedfrom or a class not supported by the server was specified. : upnp:class = "+class)
		})
	}
}

func TestDirector_OtherErrors(t *testing.T) {
	d := newTestDirector(false, true)

	tests := []struct {
		name string
		expr string
		code error
		msg  string
	}{
		{
			name: "unknown class",
			expr: `upnp:class derivedfrom "object.item.imageItem"`,
			code: errors.ErrUnsupportedQueryClass,
			msg:  "An unknown class was specified. : upnp:class derivedfrom object.item.imageItem",
		},
		{
			name: "no class",
			expr: `dc:title contains "test"`,
			code: errors.ErrUnsupportedQueryClass,
			msg:  "An unknown class was specified. : dc:title contains test",
		},
		{
			name: "match all",
			expr: `*`,
			code: errors.ErrUnsupportedQueryClass,
			msg:  "An unknown class was specified. : *",
		},
		{
			name: "class operator",
			expr: `upnp:class contains "object.item"`,
			code: errors.ErrUnsupportedQueryClass,
			msg:  "Unknown class operator. : upnp:class contains object.item",
		},
		{
			name: "container combined with item",
			expr: `upnp:class derivedfrom "object.item.audioItem" or upnp:class derivedfrom "object.container.album"`,
			code: errors.ErrUnsupportedQueryClass,
			msg:  "An insufficient class hierarchy from derivedfrom or a class not supported by the server was specified. : upnp:class derivedfrom object.container.album",
		},
		{
			name: "property operator",
			expr: `upnp:class derivedfrom "object.item.audioItem" and dc:title doesNotContain "x"`,
			code: errors.ErrValidation,
			msg:  "unsupported property operator : dc:title doesNotContain x",
		},
		{
			name: "syntax",
			expr: `(upnp:class derivedfrom "object.item.audioItem"`,
			code: errors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Construct(tt.expr, 0, 50, nil)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code))
			if tt.msg != "" {
				assert.EqualError(t, err, tt.msg)
			}
		})
	}
}
