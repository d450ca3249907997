package search

import (
	"slices"
	"strings"

	"github.com/listenupapp/listenup-search/internal/analyzer"
	"github.com/listenupapp/listenup-search/internal/domain"
	"github.com/listenupapp/listenup-search/internal/errors"
)

const classProperty = "upnp:class"

// Class operators.
const (
	opDerivedFrom = "derivedfrom"
	opEquals      = "="
)

// Messages of UnsupportedQueryClass errors. The offending predicate is
// appended after " : ".
const (
	msgUnsupportedClass  = "The current version does not support searching for this class."
	msgInsufficientClass = "An insufficient class hierarchy from derivedfrom or a class not supported by the server was specified."
	msgUnknownClass      = "An unknown class was specified."
	msgUnknownClassOp    = "Unknown class operator."
)

// unsupportedClasses are rejected together with all of their subclasses.
var unsupportedClasses = []string{
	"object.container.album.photoAlbum",
	"object.container.playlistContainer",
	"object.container.genre",
	"object.container.storageSystem",
	"object.container.storageVolume",
	"object.container.storageFolder",
}

type classKind int

const (
	classArtist classKind = iota + 1
	classAlbum
	classSong
)

// classTarget is what a class predicate resolves to. Video-only targets
// require the VIDEO media type instead of offering it as an alternative.
type classTarget struct {
	kind  classKind
	types []domain.MediaType
	video bool
}

var (
	audioTypes = []domain.MediaType{domain.MediaTypeMusic, domain.MediaTypePodcast, domain.MediaTypeAudiobook}

	artistTarget = classTarget{kind: classArtist}
	albumTarget  = classTarget{kind: classAlbum}
	videoTarget  = classTarget{kind: classSong, types: []domain.MediaType{domain.MediaTypeVideo}, video: true}
)

func songTarget(types ...domain.MediaType) classTarget {
	return classTarget{kind: classSong, types: types}
}

// derivedClasses resolves "upnp:class derivedfrom X".
var derivedClasses = map[string]classTarget{
	"object.container.person":              artistTarget,
	"object.container.person.musicArtist":  artistTarget,
	"object.container.album":               albumTarget,
	"object.container.album.musicAlbum":    albumTarget,
	"object.item.audioItem":                songTarget(audioTypes...),
	"object.item.audioItem.musicTrack":     songTarget(domain.MediaTypeMusic),
	"object.item.audioItem.audioBroadcast": songTarget(domain.MediaTypePodcast),
	"object.item.audioItem.audioBook":      songTarget(domain.MediaTypeAudiobook),
	"object.item.videoItem":                videoTarget,
	"object.item.videoItem.movie":          videoTarget,
	"object.item.videoItem.videoBroadcast": videoTarget,
	"object.item.videoItem.musicVideoClip": videoTarget,
}

// exactClasses resolves "upnp:class = X". Only leaf classes are accepted.
var exactClasses = map[string]classTarget{
	"object.container.person.musicArtist":  artistTarget,
	"object.container.album.musicAlbum":    albumTarget,
	"object.item.audioItem.musicTrack":     songTarget(domain.MediaTypeMusic),
	"object.item.audioItem.audioBroadcast": songTarget(domain.MediaTypePodcast),
	"object.item.audioItem.audioBook":      songTarget(domain.MediaTypeAudiobook),
	"object.item.videoItem.movie":          videoTarget,
	"object.item.videoItem.videoBroadcast": videoTarget,
	"object.item.videoItem.musicVideoClip": videoTarget,
}

// Fields UPnP properties resolve to.
var (
	artistProps   = []analyzer.Field{analyzer.FieldArtist, analyzer.FieldArtistReading, analyzer.FieldArtistReadingRomanized}
	albumProps    = []analyzer.Field{analyzer.FieldAlbum, analyzer.FieldAlbumReading}
	titleProps    = []analyzer.Field{analyzer.FieldTitle, analyzer.FieldTitleReading}
	composerProps = []analyzer.Field{analyzer.FieldComposer, analyzer.FieldComposerReading, analyzer.FieldComposerReadingRomanized}
)

// UPnPCriteria is a resolved UPnP search: the index to run against, the
// paging window and the query.
type UPnPCriteria struct {
	Expression string
	Type       IndexType
	MediaTypes []domain.MediaType
	Offset     int
	Count      int
	Query      *BooleanQuery
}

// Director resolves UPnP ContentDirectory search criteria into queries. It
// holds only immutable configuration and is safe for concurrent use.
type Director struct {
	queries *QueryFactory
	id3     bool
}

// NewDirector creates a Director. With id3 set, artist and album classes
// resolve to the tag-aggregated indexes.
func NewDirector(queries *QueryFactory, id3 bool) *Director {
	return &Director{queries: queries, id3: id3}
}

// Construct parses expr and builds its query.
func (d *Director) Construct(expr string, offset, count int, folders []domain.MusicFolder) (*UPnPCriteria, error) {
	parsed, err := ParseCriteria(expr)
	if err != nil {
		return nil, err
	}
	criteria, err := d.Build(parsed, offset, count, folders)
	if err != nil {
		return nil, err
	}
	criteria.Expression = expr
	return criteria, nil
}

// Build resolves a parsed expression. The class predicates pick the index
// type; the remaining predicates keep their and/or structure:
//
//	+(properties) +(media types) +(folders)
//
// Artist and album types carry no media type clause.
func (d *Director) Build(expr Expression, offset, count int, folders []domain.MusicFolder) (*UPnPCriteria, error) {
	var classes []*Predicate
	collectClasses(expr, &classes)
	if len(classes) == 0 {
		return nil, errors.UnsupportedQueryClassf("%s : %s", msgUnknownClass, expr)
	}

	target, err := d.resolveClasses(classes)
	if err != nil {
		return nil, err
	}
	t := d.indexType(target.kind)

	q := NewBooleanQuery()
	if rest := pruneClasses(expr); rest != nil {
		props, err := d.properties(rest, t)
		if err != nil {
			return nil, err
		}
		if props != nil {
			top := props
			if _, grouped := rest.(*Group); !grouped {
				top = NewBooleanQuery().Add(props, Should)
			}
			q.Add(top, Must)
		}
	}

	if target.kind == classSong {
		if target.video {
			q.Add(NewBooleanQuery().Add(mediaTypeTerm(domain.MediaTypeVideo), Must), Must)
		} else {
			q.Add(d.queries.MediaTypes(target.types...), Must)
		}
	}
	q.Add(d.queries.FolderQuery(folders, t.IsID3()), Must)

	return &UPnPCriteria{
		Expression: expr.String(),
		Type:       t,
		MediaTypes: target.types,
		Offset:     offset,
		Count:      count,
		Query:      q,
	}, nil
}

func (d *Director) indexType(kind classKind) IndexType {
	switch kind {
	case classArtist:
		if d.id3 {
			return IndexArtistID3
		}
		return IndexArtist
	case classAlbum:
		if d.id3 {
			return IndexAlbumID3
		}
		return IndexAlbum
	default:
		return IndexSong
	}
}

func (d *Director) resolveClasses(classes []*Predicate) (classTarget, error) {
	first, err := resolveClass(classes[0])
	if err != nil {
		return classTarget{}, err
	}
	if len(classes) == 1 {
		return first, nil
	}

	// Several classes only combine when all of them are items.
	merged := classTarget{kind: classSong, video: true}
	for _, c := range classes {
		target, err := resolveClass(c)
		if err != nil {
			return classTarget{}, err
		}
		if target.kind != classSong || c.Operator != opDerivedFrom {
			return classTarget{}, errors.UnsupportedQueryClassf("%s : %s", msgInsufficientClass, c)
		}
		merged.video = merged.video && target.video
		for _, mt := range target.types {
			if !slices.Contains(merged.types, mt) {
				merged.types = append(merged.types, mt)
			}
		}
	}
	return merged, nil
}

func resolveClass(p *Predicate) (classTarget, error) {
	for _, unsupported := range unsupportedClasses {
		if p.Value == unsupported || strings.HasPrefix(p.Value, unsupported+".") {
			return classTarget{}, errors.UnsupportedQueryClassf("%s : %s", msgUnsupportedClass, p)
		}
	}
	switch p.Operator {
	case opDerivedFrom:
		if target, ok := derivedClasses[p.Value]; ok {
			return target, nil
		}
		return classTarget{}, errors.UnsupportedQueryClassf("%s : %s", msgUnknownClass, p)
	case opEquals:
		if target, ok := exactClasses[p.Value]; ok {
			return target, nil
		}
		return classTarget{}, errors.UnsupportedQueryClassf("%s : %s", msgInsufficientClass, p)
	default:
		return classTarget{}, errors.UnsupportedQueryClassf("%s : %s", msgUnknownClassOp, p)
	}
}

func collectClasses(expr Expression, out *[]*Predicate) {
	switch e := expr.(type) {
	case *Predicate:
		if e.Property == classProperty {
			*out = append(*out, e)
		}
	case *Group:
		for _, term := range e.Terms {
			collectClasses(term, out)
		}
	}
}

// pruneClasses returns expr without its class predicates, collapsing groups
// left with a single term. It returns nil when nothing remains.
func pruneClasses(expr Expression) Expression {
	switch e := expr.(type) {
	case *Predicate:
		if e.Property == classProperty {
			return nil
		}
		return e
	case *Group:
		var terms []Expression
		for _, term := range e.Terms {
			if kept := pruneClasses(term); kept != nil {
				terms = append(terms, kept)
			}
		}
		switch len(terms) {
		case 0:
			return nil
		case 1:
			return terms[0]
		}
		return &Group{Op: e.Op, Terms: terms}
	}
	return nil
}

// properties converts the property tree. "and" terms are required, "or"
// terms optional. A predicate repeating an earlier sibling's fields and
// value is skipped. Predicates that match no field of t are dropped.
func (d *Director) properties(expr Expression, t IndexType) (*BooleanQuery, error) {
	switch e := expr.(type) {
	case *Predicate:
		return d.property(e, t)
	case *Group:
		occur := Should
		if e.Op == OpAnd {
			occur = Must
		}
		q := NewBooleanQuery()
		var seen []string
		for _, term := range e.Terms {
			if p, ok := term.(*Predicate); ok {
				key := propertyKey(p, t)
				if slices.Contains(seen, key) {
					continue
				}
				seen = append(seen, key)
			}
			sub, err := d.properties(term, t)
			if err != nil {
				return nil, err
			}
			if sub != nil {
				q.Add(sub, occur)
			}
		}
		if q.Len() == 0 {
			return nil, nil
		}
		return q, nil
	}
	return nil, nil
}

func propertyKey(p *Predicate, t IndexType) string {
	var b strings.Builder
	for _, f := range propertyFields(p.Property, t) {
		b.WriteString(f.Name())
		b.WriteByte(',')
	}
	if p.Property == "upnp:genre" {
		b.WriteString("genre")
	}
	return b.String() + "=" + p.Value
}

func (d *Director) property(p *Predicate, t IndexType) (*BooleanQuery, error) {
	switch p.Operator {
	case "contains", opEquals, "startsWith":
	default:
		return nil, errors.Validationf("unsupported property operator : %s", p)
	}

	if p.Property == "upnp:genre" {
		if !slices.Contains(documentFields(t), analyzer.FieldGenre) {
			return nil, nil
		}
		if q := d.queries.Genre(p.Value); q.Len() > 0 {
			return q, nil
		}
		return nil, nil
	}

	fields := propertyFields(p.Property, t)
	if len(fields) == 0 {
		return nil, nil
	}
	q, ok := d.queries.TextQuery(fields, p.Value, t, false)
	if !ok {
		return nil, nil
	}
	return q, nil
}

// propertyFields maps a UPnP property to index fields. Fields the index type
// does not query are filtered later by the query factory.
func propertyFields(property string, t IndexType) []analyzer.Field {
	switch property {
	case "dc:title":
		switch t {
		case IndexArtist, IndexArtistID3:
			return artistProps
		case IndexAlbum, IndexAlbumID3:
			return albumProps
		default:
			return titleProps
		}
	case "upnp:artist", "upnp:albumArtist":
		return artistProps
	case "dc:creator", "upnp:author":
		return composerProps
	case "upnp:album":
		return albumProps
	}
	return nil
}
