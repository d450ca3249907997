package search

import (
	"github.com/listenupapp/listenup-search/internal/errors"
)

// IndexSet holds one SearchIndex per index type under a shared data path.
type IndexSet struct {
	indexes map[IndexType]*SearchIndex
}

// OpenIndexSet opens (or creates) the index of every registered type.
// opts.Type is ignored. If any index fails to open, the ones already opened
// are closed again.
func OpenIndexSet(opts Options) (*IndexSet, error) {
	set := &IndexSet{indexes: make(map[IndexType]*SearchIndex, indexTypeCount)}
	for _, t := range IndexTypes() {
		o := opts
		o.Type = t
		index, err := NewSearchIndex(o)
		if err != nil {
			_ = set.Close()
			return nil, errors.Wrapf(err, errors.CodeInternal, "open %s index", t)
		}
		set.indexes[t] = index
	}
	return set, nil
}

// Get returns the index holding documents of type t.
func (s *IndexSet) Get(t IndexType) (*SearchIndex, error) {
	index, ok := s.indexes[t]
	if !ok {
		return nil, errors.NotFoundf("no index for type %s", t)
	}
	return index, nil
}

// Counts returns the document count of every index.
func (s *IndexSet) Counts() (map[IndexType]uint64, error) {
	counts := make(map[IndexType]uint64, len(s.indexes))
	for t, index := range s.indexes {
		n, err := index.DocumentCount()
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeInternal, "count %s documents", t)
		}
		counts[t] = n
	}
	return counts, nil
}

// Close closes every index, joining their errors.
func (s *IndexSet) Close() error {
	var errs []error
	for _, index := range s.indexes {
		if err := index.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
