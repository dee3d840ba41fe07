package draw

import (
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Store is the editable feature collection of one Draw instance. Features
// keep insertion order; updates never move a feature.
type Store struct {
	features []*geojson.Feature
	selected map[string]struct{}
	version  uint64
}

func newStore() *Store {
	return &Store{selected: make(map[string]struct{})}
}

func featureID(f *geojson.Feature) string {
	id, _ := f.ID.(string)
	return id
}

func (s *Store) changed() { s.version++ }

// Version increases on every mutation; renderers compare it to skip redraws.
func (s *Store) Version() uint64 { return s.version }

func (s *Store) add(f *geojson.Feature) {
	s.features = append(s.features, f)
	s.changed()
}

func (s *Store) get(id string) *geojson.Feature {
	for _, f := range s.features {
		if featureID(f) == id {
			return f
		}
	}
	return nil
}

// remove drops the given features and returns the ones that existed.
func (s *Store) remove(ids ...string) []*geojson.Feature {
	var removed []*geojson.Feature
	s.features = slices.DeleteFunc(s.features, func(f *geojson.Feature) bool {
		if slices.Contains(ids, featureID(f)) {
			removed = append(removed, f)
			return true
		}
		return false
	})
	for _, id := range ids {
		delete(s.selected, id)
	}
	if len(removed) > 0 {
		s.changed()
	}
	return removed
}

func (s *Store) ids() []string {
	out := make([]string, len(s.features))
	for i, f := range s.features {
		out[i] = featureID(f)
	}
	return out
}

func (s *Store) all() []*geojson.Feature {
	return slices.Clone(s.features)
}

func (s *Store) setGeometry(id string, g orb.Geometry) bool {
	f := s.get(id)
	if f == nil {
		return false
	}
	f.Geometry = g
	s.changed()
	return true
}

func (s *Store) setSelected(ids ...string) {
	clear(s.selected)
	for _, id := range ids {
		if s.get(id) != nil {
			s.selected[id] = struct{}{}
		}
	}
	s.changed()
}

func (s *Store) isSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// selectedIDs lists selected features in collection order.
func (s *Store) selectedIDs() []string {
	var out []string
	for _, f := range s.features {
		if id := featureID(f); s.isSelected(id) {
			out = append(out, id)
		}
	}
	return out
}

func cloneFeature(f *geojson.Feature) *geojson.Feature {
	c := geojson.NewFeature(orb.Clone(f.Geometry))
	c.ID = f.ID
	c.Properties = f.Properties.Clone()
	return c
}
