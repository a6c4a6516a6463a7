package formation

import (
	"github.com/somalms/soma/core"

	"github.com/somalms/soma/core/resource"
)

// Store is the formations catalog.
type Store struct {
	*resource.Store[Formation]
}

func NewStore(deps resource.Deps) *Store {
	return &Store{Store: resource.NewStore[Formation]("formations", "/formations", deps)}
}

// ByCategory filters the fetched catalog client-side; recomputed per call.
func (s *Store) ByCategory(category string) []Formation {
	category = core.CleanString(category, true /* lower */)
	var out []Formation
	for _, f := range s.Items() {
		if core.CleanString(f.Category, true) == category {
			out = append(out, f)
		}
	}
	return out
}

// Search filters the fetched catalog on a free-text term, client-side.
func (s *Store) Search(term string) []Formation {
	term = core.CleanString(term)
	if term == "" {
		return s.Items()
	}
	var out []Formation
	for _, f := range s.Items() {
		if f.matches(term) {
			out = append(out, f)
		}
	}
	return out
}

// Get returns the fetched formation by id.
func (s *Store) Get(id int) (Formation, bool) {
	for _, f := range s.Items() {
		if f.ID == id {
			return f, true
		}
	}
	return Formation{}, false
}
