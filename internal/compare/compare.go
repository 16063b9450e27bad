// Package compare keeps the set of listings picked for side-by-side
// comparison. The set is small on purpose: three columns is the widest a
// comparison table stays readable.
package compare

import (
	"errors"
	"sync"

	"github.com/agrotrade/agrotrade-client/pkg/localstore"
)

// MaxItems caps how many listings can be compared at once.
const MaxItems = 3

const storeKey = "compare_selection"

// ErrFull is returned when adding to a selection that already holds MaxItems.
var ErrFull = errors.New("compare selection is full")

// Selection is the ordered set of listing ids marked for comparison. Adding
// past the cap is rejected rather than evicting: the user deliberately chose
// what to compare, and silently dropping a pick would be worse than refusing.
type Selection struct {
	mu    sync.Mutex
	ids   []int64
	store *localstore.Store
}

// New returns an empty in-memory selection.
func New() *Selection {
	return &Selection{}
}

// Load restores the selection persisted in the local store, starting empty
// when nothing was saved. Mutations are written back through the same store.
func Load(store *localstore.Store) (*Selection, error) {
	s := &Selection{store: store}
	var ids []int64
	err := store.Get(storeKey, &ids)
	if err != nil && !errors.Is(err, localstore.ErrNotFound) {
		return nil, err
	}
	ids = dedupe(ids)
	if len(ids) > MaxItems {
		ids = ids[:MaxItems]
	}
	s.ids = ids
	return s, nil
}

// Add inserts the id, rejecting with ErrFull at the cap. Adding an id that is
// already selected is a no-op.
func (s *Selection) Add(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		return nil
	}
	if len(s.ids) >= MaxItems {
		return ErrFull
	}
	s.ids = append(s.ids, id)
	return s.persist()
}

// Remove drops the id if present.
func (s *Selection) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	return s.persist()
}

// Toggle removes a selected id and adds an unselected one, reporting whether
// the id is selected afterwards.
func (s *Selection) Toggle(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
		return false, s.persist()
	}
	if len(s.ids) >= MaxItems {
		return false, ErrFull
	}
	s.ids = append(s.ids, id)
	return true, s.persist()
}

// Contains reports whether the id is selected.
func (s *Selection) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Items returns the selected ids in insertion order.
func (s *Selection) Items() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns how many listings are selected.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Clear empties the selection.
func (s *Selection) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
	return s.persist()
}

func (s *Selection) indexOf(id int64) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

func (s *Selection) persist() error {
	if s.store == nil {
		return nil
	}
	return s.store.Set(storeKey, s.ids)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
