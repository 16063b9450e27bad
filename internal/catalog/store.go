package catalog

import (
	"sync"

	"github.com/agrotrade/agrotrade-client/pkg/pagination"
	"github.com/agrotrade/agrotrade-client/pkg/urlquery"
)

// Status is the fetch lifecycle of the catalog slice.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is an immutable snapshot of the catalog slice. Listings must not be
// mutated by readers; a new snapshot is published on every commit.
type State struct {
	Filters  FilterState
	Listings []ListingSummary
	Meta     pagination.Meta
	Status   Status
	Error    string
}

// Store is the single mutable source of truth for catalog state. All writes
// go through its methods (single-writer discipline); reads are snapshots.
// Each fetch carries a sequence number and only the latest issued sequence
// may commit, so a slow stale response can never overwrite a newer one.
type Store struct {
	mu          sync.Mutex
	state       State
	issuedSeq   uint64
	subscribers map[int]func(State)
	nextSubID   int
}

// NewStore creates a store with default filters in the idle state.
func NewStore() *Store {
	return &Store{
		state: State{
			Filters: DefaultFilters(),
			Status:  StatusIdle,
		},
		subscribers: map[int]func(State){},
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Filters returns the current canonical filter state.
func (s *Store) Filters() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Filters
}

// SetFilters shallow-merges the patch into the canonical filters and returns
// the resulting snapshot. Page is untouched unless the patch names it;
// callers submitting a new search decide whether to also reset to page 1.
func (s *Store) SetFilters(patch urlquery.Patch) State {
	s.mu.Lock()
	s.state.Filters = s.state.Filters.Merge(patch)
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

// ResetFilters restores the defaults.
func (s *Store) ResetFilters() State {
	s.mu.Lock()
	s.state.Filters = DefaultFilters()
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

// SetCurrentPage moves to page n, clamped into the valid range known from
// the last fetched meta.
func (s *Store) SetCurrentPage(n int) State {
	s.mu.Lock()
	s.state.Filters.Page = s.state.Meta.ClampPage(n)
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

// BeginFetch enters the loading state (from any prior state) and returns the
// sequence number the eventual commit must present, together with the filter
// snapshot the fetch must query with. The pair is captured under one lock: a
// concurrent filter merge can never slip between snapshot and issuance, so
// the newest sequence always carries the newest filters.
func (s *Store) BeginFetch() (uint64, FilterState) {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.state.Status = StatusLoading
	s.state.Error = ""
	filters := s.state.Filters
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
	return seq, filters
}

// CommitSuccess replaces listings and meta wholesale. It reports false, and
// changes nothing, when a newer fetch has been issued since seq.
func (s *Store) CommitSuccess(seq uint64, listings []ListingSummary, meta pagination.Meta) bool {
	s.mu.Lock()
	if seq != s.issuedSeq {
		s.mu.Unlock()
		return false
	}
	s.state.Listings = listings
	s.state.Meta = meta
	s.state.Status = StatusSucceeded
	s.state.Error = ""
	// Meta may have clamped the requested page (e.g. the last item of the
	// final page was deleted server-side); keep filters in agreement.
	if meta.Pages > 0 {
		s.state.Filters.Page = meta.ClampPage(s.state.Filters.Page)
	}
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

// CommitFailure records the error message and keeps the previous listings
// visible: stale-but-rendered beats blanking the page. It reports false for
// stale sequences, like CommitSuccess.
func (s *Store) CommitFailure(seq uint64, message string) bool {
	s.mu.Lock()
	if seq != s.issuedSeq {
		s.mu.Unlock()
		return false
	}
	s.state.Status = StatusFailed
	s.state.Error = message
	snapshot := s.state
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

// Subscribe registers fn to run on every committed snapshot and returns the
// unsubscribe function. Subscribers run synchronously on the committing
// goroutine, mirroring dispatch-then-render order.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(snapshot State) {
	s.mu.Lock()
	fns := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
