package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrotrade/agrotrade-client/pkg/pagination"
	"github.com/agrotrade/agrotrade-client/pkg/urlquery"
)

func TestStoreInitialState(t *testing.T) {
	s := NewStore()
	state := s.State()

	assert.Equal(t, StatusIdle, state.Status)
	assert.Equal(t, DefaultFilters(), state.Filters)
	assert.Empty(t, state.Listings)
}

func TestFetchLifecycle(t *testing.T) {
	s := NewStore()

	seq, _ := s.BeginFetch()
	assert.Equal(t, StatusLoading, s.State().Status)

	listings := []ListingSummary{{ID: 1, Title: "Трактор МТЗ-82"}}
	meta := pagination.NewMeta(1, 1, 10)
	assert.True(t, s.CommitSuccess(seq, listings, meta))

	state := s.State()
	assert.Equal(t, StatusSucceeded, state.Status)
	assert.Equal(t, listings, state.Listings)
	assert.Equal(t, meta, state.Meta)
	assert.Empty(t, state.Error)
}

func TestStaleCommitIgnored(t *testing.T) {
	s := NewStore()

	first, _ := s.BeginFetch()
	second, _ := s.BeginFetch()

	stale := []ListingSummary{{ID: 1, Title: "старе"}}
	assert.False(t, s.CommitSuccess(first, stale, pagination.NewMeta(1, 1, 10)))
	assert.Equal(t, StatusLoading, s.State().Status, "stale commit must not change state")

	fresh := []ListingSummary{{ID: 2, Title: "нове"}}
	assert.True(t, s.CommitSuccess(second, fresh, pagination.NewMeta(1, 1, 10)))
	assert.Equal(t, fresh, s.State().Listings)

	assert.False(t, s.CommitFailure(first, "запізніла помилка"))
	assert.Equal(t, StatusSucceeded, s.State().Status)
}

func TestFailurePreservesListings(t *testing.T) {
	s := NewStore()

	seq, _ := s.BeginFetch()
	listings := []ListingSummary{{ID: 5, Title: "Комбайн John Deere"}}
	assert.True(t, s.CommitSuccess(seq, listings, pagination.NewMeta(1, 1, 10)))

	seq, _ = s.BeginFetch()
	assert.True(t, s.CommitFailure(seq, "Не вдалося завантажити оголошення"))

	state := s.State()
	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, "Не вдалося завантажити оголошення", state.Error)
	assert.Equal(t, listings, state.Listings, "failed fetch keeps the previous page visible")
}

func TestBeginFetchSnapshotsFilters(t *testing.T) {
	s := NewStore()
	s.SetFilters(urlquery.Patch{Search: strPtr("культиватор")})

	seq, filters := s.BeginFetch()
	require.NotNil(t, filters.Search)
	assert.Equal(t, "культиватор", *filters.Search)

	// A merge after issuance does not alter the snapshot already handed out,
	// and a fetch issued for the merged filters supersedes the old sequence:
	// results produced from the old snapshot can no longer be committed.
	s.SetFilters(urlquery.Patch{Search: strPtr("обприскувач")})
	assert.Equal(t, "культиватор", *filters.Search)

	seq2, filters2 := s.BeginFetch()
	assert.Equal(t, "обприскувач", *filters2.Search)
	assert.False(t, s.CommitSuccess(seq, nil, pagination.Meta{}))
	assert.True(t, s.CommitSuccess(seq2, nil, pagination.Meta{}))
}

func TestBeginFetchClearsError(t *testing.T) {
	s := NewStore()

	seq, _ := s.BeginFetch()
	s.CommitFailure(seq, "помилка мережі")

	s.BeginFetch()
	state := s.State()
	assert.Equal(t, StatusLoading, state.Status)
	assert.Empty(t, state.Error)
}

func TestSetCurrentPageClamps(t *testing.T) {
	s := NewStore()
	seq, _ := s.BeginFetch()
	s.CommitSuccess(seq, nil, pagination.NewMeta(47, 1, 10)) // 5 pages

	assert.Equal(t, 5, s.SetCurrentPage(99).Filters.Page)
	assert.Equal(t, 1, s.SetCurrentPage(0).Filters.Page)
	assert.Equal(t, 3, s.SetCurrentPage(3).Filters.Page)
}

func TestSetCurrentPageWithoutMeta(t *testing.T) {
	s := NewStore()

	assert.Equal(t, 1, s.SetCurrentPage(7).Filters.Page, "no known pages clamps to 1")
}

func TestCommitSuccessReclampsPage(t *testing.T) {
	s := NewStore()
	page := 9
	s.SetFilters(urlquery.Patch{Page: &page})

	seq, _ := s.BeginFetch()
	s.CommitSuccess(seq, nil, pagination.NewMeta(12, 2, 10)) // only 2 pages exist

	assert.Equal(t, 2, s.State().Filters.Page)
}

func TestResetFilters(t *testing.T) {
	s := NewStore()
	s.SetFilters(urlquery.Patch{Search: strPtr("мотоблок"), Page: intPtr(4)})

	state := s.ResetFilters()
	assert.Equal(t, DefaultFilters(), state.Filters)
}

func TestSubscribe(t *testing.T) {
	s := NewStore()

	var got []Status
	unsubscribe := s.Subscribe(func(state State) {
		got = append(got, state.Status)
	})

	seq, _ := s.BeginFetch()
	s.CommitSuccess(seq, nil, pagination.Meta{})
	assert.Equal(t, []Status{StatusLoading, StatusSucceeded}, got)

	unsubscribe()
	s.BeginFetch()
	assert.Len(t, got, 2, "unsubscribed listener no longer fires")
}
