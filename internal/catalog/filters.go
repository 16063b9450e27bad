package catalog

import (
	"net/url"
	"strconv"

	"github.com/agrotrade/agrotrade-client/pkg/pagination"
	"github.com/agrotrade/agrotrade-client/pkg/urlquery"
)

// Sort fields accepted by the listings endpoint.
const (
	SortByCreatedAt = "createdAt"
	SortByPrice     = "price"
	SortByViews     = "views"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// FilterState is the canonical query describing which listings to show.
// Optional fields are pointers: absence means "no constraint", never zero.
// It is owned exclusively by the Store; the URL and any views hold only
// transient copies.
type FilterState struct {
	Search     *string
	Category   *string
	CategoryID *int64
	MinPrice   *float64
	MaxPrice   *float64
	Location   *string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// DefaultFilters returns the initial filter state.
func DefaultFilters() FilterState {
	return FilterState{
		Page:      1,
		Limit:     pagination.DefaultLimit,
		SortBy:    SortByCreatedAt,
		SortOrder: SortOrderDesc,
	}
}

// Merge shallow-merges a patch into the state and returns the result. Fields
// the patch does not mention keep their current value; Page changes only when
// the patch names it. Unrecognized sort values are dropped so a hand-edited
// URL cannot push the store into an invalid state.
func (f FilterState) Merge(p urlquery.Patch) FilterState {
	out := f

	if p.Search != nil {
		out.Search = optString(*p.Search)
	}
	if p.Category != nil {
		out.Category = optString(*p.Category)
	}
	if p.CategoryID != nil {
		if *p.CategoryID > 0 {
			v := *p.CategoryID
			out.CategoryID = &v
		} else {
			out.CategoryID = nil
		}
	}
	if p.MinPrice != nil {
		out.MinPrice = optPrice(*p.MinPrice)
	}
	if p.MaxPrice != nil {
		out.MaxPrice = optPrice(*p.MaxPrice)
	}
	if p.Location != nil {
		out.Location = optString(*p.Location)
	}
	if p.SortBy != nil {
		switch *p.SortBy {
		case SortByCreatedAt, SortByPrice, SortByViews:
			out.SortBy = *p.SortBy
		}
	}
	if p.SortOrder != nil {
		switch *p.SortOrder {
		case SortOrderAsc, SortOrderDesc:
			out.SortOrder = *p.SortOrder
		}
	}
	if p.Page != nil && *p.Page >= 1 {
		out.Page = *p.Page
	}
	if p.Limit != nil && *p.Limit > 0 {
		out.Limit = pagination.NormalizeLimit(*p.Limit)
	}
	return out
}

// Patch renders the full state as a codec patch, used when mirroring the
// store into the URL.
func (f FilterState) Patch() urlquery.Patch {
	page := f.Page
	limit := f.Limit
	return urlquery.Patch{
		Search:     orEmpty(f.Search),
		Category:   orEmpty(f.Category),
		CategoryID: orZeroInt(f.CategoryID),
		MinPrice:   orZeroFloat(f.MinPrice),
		MaxPrice:   orZeroFloat(f.MaxPrice),
		Location:   orEmpty(f.Location),
		SortBy:     &f.SortBy,
		SortOrder:  &f.SortOrder,
		Page:       &page,
		Limit:      &limit,
	}
}

// Query serializes the state into request parameters for the listings
// endpoint. Unset optional fields are omitted entirely.
func (f FilterState) Query() url.Values {
	values := url.Values{}
	if f.Search != nil {
		values.Set(urlquery.KeySearch, *f.Search)
	}
	if f.Category != nil {
		values.Set(urlquery.KeyCategory, *f.Category)
	}
	if f.CategoryID != nil {
		values.Set(urlquery.KeyCategoryID, strconv.FormatInt(*f.CategoryID, 10))
	}
	if f.MinPrice != nil {
		values.Set(urlquery.KeyMinPrice, strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		values.Set(urlquery.KeyMaxPrice, strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Location != nil {
		values.Set(urlquery.KeyLocation, *f.Location)
	}
	values.Set(urlquery.KeySortBy, f.SortBy)
	values.Set(urlquery.KeySortOrder, f.SortOrder)
	values.Set(urlquery.KeyPage, strconv.Itoa(f.Page))
	values.Set(urlquery.KeyLimit, strconv.Itoa(f.Limit))
	return values
}

// CacheKey is the canonical encoded form of the query, stable across field
// order, used to key the shared page cache.
func (f FilterState) CacheKey() string {
	return f.Query().Encode()
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optPrice(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func orEmpty(p *string) *string {
	if p == nil {
		empty := ""
		return &empty
	}
	return p
}

func orZeroInt(p *int64) *int64 {
	if p == nil {
		zero := int64(0)
		return &zero
	}
	return p
}

func orZeroFloat(p *float64) *float64 {
	if p == nil {
		zero := 0.0
		return &zero
	}
	return p
}
