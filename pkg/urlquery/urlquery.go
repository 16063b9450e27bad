// Package urlquery keeps the catalog query string and the filter store in
// agreement. Sync is one-directional per trigger: a store change writes the
// URL, and the URL seeds the store only on initial navigation. The two must
// never feed each other within the same update, or the pair oscillates.
package urlquery

import (
	"net/url"
	"strconv"
	"strings"
)

// Recognized query parameter keys. Anything else in the query string is
// preserved untouched by Encode.
const (
	KeySearch     = "search"
	KeyCategory   = "category"
	KeyCategoryID = "categoryId"
	KeyMinPrice   = "minPrice"
	KeyMaxPrice   = "maxPrice"
	KeyLocation   = "location"
	KeySortBy     = "sortBy"
	KeySortOrder  = "sortOrder"
	KeyPage       = "page"
	KeyLimit      = "limit"
)

// Patch is a partial filter update decoded from or encoded into a query
// string. Nil fields mean "not mentioned": they neither decode into the store
// nor delete an existing query parameter's sibling values.
type Patch struct {
	Search     *string
	Category   *string
	CategoryID *int64
	MinPrice   *float64
	MaxPrice   *float64
	Location   *string
	SortBy     *string
	SortOrder  *string
	Page       *int
	Limit      *int
}

// Decode parses the recognized keys out of live query values. Numeric keys
// fall back (page to 1, the rest to 0) when the value does not parse; absent
// keys stay nil so they cannot clobber existing store state.
func Decode(values url.Values) Patch {
	var p Patch

	if values.Has(KeySearch) {
		p.Search = ptr(values.Get(KeySearch))
	}
	if values.Has(KeyCategory) {
		p.Category = ptr(values.Get(KeyCategory))
	}
	if values.Has(KeyLocation) {
		p.Location = ptr(values.Get(KeyLocation))
	}
	if values.Has(KeySortBy) {
		p.SortBy = ptr(values.Get(KeySortBy))
	}
	if values.Has(KeySortOrder) {
		p.SortOrder = ptr(values.Get(KeySortOrder))
	}
	if values.Has(KeyCategoryID) {
		id, err := strconv.ParseInt(values.Get(KeyCategoryID), 10, 64)
		if err != nil {
			id = 0
		}
		p.CategoryID = &id
	}
	if values.Has(KeyMinPrice) {
		p.MinPrice = parseFloat(values.Get(KeyMinPrice))
	}
	if values.Has(KeyMaxPrice) {
		p.MaxPrice = parseFloat(values.Get(KeyMaxPrice))
	}
	if values.Has(KeyPage) {
		page, err := strconv.Atoi(values.Get(KeyPage))
		if err != nil || page < 1 {
			page = 1
		}
		p.Page = &page
	}
	if values.Has(KeyLimit) {
		limit, err := strconv.Atoi(values.Get(KeyLimit))
		if err != nil {
			limit = 0
		}
		p.Limit = &limit
	}
	return p
}

// Encode applies the patch on top of the live query values and returns the
// result. Recognized keys are set when the patch carries a non-empty value
// and deleted when it carries an explicit empty one; keys the patch does not
// mention — recognized or not — survive as-is. Starting from the live values
// is what lets an existing search parameter outlive a price-only update.
func Encode(p Patch, current url.Values) url.Values {
	out := url.Values{}
	for k, vs := range current {
		out[k] = append([]string(nil), vs...)
	}

	setOrDelete(out, KeySearch, p.Search)
	setOrDelete(out, KeyCategory, p.Category)
	setOrDelete(out, KeyLocation, p.Location)
	setOrDelete(out, KeySortBy, p.SortBy)
	setOrDelete(out, KeySortOrder, p.SortOrder)

	if p.CategoryID != nil {
		setOrDelete(out, KeyCategoryID, formatInt64(*p.CategoryID))
	}
	if p.MinPrice != nil {
		setOrDelete(out, KeyMinPrice, formatFloat(*p.MinPrice))
	}
	if p.MaxPrice != nil {
		setOrDelete(out, KeyMaxPrice, formatFloat(*p.MaxPrice))
	}
	if p.Page != nil {
		if *p.Page > 1 {
			out.Set(KeyPage, strconv.Itoa(*p.Page))
		} else {
			// Page 1 is the default; keeping it out of the URL keeps
			// shareable links canonical.
			out.Del(KeyPage)
		}
	}
	if p.Limit != nil {
		if *p.Limit > 0 {
			out.Set(KeyLimit, strconv.Itoa(*p.Limit))
		} else {
			out.Del(KeyLimit)
		}
	}
	return out
}

func setOrDelete(values url.Values, key string, v *string) {
	if v == nil {
		return
	}
	if strings.TrimSpace(*v) == "" {
		values.Del(key)
		return
	}
	values.Set(key, *v)
}

func parseFloat(raw string) *float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		f = 0
	}
	return &f
}

func formatInt64(v int64) *string {
	if v == 0 {
		empty := ""
		return &empty
	}
	s := strconv.FormatInt(v, 10)
	return &s
}

func formatFloat(v float64) *string {
	if v == 0 {
		empty := ""
		return &empty
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return &s
}

func ptr(s string) *string {
	return &s
}
