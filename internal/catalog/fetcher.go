package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/pkg/debounce"
	pkgerrors "github.com/agrotrade/agrotrade-client/pkg/errors"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
	"github.com/agrotrade/agrotrade-client/pkg/metrics"
	"github.com/agrotrade/agrotrade-client/pkg/pagination"
	"github.com/agrotrade/agrotrade-client/pkg/redis"
	"github.com/agrotrade/agrotrade-client/pkg/urlquery"
)

const listingsEndpoint = "/api/listings"

// failureFallback is shown when the backend fails without a usable message.
const failureFallback = "Не вдалося завантажити оголошення"

// cachedPage is the unit stored in the shared page cache, keyed by the
// canonical encoded query.
type cachedPage struct {
	Listings []ListingSummary `json:"listings"`
	Meta     pagination.Meta  `json:"meta"`
}

// Fetcher drives the catalog store against the listings endpoint. Cache and
// metrics are optional; a nil cache always misses and a nil recorder drops
// every sample.
type Fetcher struct {
	store   *Store
	api     *client.Client
	cache   *redis.Client
	metrics *metrics.FetchMetrics
	logg    *logger.Logger
}

// NewFetcher wires the fetch pipeline around an existing store.
func NewFetcher(store *Store, api *client.Client, cache *redis.Client, rec *metrics.FetchMetrics, logg *logger.Logger) *Fetcher {
	return &Fetcher{store: store, api: api, cache: cache, metrics: rec, logg: logg}
}

// Store exposes the underlying state container.
func (f *Fetcher) Store() *Store {
	return f.store
}

// FetchListings loads the page described by the store's current filters and
// commits the outcome. A response whose fetch was superseded by a newer one
// is discarded without touching state. On failure the previous listings stay
// in place and only the status and error message change.
func (f *Fetcher) FetchListings(ctx context.Context) error {
	seq, filters := f.store.BeginFetch()
	ctx = f.logg.WithFetchSeq(ctx, seq)
	ctx = f.logg.WithEndpoint(ctx, listingsEndpoint)

	if page, ok := f.fromCache(ctx, filters); ok {
		f.metrics.IncCacheHit()
		if !f.store.CommitSuccess(seq, page.Listings, page.Meta) {
			f.metrics.IncStaleDropped()
		}
		return nil
	}

	start := time.Now()
	body, err := f.api.Get(ctx, listingsEndpoint, filters.Query())
	f.metrics.ObserveDuration(listingsEndpoint, time.Since(start))
	if err != nil {
		return f.fail(ctx, seq, err)
	}

	var listings []ListingSummary
	if err := client.DecodeCollection(body, "listings", &listings); err != nil {
		return f.fail(ctx, seq, err)
	}
	meta := resolveMeta(body, filters, len(listings))

	if !f.store.CommitSuccess(seq, listings, meta) {
		f.metrics.IncStaleDropped()
		f.logg.Debug(ctx, "stale listings response dropped")
		return nil
	}
	f.metrics.IncSuccess(listingsEndpoint)
	f.toCache(ctx, filters, cachedPage{Listings: listings, Meta: meta})
	f.logg.Info(ctx, fmt.Sprintf("loaded %d listings, page %d/%d", len(listings), meta.Page, meta.Pages))
	return nil
}

// Refresh drops the cached page for the current filters and refetches from
// the network, for pull-to-refresh style reloads that must not serve a page
// written before the data changed.
func (f *Fetcher) Refresh(ctx context.Context) error {
	if f.cache != nil {
		key := f.cache.PageKey(f.store.Filters().CacheKey())
		if err := f.cache.Invalidate(ctx, key); err != nil {
			f.logg.Warn(ctx, fmt.Sprintf("page cache invalidate failed: %v", err))
		}
	}
	return f.FetchListings(ctx)
}

func (f *Fetcher) fail(ctx context.Context, seq uint64, err error) error {
	f.metrics.IncFailure(listingsEndpoint)
	if !f.store.CommitFailure(seq, failureMessage(err)) {
		f.metrics.IncStaleDropped()
	}
	return err
}

func (f *Fetcher) fromCache(ctx context.Context, filters FilterState) (cachedPage, bool) {
	if f.cache == nil {
		return cachedPage{}, false
	}
	var page cachedPage
	err := f.cache.GetJSON(ctx, f.cache.PageKey(filters.CacheKey()), &page)
	if err == nil {
		return page, true
	}
	f.metrics.IncCacheMiss()
	if !errors.Is(err, redis.ErrCacheMiss) {
		f.logg.Warn(ctx, fmt.Sprintf("page cache read failed: %v", err))
	}
	return cachedPage{}, false
}

func (f *Fetcher) toCache(ctx context.Context, filters FilterState, page cachedPage) {
	if f.cache == nil {
		return
	}
	if err := f.cache.SetJSON(ctx, f.cache.PageKey(filters.CacheKey()), page); err != nil {
		f.logg.Warn(ctx, fmt.Sprintf("page cache write failed: %v", err))
	}
}

// resolveMeta prefers the meta object the backend sent; several endpoints
// omit it, in which case counts are derived from the request and the number
// of items returned.
func resolveMeta(body []byte, filters FilterState, itemCount int) pagination.Meta {
	if raw, ok := client.UnwrapMeta(body); ok {
		var meta pagination.Meta
		if err := json.Unmarshal(raw, &meta); err == nil && meta.Total >= 0 {
			if meta.Page < 1 {
				meta.Page = filters.Page
			}
			if meta.Limit <= 0 {
				meta.Limit = filters.Limit
			}
			if meta.Pages <= 0 {
				return pagination.NewMeta(meta.Total, meta.Page, meta.Limit)
			}
			return meta
		}
	}
	total := (filters.Page-1)*filters.Limit + itemCount
	return pagination.NewMeta(total, filters.Page, filters.Limit)
}

func failureMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return failureFallback
}

// SeedFromURL merges filters from a shared link into the store. It is called
// once on startup; afterwards the URL only mirrors the store, never feeds it.
func (f *Fetcher) SeedFromURL(values url.Values) {
	f.store.SetFilters(urlquery.Decode(values))
}

// EncodedQuery renders the store's filters over the current URL query,
// preserving unrelated parameters.
func (f *Fetcher) EncodedQuery(current url.Values) url.Values {
	return urlquery.Encode(f.store.Filters().Patch(), current)
}

// NewSearchDebouncer returns a debouncer that applies the search term and
// refetches after the user pauses typing. A fresh search always starts from
// page 1.
func (f *Fetcher) NewSearchDebouncer(ctx context.Context, delay time.Duration) *debounce.Debouncer[string] {
	return debounce.New(delay, func(term string) {
		page := 1
		f.store.SetFilters(urlquery.Patch{Search: &term, Page: &page})
		if err := f.FetchListings(ctx); err != nil {
			f.logg.Warn(ctx, fmt.Sprintf("debounced search fetch failed: %v", err))
		}
	})
}
