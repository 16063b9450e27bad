// catalogctl browses the AgroTrade marketplace from the terminal: filtered
// listing search with paging, listing detail, and the compare shortlist.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/internal/auth"
	"github.com/agrotrade/agrotrade-client/internal/catalog"
	"github.com/agrotrade/agrotrade-client/internal/compare"
	"github.com/agrotrade/agrotrade-client/internal/listings"
	"github.com/agrotrade/agrotrade-client/pkg/auth/session"
	"github.com/agrotrade/agrotrade-client/pkg/config"
	"github.com/agrotrade/agrotrade-client/pkg/localstore"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
	"github.com/agrotrade/agrotrade-client/pkg/metrics"
	"github.com/agrotrade/agrotrade-client/pkg/pagination"
	"github.com/agrotrade/agrotrade-client/pkg/redis"
	"github.com/agrotrade/agrotrade-client/pkg/urlquery"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "catalogctl"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "catalogctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "catalogctl failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	var (
		search    = flag.String("search", "", "search term")
		category  = flag.String("category", "", "category slug")
		minPrice  = flag.Float64("min-price", 0, "minimum price in UAH")
		maxPrice  = flag.Float64("max-price", 0, "maximum price in UAH")
		location  = flag.String("location", "", "location filter")
		page      = flag.Int("page", 1, "page number")
		limit     = flag.Int("limit", cfg.Catalog.DefaultLimit, "page size")
		sortBy    = flag.String("sort", catalog.SortByCreatedAt, "sort field: createdAt, price, views")
		sortOrder = flag.String("order", catalog.SortOrderDesc, "sort order: asc, desc")
		listingID = flag.Int64("listing", 0, "show one listing instead of browsing")
		compAdd   = flag.Int64("compare-add", 0, "add a listing id to the compare shortlist")
		compList  = flag.Bool("compare", false, "print the compare shortlist")
		refresh   = flag.Bool("refresh", false, "bypass the page cache and refetch")
	)
	flag.Parse()

	store, err := localstore.Open(cfg.Local.Path)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}

	manager, err := session.NewManager(store, cfg.Session)
	if err != nil {
		return err
	}
	anonymous, err := client.New(ctx, cfg.API, logg)
	if err != nil {
		return err
	}
	authService := auth.NewService(anonymous, manager, logg)

	api, err := client.New(ctx, cfg.API, logg,
		client.WithTokenSource(auth.NewSource(authService, manager)))
	if err != nil {
		return err
	}

	var cache *redis.Client
	if cfg.Cache.Enabled {
		cache, err = redis.New(ctx, cfg.Cache)
		if err != nil {
			logg.Warn(ctx, fmt.Sprintf("page cache unavailable: %v", err))
			cache = nil
		}
	}
	defer func() {
		var closeErr error
		if cache != nil {
			closeErr = multierr.Append(closeErr, cache.Close())
		}
		if closeErr != nil {
			logg.Warn(ctx, fmt.Sprintf("cleanup: %v", closeErr))
		}
	}()

	if *compAdd > 0 || *compList {
		return runCompare(store, *compAdd, *compList)
	}
	if *listingID > 0 {
		return showListing(ctx, api, logg, *listingID)
	}

	rec := metrics.NewFetchMetrics(prometheus.NewRegistry())
	fetcher := catalog.NewFetcher(catalog.NewStore(), api, cache, rec, logg)
	fetcher.Store().SetFilters(urlquery.Patch{
		Search:    optString(*search),
		Category:  optString(*category),
		MinPrice:  optFloat(*minPrice),
		MaxPrice:  optFloat(*maxPrice),
		Location:  optString(*location),
		SortBy:    ptr(*sortBy),
		SortOrder: ptr(*sortOrder),
		Page:      page,
		Limit:     limit,
	})

	fetch := fetcher.FetchListings
	if *refresh {
		fetch = fetcher.Refresh
	}
	if err := fetch(ctx); err != nil {
		return err
	}
	printCatalog(fetcher.Store().State(), cfg.Catalog.MaxVisible)
	return nil
}

func runCompare(store *localstore.Store, add int64, list bool) error {
	selection, err := compare.Load(store)
	if err != nil {
		return err
	}
	if add > 0 {
		if err := selection.Add(add); err != nil {
			return err
		}
		fmt.Printf("додано %d до порівняння\n", add)
	}
	if list {
		ids := selection.Items()
		if len(ids) == 0 {
			fmt.Println("список порівняння порожній")
			return nil
		}
		for _, id := range ids {
			fmt.Printf("  #%d\n", id)
		}
	}
	return nil
}

func showListing(ctx context.Context, api *client.Client, logg *logger.Logger, id int64) error {
	detail, err := listings.NewService(api, logg).Get(ctx, id)
	if err != nil {
		return err
	}
	l := detail.Listing
	fmt.Printf("#%d  %s\n", l.ID, l.Title)
	fmt.Printf("%s грн  ·  %s\n", l.Price.StringFixed(0), l.Location.String())
	if l.Description != "" {
		fmt.Println()
		fmt.Println(l.Description)
	}
	if len(detail.OwnerListings) > 0 {
		fmt.Println("\nІнші оголошення продавця:")
		for _, other := range detail.OwnerListings {
			fmt.Printf("  #%d  %s\n", other.ID, other.Title)
		}
	}
	return nil
}

func printCatalog(state catalog.State, maxVisible int) {
	if len(state.Listings) == 0 {
		fmt.Println("нічого не знайдено")
		return
	}
	for _, l := range state.Listings {
		fmt.Printf("#%-6d %-50s %12s грн  %s\n", l.ID, truncate(l.Title, 50), l.Price.StringFixed(0), l.Location.String())
	}
	fmt.Printf("\nстор. %d з %d (%d оголошень)   %s\n",
		state.Meta.Page, state.Meta.Pages, state.Meta.Total,
		renderWindow(state.Meta, maxVisible))
}

func renderWindow(meta pagination.Meta, maxVisible int) string {
	var parts []string
	for _, marker := range pagination.Window(meta.Page, meta.Pages, maxVisible) {
		switch {
		case marker == pagination.Ellipsis:
			parts = append(parts, "…")
		case marker == meta.Page:
			parts = append(parts, fmt.Sprintf("[%d]", marker))
		default:
			parts = append(parts, fmt.Sprintf("%d", marker))
		}
	}
	return strings.Join(parts, " ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optFloat(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func ptr(v string) *string {
	return &v
}
