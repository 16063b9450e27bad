// Package categories resolves the equipment category taxonomy. Categories
// change rarely, so reads go through a small in-process LRU with a TTL
// instead of hitting the backend on every render.
package categories

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
)

const basePath = "/api/categories"

const (
	cacheSize  = 64
	defaultTTL = 5 * time.Minute
)

// Category is one node of the taxonomy. Children is populated only by Tree.
type Category struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	ParentID     int64      `json:"parentId"`
	ListingCount int        `json:"listingCount"`
	Children     []Category `json:"children,omitempty"`
}

type cacheEntry struct {
	categories []Category
	expires    time.Time
}

// Service reads categories with an LRU cache in front of the API.
type Service struct {
	api   *client.Client
	logg  *logger.Logger
	cache *lru.Cache[string, cacheEntry]
	ttl   time.Duration
	now   func() time.Time
}

// NewService builds the service. A non-positive ttl falls back to the
// default.
func NewService(api *client.Client, logg *logger.Logger, ttl time.Duration) (*Service, error) {
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("init category cache: %w", err)
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{api: api, logg: logg, cache: cache, ttl: ttl, now: time.Now}, nil
}

// List returns the flat category list.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.cached(ctx, "list", basePath)
}

// Tree returns root categories with their children attached.
func (s *Service) Tree(ctx context.Context) ([]Category, error) {
	return s.cached(ctx, "tree", basePath+"/tree")
}

// BySlug resolves a single category.
func (s *Service) BySlug(ctx context.Context, slug string) (*Category, error) {
	out, err := s.cached(ctx, "slug:"+slug, basePath+"/"+slug)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Invalidate drops every cached entry, for use after admin-side edits.
func (s *Service) Invalidate() {
	s.cache.Purge()
}

func (s *Service) cached(ctx context.Context, key, path string) ([]Category, error) {
	if entry, ok := s.cache.Get(key); ok && s.now().Before(entry.expires) {
		return entry.categories, nil
	}

	out, err := s.fetch(ctx, key, path)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, cacheEntry{categories: out, expires: s.now().Add(s.ttl)})
	return out, nil
}

func (s *Service) fetch(ctx context.Context, key, path string) ([]Category, error) {
	body, err := s.api.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if len(key) > 5 && key[:5] == "slug:" {
		var one Category
		if err := client.DecodeResource(body, "category", &one); err != nil {
			return nil, err
		}
		return []Category{one}, nil
	}

	var many []Category
	if err := client.DecodeCollection(body, "categories", &many); err != nil {
		return nil, err
	}
	return many, nil
}
