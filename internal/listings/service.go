// Package listings covers the full lifecycle of a single listing: detail
// lookup with owner enrichment, creation, editing, and removal.
package listings

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/api/validators"
	"github.com/agrotrade/agrotrade-client/internal/catalog"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
	"github.com/agrotrade/agrotrade-client/pkg/pagination"
	"github.com/agrotrade/agrotrade-client/pkg/types"
)

const basePath = "/api/listings"

// ownerListingsLimit bounds the enrichment fetch on the detail page.
const ownerListingsLimit = 4

// Listing is the full detail record, a superset of catalog.ListingSummary.
type Listing struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Images      catalog.ImageList `json:"images"`
	Location    types.Location    `json:"location"`
	Category    string            `json:"category"`
	CategoryID  int64             `json:"categoryId"`
	Status      string            `json:"status"`
	Views       int               `json:"views"`
	UserID      int64             `json:"userId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Detail is a listing plus the owner's other listings shown alongside it.
type Detail struct {
	Listing       Listing
	OwnerListings []catalog.ListingSummary
}

// CreateInput is the client-side payload for a new listing. It is validated
// before any request goes out.
type CreateInput struct {
	Title       string   `json:"title" validate:"required,min=3,max=120"`
	Description string   `json:"description" validate:"max=4000"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	CategoryID  int64    `json:"categoryId" validate:"required,gt=0"`
	Location    string   `json:"location" validate:"required"`
	Images      []string `json:"images,omitempty" validate:"max=10,dive,url"`
}

// UpdateInput carries only the fields being changed.
type UpdateInput struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=4000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	CategoryID  *int64   `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	Location    *string  `json:"location,omitempty"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=active paused sold"`
	Images      []string `json:"images,omitempty" validate:"max=10,dive,url"`
}

// Service talks to the listings endpoints through the shared API core.
type Service struct {
	api  *client.Client
	logg *logger.Logger
}

func NewService(api *client.Client, logg *logger.Logger) *Service {
	return &Service{api: api, logg: logg}
}

// Get resolves one listing and, when it names an owner, enriches it with up
// to ownerListingsLimit of that owner's other listings. The enrichment is
// best-effort: its failure is logged and the detail is returned without it.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	ctx = s.logg.WithListingID(ctx, id)
	body, err := s.api.Get(ctx, fmt.Sprintf("%s/%d", basePath, id), nil)
	if err != nil {
		return nil, err
	}
	var listing Listing
	if err := client.DecodeResource(body, "listing", &listing); err != nil {
		return nil, err
	}

	detail := &Detail{Listing: listing}
	if listing.UserID > 0 {
		detail.OwnerListings = s.ownerListings(ctx, listing.UserID, listing.ID)
	}
	return detail, nil
}

func (s *Service) ownerListings(ctx context.Context, userID, exclude int64) []catalog.ListingSummary {
	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))
	query.Set("limit", strconv.Itoa(ownerListingsLimit+1))

	body, err := s.api.Get(ctx, basePath, query)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("owner listings enrichment failed: %v", err))
		return nil
	}
	var all []catalog.ListingSummary
	if err := client.DecodeCollection(body, "listings", &all); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("owner listings enrichment failed: %v", err))
		return nil
	}

	others := make([]catalog.ListingSummary, 0, ownerListingsLimit)
	for _, item := range all {
		if item.ID == exclude {
			continue
		}
		others = append(others, item)
		if len(others) == ownerListingsLimit {
			break
		}
	}
	return others
}

// Create validates the input locally, then submits the new listing.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Listing, error) {
	input.Title = validators.SanitizeString(input.Title, 120)
	input.Description = validators.SanitizeString(input.Description, 4000)
	if err := validators.Struct(input); err != nil {
		return nil, err
	}

	body, err := s.api.Post(ctx, basePath, input)
	if err != nil {
		return nil, err
	}
	var listing Listing
	if err := client.DecodeResource(body, "listing", &listing); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithListingID(ctx, listing.ID), "listing created")
	return &listing, nil
}

// Update validates and submits a partial edit.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Listing, error) {
	if err := validators.Struct(input); err != nil {
		return nil, err
	}

	ctx = s.logg.WithListingID(ctx, id)
	body, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), input)
	if err != nil {
		return nil, err
	}
	var listing Listing
	if err := client.DecodeResource(body, "listing", &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// Delete removes the listing.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx = s.logg.WithListingID(ctx, id)
	if _, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id)); err != nil {
		return err
	}
	s.logg.Info(ctx, "listing deleted")
	return nil
}

// Mine lists the authenticated user's own listings.
func (s *Service) Mine(ctx context.Context, page, limit int) ([]catalog.ListingSummary, pagination.Meta, error) {
	limit = pagination.NormalizeLimit(limit)
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	body, err := s.api.Get(ctx, basePath+"/my", query)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	var items []catalog.ListingSummary
	if err := client.DecodeCollection(body, "listings", &items); err != nil {
		return nil, pagination.Meta{}, err
	}

	return items, client.DecodeMeta(body, pagination.NewMeta(len(items), page, limit)), nil
}
