// Package campaigns manages sellers' listing promotion campaigns.
package campaigns

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/api/validators"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
)

const basePath = "/api/campaigns"

// Campaign statuses.
const (
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusFinished = "finished"
)

// Campaign is one promotion run over a set of listings.
type Campaign struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	ListingIDs []int64         `json:"listingIds"`
	Budget     decimal.Decimal `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Clicks     int             `json:"clicks"`
	StartsAt   time.Time       `json:"startsAt"`
	EndsAt     time.Time       `json:"endsAt"`
}

// CreateInput is the payload for a new campaign, validated client-side.
type CreateInput struct {
	Name       string    `json:"name" validate:"required,min=3,max=80"`
	ListingIDs []int64   `json:"listingIds" validate:"required,min=1,max=20,dive,gt=0"`
	Budget     float64   `json:"budget" validate:"required,gt=0"`
	StartsAt   time.Time `json:"startsAt" validate:"required"`
	EndsAt     time.Time `json:"endsAt" validate:"required,gtfield=StartsAt"`
}

// UpdateInput carries only the fields being changed.
type UpdateInput struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=3,max=80"`
	ListingIDs []int64  `json:"listingIds,omitempty" validate:"omitempty,min=1,max=20,dive,gt=0"`
	Budget     *float64 `json:"budget,omitempty" validate:"omitempty,gt=0"`
}

// Service talks to the campaign endpoints.
type Service struct {
	api  *client.Client
	logg *logger.Logger
}

func NewService(api *client.Client, logg *logger.Logger) *Service {
	return &Service{api: api, logg: logg}
}

// List returns the seller's campaigns.
func (s *Service) List(ctx context.Context) ([]Campaign, error) {
	body, err := s.api.Get(ctx, basePath, nil)
	if err != nil {
		return nil, err
	}
	var out []Campaign
	if err := client.DecodeCollection(body, "campaigns", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create validates and submits a new campaign.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Campaign, error) {
	input.Name = validators.SanitizeString(input.Name, 80)
	if err := validators.Struct(input); err != nil {
		return nil, err
	}

	body, err := s.api.Post(ctx, basePath, input)
	if err != nil {
		return nil, err
	}
	var campaign Campaign
	if err := client.DecodeResource(body, "campaign", &campaign); err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "campaign created")
	return &campaign, nil
}

// Update validates and submits a partial edit.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Campaign, error) {
	if err := validators.Struct(input); err != nil {
		return nil, err
	}

	body, err := s.api.Put(ctx, basePath+"/"+strconv.FormatInt(id, 10), input)
	if err != nil {
		return nil, err
	}
	var campaign Campaign
	if err := client.DecodeResource(body, "campaign", &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Pause halts an active campaign.
func (s *Service) Pause(ctx context.Context, id int64) (*Campaign, error) {
	body, err := s.api.Post(ctx, basePath+"/"+strconv.FormatInt(id, 10)+"/pause", nil)
	if err != nil {
		return nil, err
	}
	var campaign Campaign
	if err := client.DecodeResource(body, "campaign", &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Resume restarts a paused campaign.
func (s *Service) Resume(ctx context.Context, id int64) (*Campaign, error) {
	body, err := s.api.Post(ctx, basePath+"/"+strconv.FormatInt(id, 10)+"/resume", nil)
	if err != nil {
		return nil, err
	}
	var campaign Campaign
	if err := client.DecodeResource(body, "campaign", &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}
