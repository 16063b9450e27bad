// Package notifications reads and acknowledges in-app notifications.
package notifications

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
	"github.com/agrotrade/agrotrade-client/pkg/pagination"
)

const basePath = "/api/notifications"

// Kinds the backend emits today. Unknown kinds still decode; the client
// renders them with a generic icon rather than dropping them.
const (
	KindMessage       = "message"
	KindListingStatus = "listing_status"
	KindCampaign      = "campaign"
	KindSystem        = "system"
)

// Notification is one in-app notification.
type Notification struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ListingID int64     `json:"listingId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service talks to the notification endpoints.
type Service struct {
	api  *client.Client
	logg *logger.Logger
}

func NewService(api *client.Client, logg *logger.Logger) *Service {
	return &Service{api: api, logg: logg}
}

// List returns one page of notifications, newest first.
func (s *Service) List(ctx context.Context, page, limit int) ([]Notification, pagination.Meta, error) {
	limit = pagination.NormalizeLimit(limit)
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	body, err := s.api.Get(ctx, basePath, query)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	var items []Notification
	if err := client.DecodeCollection(body, "notifications", &items); err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, client.DecodeMeta(body, pagination.NewMeta(len(items), page, limit)), nil
}

// UnreadCount returns how many notifications are unread.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	body, err := s.api.Get(ctx, basePath+"/unread", nil)
	if err != nil {
		return 0, err
	}
	var payload struct {
		Count int `json:"count"`
	}
	if err := client.DecodeResource(body, "unread", &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

// MarkRead acknowledges a single notification.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	_, err := s.api.Post(ctx, basePath+"/"+strconv.FormatInt(id, 10)+"/read", nil)
	return err
}

// MarkAllRead acknowledges everything at once.
func (s *Service) MarkAllRead(ctx context.Context) error {
	_, err := s.api.Post(ctx, basePath+"/read-all", nil)
	return err
}
