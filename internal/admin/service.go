// Package admin covers the moderation surface: marketplace stats, the user
// directory, and account blocking. Every endpoint requires an admin token;
// the backend answers 403 otherwise and the shared client maps that to
// FORBIDDEN.
package admin

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
	"github.com/agrotrade/agrotrade-client/pkg/pagination"
)

const basePath = "/api/admin"

// Stats is the dashboard snapshot.
type Stats struct {
	TotalUsers      int `json:"totalUsers"`
	TotalListings   int `json:"totalListings"`
	ActiveListings  int `json:"activeListings"`
	PendingListings int `json:"pendingListings"`
	BlockedUsers    int `json:"blockedUsers"`
	MessagesToday   int `json:"messagesToday"`
}

// User is a directory entry.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Blocked      bool      `json:"blocked"`
	ListingCount int       `json:"listingCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service talks to the admin endpoints.
type Service struct {
	api  *client.Client
	logg *logger.Logger
}

func NewService(api *client.Client, logg *logger.Logger) *Service {
	return &Service{api: api, logg: logg}
}

// Stats returns the dashboard numbers.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	body, err := s.api.Get(ctx, basePath+"/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats Stats
	if err := client.DecodeResource(body, "stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Users returns one page of the user directory, optionally filtered by a
// search term.
func (s *Service) Users(ctx context.Context, search string, page, limit int) ([]User, pagination.Meta, error) {
	limit = pagination.NormalizeLimit(limit)
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if search != "" {
		query.Set("search", search)
	}

	body, err := s.api.Get(ctx, basePath+"/users", query)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	var users []User
	if err := client.DecodeCollection(body, "users", &users); err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, client.DecodeMeta(body, pagination.NewMeta(len(users), page, limit)), nil
}

// Block suspends a user account.
func (s *Service) Block(ctx context.Context, userID int64) error {
	path := basePath + "/users/" + strconv.FormatInt(userID, 10) + "/block"
	if _, err := s.api.Post(ctx, path, nil); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "user_id", userID), "user blocked")
	return nil
}

// Unblock reinstates a suspended account.
func (s *Service) Unblock(ctx context.Context, userID int64) error {
	path := basePath + "/users/" + strconv.FormatInt(userID, 10) + "/unblock"
	if _, err := s.api.Post(ctx, path, nil); err != nil {
		return err
	}
	s.logg.Info(s.logg.WithField(ctx, "user_id", userID), "user unblocked")
	return nil
}
