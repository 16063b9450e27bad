// Package chat implements buyer–seller messaging over the polled REST
// endpoints. There is no push channel; freshness comes from the Poller.
package chat

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/api/validators"
	pkgerrors "github.com/agrotrade/agrotrade-client/pkg/errors"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
)

const basePath = "/api/chat"

const maxMessageLength = 2000

// Conversation is one thread between two users about a listing.
type Conversation struct {
	ID            int64     `json:"id"`
	ListingID     int64     `json:"listingId"`
	ListingTitle  string    `json:"listingTitle"`
	PartnerID     int64     `json:"partnerId"`
	PartnerName   string    `json:"partnerName"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}

// Message is a single chat message.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	SenderID       int64     `json:"senderId"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
	Read           bool      `json:"read"`
}

// Service talks to the chat endpoints.
type Service struct {
	api      *client.Client
	logg     *logger.Logger
	pageSize int
}

func NewService(api *client.Client, logg *logger.Logger, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Service{api: api, logg: logg, pageSize: pageSize}
}

// Conversations lists the user's threads, most recent first.
func (s *Service) Conversations(ctx context.Context) ([]Conversation, error) {
	body, err := s.api.Get(ctx, basePath+"/conversations", nil)
	if err != nil {
		return nil, err
	}
	var out []Conversation
	if err := client.DecodeCollection(body, "conversations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Messages returns one page of a conversation, oldest first. Messages before
// the beforeID cursor are returned when it is positive.
func (s *Service) Messages(ctx context.Context, conversationID, beforeID int64) ([]Message, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(s.pageSize))
	if beforeID > 0 {
		query.Set("before", strconv.FormatInt(beforeID, 10))
	}

	path := basePath + "/conversations/" + strconv.FormatInt(conversationID, 10) + "/messages"
	body, err := s.api.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	var out []Message
	if err := client.DecodeCollection(body, "messages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Send posts a message into the conversation.
func (s *Service) Send(ctx context.Context, conversationID int64, text string) (*Message, error) {
	text = validators.SanitizeString(text, maxMessageLength)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message text is required")
	}

	path := basePath + "/conversations/" + strconv.FormatInt(conversationID, 10) + "/messages"
	body, err := s.api.Post(ctx, path, map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := client.DecodeResource(body, "message", &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead marks the whole conversation as read.
func (s *Service) MarkRead(ctx context.Context, conversationID int64) error {
	path := basePath + "/conversations/" + strconv.FormatInt(conversationID, 10) + "/read"
	_, err := s.api.Post(ctx, path, nil)
	return err
}
