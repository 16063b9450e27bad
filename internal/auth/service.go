// Package auth handles login, logout, and token refresh against the auth
// endpoints, and exposes a TokenSource that refreshes the access token
// transparently before it expires.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/api/validators"
	"github.com/agrotrade/agrotrade-client/pkg/auth/session"
	pkgerrors "github.com/agrotrade/agrotrade-client/pkg/errors"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
)

const basePath = "/api/auth"

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service drives the auth endpoints. Its API client must be anonymous: auth
// requests themselves never carry a bearer token, which also keeps the
// refresh path free of recursion through the token source.
type Service struct {
	api     *client.Client
	manager *session.Manager
	logg    *logger.Logger
}

func NewService(api *client.Client, manager *session.Manager, logg *logger.Logger) *Service {
	return &Service{api: api, manager: manager, logg: logg}
}

// Login exchanges credentials for a token pair and stores it.
func (s *Service) Login(ctx context.Context, creds Credentials) error {
	if err := validators.Struct(creds); err != nil {
		return err
	}

	body, err := s.api.Post(ctx, basePath+"/login", creds)
	if err != nil {
		return err
	}
	tokens, err := decodeTokens(body)
	if err != nil {
		return err
	}
	if err := s.manager.Save(tokens); err != nil {
		return err
	}
	s.logg.Info(ctx, "logged in")
	return nil
}

// Refresh exchanges the stored refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context) error {
	current, err := s.manager.Current()
	if err != nil {
		return err
	}
	if current.Refresh == "" {
		return session.ErrNoSession
	}

	body, err := s.api.Post(ctx, basePath+"/refresh", map[string]string{"refreshToken": current.Refresh})
	if err != nil {
		// A rejected refresh token means the session is dead; drop it so
		// the user is not stuck retrying a doomed refresh.
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
			_ = s.manager.Clear()
		}
		return err
	}
	tokens, err := decodeTokens(body)
	if err != nil {
		return err
	}
	return s.manager.Save(tokens)
}

// Logout clears the stored session. The server call is best-effort.
func (s *Service) Logout(ctx context.Context) error {
	if _, err := s.api.Post(ctx, basePath+"/logout", nil); err != nil {
		s.logg.Warn(ctx, "server-side logout failed, clearing local session anyway")
	}
	return s.manager.Clear()
}

func decodeTokens(body []byte) (session.Tokens, error) {
	var resp tokenResponse
	if err := client.DecodeResource(body, "tokens", &resp); err != nil {
		return session.Tokens{}, err
	}
	if resp.AccessToken == "" {
		return session.Tokens{}, pkgerrors.New(pkgerrors.CodeMalformed, "auth response carries no access token")
	}
	return session.Tokens{Access: resp.AccessToken, Refresh: resp.RefreshToken}, nil
}

// Source adapts the session manager into a client.TokenSource, refreshing
// the access token when it is within the manager's leeway of expiring.
// Refresh is serialized so concurrent requests trigger it once.
type Source struct {
	svc     *Service
	manager *session.Manager

	mu  sync.Mutex
	now func() time.Time
}

// NewSource builds the refreshing token source.
func NewSource(svc *Service, manager *session.Manager) *Source {
	return &Source{svc: svc, manager: manager, now: time.Now}
}

// AccessToken returns a valid access token, refreshing first when needed.
// With no stored session it returns the empty string, so unauthenticated
// browsing works without special-casing.
func (s *Source) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needs, err := s.manager.NeedsRefresh(s.now())
	if errors.Is(err, session.ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if needs {
		if err := s.svc.Refresh(ctx); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "session refresh failed")
		}
	}

	tokens, err := s.manager.Current()
	if errors.Is(err, session.ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tokens.Access, nil
}
