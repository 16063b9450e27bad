package admin

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrotrade/agrotrade-client/api/client"
	"github.com/agrotrade/agrotrade-client/internal/apitest"
	"github.com/agrotrade/agrotrade-client/pkg/config"
	pkgerrors "github.com/agrotrade/agrotrade-client/pkg/errors"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
	"github.com/agrotrade/agrotrade-client/pkg/pagination"
)

type staticToken string

func (s staticToken) AccessToken(ctx context.Context) (string, error) {
	return string(s), nil
}

func newService(t *testing.T, srv *apitest.Server, token string) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "admin-test", Output: io.Discard})
	api, err := client.New(context.Background(), config.APIConfig{
		BaseURL:        srv.URL,
		Timeout:        5 * time.Second,
		RetryBaseDelay: time.Millisecond,
	}, logg, client.WithTokenSource(staticToken(token)))
	require.NoError(t, err)
	return NewService(api, logg)
}

func TestStats(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Get("/api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		if !apitest.RequireBearer(w, r, "admin-token") {
			return
		}
		apitest.WriteData(w, "stats", map[string]any{
			"totalUsers": 1520, "totalListings": 8304, "activeListings": 6100, "blockedUsers": 14,
		})
	})

	stats, err := newService(t, srv, "admin-token").Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1520, stats.TotalUsers)
	assert.Equal(t, 14, stats.BlockedUsers)
}

func TestStatsRequiresAuth(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Get("/api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		if !apitest.RequireBearer(w, r, "admin-token") {
			return
		}
		apitest.WriteData(w, "stats", map[string]any{})
	})

	_, err := newService(t, srv, "wrong-token").Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestUsers(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Get("/api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "петро", r.URL.Query().Get("search"))
		apitest.WriteList(w, "users", []map[string]any{
			{"id": 3, "name": "Петро Коваленко", "blocked": false, "listingCount": 12},
		}, pagination.NewMeta(1, 1, 10))
	})

	users, meta, err := newService(t, srv, "admin-token").Users(context.Background(), "петро", 1, 10)
	require.NoError(t, err)

	require.Len(t, users, 1)
	assert.Equal(t, "Петро Коваленко", users[0].Name)
	assert.Equal(t, 1, meta.Total)
}

func TestBlockUnblock(t *testing.T) {
	srv := apitest.New(t)
	blocked := false
	srv.Router.Post("/api/admin/users/3/block", func(w http.ResponseWriter, r *http.Request) {
		blocked = true
		apitest.WriteBare(w, map[string]any{"ok": true})
	})
	srv.Router.Post("/api/admin/users/3/unblock", func(w http.ResponseWriter, r *http.Request) {
		blocked = false
		apitest.WriteBare(w, map[string]any{"ok": true})
	})
	svc := newService(t, srv, "admin-token")

	require.NoError(t, svc.Block(context.Background(), 3))
	assert.True(t, blocked)
	require.NoError(t, svc.Unblock(context.Background(), 3))
	assert.False(t, blocked)
}
