package listings

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

func newService(t *testing.T, srv *apitest.Server) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "listings-test", Output: io.Discard})
	api, err := client.New(context.Background(), config.APIConfig{
		BaseURL:        srv.URL,
		Timeout:        5 * time.Second,
		RetryAttempts:  0,
		RetryBaseDelay: time.Millisecond,
	}, logg)
	require.NoError(t, err)
	return NewService(api, logg)
}

func TestGetWithOwnerEnrichment(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Get("/api/listings/10", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteData(w, "listing", map[string]any{
			"id": 10, "title": "Трактор Т-150", "userId": 3, "price": "380000",
		})
	})
	srv.Router.Get("/api/listings", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("userId"))
		apitest.WriteList(w, "listings", []map[string]any{
			{"id": 10, "title": "Трактор Т-150"},
			{"id": 11, "title": "Причіп 2ПТС-4"},
			{"id": 12, "title": "Косарка КРН-2.1"},
		}, pagination.NewMeta(3, 1, 5))
	})

	detail, err := newService(t, srv).Get(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, "Трактор Т-150", detail.Listing.Title)
	require.Len(t, detail.OwnerListings, 2, "current listing excluded from owner's others")
	assert.Equal(t, int64(11), detail.OwnerListings[0].ID)
}

func TestGetEnrichmentFailureIsNonFatal(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Get("/api/listings/10", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteData(w, "listing", map[string]any{"id": 10, "title": "Зерновоз", "userId": 3})
	})
	srv.Router.Get("/api/listings", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteError(w, http.StatusInternalServerError, "Помилка сервера")
	})

	detail, err := newService(t, srv).Get(context.Background(), 10)
	require.NoError(t, err, "enrichment failure must not fail the detail fetch")
	assert.Empty(t, detail.OwnerListings)
}

func TestGetSkipsEnrichmentWithoutOwner(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Get("/api/listings/5", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteBare(w, map[string]any{"id": 5, "title": "Мотоблок"})
	})

	detail, err := newService(t, srv).Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, detail.OwnerListings)
	assert.Equal(t, int64(1), srv.Requests(), "no secondary fetch without a userId")
}

func TestGetNotFound(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Get("/api/listings/404", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteError(w, http.StatusNotFound, "Оголошення не знайдено")
	})

	_, err := newService(t, srv).Get(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateValidatesBeforeDispatch(t *testing.T) {
	srv := apitest.New(t)

	_, err := newService(t, srv).Create(context.Background(), CreateInput{
		Title: "ok", Price: -5, CategoryID: 0, Location: "",
	})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Zero(t, srv.Requests(), "invalid input never reaches the network")
}

func TestCreate(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Post("/api/listings", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteData(w, "listing", map[string]any{"id": 77, "title": "Сіялка Great Plains"})
	})

	listing, err := newService(t, srv).Create(context.Background(), CreateInput{
		Title:      "  Сіялка Great Plains  ",
		Price:      920000,
		CategoryID: 4,
		Location:   "Черкаська область",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), listing.ID)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	srv := apitest.New(t)
	bad := "archived"

	_, err := newService(t, srv).Update(context.Background(), 1, UpdateInput{Status: &bad})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Zero(t, srv.Requests())
}

func TestUpdate(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Put("/api/listings/8", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteData(w, "listing", map[string]any{"id": 8, "status": "paused"})
	})

	paused := "paused"
	listing, err := newService(t, srv).Update(context.Background(), 8, UpdateInput{Status: &paused})
	require.NoError(t, err)
	assert.Equal(t, "paused", listing.Status)
}

func TestDelete(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Delete("/api/listings/8", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, newService(t, srv).Delete(context.Background(), 8))
}

func TestMine(t *testing.T) {
	srv := apitest.New(t)
	srv.Router.Get("/api/listings/my", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		apitest.WriteList(w, "listings", []map[string]any{
			{"id": 1, "title": "Плуг"},
		}, pagination.NewMeta(11, 2, 10))
	})

	items, meta, err := newService(t, srv).Mine(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 11, meta.Total)
	assert.Equal(t, 2, meta.Pages)
}
