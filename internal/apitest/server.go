// Package apitest provides a fake marketplace API for service tests: a
// chi-routed httptest server plus helpers that write responses in the
// backend's envelope shapes.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/agrotrade/agrotrade-client/pkg/pagination"
	"github.com/agrotrade/agrotrade-client/pkg/types"
)

// Server is an in-process marketplace backend. Tests register routes on the
// embedded router before issuing requests.
type Server struct {
	*httptest.Server
	Router chi.Router

	requests atomic.Int64
}

// New starts a fake backend that shuts down with the test.
func New(t *testing.T) *Server {
	t.Helper()
	router := chi.NewRouter()
	s := &Server{Router: router}
	router.Use(s.countRequests)
	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// Requests returns how many requests the server has handled.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

// WriteData writes {"data":{<key>:<value>}}, the backend's single-resource
// envelope.
func WriteData(w http.ResponseWriter, key string, value any) {
	writeJSON(w, http.StatusOK, types.SuccessEnvelope{Data: map[string]any{key: value}})
}

// WriteBare writes the value as the whole body, the envelope-less shape some
// endpoints respond with.
func WriteBare(w http.ResponseWriter, value any) {
	writeJSON(w, http.StatusOK, value)
}

// WriteList writes {"data":{<key>:<items>,"meta":<meta>}}, the paginated
// collection envelope.
func WriteList(w http.ResponseWriter, key string, items any, meta pagination.Meta) {
	writeJSON(w, http.StatusOK, types.SuccessEnvelope{Data: map[string]any{
		key:    items,
		"meta": meta,
	}})
}

// WriteError writes the backend's error envelope with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"message": message}})
}

// RequireBearer responds 401 and reports false unless the request carries
// the expected bearer token.
func RequireBearer(w http.ResponseWriter, r *http.Request, token string) bool {
	got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if got != token || got == "" {
		WriteError(w, http.StatusUnauthorized, "Необхідна авторизація")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}
