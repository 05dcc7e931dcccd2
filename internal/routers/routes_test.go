package routers

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesync/internal/api"
	"codesync/internal/session"
	"codesync/internal/store"
)

func newHandlers() Handlers {
	registry := session.NewRegistry()
	hub := session.NewHub(registry, session.NewRouter(registry, nil), nil)
	persistence := store.NewPersistence(nil, nil)
	return Handlers{
		Health:  api.NewHealthHandler(nil, nil, persistence),
		Collab:  api.NewCollabHandler(hub, nil, 8, time.Second),
		AI:      api.NewAIHandler(nil, nil),
		Project: api.NewProjectHandler(hub, persistence),
	}
}

func TestRegisterMountsEveryRoute(t *testing.T) {
	router := chi.NewRouter()
	Register(router, newHandlers())

	var routes []string
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+route)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(routes)

	for _, want := range []string{
		"GET /",
		"GET /healthz",
		"GET /readyz",
		"GET /ws",
		"GET /api/rooms/{id}",
		"POST /api/groq/complete",
		"POST /api/groq/explain",
		"GET /api/projects/{id}/",
		"POST /api/projects/{id}/save",
		"GET /api/projects/{id}/files",
		"PUT /api/projects/{id}/files",
	} {
		assert.Contains(t, routes, want)
	}
}

func TestRootBannerAndValidation(t *testing.T) {
	router := chi.NewRouter()
	Register(router, newHandlers())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, api.LivenessBanner, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/projects/p1/save", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_room_id")
}
