package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/athomax/shorturl/internal/models"
	"github.com/athomax/shorturl/internal/repository"
	"github.com/athomax/shorturl/internal/services"
	"github.com/athomax/shorturl/internal/workers"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	router      *gin.Engine
	mappingRepo repository.MappingRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Mapping{}, &models.Click{}))

	mappingRepo := repository.NewMappingRepository(db)
	clickRepo := repository.NewClickRepository(db)

	clickEvents := make(chan models.ClickEvent, 64)
	workers.StartClickWorkers(1, clickEvents, mappingRepo, clickRepo)

	allocator := services.NewSlugAllocator(mappingRepo)
	resolver := services.NewRedirectResolver(mappingRepo, nil, clickEvents)

	router := gin.New()
	SetupRoutes(router, allocator, resolver)

	return &testServer{router: router, mappingRepo: mappingRepo}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateMappingWithCustomSlug(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/url", `{"url":"https://example.com","slug":"test-slug"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	assert.Equal(t, "https://example.com", body["url"])
	assert.Equal(t, "test-slug", body["slug"])
	assert.EqualValues(t, 0, body["clicks"])
	// Store-internal identifiers stay internal.
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "ID")
}

func TestCreateMappingGeneratesSlug(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/url", `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	assert.Regexp(t, `^[a-z0-9]{5}$`, body["slug"])
	assert.EqualValues(t, 0, body["clicks"])
}

func TestCreateMappingInvalidURL(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/url", `{"url":"not-a-url","slug":"test-slug"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid url.", decodeJSON(t, w)["message"])
}

func TestCreateMappingInvalidSlug(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/url", `{"url":"https://x.com","slug":"has space"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid slug.", decodeJSON(t, w)["message"])
}

func TestCreateMappingDuplicateSlug(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/url", `{"url":"https://example.com","slug":"test-slug"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodPost, "/url", `{"url":"https://another.example","slug":"test-slug"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Slug in use.", decodeJSON(t, w)["message"])
}

func TestRedirectIncrementsClicks(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/url", `{"url":"https://example.com","slug":"test-slug"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodGet, "/test-slug", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Location"))

	// The increment is asynchronous; wait for the worker to apply it.
	require.Eventually(t, func() bool {
		mapping, err := srv.mappingRepo.FindBySlug("test-slug")
		return err == nil && mapping.Clicks == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRedirectUnknownSlug(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/non-existent", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/?error=non-existent+not+found", w.Header().Get("Location"))
}

func TestRedirectIsCaseInsensitive(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/url", `{"url":"https://example.com","slug":"ABC"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodGet, "/abc", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Location"))

	w = srv.do(http.MethodGet, "/ABC", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Location"))
}

func TestMappingStats(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/url", `{"url":"https://example.com","slug":"test-slug"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodGet, "/url/test-slug", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	assert.Equal(t, "test-slug", body["slug"])
	assert.Equal(t, "https://example.com", body["url"])
	assert.EqualValues(t, 0, body["clicks"])
}

func TestMappingStatsNotFound(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/url/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeJSON(t, w)["status"])
}

func TestInvalidRequestBody(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodPost, "/url", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
