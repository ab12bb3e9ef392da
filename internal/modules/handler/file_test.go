package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-showcase/portfolio-api/internal/infra/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirectBackend locates every file at a fixed object URL.
type redirectBackend struct {
	*blob.LocalBackend
}

func (redirectBackend) Locate(_ context.Context, name string) (blob.Location, error) {
	return blob.Location{URL: "https://bucket.example.com/" + name + "?X-Amz-Signature=abc"}, nil
}

func setupFileRouter(store *blob.FileStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/uploads/*filename", NewFileHandler(store).ServeFile)
	return r
}

func TestFileHandler_ServeLocal(t *testing.T) {
	backend, err := blob.NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	store := blob.NewFileStore(backend, nil, nil)
	require.NoError(t, store.Save(context.Background(), "1700000000000-42.png", strings.NewReader("png-bytes"), 9, "image/png"))
	r := setupFileRouter(store)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{name: "existing file", path: "/uploads/1700000000000-42.png", expectedStatus: http.StatusOK, expectedBody: "png-bytes"},
		{name: "missing file", path: "/uploads/nope.png", expectedStatus: http.StatusNotFound},
		{name: "nested path", path: "/uploads/sub/1700000000000-42.png", expectedStatus: http.StatusNotFound},
		{name: "empty name", path: "/uploads/", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				body, err := io.ReadAll(rec.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.expectedBody, string(body))
			}
		})
	}
}

func TestFileHandler_RedirectsToObjectURL(t *testing.T) {
	local, err := blob.NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	store := blob.NewFileStore(redirectBackend{local}, nil, nil)
	require.NoError(t, store.Save(context.Background(), "a.jpg", strings.NewReader("jpg"), 3, "image/jpeg"))
	r := setupFileRouter(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/a.jpg", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "https://bucket.example.com/a.jpg?X-Amz-Signature=abc", rec.Header().Get("Location"))
}

func TestFileHandler_MissingObjectIsNotRedirected(t *testing.T) {
	local, err := blob.NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	r := setupFileRouter(blob.NewFileStore(redirectBackend{local}, nil, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/missing.jpg", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), "File not found")
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "healthy", expectedStatus: http.StatusOK},
		{name: "database down", err: errors.New("connection refused"), expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.GET("/health", NewHealthHandler(fakePinger{err: tt.err}).Health)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
