package blob

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is a minimal path-style object server.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/portfolio/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T) (*S3Backend, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),

		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	})
	return NewS3BackendWithClient(client, "portfolio", time.Minute), fake
}

func TestS3Backend_Lifecycle(t *testing.T) {
	ctx := context.Background()
	b, fake := newTestS3(t)

	require.NoError(t, b.Put(ctx, "a.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))
	assert.Equal(t, []byte("jpeg"), fake.objects["a.jpg"])

	ok, err := b.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, b.Remove(ctx, "a.jpg"))
	require.NoError(t, b.Remove(ctx, "a.jpg"))

	ok, err = b.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3Backend_Locate(t *testing.T) {
	b, _ := newTestS3(t)

	loc, err := b.Locate(context.Background(), "a.jpg")
	require.NoError(t, err)
	assert.Empty(t, loc.Path)
	assert.Contains(t, loc.URL, "/portfolio/a.jpg")
	assert.Contains(t, loc.URL, "X-Amz-Signature=")
	assert.Contains(t, loc.URL, "X-Amz-Expires=60")
}

func TestS3Backend_RejectsUnsafeNames(t *testing.T) {
	b, _ := newTestS3(t)
	assert.ErrorIs(t, b.Remove(context.Background(), "../a.jpg"), ErrInvalidName)
}
