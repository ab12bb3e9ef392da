package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var ErrInvalidName = errors.New("blob: invalid file name")

// validateKey rejects names that are not a single path element.
func validateKey(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Location tells a caller how to serve a stored file: either a local path or
// a URL to redirect to.
type Location struct {
	Path string
	URL  string
}

// Backend stores file bytes keyed by a flat, opaque filename.
type Backend interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Remove deletes name. A missing file is not an error.
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	Locate(ctx context.Context, name string) (Location, error)
}

// FileStore is the project-facing view of a Backend. Deletes are best-effort:
// failures are logged and counted, never returned.
type FileStore struct {
	backend  Backend
	log      *zap.Logger
	failures prometheus.Counter
}

// NewFileStore wraps backend. failures may be nil.
func NewFileStore(backend Backend, log *zap.Logger, failures prometheus.Counter) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{backend: backend, log: log, failures: failures}
}

func (s *FileStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, name, r, size, contentType)
}

func (s *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	return s.backend.Exists(ctx, name)
}

func (s *FileStore) Locate(ctx context.Context, name string) (Location, error) {
	return s.backend.Locate(ctx, name)
}

// Delete removes name if present. An empty name is a no-op.
func (s *FileStore) Delete(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.backend.Remove(ctx, name); err != nil {
		s.log.Warn("failed to delete file", zap.String("file", name), zap.Error(err))
		if s.failures != nil {
			s.failures.Inc()
		}
		return
	}
	s.log.Debug("deleted file", zap.String("file", name))
}

// DeleteAll calls Delete for each name in order.
func (s *FileStore) DeleteAll(ctx context.Context, names []string) {
	for _, name := range names {
		s.Delete(ctx, name)
	}
}
