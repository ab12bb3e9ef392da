package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalBackend keeps files in a single flat directory.
type LocalBackend struct {
	dir string
}

// NewLocalBackend creates dir if needed.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalBackend{dir: abs}, nil
}

func (b *LocalBackend) Dir() string { return b.dir }

func (b *LocalBackend) path(name string) (string, error) {
	if err := validateKey(name); err != nil {
		return "", err
	}
	return filepath.Join(b.dir, name), nil
}

// Put writes through a temp file and renames it into place.
func (b *LocalBackend) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	dst, err := b.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (b *LocalBackend) Remove(_ context.Context, name string) error {
	p, err := b.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (b *LocalBackend) Exists(_ context.Context, name string) (bool, error) {
	p, err := b.path(name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (b *LocalBackend) Locate(_ context.Context, name string) (Location, error) {
	p, err := b.path(name)
	if err != nil {
		return Location{}, err
	}
	return Location{Path: p}, nil
}
