package service

import (
	"errors"
	"fmt"

	"github.com/portfolio-showcase/portfolio-api/internal/infra/lock"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/repo"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrUploadRejected   = errors.New("upload rejected")
	ErrProjectBusy      = errors.New("project is being modified by another request")
)

// ValidationError reports a field that breaks its rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// StorageError wraps a database or file storage failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func mapRepoErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrProjectNotFound
	case errors.Is(err, repo.ErrInvalidID):
		return ErrInvalidProjectID
	default:
		return &StorageError{Op: op, Err: err}
	}
}

func mapLockErr(err error) error {
	if errors.Is(err, lock.ErrNotAcquired) {
		return ErrProjectBusy
	}
	return &StorageError{Op: "acquire project lock", Err: err}
}

// resultLabel classifies err for metrics.
func resultLabel(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProjectNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidProjectID):
		return "invalid_id"
	case errors.Is(err, ErrProjectBusy):
		return "busy"
	case errors.As(err, &verr):
		return "validation"
	default:
		return "error"
	}
}
