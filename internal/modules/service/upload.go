package service

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"time"

	"github.com/portfolio-showcase/portfolio-api/internal/infra/blob"
	"github.com/portfolio-showcase/portfolio-api/internal/pkg/utils/mime"
	"go.uber.org/zap"
)

const (
	FieldMainImage   = "mainImage"
	FieldOtherImages = "otherImages"
)

// StagedFiles names files already written to the file store for one request.
// A nil field means the request did not supply it.
type StagedFiles struct {
	MainImage   *string
	OtherImages []string
}

// Names lists every staged filename. Safe on a nil receiver.
func (f *StagedFiles) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.OtherImages)+1)
	if f.MainImage != nil {
		names = append(names, *f.MainImage)
	}
	return append(names, f.OtherImages...)
}

type UploadService interface {
	// Stage validates and stores the image files of form. Nothing stays
	// stored when it returns an error.
	Stage(ctx context.Context, form *multipart.Form) (*StagedFiles, error)
}

type UploadLimits struct {
	MaxFileSizeBytes int64
	MaxMainImages    int
	MaxOtherImages   int
}

type uploadService struct {
	files  *blob.FileStore
	limits UploadLimits
	log    *zap.Logger
	now    func() time.Time
}

func NewUploadService(files *blob.FileStore, limits UploadLimits, log *zap.Logger) UploadService {
	if log == nil {
		log = zap.NewNop()
	}
	return &uploadService{files: files, limits: limits, log: log, now: time.Now}
}

func rejected(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUploadRejected, fmt.Sprintf(format, args...))
}

func (s *uploadService) checkCounts(form *multipart.Form) error {
	for field, headers := range form.File {
		switch field {
		case FieldMainImage:
			if len(headers) > s.limits.MaxMainImages {
				return rejected("at most %d file(s) allowed for %s", s.limits.MaxMainImages, field)
			}
		case FieldOtherImages:
			if len(headers) > s.limits.MaxOtherImages {
				return rejected("at most %d file(s) allowed for %s", s.limits.MaxOtherImages, field)
			}
		default:
			return rejected("unexpected file field %q", field)
		}
	}
	return nil
}

func (s *uploadService) Stage(ctx context.Context, form *multipart.Form) (*StagedFiles, error) {
	staged := &StagedFiles{}
	if form == nil || len(form.File) == 0 {
		return staged, nil
	}
	if err := s.checkCounts(form); err != nil {
		return nil, err
	}

	var written []string
	fail := func(err error) (*StagedFiles, error) {
		s.files.DeleteAll(context.WithoutCancel(ctx), written)
		return nil, err
	}

	if mains := form.File[FieldMainImage]; len(mains) > 0 {
		name, err := s.store(ctx, mains[0])
		if err != nil {
			return fail(err)
		}
		written = append(written, name)
		staged.MainImage = &name
	}
	if others := form.File[FieldOtherImages]; len(others) > 0 {
		staged.OtherImages = make([]string, 0, len(others))
		for _, fh := range others {
			name, err := s.store(ctx, fh)
			if err != nil {
				return fail(err)
			}
			written = append(written, name)
			staged.OtherImages = append(staged.OtherImages, name)
		}
	}

	s.log.Debug("staged uploads", zap.Strings("files", written))
	return staged, nil
}

// store checks one file and writes it under a fresh name.
func (s *uploadService) store(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.limits.MaxFileSizeBytes {
		return "", rejected("%s exceeds the %d byte limit", fh.Filename, s.limits.MaxFileSizeBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return "", &StorageError{Op: "open upload", Err: err}
	}
	defer f.Close()

	detected, err := mime.DetectReader(f, fh.Filename)
	if err != nil {
		return "", &StorageError{Op: "read upload", Err: err}
	}
	if !detected.IsImage() {
		return "", rejected("only image files are allowed, %s is %s", fh.Filename, detected.ContentType)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", &StorageError{Op: "read upload", Err: err}
	}

	name := s.newName(detected.Extension)
	if err := s.files.Save(ctx, name, io.LimitReader(f, s.limits.MaxFileSizeBytes), fh.Size, detected.ContentType); err != nil {
		return "", &StorageError{Op: "store upload", Err: err}
	}
	return name, nil
}

// newName returns <unix millis>-<random below 1e9><ext>.
func (s *uploadService) newName(ext string) string {
	return fmt.Sprintf("%d-%d%s", s.now().UnixMilli(), rand.Int64N(1e9), ext)
}
