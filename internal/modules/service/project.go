package service

import (
	"context"

	"github.com/portfolio-showcase/portfolio-api/internal/infra/blob"
	"github.com/portfolio-showcase/portfolio-api/internal/infra/lock"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/model"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/repo"
	"github.com/portfolio-showcase/portfolio-api/internal/telemetry"
	"go.uber.org/zap"
)

type CreateProjectInput struct {
	Fields ProjectFields
	Files  *StagedFiles
}

type UpdateProjectInput struct {
	ID     string
	Fields ProjectFields
	Files  *StagedFiles
}

// ProjectService keeps project records and their image files consistent.
// Files in the input are already stored; on failure they are removed before
// returning, and files a successful mutation orphans are removed after it.
type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	Update(ctx context.Context, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

type ProjectServiceOptions struct {
	ValidateOnUpdate     bool
	LegacyRequiredFields bool
}

type projectService struct {
	r       repo.ProjectRepo
	files   *blob.FileStore
	locker  lock.Locker
	fields  *FieldPolicy
	opts    ProjectServiceOptions
	log     *zap.Logger
	metrics *telemetry.Metrics
}

func NewProjectService(
	r repo.ProjectRepo,
	files *blob.FileStore,
	locker lock.Locker,
	opts ProjectServiceOptions,
	log *zap.Logger,
	metrics *telemetry.Metrics,
) ProjectService {
	if locker == nil {
		locker = lock.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &projectService{
		r:       r,
		files:   files,
		locker:  locker,
		fields:  NewFieldPolicy(opts.LegacyRequiredFields),
		opts:    opts,
		log:     log,
		metrics: metrics,
	}
}

// discardStaged removes files written for a request that failed.
func (s *projectService) discardStaged(ctx context.Context, op string, files *StagedFiles, cause error) {
	names := files.Names()
	if len(names) == 0 {
		return
	}
	s.log.Info("removing staged files after failed operation",
		zap.String("operation", op),
		zap.Strings("files", names),
		zap.Error(cause),
	)
	s.files.DeleteAll(context.WithoutCancel(ctx), names)
}

func (s *projectService) finish(op string, err error) {
	s.metrics.RecordOperation(op, resultLabel(err))
}

func (s *projectService) Create(ctx context.Context, in CreateProjectInput) (p *model.Project, err error) {
	defer func() { s.finish("create", err) }()

	fields := s.fields.Normalize(in.Fields, true)
	if err := s.fields.Validate(fields, true); err != nil {
		s.discardStaged(ctx, "create", in.Files, err)
		return nil, err
	}
	if s.opts.LegacyRequiredFields && (in.Files == nil || in.Files.MainImage == nil) {
		err := &ValidationError{Field: "mainImage", Message: "Main image is required"}
		s.discardStaged(ctx, "create", in.Files, err)
		return nil, err
	}

	p = newProject(fields, in.Files)
	if err := s.r.Create(ctx, p); err != nil {
		err = mapRepoErr("create project", err)
		s.discardStaged(ctx, "create", in.Files, err)
		return nil, err
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context) ([]*model.Project, error) {
	projects, err := s.r.FindAll(ctx)
	if err != nil {
		return nil, mapRepoErr("list projects", err)
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}

func (s *projectService) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.r.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("get project", err)
	}
	return p, nil
}

func (s *projectService) Update(ctx context.Context, in UpdateProjectInput) (p *model.Project, err error) {
	defer func() { s.finish("update", err) }()

	release, err := s.locker.Acquire(ctx, in.ID)
	if err != nil {
		err = mapLockErr(err)
		s.discardStaged(ctx, "update", in.Files, err)
		return nil, err
	}
	defer release()

	existing, err := s.r.FindByID(ctx, in.ID)
	if err != nil {
		err = mapRepoErr("get project", err)
		s.discardStaged(ctx, "update", in.Files, err)
		return nil, err
	}
	oldMain := deref(existing.MainImage)
	oldOthers := append([]string{}, existing.OtherImages...)

	fields := s.fields.Normalize(in.Fields, false)
	if s.opts.ValidateOnUpdate {
		if err := s.fields.Validate(fields, false); err != nil {
			s.discardStaged(ctx, "update", in.Files, err)
			return nil, err
		}
	}

	updated, err := s.r.UpdateByID(ctx, in.ID, newPatch(fields, in.Files))
	if err != nil {
		err = mapRepoErr("update project", err)
		s.discardStaged(ctx, "update", in.Files, err)
		return nil, err
	}

	// The record no longer points at the replaced files.
	var orphaned []string
	if in.Files != nil && in.Files.MainImage != nil && oldMain != "" {
		orphaned = append(orphaned, oldMain)
	}
	if in.Files != nil && in.Files.OtherImages != nil {
		orphaned = append(orphaned, oldOthers...)
	}
	s.files.DeleteAll(context.WithoutCancel(ctx), unreferenced(orphaned, updated))

	return updated, nil
}

// Delete removes the record first; files go afterwards so the record never
// points at a missing file.
func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	defer func() { s.finish("delete", err) }()

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return mapLockErr(err)
	}
	defer release()

	existing, err := s.r.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr("get project", err)
	}
	if err := s.r.DeleteByID(ctx, id); err != nil {
		return mapRepoErr("delete project", err)
	}

	s.files.DeleteAll(context.WithoutCancel(ctx), existing.Images())
	return nil
}

// unreferenced drops names that p still references.
func unreferenced(names []string, p *model.Project) []string {
	if len(names) == 0 {
		return nil
	}
	live := make(map[string]struct{})
	for _, n := range p.Images() {
		live[n] = struct{}{}
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := live[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
