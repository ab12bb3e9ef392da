package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid identifier")
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	// FindAll returns every project, newest first.
	FindAll(ctx context.Context) ([]*model.Project, error)
	FindByID(ctx context.Context, id string) (*model.Project, error)
	// UpdateByID writes only the patched columns and returns the stored record.
	UpdateByID(ctx context.Context, id string, patch *model.ProjectPatch) (*model.Project, error)
	DeleteByID(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func parseUUID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return u, nil
}

func translateGormErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.OtherImages == nil {
		p.OtherImages = datatypes.JSONSlice[string]{}
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) FindAll(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *projectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	u, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", u).First(&p).Error; err != nil {
		return nil, translateGormErr(err)
	}
	return &p, nil
}

func (r *projectRepo) UpdateByID(ctx context.Context, id string, patch *model.ProjectPatch) (*model.Project, error) {
	u, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	cols := patch.Columns()
	if len(cols) == 0 {
		return r.FindByID(ctx, id)
	}

	var p model.Project
	res := r.db.WithContext(ctx).
		Model(&p).
		Clauses(clause.Returning{}).
		Where("id = ?", u).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *projectRepo) DeleteByID(ctx context.Context, id string) error {
	u, err := parseUUID(id)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("id = ?", u).Delete(&model.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *projectRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
