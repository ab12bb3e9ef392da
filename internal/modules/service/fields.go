package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/model"
	"gorm.io/datatypes"
)

const (
	DefaultTitle          = "Untitled Project"
	DefaultClassification = "Not specified"
)

// ProjectFields holds the text fields of a request. Nil means not supplied.
type ProjectFields struct {
	Title           *string
	Description1    *string
	Description2    *string
	ProjectType     *string
	ProjectArea     *string
	ProjectLocation *string
}

// FieldRule describes one text field of a project.
type FieldRule struct {
	Name    string
	Label   string
	Default string
	Max     int
	Trim    bool
	// LegacyRequired fields must be present and non-blank when legacy rules are on.
	LegacyRequired bool

	ref func(*ProjectFields) **string
}

var ProjectFieldRules = []FieldRule{
	{Name: "title", Label: "Title", Default: DefaultTitle, Max: 100, Trim: true, LegacyRequired: true,
		ref: func(f *ProjectFields) **string { return &f.Title }},
	{Name: "description1", Label: "Description", Max: 5000, LegacyRequired: true,
		ref: func(f *ProjectFields) **string { return &f.Description1 }},
	{Name: "description2", Label: "Description 2", Max: 5000,
		ref: func(f *ProjectFields) **string { return &f.Description2 }},
	{Name: "projectType", Label: "Project type", Default: DefaultClassification, Max: 200, Trim: true,
		ref: func(f *ProjectFields) **string { return &f.ProjectType }},
	{Name: "projectArea", Label: "Project area", Default: DefaultClassification, Max: 200, Trim: true,
		ref: func(f *ProjectFields) **string { return &f.ProjectArea }},
	{Name: "projectLocation", Label: "Project location", Default: DefaultClassification, Max: 200, Trim: true,
		ref: func(f *ProjectFields) **string { return &f.ProjectLocation }},
}

// FieldPolicy applies ProjectFieldRules the same way on create and update.
type FieldPolicy struct {
	legacy   bool
	validate *validator.Validate
}

func NewFieldPolicy(legacyRequired bool) *FieldPolicy {
	return &FieldPolicy{legacy: legacyRequired, validate: validator.New()}
}

func (p *FieldPolicy) required(r FieldRule) bool { return p.legacy && r.LegacyRequired }

// Normalize trims values and replaces blank ones with their default. When
// fill is set, absent fields get their default too; a required field with no
// value stays nil so Validate can report it.
func (p *FieldPolicy) Normalize(in ProjectFields, fill bool) ProjectFields {
	out := in
	for _, r := range ProjectFieldRules {
		ptr := r.ref(&out)
		if *ptr == nil {
			if fill && !p.required(r) {
				v := r.Default
				*ptr = &v
			}
			continue
		}
		v := **ptr
		if r.Trim {
			v = strings.TrimSpace(v)
		}
		if v == "" && !p.required(r) {
			v = r.Default
		}
		*ptr = &v
	}
	return out
}

// Validate checks supplied fields. With all set, absent fields are checked as empty.
func (p *FieldPolicy) Validate(f ProjectFields, all bool) error {
	for _, r := range ProjectFieldRules {
		ptr := r.ref(&f)
		if *ptr == nil && !all {
			continue
		}
		var v string
		if *ptr != nil {
			v = **ptr
		}

		tag := "max=" + strconv.Itoa(r.Max)
		if p.required(r) {
			tag = "required," + tag
		}
		if err := p.validate.Var(v, tag); err != nil {
			return toValidationError(r, err)
		}
	}
	return nil
}

func toValidationError(r FieldRule, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: r.Name, Message: err.Error()}
	}
	switch fe := verrs[0]; fe.Tag() {
	case "required":
		return &ValidationError{Field: r.Name, Message: r.Label + " is required"}
	case "max":
		return &ValidationError{Field: r.Name, Message: fmt.Sprintf("%s cannot exceed %s characters", r.Label, fe.Param())}
	default:
		return &ValidationError{Field: r.Name, Message: fmt.Sprintf("%s is invalid", r.Label)}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// newProject builds a record from fully normalized fields.
func newProject(f ProjectFields, files *StagedFiles) *model.Project {
	p := &model.Project{
		Title:           deref(f.Title),
		Description1:    deref(f.Description1),
		Description2:    deref(f.Description2),
		ProjectType:     deref(f.ProjectType),
		ProjectArea:     deref(f.ProjectArea),
		ProjectLocation: deref(f.ProjectLocation),
		OtherImages:     datatypes.JSONSlice[string]{},
	}
	if files != nil {
		if files.MainImage != nil {
			v := *files.MainImage
			p.MainImage = &v
		}
		p.OtherImages = append(p.OtherImages, files.OtherImages...)
	}
	return p
}

// newPatch copies supplied fields and replaced images into a patch.
func newPatch(f ProjectFields, files *StagedFiles) *model.ProjectPatch {
	patch := &model.ProjectPatch{
		Title:           f.Title,
		Description1:    f.Description1,
		Description2:    f.Description2,
		ProjectType:     f.ProjectType,
		ProjectArea:     f.ProjectArea,
		ProjectLocation: f.ProjectLocation,
	}
	if files != nil {
		if files.MainImage != nil {
			v := *files.MainImage
			patch.MainImage = &v
		}
		if files.OtherImages != nil {
			others := append([]string{}, files.OtherImages...)
			patch.OtherImages = &others
		}
	}
	return patch
}
