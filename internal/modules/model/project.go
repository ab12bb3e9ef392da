package model

import (
	"time"

	"gorm.io/datatypes"
)

// Project is one portfolio entry. Image fields hold File Store filenames.
type Project struct {
	ID              string                      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title           string                      `gorm:"type:varchar(100);not null" json:"title"`
	Description1    string                      `gorm:"column:description1;type:text" json:"description1"`
	Description2    string                      `gorm:"column:description2;type:text" json:"description2"`
	ProjectType     string                      `gorm:"type:text" json:"projectType"`
	ProjectArea     string                      `gorm:"type:text" json:"projectArea"`
	ProjectLocation string                      `gorm:"type:text" json:"projectLocation"`
	MainImage       *string                     `gorm:"type:text" json:"mainImage"`
	OtherImages     datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" swaggertype:"array,string" json:"otherImages"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_projects_created_at,sort:desc" json:"createdAt"`
}

func (Project) TableName() string { return "projects" }

// Images returns every filename the record references, main image first.
func (p *Project) Images() []string {
	out := make([]string, 0, len(p.OtherImages)+1)
	if p.MainImage != nil && *p.MainImage != "" {
		out = append(out, *p.MainImage)
	}
	return append(out, p.OtherImages...)
}

// ProjectPatch carries the columns an update replaces. Nil fields are left untouched.
type ProjectPatch struct {
	Title           *string
	Description1    *string
	Description2    *string
	ProjectType     *string
	ProjectArea     *string
	ProjectLocation *string
	MainImage       *string
	OtherImages     *[]string
}

// Columns maps the patch to database column names.
func (p *ProjectPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description1 != nil {
		cols["description1"] = *p.Description1
	}
	if p.Description2 != nil {
		cols["description2"] = *p.Description2
	}
	if p.ProjectType != nil {
		cols["project_type"] = *p.ProjectType
	}
	if p.ProjectArea != nil {
		cols["project_area"] = *p.ProjectArea
	}
	if p.ProjectLocation != nil {
		cols["project_location"] = *p.ProjectLocation
	}
	if p.MainImage != nil {
		cols["main_image"] = *p.MainImage
	}
	if p.OtherImages != nil {
		cols["other_images"] = datatypes.JSONSlice[string](*p.OtherImages)
	}
	return cols
}

// Apply copies the patched fields onto p.
func (p *ProjectPatch) Apply(dst *Project) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description1 != nil {
		dst.Description1 = *p.Description1
	}
	if p.Description2 != nil {
		dst.Description2 = *p.Description2
	}
	if p.ProjectType != nil {
		dst.ProjectType = *p.ProjectType
	}
	if p.ProjectArea != nil {
		dst.ProjectArea = *p.ProjectArea
	}
	if p.ProjectLocation != nil {
		dst.ProjectLocation = *p.ProjectLocation
	}
	if p.MainImage != nil {
		v := *p.MainImage
		dst.MainImage = &v
	}
	if p.OtherImages != nil {
		dst.OtherImages = append(datatypes.JSONSlice[string]{}, (*p.OtherImages)...)
	}
}
