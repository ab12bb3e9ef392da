package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/serializer"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/service"
	"go.uber.org/zap"
)

const MsgProjectDeleted = "Project and associated files deleted successfully"

type ProjectHandler struct {
	svc     service.ProjectService
	uploads service.UploadService
	log     *zap.Logger
}

func NewProjectHandler(s service.ProjectService, uploads service.UploadService, log *zap.Logger) *ProjectHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectHandler{svc: s, uploads: uploads, log: log}
}

// ProjectReq carries the text fields of a project. Image files travel as
// multipart parts named mainImage and otherImages.
type ProjectReq struct {
	Title           *string `form:"title" json:"title" example:"Bridge"`
	Description1    *string `form:"description1" json:"description1" example:"Cable-stayed pedestrian bridge"`
	Description2    *string `form:"description2" json:"description2"`
	ProjectType     *string `form:"projectType" json:"projectType" example:"Infrastructure"`
	ProjectArea     *string `form:"projectArea" json:"projectArea" example:"1200 m2"`
	ProjectLocation *string `form:"projectLocation" json:"projectLocation" example:"Lisbon"`
}

func (r ProjectReq) fields() service.ProjectFields {
	return service.ProjectFields{
		Title:           r.Title,
		Description1:    r.Description1,
		Description2:    r.Description2,
		ProjectType:     r.ProjectType,
		ProjectArea:     r.ProjectArea,
		ProjectLocation: r.ProjectLocation,
	}
}

// writeErr maps service error kinds to HTTP responses.
func (h *ProjectHandler) writeErr(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, serializer.Err("Project not found", nil))
	case errors.Is(err, service.ErrInvalidProjectID):
		c.JSON(http.StatusBadRequest, serializer.ParamErr("Invalid project ID", nil))
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(verr.Message, nil))
	case errors.Is(err, service.ErrUploadRejected):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), nil))
	case errors.Is(err, service.ErrProjectBusy):
		c.JSON(http.StatusConflict, serializer.Err(err.Error(), nil))
	default:
		h.log.Error("project request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}

// bindAndStage binds the text fields and stores any uploaded images.
func (h *ProjectHandler) bindAndStage(c *gin.Context) (ProjectReq, *service.StagedFiles, bool) {
	req := ProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return req, nil, false
	}
	staged, err := h.uploads.Stage(c.Request.Context(), c.Request.MultipartForm)
	if err != nil {
		h.writeErr(c, err)
		return req, nil, false
	}
	return req, staged, true
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project. Images are optional: one mainImage and up to 25 otherImages, each an image of at most 5 MB.
//	@Tags			project
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title			formData	string	false	"Title"	example(Bridge)
//	@Param			description1	formData	string	false	"Primary description"
//	@Param			description2	formData	string	false	"Secondary description"
//	@Param			projectType		formData	string	false	"Project type"
//	@Param			projectArea		formData	string	false	"Project area"
//	@Param			projectLocation	formData	string	false	"Project location"
//	@Param			mainImage		formData	file	false	"Main image"
//	@Param			otherImages		formData	file	false	"Other images"
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Failure		400	{object}	serializer.Response
//	@Failure		500	{object}	serializer.Response
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req, staged, ok := h.bindAndStage(c)
	if !ok {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), service.CreateProjectInput{Fields: req.fields(), Files: staged})
	if err != nil {
		h.writeErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.OK(p))
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List every project, newest first
//	@Tags			project
//	@Produce		json
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.List(projects, len(projects)))
}

// GetProject godoc
//
//	@Summary		Get project
//	@Tags			project
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.OK(p))
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Update the supplied fields. A new mainImage replaces the old one; new otherImages replace the whole list. Replaced files are deleted.
//	@Tags			project
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id				path		string	true	"Project ID"
//	@Param			title			formData	string	false	"Title"
//	@Param			description1	formData	string	false	"Primary description"
//	@Param			description2	formData	string	false	"Secondary description"
//	@Param			projectType		formData	string	false	"Project type"
//	@Param			projectArea		formData	string	false	"Project area"
//	@Param			projectLocation	formData	string	false	"Project location"
//	@Param			mainImage		formData	file	false	"Main image"
//	@Param			otherImages		formData	file	false	"Other images"
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Failure		500	{object}	serializer.Response
//	@Router			/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	req, staged, ok := h.bindAndStage(c)
	if !ok {
		return
	}

	p, err := h.svc.Update(c.Request.Context(), service.UpdateProjectInput{
		ID:     c.Param("id"),
		Fields: req.fields(),
		Files:  staged,
	})
	if err != nil {
		h.writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.OK(p))
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project and its image files
//	@Tags			project
//	@Produce		json
//	@Param			id	path		string	true	"Project ID"
//	@Success		200	{object}	serializer.Response
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		500	{object}	serializer.Response
//	@Router			/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Msg(MsgProjectDeleted))
}
