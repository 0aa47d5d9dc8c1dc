package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
)

// ProjectHandlers accepts JSON or multipart bodies; media files only arrive as multipart.
type ProjectHandlers struct {
	projectService services.ProjectService
}

func NewProjectHandlers(projectService services.ProjectService) *ProjectHandlers {
	return &ProjectHandlers{projectService: projectService}
}

// readProject fills in from the request. The returned closer releases any opened files.
func readProject(c echo.Context) (services.ProjectInput, func(), error) {
	var in services.ProjectInput
	if !isMultipart(c) {
		return in, func() {}, bindJSON(c, &in)
	}

	title, err := formString(c, "title")
	if err != nil {
		return in, func() {}, err
	}
	in.Title = title

	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return in, func() {}, err
	}
	video, closeVideo, err := formUpload(c, "video")
	if err != nil {
		closeImage()
		return in, func() {}, err
	}
	in.Image, in.Video = image, video
	closer := func() {
		closeImage()
		closeVideo()
	}
	if err := c.Validate(&in); err != nil {
		closer()
		return in, func() {}, err
	}
	return in, closer, nil
}

func (h *ProjectHandlers) ListProjects(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	projects, err := h.projectService.ListProjects(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandlers) CreateProject(c echo.Context) error {
	in, done, err := readProject(c)
	if err != nil {
		return err
	}
	defer done()

	project, err := h.projectService.CreateProject(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandlers) GetProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	project, err := h.projectService.GetProject(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (h *ProjectHandlers) UpdateProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	in, done, err := readProject(c)
	if err != nil {
		return err
	}
	defer done()

	project, err := h.projectService.UpdateProject(c.Request().Context(), id, in, isPatch(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (h *ProjectHandlers) DeleteProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.projectService.DeleteProject(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
