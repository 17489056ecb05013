package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roadmasterpro/project-api/internal/api/metrics"
	"github.com/roadmasterpro/project-api/internal/core/domain"
	"github.com/roadmasterpro/project-api/internal/core/ports"
)

// ProjectHandler handles HTTP requests for the project aggregate. Request
// and response bodies use the flattened representation: identity fields and
// every sub-collection as top-level JSON keys.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List handles GET /projects.
//
// @Summary      List all projects
// @Tags         projects
// @Produce      json
// @Success      200  {array}   object
// @Failure      500  {object}  errorSchema
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// Create handles POST /projects. Missing sub-collections are defaulted to
// their empty shapes.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Project document"
// @Success      201   {object}  object
// @Failure      400   {object}  errorSchema
// @Failure      409   {object}  errorSchema
// @Failure      500   {object}  errorSchema
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var p domain.Project
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if p.Name == "" || p.Client == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and client are required")
	}

	created, err := h.service.Create(c.Request().Context(), &p)
	if err != nil {
		return err
	}

	metrics.ProjectWritesTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, created)
}

// Get handles GET /projects/:id.
//
// @Summary      Get a project by id
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  object
// @Failure      404  {object}  errorSchema
// @Failure      500  {object}  errorSchema
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Update handles PUT /projects/:id. Merge semantics: only the top-level
// fields present in the body change; a sub-collection field replaces the
// stored value whole, with no per-item merging.
//
// @Summary      Merge-update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Project id"
// @Param        body  body      object  true  "Fields to overwrite"
// @Success      200   {object}  object
// @Failure      400   {object}  errorSchema
// @Failure      404   {object}  errorSchema
// @Failure      500   {object}  errorSchema
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}

	metrics.ProjectWritesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /projects/:id. Sub-collections are embedded, so
// they vanish with the parent record; success returns no body.
//
// @Summary      Delete a project
// @Tags         projects
// @Param        id  path  string  true  "Project id"
// @Success      204
// @Failure      404  {object}  errorSchema
// @Failure      500  {object}  errorSchema
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.ProjectWritesTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
