package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholartrack/core/internal/application/services"
	"github.com/scholartrack/core/internal/domain/entities"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// CatalogHandler handles researcher and resource directory requests
type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// CreateResearcher adds a researcher
func (h *CatalogHandler) CreateResearcher(c echo.Context) error {
	var req ports.CreateResearcherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	researcher, err := h.catalogService.CreateResearcher(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create researcher failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, researcher)
}

// GetResearcher returns a single researcher
func (h *CatalogHandler) GetResearcher(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	researcher, err := h.catalogService.GetResearcher(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err, entities.ErrResearcherNotFound, "Failed to load researcher")
	}
	return c.JSON(http.StatusOK, researcher)
}

// UpdateResearcher handles a researcher update
func (h *CatalogHandler) UpdateResearcher(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateResearcherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	researcher, err := h.catalogService.UpdateResearcher(c.Request().Context(), id, req)
	if err != nil {
		return notFoundOr(err, entities.ErrResearcherNotFound, "Failed to update researcher")
	}
	return c.JSON(http.StatusOK, researcher)
}

// DeleteResearcher removes a researcher
func (h *CatalogHandler) DeleteResearcher(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteResearcher(c.Request().Context(), id); err != nil {
		return notFoundOr(err, entities.ErrResearcherNotFound, "Failed to delete researcher")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Researcher deleted"})
}

// ListResearchers returns researchers, optionally filtered by search term
func (h *CatalogHandler) ListResearchers(c echo.Context) error {
	researchers, err := h.catalogService.ListResearchers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		h.logger.Error("List researchers failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load researchers")
	}
	return c.JSON(http.StatusOK, researchers)
}

// CreateResource adds a resource
func (h *CatalogHandler) CreateResource(c echo.Context) error {
	var req ports.CreateResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resource, err := h.catalogService.CreateResource(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create resource failed", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, resource)
}

// GetResource returns a single resource
func (h *CatalogHandler) GetResource(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	resource, err := h.catalogService.GetResource(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err, entities.ErrResourceNotFound, "Failed to load resource")
	}
	return c.JSON(http.StatusOK, resource)
}

// UpdateResource handles a resource update
func (h *CatalogHandler) UpdateResource(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateResourceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resource, err := h.catalogService.UpdateResource(c.Request().Context(), id, req)
	if err != nil {
		return notFoundOr(err, entities.ErrResourceNotFound, "Failed to update resource")
	}
	return c.JSON(http.StatusOK, resource)
}

// DeleteResource removes a resource
func (h *CatalogHandler) DeleteResource(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteResource(c.Request().Context(), id); err != nil {
		return notFoundOr(err, entities.ErrResourceNotFound, "Failed to delete resource")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Resource deleted"})
}

// ListResources returns resources matching the query filters
func (h *CatalogHandler) ListResources(c echo.Context) error {
	filter := ports.ResourceFilter{Search: c.QueryParam("q")}
	if v := c.QueryParam("type"); v != "" {
		resourceType := entities.ResourceType(v)
		if !resourceType.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid resource type")
		}
		filter.ResourceType = &resourceType
	}

	resources, err := h.catalogService.ListResources(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("List resources failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load resources")
	}
	return c.JSON(http.StatusOK, resources)
}

// ResourceTypes returns the distinct resource types in use
func (h *CatalogHandler) ResourceTypes(c echo.Context) error {
	types, err := h.catalogService.ResourceTypes(c.Request().Context())
	if err != nil {
		h.logger.Error("Resource type list failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load resource types")
	}
	return c.JSON(http.StatusOK, types)
}
