package location

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/internal/handler"
	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	locationService "github.com/SezginYurdakul/catering-api/internal/service/location"
)

type Handler struct {
	service    locationService.LocationServicer
	pagination config.PaginationConfig
}

func NewHandler(service locationService.LocationServicer, pagination config.PaginationConfig) *Handler {
	return &Handler{service: service, pagination: pagination}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	locations := r.Group("/locations")
	{
		locations.GET("", h.ListLocations)
		locations.POST("", h.CreateLocation)
		locations.GET("/:id", h.GetLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", h.DeleteLocation)
	}
}

func (h *Handler) ListLocations(c *gin.Context) {
	filter, err := handler.ParseFilter(c, repository.LocationFields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := handler.ParsePage(c, h.pagination)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.service.ListLocations(c.Request.Context(), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewListResponse(result.Items, result.Pagination))
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	location, err := h.service.GetLocation(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(location))
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req model.CreateLocationRequest
	if err := handler.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	location, err := h.service.CreateLocation(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(location))
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.UpdateLocationRequest
	if err := handler.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	location, err := h.service.UpdateLocation(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(location))
}

func (h *Handler) DeleteLocation(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteLocation(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("location deleted successfully"))
}
