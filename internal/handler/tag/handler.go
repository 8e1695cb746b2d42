package tag

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/internal/handler"
	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	tagService "github.com/SezginYurdakul/catering-api/internal/service/tag"
)

type Handler struct {
	service    tagService.TagServicer
	pagination config.PaginationConfig
}

func NewHandler(service tagService.TagServicer, pagination config.PaginationConfig) *Handler {
	return &Handler{service: service, pagination: pagination}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	tags := r.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.POST("", h.CreateTag)
		tags.GET("/:id", h.GetTag)
		tags.PUT("/:id", h.UpdateTag)
		tags.DELETE("/:id", h.DeleteTag)
	}
}

func (h *Handler) ListTags(c *gin.Context) {
	filter, err := handler.ParseFilter(c, repository.TagFields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := handler.ParsePage(c, h.pagination)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.service.ListTags(c.Request.Context(), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewListResponse(result.Items, result.Pagination))
}

func (h *Handler) GetTag(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	tag, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tag))
}

func (h *Handler) CreateTag(c *gin.Context) {
	var req model.TagRequest
	if err := handler.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	tag, err := h.service.CreateTag(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(tag))
}

func (h *Handler) UpdateTag(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.TagRequest
	if err := handler.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	tag, err := h.service.UpdateTag(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tag))
}

func (h *Handler) DeleteTag(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteTag(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("tag deleted successfully"))
}
