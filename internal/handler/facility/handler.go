package facility

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/internal/export"
	"github.com/SezginYurdakul/catering-api/internal/handler"
	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	facilityService "github.com/SezginYurdakul/catering-api/internal/service/facility"
)

type Handler struct {
	service    facilityService.FacilityServicer
	pagination config.PaginationConfig
}

func NewHandler(service facilityService.FacilityServicer, pagination config.PaginationConfig) *Handler {
	return &Handler{service: service, pagination: pagination}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	facilities := r.Group("/facilities")
	{
		facilities.GET("", h.ListFacilities)
		facilities.POST("", h.CreateFacility)
		facilities.GET("/export", h.ExportFacilities)
		facilities.GET("/:id", h.GetFacility)
		facilities.PUT("/:id", h.UpdateFacility)
		facilities.DELETE("/:id", h.DeleteFacility)
	}
}

func (h *Handler) ListFacilities(c *gin.Context) {
	filter, err := handler.ParseFilter(c, repository.FacilityFields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := handler.ParsePage(c, h.pagination)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.service.ListFacilities(c.Request.Context(), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewListResponse(result.Items, result.Pagination))
}

func (h *Handler) GetFacility(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	facility, err := h.service.GetFacility(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(facility))
}

func (h *Handler) CreateFacility(c *gin.Context) {
	var req model.CreateFacilityRequest
	if err := handler.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	facility, err := h.service.CreateFacility(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(facility))
}

func (h *Handler) UpdateFacility(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.UpdateFacilityRequest
	if err := handler.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	facility, err := h.service.UpdateFacility(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(facility))
}

func (h *Handler) DeleteFacility(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteFacility(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("facility deleted successfully"))
}

// ExportFacilities streams every matching facility as a download. The file
// is built in memory first so a failure still gets a JSON error body.
func (h *Handler) ExportFacilities(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	filter, err := handler.ParseFilter(c, repository.FacilityFields)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportFacilities(c.Request.Context(), filter, format, &buf); err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
