package employee

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/internal/handler"
	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	employeeService "github.com/SezginYurdakul/catering-api/internal/service/employee"
)

type Handler struct {
	service    employeeService.EmployeeServicer
	pagination config.PaginationConfig
}

func NewHandler(service employeeService.EmployeeServicer, pagination config.PaginationConfig) *Handler {
	return &Handler{service: service, pagination: pagination}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	employees := r.Group("/employees")
	{
		employees.GET("", h.ListEmployees)
		employees.POST("", h.CreateEmployee)
		employees.GET("/:id", h.GetEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
	}
}

func (h *Handler) ListEmployees(c *gin.Context) {
	filter, err := handler.ParseFilter(c, repository.EmployeeFields)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := handler.ParsePage(c, h.pagination)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.service.ListEmployees(c.Request.Context(), filter, page)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewListResponse(result.Items, result.Pagination))
}

func (h *Handler) GetEmployee(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	employee, err := h.service.GetEmployee(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(employee))
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req model.CreateEmployeeRequest
	if err := handler.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	employee, err := h.service.CreateEmployee(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(employee))
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.UpdateEmployeeRequest
	if err := handler.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	employee, err := h.service.UpdateEmployee(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(employee))
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteEmployee(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse("employee deleted successfully"))
}
