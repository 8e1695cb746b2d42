package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/internal/query"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/validator"
)

// Query parameters that are never field filters.
var reservedParams = map[string]bool{
	"page":     true,
	"per_page": true,
	"query":    true,
	"filter":   true,
	"operator": true,
	"format":   true,
}

// ParseID reads the :id path parameter.
func ParseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.InvalidField("id", "must be a positive integer")
	}
	return id, nil
}

// ParseFilter builds a filter from the request query. Every parameter that
// is not reserved is taken as a field value, so unknown names surface as
// validation errors instead of being ignored.
func ParseFilter(c *gin.Context, fields query.Fields) (query.Filter, error) {
	params := c.Request.URL.Query()

	op, err := query.ParseOperator(params.Get("operator"))
	if err != nil {
		return query.Filter{}, err
	}

	f := query.Filter{
		Query:    strings.TrimSpace(params.Get("query")),
		Values:   make(map[string]string),
		Operator: op,
	}

	for _, name := range strings.Split(params.Get("filter"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			f.Targets = append(f.Targets, name)
		}
	}

	for name, values := range params {
		if reservedParams[name] || len(values) == 0 {
			continue
		}
		f.Values[name] = strings.TrimSpace(values[0])
	}

	if err := f.Validate(fields); err != nil {
		return query.Filter{}, err
	}
	return f, nil
}

// ParsePage reads page and per_page, falling back to the configured default
// page size.
func ParsePage(c *gin.Context, cfg config.PaginationConfig) (query.PageRequest, error) {
	page, err := intParam(c, "page", 1)
	if err != nil {
		return query.PageRequest{}, err
	}
	perPage, err := intParam(c, "per_page", cfg.DefaultPerPage)
	if err != nil {
		return query.PageRequest{}, err
	}
	return query.NewPageRequest(page, perPage, cfg.MaxPerPage)
}

func intParam(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidField(name, "must be a positive integer")
	}
	return n, nil
}

// BindJSON decodes and validates the request body.
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return validator.Translate(err)
	}
	return nil
}
