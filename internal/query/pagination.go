package query

import (
	"fmt"
	"math"

	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

// PageRequest is a validated page/perPage pair.
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest validates the requested page against the configured bound.
// maxPerPage <= 0 disables the upper bound.
func NewPageRequest(page, perPage, maxPerPage int) (PageRequest, error) {
	var errs []apperrors.FieldError
	if page < 1 {
		errs = append(errs, apperrors.FieldError{Field: "page", Message: "must be a positive integer"})
	}
	if perPage < 1 {
		errs = append(errs, apperrors.FieldError{Field: "per_page", Message: "must be a positive integer"})
	} else if maxPerPage > 0 && perPage > maxPerPage {
		errs = append(errs, apperrors.FieldError{
			Field:   "per_page",
			Message: fmt.Sprintf("must not exceed %d", maxPerPage),
		})
	}
	if len(errs) == 0 && page-1 > math.MaxInt/perPage {
		errs = append(errs, apperrors.FieldError{Field: "page", Message: "is too large"})
	}
	if len(errs) > 0 {
		return PageRequest{}, apperrors.NewValidation("invalid pagination", errs...)
	}
	return PageRequest{Page: page, PerPage: perPage}, nil
}

// OffsetLimit converts the request into SQL offset and limit.
func (p PageRequest) OffsetLimit() (offset, limit int) {
	return (p.Page - 1) * p.PerPage, p.PerPage
}

// Pagination is the metadata envelope returned with list results.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// Paginate computes pagination metadata. TotalPages is 0 when there are no
// items, otherwise ceil(totalItems / perPage).
func Paginate(totalItems int, req PageRequest) Pagination {
	totalPages := 0
	if totalItems > 0 && req.PerPage > 0 {
		totalPages = (totalItems + req.PerPage - 1) / req.PerPage
	}
	return Pagination{
		CurrentPage: req.Page,
		PerPage:     req.PerPage,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
	}
}

// CheckRange fails when a non-empty result set has fewer pages than the one
// requested.
func (p Pagination) CheckRange() error {
	if p.TotalPages > 0 && p.CurrentPage > p.TotalPages {
		return apperrors.InvalidField("page",
			fmt.Sprintf("page %d is out of range, total pages: %d", p.CurrentPage, p.TotalPages))
	}
	return nil
}
