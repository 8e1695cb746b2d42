package handler

import (
	"github.com/SezginYurdakul/catering-api/internal/query"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

type Response struct {
	Status     string                 `json:"status"`
	Message    string                 `json:"message,omitempty"`
	Data       interface{}            `json:"data,omitempty"`
	Pagination *query.Pagination      `json:"pagination,omitempty"`
	Errors     []apperrors.FieldError `json:"errors,omitempty"`
	RequestID  string                 `json:"request_id,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

// NewListResponse always renders data as an array, even when empty.
func NewListResponse[T any](items []T, pagination query.Pagination) *Response {
	if items == nil {
		items = []T{}
	}
	return &Response{
		Status:     "success",
		Data:       items,
		Pagination: &pagination,
	}
}

func NewMessageResponse(message string) *Response {
	return &Response{
		Status:  "success",
		Message: message,
	}
}

func NewErrorResponse(message string, fields ...apperrors.FieldError) *Response {
	return &Response{
		Status:  "error",
		Message: message,
		Errors:  fields,
	}
}
