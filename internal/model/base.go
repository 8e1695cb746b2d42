package model

import (
	"github.com/SezginYurdakul/catering-api/internal/query"
)

// Page is one page of assembled entities plus its pagination metadata.
type Page[T any] struct {
	Items      []T
	Pagination query.Pagination
}
