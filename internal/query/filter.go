package query

import (
	"fmt"
	"strings"

	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

// Operator combines the conditions of a filter.
type Operator string

const (
	And Operator = "AND"
	Or  Operator = "OR"
)

// ParseOperator accepts "and"/"or" in any case. An empty value means AND.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(And):
		return And, nil
	case string(Or):
		return Or, nil
	default:
		return "", apperrors.InvalidField("operator", fmt.Sprintf("invalid operator %q, must be AND or OR", s))
	}
}

// Field maps a logical filter name to the trusted SQL column it targets.
type Field struct {
	Name   string
	Column string
}

// Fields is the allow-list of filterable fields for one entity. Iteration
// order is the declaration order, so compiled clauses are deterministic.
type Fields struct {
	entity   string
	fields   []Field
	defaults []string
}

func NewFields(entity string, defaults []string, fields ...Field) Fields {
	return Fields{entity: entity, fields: fields, defaults: defaults}
}

func (f Fields) Entity() string { return f.entity }

// Names returns the allowed field names in declaration order.
func (f Fields) Names() []string {
	names := make([]string, len(f.fields))
	for i, fld := range f.fields {
		names[i] = fld.Name
	}
	return names
}

func (f Fields) Column(name string) (string, bool) {
	for _, fld := range f.fields {
		if fld.Name == name {
			return fld.Column, true
		}
	}
	return "", false
}

// DefaultSearch lists the fields free text is matched against when the
// caller names none.
func (f Fields) DefaultSearch() []string {
	return f.defaults
}

// Filter is a requested search: free text, the fields that text applies to,
// explicit per-field values and the operator joining all conditions.
type Filter struct {
	Query    string
	Targets  []string
	Values   map[string]string
	Operator Operator
}

// IsEmpty reports whether the filter produces no conditions.
func (f Filter) IsEmpty() bool {
	if strings.TrimSpace(f.Query) != "" {
		return false
	}
	for _, v := range f.Values {
		if v != "" {
			return false
		}
	}
	return true
}

// Validate checks every field name against the allow-list and the operator
// against the known set. All problems are reported together.
func (f Filter) Validate(fields Fields) error {
	var errs []apperrors.FieldError

	switch f.Operator {
	case "", And, Or:
	default:
		errs = append(errs, apperrors.FieldError{
			Field:   "operator",
			Message: fmt.Sprintf("invalid operator %q, must be AND or OR", f.Operator),
		})
	}

	for _, name := range f.Targets {
		if _, ok := fields.Column(name); !ok {
			errs = append(errs, apperrors.FieldError{
				Field:   "filter",
				Message: fmt.Sprintf("unknown %s field %q", fields.Entity(), name),
			})
		}
	}

	for name := range f.Values {
		if _, ok := fields.Column(name); !ok {
			errs = append(errs, apperrors.FieldError{
				Field:   name,
				Message: fmt.Sprintf("unknown %s field %q", fields.Entity(), name),
			})
		}
	}

	if len(errs) > 0 {
		return apperrors.NewValidation("invalid filter", errs...)
	}
	return nil
}
