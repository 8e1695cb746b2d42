package repository

import (
	"context"
	"errors"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
)

var (
	// ErrNotFound is returned by lookups when the row is absent.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write hits a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey is returned when a write references a missing row.
	ErrForeignKey = errors.New("referenced record does not exist")
)

// Foreign key constraints a facility write can violate.
const (
	FacilityLocationFK = "facilities_location_id_fkey"
	FacilityTagFK      = "facility_tags_tag_id_fkey"
)

// ConstraintError carries the name of the constraint behind ErrDuplicate or
// ErrForeignKey.
type ConstraintError struct {
	Err        error
	Constraint string
}

func (e *ConstraintError) Error() string {
	return e.Err.Error() + ": " + e.Constraint
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// ConstraintOf returns the violated constraint name, or "" when err does not
// carry one.
func ConstraintOf(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}

// Page restricts a list query. A zero Limit returns every matching row.
type Page struct {
	Limit  int
	Offset int
}

// PageOf converts a validated page request into a list restriction.
func PageOf(req query.PageRequest) Page {
	offset, limit := req.OffsetLimit()
	return Page{Limit: limit, Offset: offset}
}

// All repository interfaces in one file
type (
	LocationRepository interface {
		List(ctx context.Context, where query.Predicate, page Page) ([]*model.Location, error)
		Count(ctx context.Context, where query.Predicate) (int, error)
		Get(ctx context.Context, id int64) (*model.Location, error)
		Create(ctx context.Context, location *model.Location) (int64, error)
		Update(ctx context.Context, location *model.Location) (bool, error)
		Delete(ctx context.Context, id int64) (bool, error)
	}

	TagRepository interface {
		List(ctx context.Context, where query.Predicate, page Page) ([]*model.Tag, error)
		Count(ctx context.Context, where query.Predicate) (int, error)
		Get(ctx context.Context, id int64) (*model.Tag, error)
		// FindByName matches case-insensitively.
		FindByName(ctx context.Context, name string) (*model.Tag, error)
		ListByFacility(ctx context.Context, facilityID int64) ([]*model.Tag, error)
		Create(ctx context.Context, name string) (int64, error)
		Update(ctx context.Context, tag *model.Tag) (bool, error)
		Delete(ctx context.Context, id int64) (bool, error)
		InUse(ctx context.Context, id int64) (bool, error)
	}

	FacilityRepository interface {
		List(ctx context.Context, where query.Predicate, page Page) ([]*model.FacilityRow, error)
		Count(ctx context.Context, where query.Predicate) (int, error)
		Get(ctx context.Context, id int64) (*model.FacilityRow, error)
		Exists(ctx context.Context, id int64) (bool, error)
		// Create inserts the facility and its tag links in one transaction.
		Create(ctx context.Context, facility *model.FacilityRow, tagIDs []int64) (int64, error)
		// Update rewrites the tag links only when tagIDs is non-nil.
		Update(ctx context.Context, facility *model.FacilityRow, tagIDs []int64) (bool, error)
		Delete(ctx context.Context, id int64) (bool, error)
		UsesLocation(ctx context.Context, locationID int64) (bool, error)
	}

	EmployeeRepository interface {
		List(ctx context.Context, where query.Predicate, page Page) ([]*model.EmployeeRow, error)
		Count(ctx context.Context, where query.Predicate) (int, error)
		Get(ctx context.Context, id int64) (*model.EmployeeRow, error)
		FacilityIDs(ctx context.Context, employeeID int64) ([]int64, error)
		// Create inserts the employee and its facility links in one transaction.
		Create(ctx context.Context, employee *model.EmployeeRow, facilityIDs []int64) (int64, error)
		// Update rewrites the facility links only when facilityIDs is non-nil.
		Update(ctx context.Context, employee *model.EmployeeRow, facilityIDs []int64) (bool, error)
		Delete(ctx context.Context, id int64) (bool, error)
	}
)
