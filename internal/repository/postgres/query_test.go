package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
)

func TestFacilityListQueryMatchAll(t *testing.T) {
	where := query.Compile(repository.FacilityFields, query.Filter{})

	stmt, args, err := facilityListQuery(where, repository.Page{Limit: 10, Offset: 20})
	require.NoError(t, err)

	assert.Contains(t, stmt, "SELECT DISTINCT f.id, f.name, f.location_id, f.creation_date FROM facilities f")
	assert.Contains(t, stmt, "JOIN locations l ON l.id = f.location_id")
	assert.NotContains(t, stmt, "WHERE")
	assert.Contains(t, stmt, "ORDER BY f.id LIMIT 10 OFFSET 20")
	assert.Empty(t, args)
}

func TestFacilityListQueryCity(t *testing.T) {
	where := query.Compile(repository.FacilityFields, query.Filter{
		Values:   map[string]string{"city": "Amsterdam"},
		Operator: query.And,
	})
	require.Equal(t, "l.city LIKE :city", where.Clause)

	stmt, args, err := facilityListQuery(where, repository.Page{Limit: 10})
	require.NoError(t, err)

	assert.Contains(t, stmt, "WHERE l.city LIKE $1")
	assert.Equal(t, []interface{}{"%Amsterdam%"}, args)
}

func TestFacilityListQuerySharedQueryPlaceholder(t *testing.T) {
	where := query.Compile(repository.FacilityFields, query.Filter{
		Query:    "garden",
		Targets:  []string{"facility_name", "tag"},
		Values:   map[string]string{"city": "Utrecht"},
		Operator: query.Or,
	})

	stmt, args, err := facilityListQuery(where, repository.Page{})
	require.NoError(t, err)

	assert.Contains(t, stmt, "WHERE l.city LIKE $1 OR (f.name LIKE $2 OR t.name LIKE $3)")
	assert.NotContains(t, stmt, "LIMIT")
	assert.Equal(t, []interface{}{"%Utrecht%", "%garden%", "%garden%"}, args)
}

func TestFacilityCountQuery(t *testing.T) {
	where := query.Compile(repository.FacilityFields, query.Filter{Values: map[string]string{"tag": "Wedding"}})

	b, err := facilityCountQuery(where)
	require.NoError(t, err)
	stmt, args, err := b.ToSql()
	require.NoError(t, err)

	assert.Contains(t, stmt, "SELECT COUNT(DISTINCT f.id) FROM facilities f")
	assert.Contains(t, stmt, "WHERE t.name LIKE $1")
	assert.Equal(t, []interface{}{"%Wedding%"}, args)
}

func TestEmployeeListQuery(t *testing.T) {
	where := query.Compile(repository.EmployeeFields, query.Filter{
		Query:    "jansen",
		Values:   map[string]string{"facility_name": "Hall"},
		Operator: query.And,
	})

	stmt, args, err := employeeListQuery(where, repository.Page{Limit: 5, Offset: 5})
	require.NoError(t, err)

	assert.Contains(t, stmt, "FROM employees e LEFT JOIN employee_facilities ef ON ef.employee_id = e.id")
	assert.Contains(t, stmt, "WHERE f.name LIKE $1 AND (e.name LIKE $2 OR e.email LIKE $3 OR e.address LIKE $4)")
	assert.Contains(t, stmt, "LIMIT 5 OFFSET 5")
	assert.Equal(t, []interface{}{"%Hall%", "%jansen%", "%jansen%", "%jansen%"}, args)
}

func TestListQueriesKeepValuesOutOfSQL(t *testing.T) {
	hostile := "'); DELETE FROM tags; --"
	where := query.Compile(repository.TagFields, query.Filter{
		Query:  hostile,
		Values: map[string]string{"tag_name": hostile},
	})

	stmt, args, err := tagListQuery(where, repository.Page{Limit: 10})
	require.NoError(t, err)

	assert.NotContains(t, stmt, hostile)
	assert.NotContains(t, stmt, "DELETE")
	assert.Len(t, args, 2)
}

func TestLocationListQuery(t *testing.T) {
	where := query.Compile(repository.LocationFields, query.Filter{Query: "Amster"})

	stmt, args, err := locationListQuery(where, repository.Page{Limit: 10})
	require.NoError(t, err)

	assert.Contains(t, stmt, "WHERE (l.city LIKE $1 OR l.address LIKE $2)")
	assert.Equal(t, []interface{}{"%Amster%", "%Amster%"}, args)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       error
		constraint string
	}{
		{"no rows", sql.ErrNoRows, repository.ErrNotFound, ""},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), repository.ErrNotFound, ""},
		{"unique", &pq.Error{Code: pqUniqueViolation, Constraint: "tags_name_key"}, repository.ErrDuplicate, "tags_name_key"},
		{"tag foreign key", &pq.Error{Code: pqForeignKeyViolation, Constraint: repository.FacilityTagFK},
			repository.ErrForeignKey, repository.FacilityTagFK},
		{"location foreign key", &pq.Error{Code: pqForeignKeyViolation, Constraint: repository.FacilityLocationFK},
			repository.ErrForeignKey, repository.FacilityLocationFK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.constraint, repository.ConstraintOf(err))
		})
	}

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
	assert.NoError(t, mapError(nil))
}

func TestListQueriesRejectNegativeWindow(t *testing.T) {
	all := query.Compile(repository.TagFields, query.Filter{})
	tests := []struct {
		name string
		page repository.Page
	}{
		{"negative offset", repository.Page{Limit: 10, Offset: -10}},
		{"wrapped offset", repository.Page{Limit: 10, Offset: math.MinInt + 5}},
		{"negative limit", repository.Page{Limit: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tagListQuery(all, tt.page)
			assert.Error(t, err)
			_, _, err = facilityListQuery(all, tt.page)
			assert.Error(t, err)
		})
	}
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, dedupe([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, dedupe(nil))
}
