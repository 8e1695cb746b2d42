package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository/repotest"
	"github.com/SezginYurdakul/catering-api/internal/service"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

func newEmployeeService() (*Service, *repotest.Employees) {
	employees := repotest.NewEmployees(
		model.EmployeeRow{ID: 1, Name: "Anna de Vries", Email: "anna@example.com", Phone: "+31 6 1234 5678", Address: "Keizersgracht 1"},
		model.EmployeeRow{ID: 2, Name: "Bram Jansen", Email: "bram@example.com", Phone: "+31 6 8765 4321", Address: "Witte de Withstraat 9"},
		model.EmployeeRow{ID: 3, Name: "Carla Smit", Email: "carla@example.com", Phone: "+31 6 5555 5555", Address: "Lange Voorhout 3"},
	)
	employees.Assign(1, 10, 11)
	facilities := repotest.NewFacilities(repotest.NewTags(),
		model.FacilityRow{ID: 10, Name: "Hall", LocationID: 1},
		model.FacilityRow{ID: 11, Name: "Loft", LocationID: 1},
	)
	svc := NewService(employees, facilities, service.Deps{})
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc, employees
}

func TestListEmployees(t *testing.T) {
	svc, repo := newEmployeeService()

	page, err := svc.ListEmployees(context.Background(),
		query.Filter{Query: "jansen", Values: map[string]string{"facility_name": "Hall"}, Operator: query.Or},
		query.PageRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)

	assert.Equal(t, "f.name LIKE :facility_name OR (e.name LIKE :query OR e.email LIKE :query OR e.address LIKE :query)", repo.LastWhere.Clause)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, []int64{10, 11}, page.Items[0].FacilityIDs)
	assert.Equal(t, []int64{}, page.Items[1].FacilityIDs)
}

func TestListEmployeesSkipsBrokenRows(t *testing.T) {
	svc, repo := newEmployeeService()
	repo.Fail = func(op string, id int64) error {
		if op == "FacilityIDs" && id == 2 {
			return errors.New("join failed")
		}
		return nil
	}

	page, err := svc.ListEmployees(context.Background(), query.Filter{}, query.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(1), page.Items[0].ID)
	assert.Equal(t, int64(3), page.Items[1].ID)
	assert.Equal(t, 3, page.Pagination.TotalItems)

	_, err = svc.GetEmployee(context.Background(), 2)
	assert.Equal(t, apperrors.ErrInternal, apperrors.CodeOf(err))
}

func TestCreateEmployee(t *testing.T) {
	svc, _ := newEmployeeService()
	ctx := context.Background()

	e, err := svc.CreateEmployee(ctx, &model.CreateEmployeeRequest{
		Name: "Dirk Bakker", Address: "Markt 2", Phone: "+31 6 0000 0000", Email: "dirk@example.com",
		FacilityIDs: []int64{11},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), e.ID)
	assert.Equal(t, []int64{11}, e.FacilityIDs)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), e.CreatedAt)

	_, err = svc.CreateEmployee(ctx, &model.CreateEmployeeRequest{
		Name: "Eva", Address: "Plein 1", Phone: "+31 6 1111 1111", Email: "ANNA@example.com",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Equal(t, "email", appErr.Fields[0].Field)

	_, err = svc.CreateEmployee(ctx, &model.CreateEmployeeRequest{
		Name: "Frank", Address: "Plein 2", Phone: "+31 6 2222 2222", Email: "frank@example.com",
		FacilityIDs: []int64{10, 99},
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateEmployee(t *testing.T) {
	svc, _ := newEmployeeService()
	ctx := context.Background()

	phone := "+31 6 9999 9999"
	e, err := svc.UpdateEmployee(ctx, 1, &model.UpdateEmployeeRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, e.Phone)
	assert.Equal(t, []int64{10, 11}, e.FacilityIDs, "assignments are kept when facility_ids is absent")

	e, err = svc.UpdateEmployee(ctx, 1, &model.UpdateEmployeeRequest{FacilityIDs: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, e.FacilityIDs)

	_, err = svc.UpdateEmployee(ctx, 1, &model.UpdateEmployeeRequest{FacilityIDs: []int64{42}})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.UpdateEmployee(ctx, 77, &model.UpdateEmployeeRequest{Phone: &phone})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteEmployee(t *testing.T) {
	svc, _ := newEmployeeService()
	ctx := context.Background()

	require.NoError(t, svc.DeleteEmployee(ctx, 3))
	assert.True(t, apperrors.IsNotFound(svc.DeleteEmployee(ctx, 3)))
}
