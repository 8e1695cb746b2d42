package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
)

type employeeRepository struct {
	BaseRepository
}

func NewEmployeeRepository(base BaseRepository) repository.EmployeeRepository {
	return &employeeRepository{base}
}

// employeeSelect left-joins through the assignments so employees without a
// facility still match filters on their own columns.
func employeeSelect(columns ...string) sq.SelectBuilder {
	return psql.Select(columns...).
		From("employees e").
		LeftJoin("employee_facilities ef ON ef.employee_id = e.id").
		LeftJoin("facilities f ON f.id = ef.facility_id").
		LeftJoin("locations l ON l.id = f.location_id")
}

func employeeListQuery(where query.Predicate, page repository.Page) (string, []interface{}, error) {
	b, err := withPredicate(
		employeeSelect("e.id", "e.name", "e.address", "e.phone", "e.email", "e.created_at").Distinct(),
		where,
	)
	if err != nil {
		return "", nil, err
	}
	b, err = withPage(b.OrderBy("e.id"), page)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func (r *employeeRepository) List(ctx context.Context, where query.Predicate, page repository.Page) ([]*model.EmployeeRow, error) {
	stmt, args, err := employeeListQuery(where, page)
	if err != nil {
		return nil, err
	}
	var rows []*model.EmployeeRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return rows, nil
}

func (r *employeeRepository) Count(ctx context.Context, where query.Predicate) (int, error) {
	b, err := withPredicate(employeeSelect("COUNT(DISTINCT e.id)"), where)
	if err != nil {
		return 0, err
	}
	n, err := r.count(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}

func (r *employeeRepository) Get(ctx context.Context, id int64) (*model.EmployeeRow, error) {
	stmt, args, err := psql.Select("id", "name", "address", "phone", "email", "created_at").
		From("employees").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var row model.EmployeeRow
	if err := r.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", mapError(err))
	}
	return &row, nil
}

func (r *employeeRepository) FacilityIDs(ctx context.Context, employeeID int64) ([]int64, error) {
	stmt, args, err := psql.Select("facility_id").
		From("employee_facilities").
		Where(sq.Eq{"employee_id": employeeID}).
		OrderBy("facility_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list employee facilities: %w", err)
	}
	return ids, nil
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.EmployeeRow, facilityIDs []int64) (int64, error) {
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now().UTC()
	}

	var id int64
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = insertReturningID(ctx, tx, psql.Insert("employees").
			Columns("name", "address", "phone", "email", "created_at").
			Values(employee.Name, employee.Address, employee.Phone, employee.Email, employee.CreatedAt))
		if err != nil {
			return err
		}
		return linkFacilities(ctx, tx, id, facilityIDs)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}

	employee.ID = id
	return id, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.EmployeeRow, facilityIDs []int64) (bool, error) {
	var ok bool
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		ok, err = execAffected(ctx, tx, psql.Update("employees").
			Set("name", employee.Name).
			Set("address", employee.Address).
			Set("phone", employee.Phone).
			Set("email", employee.Email).
			Where(sq.Eq{"id": employee.ID}))
		if err != nil || !ok || facilityIDs == nil {
			return err
		}
		if _, err := execAffected(ctx, tx, psql.Delete("employee_facilities").Where(sq.Eq{"employee_id": employee.ID})); err != nil {
			return err
		}
		return linkFacilities(ctx, tx, employee.ID, facilityIDs)
	})
	if err != nil {
		return false, fmt.Errorf("failed to update employee: %w", err)
	}
	return ok, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execAffected(ctx, r.db, psql.Delete("employees").Where(sq.Eq{"id": id}))
	if err != nil {
		return false, fmt.Errorf("failed to delete employee: %w", err)
	}
	return ok, nil
}

func linkFacilities(ctx context.Context, tx *sqlx.Tx, employeeID int64, facilityIDs []int64) error {
	facilityIDs = dedupe(facilityIDs)
	if len(facilityIDs) == 0 {
		return nil
	}
	b := psql.Insert("employee_facilities").Columns("employee_id", "facility_id")
	for _, facilityID := range facilityIDs {
		b = b.Values(employeeID, facilityID)
	}
	_, err := execAffected(ctx, tx, b)
	return err
}
