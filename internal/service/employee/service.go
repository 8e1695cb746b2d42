package employee

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	"github.com/SezginYurdakul/catering-api/internal/service"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/messaging"
)

type EmployeeServicer interface {
	ListEmployees(ctx context.Context, filter query.Filter, page query.PageRequest) (*model.Page[*model.Employee], error)
	GetEmployee(ctx context.Context, id int64) (*model.Employee, error)
	CreateEmployee(ctx context.Context, req *model.CreateEmployeeRequest) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, req *model.UpdateEmployeeRequest) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type Service struct {
	repo       repository.EmployeeRepository
	facilities repository.FacilityRepository
	assembler  *Assembler
	deps       service.Deps
	now        func() time.Time
}

func NewService(repo repository.EmployeeRepository, facilities repository.FacilityRepository, deps service.Deps) *Service {
	deps = deps.WithDefaults()
	return &Service{
		repo:       repo,
		facilities: facilities,
		assembler:  NewAssembler(repo, deps),
		deps:       deps,
		now:        time.Now,
	}
}

func (s *Service) ListEmployees(ctx context.Context, filter query.Filter, page query.PageRequest) (*model.Page[*model.Employee], error) {
	where, pagination, err := service.Window(ctx, repository.EmployeeFields, filter, page, s.repo.Count)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, where, repository.PageOf(page))
	if err != nil {
		return nil, service.Storage("list employees", err)
	}

	return &model.Page[*model.Employee]{
		Items:      s.assembler.AssembleList(ctx, rows),
		Pagination: pagination,
	}, nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, row)
}

func (s *Service) CreateEmployee(ctx context.Context, req *model.CreateEmployeeRequest) (*model.Employee, error) {
	if err := s.checkFacilities(ctx, req.FacilityIDs); err != nil {
		return nil, err
	}

	row := &model.EmployeeRow{
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: s.now().UTC(),
	}

	id, err := s.repo.Create(ctx, row, req.FacilityIDs)
	if err != nil {
		return nil, writeError("create employee", err)
	}

	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	s.deps.Publish(ctx, messaging.EmployeeCreated, employee)
	return employee, nil
}

// UpdateEmployee applies a partial update. Facility assignments change only
// when facility_ids is present.
func (s *Service) UpdateEmployee(ctx context.Context, id int64, req *model.UpdateEmployeeRequest) (*model.Employee, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkFacilities(ctx, req.FacilityIDs); err != nil {
		return nil, err
	}

	req.Apply(row)

	ok, err := s.repo.Update(ctx, row, req.FacilityIDs)
	if err != nil {
		return nil, writeError("update employee", err)
	}
	if !ok {
		return nil, apperrors.NewNotFound("employee", id)
	}

	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	s.deps.Publish(ctx, messaging.EmployeeUpdated, employee)
	return employee, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return service.Storage("delete employee", err)
	}
	if !ok {
		return apperrors.NewNotFound("employee", id)
	}

	s.deps.Publish(ctx, messaging.EmployeeDeleted, map[string]int64{"id": id})
	return nil
}

func (s *Service) getRow(ctx context.Context, id int64) (*model.EmployeeRow, error) {
	row, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("employee", id)
	}
	if err != nil {
		return nil, service.Storage("get employee", err)
	}
	return row, nil
}

func (s *Service) checkFacilities(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		ok, err := s.facilities.Exists(ctx, id)
		if err != nil {
			return service.Storage("check facility", err)
		}
		if !ok {
			return apperrors.NewNotFound("facility", id)
		}
	}
	return nil
}

func writeError(action string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.InvalidField("email", "is already in use")
	case errors.Is(err, repository.ErrForeignKey):
		return &apperrors.AppError{Code: apperrors.ErrNotFound, Message: "one or more facilities not found"}
	default:
		return service.Storage(action, err)
	}
}
