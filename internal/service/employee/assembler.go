package employee

import (
	"context"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/service"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
	"github.com/SezginYurdakul/catering-api/pkg/metrics"
)

// FacilityLinks resolves the facilities an employee works at.
type FacilityLinks interface {
	FacilityIDs(ctx context.Context, employeeID int64) ([]int64, error)
}

type Assembler struct {
	links   FacilityLinks
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewAssembler(links FacilityLinks, deps service.Deps) *Assembler {
	deps = deps.WithDefaults()
	return &Assembler{links: links, logger: deps.Logger, metrics: deps.Metrics}
}

func (a *Assembler) Assemble(ctx context.Context, row *model.EmployeeRow) (*model.Employee, error) {
	ids, err := a.links.FacilityIDs(ctx, row.ID)
	if err != nil {
		return nil, service.Storage("list employee facilities", err)
	}
	if ids == nil {
		ids = []int64{}
	}

	return &model.Employee{
		ID:          row.ID,
		Name:        row.Name,
		Address:     row.Address,
		Phone:       row.Phone,
		Email:       row.Email,
		CreatedAt:   row.CreatedAt,
		FacilityIDs: ids,
	}, nil
}

// AssembleList drops and logs rows whose facility links cannot be read.
func (a *Assembler) AssembleList(ctx context.Context, rows []*model.EmployeeRow) []*model.Employee {
	employees := make([]*model.Employee, 0, len(rows))
	for _, row := range rows {
		e, err := a.Assemble(ctx, row)
		if err != nil {
			a.metrics.RowsSkipped.WithLabelValues("employee").Inc()
			a.logger.Error(err, "skipping employee row", "employee_id", row.ID)
			continue
		}
		employees = append(employees, e)
	}
	return employees
}
