package facility

import (
	"context"
	"errors"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	"github.com/SezginYurdakul/catering-api/internal/service"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
	"github.com/SezginYurdakul/catering-api/pkg/metrics"
)

type LocationLookup interface {
	Get(ctx context.Context, id int64) (*model.Location, error)
}

type TagLookup interface {
	ListByFacility(ctx context.Context, facilityID int64) ([]*model.Tag, error)
}

// Assembler hydrates facility rows with their location and tags.
type Assembler struct {
	locations LocationLookup
	tags      TagLookup
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewAssembler(locations LocationLookup, tags TagLookup, deps service.Deps) *Assembler {
	deps = deps.WithDefaults()
	return &Assembler{
		locations: locations,
		tags:      tags,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
	}
}

// Assemble builds one facility. Any failure is returned.
func (a *Assembler) Assemble(ctx context.Context, row *model.FacilityRow) (*model.Facility, error) {
	location, err := a.locations.Get(ctx, row.LocationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("location", row.LocationID)
	}
	if err != nil {
		return nil, service.Storage("get facility location", err)
	}

	tags, err := a.tags.ListByFacility(ctx, row.ID)
	if err != nil {
		return nil, service.Storage("list facility tags", err)
	}
	if tags == nil {
		tags = []*model.Tag{}
	}

	return &model.Facility{
		ID:           row.ID,
		Name:         row.Name,
		Location:     location,
		CreationDate: row.CreationDate,
		Tags:         tags,
	}, nil
}

// AssembleList builds every row it can. Rows that fail are logged and left
// out so one broken row does not fail the page.
func (a *Assembler) AssembleList(ctx context.Context, rows []*model.FacilityRow) []*model.Facility {
	facilities := make([]*model.Facility, 0, len(rows))
	for _, row := range rows {
		f, err := a.Assemble(ctx, row)
		if err != nil {
			a.metrics.RowsSkipped.WithLabelValues("facility").Inc()
			a.logger.Error(err, "skipping facility row", "facility_id", row.ID, "location_id", row.LocationID)
			continue
		}
		facilities = append(facilities, f)
	}
	return facilities
}
