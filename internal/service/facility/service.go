package facility

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/SezginYurdakul/catering-api/internal/export"
	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	"github.com/SezginYurdakul/catering-api/internal/service"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/messaging"
)

type FacilityServicer interface {
	ListFacilities(ctx context.Context, filter query.Filter, page query.PageRequest) (*model.Page[*model.Facility], error)
	GetFacility(ctx context.Context, id int64) (*model.Facility, error)
	CreateFacility(ctx context.Context, req *model.CreateFacilityRequest) (*model.Facility, error)
	UpdateFacility(ctx context.Context, id int64, req *model.UpdateFacilityRequest) (*model.Facility, error)
	DeleteFacility(ctx context.Context, id int64) error
	ExportFacilities(ctx context.Context, filter query.Filter, format export.Format, w io.Writer) error
}

// TagResolver turns smart tag references into tag ids.
type TagResolver interface {
	ResolveTags(ctx context.Context, refs []model.TagRef) ([]int64, error)
}

type Service struct {
	repo      repository.FacilityRepository
	locations repository.LocationRepository
	tags      TagResolver
	assembler *Assembler
	deps      service.Deps
	now       func() time.Time
}

func NewService(
	repo repository.FacilityRepository,
	locations repository.LocationRepository,
	tagRepo repository.TagRepository,
	tags TagResolver,
	deps service.Deps,
) *Service {
	deps = deps.WithDefaults()
	return &Service{
		repo:      repo,
		locations: locations,
		tags:      tags,
		assembler: NewAssembler(locations, tagRepo, deps),
		deps:      deps,
		now:       time.Now,
	}
}

func (s *Service) ListFacilities(ctx context.Context, filter query.Filter, page query.PageRequest) (*model.Page[*model.Facility], error) {
	where, pagination, err := service.Window(ctx, repository.FacilityFields, filter, page, s.repo.Count)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, where, repository.PageOf(page))
	if err != nil {
		return nil, service.Storage("list facilities", err)
	}

	return &model.Page[*model.Facility]{
		Items:      s.assembler.AssembleList(ctx, rows),
		Pagination: pagination,
	}, nil
}

func (s *Service) GetFacility(ctx context.Context, id int64) (*model.Facility, error) {
	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, row)
}

func (s *Service) CreateFacility(ctx context.Context, req *model.CreateFacilityRequest) (*model.Facility, error) {
	if req.Mixed() {
		return nil, mixedTagInput()
	}
	if err := s.checkLocation(ctx, req.LocationID); err != nil {
		return nil, err
	}

	tagIDs, err := s.tags.ResolveTags(ctx, req.Refs())
	if err != nil {
		return nil, err
	}

	row := &model.FacilityRow{
		Name:         strings.TrimSpace(req.Name),
		LocationID:   req.LocationID,
		CreationDate: s.now().UTC(),
	}

	id, err := s.repo.Create(ctx, row, tagIDs)
	if err != nil {
		return nil, writeError("create facility", err, row, tagIDs)
	}

	facility, err := s.GetFacility(ctx, id)
	if err != nil {
		return nil, err
	}

	s.deps.Publish(ctx, messaging.FacilityCreated, facility)
	return facility, nil
}

// UpdateFacility applies a partial update. Tag links are replaced only when
// the request carries a tag field; an empty list clears them.
func (s *Service) UpdateFacility(ctx context.Context, id int64, req *model.UpdateFacilityRequest) (*model.Facility, error) {
	if req.Mixed() {
		return nil, mixedTagInput()
	}

	row, err := s.getRow(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		row.Name = strings.TrimSpace(*req.Name)
	}
	if req.LocationID != nil {
		if err := s.checkLocation(ctx, *req.LocationID); err != nil {
			return nil, err
		}
		row.LocationID = *req.LocationID
	}

	var tagIDs []int64
	if req.Present() {
		resolved, err := s.tags.ResolveTags(ctx, req.Refs())
		if err != nil {
			return nil, err
		}
		tagIDs = append([]int64{}, resolved...)
	}

	ok, err := s.repo.Update(ctx, row, tagIDs)
	switch {
	case err != nil:
		return nil, writeError("update facility", err, row, tagIDs)
	case !ok:
		return nil, apperrors.NewNotFound("facility", id)
	}

	facility, err := s.GetFacility(ctx, id)
	if err != nil {
		return nil, err
	}

	s.deps.Publish(ctx, messaging.FacilityUpdated, facility)
	return facility, nil
}

// DeleteFacility removes the facility; its tag and employee links cascade.
func (s *Service) DeleteFacility(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return service.Storage("delete facility", err)
	}
	if !ok {
		return apperrors.NewNotFound("facility", id)
	}

	s.deps.Publish(ctx, messaging.FacilityDeleted, map[string]int64{"id": id})
	return nil
}

// ExportFacilities writes every facility matching the filter, unpaginated.
func (s *Service) ExportFacilities(ctx context.Context, filter query.Filter, format export.Format, w io.Writer) error {
	if err := filter.Validate(repository.FacilityFields); err != nil {
		return err
	}

	rows, err := s.repo.List(ctx, query.Compile(repository.FacilityFields, filter), repository.Page{})
	if err != nil {
		return service.Storage("list facilities", err)
	}

	if err := export.Facilities(w, format, s.assembler.AssembleList(ctx, rows)); err != nil {
		return service.Storage("export facilities", err)
	}
	return nil
}

func (s *Service) getRow(ctx context.Context, id int64) (*model.FacilityRow, error) {
	row, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("facility", id)
	}
	if err != nil {
		return nil, service.Storage("get facility", err)
	}
	return row, nil
}

func (s *Service) checkLocation(ctx context.Context, id int64) error {
	_, err := s.locations.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("location", id)
	}
	if err != nil {
		return service.Storage("get location", err)
	}
	return nil
}

// writeError maps a failed facility write. A foreign key violation means the
// location or a tag was deleted after it was checked.
func writeError(action string, err error, row *model.FacilityRow, tagIDs []int64) error {
	if !errors.Is(err, repository.ErrForeignKey) {
		return service.Storage(action, err)
	}
	switch {
	case repository.ConstraintOf(err) == repository.FacilityLocationFK:
		return apperrors.NewNotFound("location", row.LocationID)
	case len(tagIDs) > 0:
		return tagsNotFound(tagIDs)
	}
	return service.Storage(action, err)
}

func mixedTagInput() error {
	return apperrors.InvalidField("tags", "send either tags or tagIds/tagNames, not both")
}

func tagsNotFound(ids []int64) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return apperrors.NewNotFound("tag", strings.Join(parts, ", "))
}
