package location

import (
	"context"
	"errors"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	"github.com/SezginYurdakul/catering-api/internal/service"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/messaging"
)

type LocationServicer interface {
	ListLocations(ctx context.Context, filter query.Filter, page query.PageRequest) (*model.Page[*model.Location], error)
	GetLocation(ctx context.Context, id int64) (*model.Location, error)
	CreateLocation(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error)
	UpdateLocation(ctx context.Context, id int64, req *model.UpdateLocationRequest) (*model.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}

type Service struct {
	repo       repository.LocationRepository
	facilities repository.FacilityRepository
	deps       service.Deps
}

func NewService(repo repository.LocationRepository, facilities repository.FacilityRepository, deps service.Deps) *Service {
	return &Service{
		repo:       repo,
		facilities: facilities,
		deps:       deps.WithDefaults(),
	}
}

func (s *Service) ListLocations(ctx context.Context, filter query.Filter, page query.PageRequest) (*model.Page[*model.Location], error) {
	where, pagination, err := service.Window(ctx, repository.LocationFields, filter, page, s.repo.Count)
	if err != nil {
		return nil, err
	}

	locations, err := s.repo.List(ctx, where, repository.PageOf(page))
	if err != nil {
		return nil, service.Storage("list locations", err)
	}

	return &model.Page[*model.Location]{Items: locations, Pagination: pagination}, nil
}

func (s *Service) GetLocation(ctx context.Context, id int64) (*model.Location, error) {
	location, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("location", id)
	}
	if err != nil {
		return nil, service.Storage("get location", err)
	}
	return location, nil
}

func (s *Service) CreateLocation(ctx context.Context, req *model.CreateLocationRequest) (*model.Location, error) {
	location := &model.Location{
		City:        req.City,
		Address:     req.Address,
		ZipCode:     req.ZipCode,
		CountryCode: req.CountryCode,
		PhoneNumber: req.PhoneNumber,
	}

	id, err := s.repo.Create(ctx, location)
	if err != nil {
		return nil, service.Storage("create location", err)
	}
	location.ID = id

	s.deps.Publish(ctx, messaging.LocationCreated, location)
	return location, nil
}

func (s *Service) UpdateLocation(ctx context.Context, id int64, req *model.UpdateLocationRequest) (*model.Location, error) {
	location, err := s.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(location)

	ok, err := s.repo.Update(ctx, location)
	if err != nil {
		return nil, service.Storage("update location", err)
	}
	if !ok {
		return nil, apperrors.NewNotFound("location", id)
	}

	s.deps.Publish(ctx, messaging.LocationUpdated, location)
	return location, nil
}

// DeleteLocation refuses to remove a location that facilities still use.
func (s *Service) DeleteLocation(ctx context.Context, id int64) error {
	used, err := s.facilities.UsesLocation(ctx, id)
	if err != nil {
		return service.Storage("check location usage", err)
	}
	if used {
		return apperrors.NewResourceInUse("location", id, "facilities")
	}

	ok, err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrForeignKey):
		return apperrors.NewResourceInUse("location", id, "facilities")
	case err != nil:
		return service.Storage("delete location", err)
	case !ok:
		return apperrors.NewNotFound("location", id)
	}

	s.deps.Publish(ctx, messaging.LocationDeleted, map[string]int64{"id": id})
	return nil
}
