package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
)

var locationColumns = []string{"l.id", "l.city", "l.address", "l.zip_code", "l.country_code", "l.phone_number"}

type locationRepository struct {
	BaseRepository
}

func NewLocationRepository(base BaseRepository) repository.LocationRepository {
	return &locationRepository{base}
}

func locationListQuery(where query.Predicate, page repository.Page) (string, []interface{}, error) {
	b, err := withPredicate(psql.Select(locationColumns...).From("locations l"), where)
	if err != nil {
		return "", nil, err
	}
	b, err = withPage(b.OrderBy("l.id"), page)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func (r *locationRepository) List(ctx context.Context, where query.Predicate, page repository.Page) ([]*model.Location, error) {
	stmt, args, err := locationListQuery(where, page)
	if err != nil {
		return nil, err
	}
	var locations []*model.Location
	if err := r.db.SelectContext(ctx, &locations, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

func (r *locationRepository) Count(ctx context.Context, where query.Predicate) (int, error) {
	b, err := withPredicate(psql.Select("COUNT(*)").From("locations l"), where)
	if err != nil {
		return 0, err
	}
	n, err := r.count(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("failed to count locations: %w", err)
	}
	return n, nil
}

func (r *locationRepository) Get(ctx context.Context, id int64) (*model.Location, error) {
	stmt, args, err := psql.Select(locationColumns...).From("locations l").Where(sq.Eq{"l.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var location model.Location
	if err := r.db.GetContext(ctx, &location, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to get location: %w", mapError(err))
	}
	return &location, nil
}

func (r *locationRepository) Create(ctx context.Context, location *model.Location) (int64, error) {
	id, err := insertReturningID(ctx, r.db, psql.Insert("locations").
		Columns("city", "address", "zip_code", "country_code", "phone_number").
		Values(location.City, location.Address, location.ZipCode, location.CountryCode, location.PhoneNumber))
	if err != nil {
		return 0, fmt.Errorf("failed to create location: %w", err)
	}
	return id, nil
}

func (r *locationRepository) Update(ctx context.Context, location *model.Location) (bool, error) {
	ok, err := execAffected(ctx, r.db, psql.Update("locations").
		Set("city", location.City).
		Set("address", location.Address).
		Set("zip_code", location.ZipCode).
		Set("country_code", location.CountryCode).
		Set("phone_number", location.PhoneNumber).
		Where(sq.Eq{"id": location.ID}))
	if err != nil {
		return false, fmt.Errorf("failed to update location: %w", err)
	}
	return ok, nil
}

func (r *locationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execAffected(ctx, r.db, psql.Delete("locations").Where(sq.Eq{"id": id}))
	if err != nil {
		return false, fmt.Errorf("failed to delete location: %w", err)
	}
	return ok, nil
}
