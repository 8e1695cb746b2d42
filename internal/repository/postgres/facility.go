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

type facilityRepository struct {
	BaseRepository
}

func NewFacilityRepository(base BaseRepository) repository.FacilityRepository {
	return &facilityRepository{base}
}

// facilitySelect joins everything the facility field map can reference.
// The tag join fans rows out, hence DISTINCT.
func facilitySelect(columns ...string) sq.SelectBuilder {
	return psql.Select(columns...).
		From("facilities f").
		Join("locations l ON l.id = f.location_id").
		LeftJoin("facility_tags ft ON ft.facility_id = f.id").
		LeftJoin("tags t ON t.id = ft.tag_id")
}

func facilityListQuery(where query.Predicate, page repository.Page) (string, []interface{}, error) {
	b, err := withPredicate(
		facilitySelect("f.id", "f.name", "f.location_id", "f.creation_date").Distinct(),
		where,
	)
	if err != nil {
		return "", nil, err
	}
	b, err = withPage(b.OrderBy("f.id"), page)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func facilityCountQuery(where query.Predicate) (sq.SelectBuilder, error) {
	return withPredicate(facilitySelect("COUNT(DISTINCT f.id)"), where)
}

func (r *facilityRepository) List(ctx context.Context, where query.Predicate, page repository.Page) ([]*model.FacilityRow, error) {
	stmt, args, err := facilityListQuery(where, page)
	if err != nil {
		return nil, err
	}
	var rows []*model.FacilityRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	return rows, nil
}

func (r *facilityRepository) Count(ctx context.Context, where query.Predicate) (int, error) {
	b, err := facilityCountQuery(where)
	if err != nil {
		return 0, err
	}
	n, err := r.count(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("failed to count facilities: %w", err)
	}
	return n, nil
}

func (r *facilityRepository) Get(ctx context.Context, id int64) (*model.FacilityRow, error) {
	stmt, args, err := psql.Select("id", "name", "location_id", "creation_date").
		From("facilities").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var row model.FacilityRow
	if err := r.db.GetContext(ctx, &row, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to get facility: %w", mapError(err))
	}
	return &row, nil
}

func (r *facilityRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.exists(ctx, psql.Select("1").From("facilities").Where(sq.Eq{"id": id}))
	if err != nil {
		return false, fmt.Errorf("failed to check facility: %w", err)
	}
	return ok, nil
}

func (r *facilityRepository) Create(ctx context.Context, facility *model.FacilityRow, tagIDs []int64) (int64, error) {
	if facility.CreationDate.IsZero() {
		facility.CreationDate = time.Now().UTC()
	}

	var id int64
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = insertReturningID(ctx, tx, psql.Insert("facilities").
			Columns("name", "location_id", "creation_date").
			Values(facility.Name, facility.LocationID, facility.CreationDate))
		if err != nil {
			return err
		}
		return linkTags(ctx, tx, id, tagIDs)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create facility: %w", err)
	}

	facility.ID = id
	return id, nil
}

func (r *facilityRepository) Update(ctx context.Context, facility *model.FacilityRow, tagIDs []int64) (bool, error) {
	var ok bool
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		ok, err = execAffected(ctx, tx, psql.Update("facilities").
			Set("name", facility.Name).
			Set("location_id", facility.LocationID).
			Where(sq.Eq{"id": facility.ID}))
		if err != nil || !ok || tagIDs == nil {
			return err
		}
		if _, err := execAffected(ctx, tx, psql.Delete("facility_tags").Where(sq.Eq{"facility_id": facility.ID})); err != nil {
			return err
		}
		return linkTags(ctx, tx, facility.ID, tagIDs)
	})
	if err != nil {
		return false, fmt.Errorf("failed to update facility: %w", err)
	}
	return ok, nil
}

func (r *facilityRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execAffected(ctx, r.db, psql.Delete("facilities").Where(sq.Eq{"id": id}))
	if err != nil {
		return false, fmt.Errorf("failed to delete facility: %w", err)
	}
	return ok, nil
}

func (r *facilityRepository) UsesLocation(ctx context.Context, locationID int64) (bool, error) {
	used, err := r.exists(ctx, psql.Select("1").From("facilities").Where(sq.Eq{"location_id": locationID}))
	if err != nil {
		return false, fmt.Errorf("failed to check location usage: %w", err)
	}
	return used, nil
}

func linkTags(ctx context.Context, tx *sqlx.Tx, facilityID int64, tagIDs []int64) error {
	tagIDs = dedupe(tagIDs)
	if len(tagIDs) == 0 {
		return nil
	}
	b := psql.Insert("facility_tags").Columns("facility_id", "tag_id")
	for _, tagID := range tagIDs {
		b = b.Values(facilityID, tagID)
	}
	_, err := execAffected(ctx, tx, b)
	return err
}
