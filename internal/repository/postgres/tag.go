package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
)

type tagRepository struct {
	BaseRepository
}

func NewTagRepository(base BaseRepository) repository.TagRepository {
	return &tagRepository{base}
}

func tagListQuery(where query.Predicate, page repository.Page) (string, []interface{}, error) {
	b, err := withPredicate(psql.Select("t.id", "t.name").From("tags t"), where)
	if err != nil {
		return "", nil, err
	}
	b, err = withPage(b.OrderBy("t.id"), page)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func (r *tagRepository) List(ctx context.Context, where query.Predicate, page repository.Page) ([]*model.Tag, error) {
	stmt, args, err := tagListQuery(where, page)
	if err != nil {
		return nil, err
	}
	var tags []*model.Tag
	if err := r.db.SelectContext(ctx, &tags, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) Count(ctx context.Context, where query.Predicate) (int, error) {
	b, err := withPredicate(psql.Select("COUNT(*)").From("tags t"), where)
	if err != nil {
		return 0, err
	}
	n, err := r.count(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return n, nil
}

func (r *tagRepository) Get(ctx context.Context, id int64) (*model.Tag, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *tagRepository) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	return r.getOne(ctx, sq.Expr("LOWER(name) = LOWER(?)", strings.TrimSpace(name)))
}

func (r *tagRepository) getOne(ctx context.Context, pred sq.Sqlizer) (*model.Tag, error) {
	stmt, args, err := psql.Select("id", "name").From("tags").Where(pred).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	var tag model.Tag
	if err := r.db.GetContext(ctx, &tag, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", mapError(err))
	}
	return &tag, nil
}

func (r *tagRepository) ListByFacility(ctx context.Context, facilityID int64) ([]*model.Tag, error) {
	stmt, args, err := psql.Select("t.id", "t.name").
		From("tags t").
		Join("facility_tags ft ON ft.tag_id = t.id").
		Where(sq.Eq{"ft.facility_id": facilityID}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return nil, err
	}
	tags := []*model.Tag{}
	if err := r.db.SelectContext(ctx, &tags, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to list facility tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) Create(ctx context.Context, name string) (int64, error) {
	id, err := insertReturningID(ctx, r.db, psql.Insert("tags").Columns("name").Values(name))
	if err != nil {
		return 0, fmt.Errorf("failed to create tag: %w", err)
	}
	return id, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *model.Tag) (bool, error) {
	ok, err := execAffected(ctx, r.db, psql.Update("tags").Set("name", tag.Name).Where(sq.Eq{"id": tag.ID}))
	if err != nil {
		return false, fmt.Errorf("failed to update tag: %w", err)
	}
	return ok, nil
}

func (r *tagRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := execAffected(ctx, r.db, psql.Delete("tags").Where(sq.Eq{"id": id}))
	if err != nil {
		return false, fmt.Errorf("failed to delete tag: %w", err)
	}
	return ok, nil
}

func (r *tagRepository) InUse(ctx context.Context, id int64) (bool, error) {
	used, err := r.exists(ctx, psql.Select("1").From("facility_tags").Where(sq.Eq{"tag_id": id}))
	if err != nil {
		return false, fmt.Errorf("failed to check tag usage: %w", err)
	}
	return used, nil
}
