package tag

import (
	"context"
	"errors"
	"strings"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/query"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	"github.com/SezginYurdakul/catering-api/internal/service"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/messaging"
)

type TagServicer interface {
	ListTags(ctx context.Context, filter query.Filter, page query.PageRequest) (*model.Page[*model.Tag], error)
	GetTag(ctx context.Context, id int64) (*model.Tag, error)
	CreateTag(ctx context.Context, req *model.TagRequest) (*model.Tag, error)
	UpdateTag(ctx context.Context, id int64, req *model.TagRequest) (*model.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
	ResolveTags(ctx context.Context, refs []model.TagRef) ([]int64, error)
}

type Service struct {
	repo     repository.TagRepository
	resolver *Resolver
	deps     service.Deps
}

func NewService(repo repository.TagRepository, deps service.Deps) *Service {
	deps = deps.WithDefaults()
	return &Service{
		repo:     repo,
		resolver: NewResolver(repo, deps),
		deps:     deps,
	}
}

func (s *Service) ListTags(ctx context.Context, filter query.Filter, page query.PageRequest) (*model.Page[*model.Tag], error) {
	where, pagination, err := service.Window(ctx, repository.TagFields, filter, page, s.repo.Count)
	if err != nil {
		return nil, err
	}

	tags, err := s.repo.List(ctx, where, repository.PageOf(page))
	if err != nil {
		return nil, service.Storage("list tags", err)
	}

	return &model.Page[*model.Tag]{Items: tags, Pagination: pagination}, nil
}

func (s *Service) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	tag, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("tag", id)
	}
	if err != nil {
		return nil, service.Storage("get tag", err)
	}
	return tag, nil
}

func (s *Service) CreateTag(ctx context.Context, req *model.TagRequest) (*model.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.checkNameUnique(ctx, name, 0); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, name)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, duplicateName(name)
	}
	if err != nil {
		return nil, service.Storage("create tag", err)
	}

	tag := &model.Tag{ID: id, Name: name}
	s.deps.Publish(ctx, messaging.TagCreated, tag)
	return tag, nil
}

func (s *Service) UpdateTag(ctx context.Context, id int64, req *model.TagRequest) (*model.Tag, error) {
	tag, err := s.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkNameUnique(ctx, name, id); err != nil {
		return nil, err
	}
	tag.Name = name

	ok, err := s.repo.Update(ctx, tag)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, duplicateName(name)
	case err != nil:
		return nil, service.Storage("update tag", err)
	case !ok:
		return nil, apperrors.NewNotFound("tag", id)
	}

	s.deps.Publish(ctx, messaging.TagUpdated, tag)
	return tag, nil
}

// DeleteTag refuses to remove a tag that is attached to facilities.
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	used, err := s.repo.InUse(ctx, id)
	if err != nil {
		return service.Storage("check tag usage", err)
	}
	if used {
		return apperrors.NewResourceInUse("tag", id, "facilities")
	}

	ok, err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrForeignKey):
		return apperrors.NewResourceInUse("tag", id, "facilities")
	case err != nil:
		return service.Storage("delete tag", err)
	case !ok:
		return apperrors.NewNotFound("tag", id)
	}

	s.deps.Publish(ctx, messaging.TagDeleted, map[string]int64{"id": id})
	return nil
}

func (s *Service) ResolveTags(ctx context.Context, refs []model.TagRef) ([]int64, error) {
	return s.resolver.Resolve(ctx, refs)
}

// checkNameUnique fails when another tag (other than self) already has the
// name, ignoring case.
func (s *Service) checkNameUnique(ctx context.Context, name string, self int64) error {
	if name == "" {
		return apperrors.InvalidField("name", "is required")
	}
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return service.Storage("look up tag", err)
	case existing.ID != self:
		return duplicateName(name)
	}
	return nil
}

func duplicateName(name string) error {
	return apperrors.InvalidField("name", "tag '"+name+"' already exists")
}
