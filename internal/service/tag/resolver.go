package tag

import (
	"context"
	"errors"
	"strings"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	"github.com/SezginYurdakul/catering-api/internal/service"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
	"github.com/SezginYurdakul/catering-api/pkg/metrics"
)

var errSkip = errors.New("tag reference skipped")

// Resolver turns smart tag references into tag ids.
type Resolver struct {
	repo    repository.TagRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewResolver(repo repository.TagRepository, deps service.Deps) *Resolver {
	deps = deps.WithDefaults()
	return &Resolver{repo: repo, logger: deps.Logger, metrics: deps.Metrics}
}

// Resolve maps every reference to a tag id. Ids pass through unchecked; the
// foreign key catches unknown ones at write time. Names are matched
// case-insensitively and created when unknown. A reference that cannot be
// resolved is logged and skipped; a storage failure aborts the batch.
// The result holds each id once, in first-seen order.
func (r *Resolver) Resolve(ctx context.Context, refs []model.TagRef) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	seen := make(map[int64]bool, len(refs))
	byName := make(map[string]int64)

	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, ref := range refs {
		if ref.IsID() {
			add(ref.ID)
			continue
		}

		name := strings.TrimSpace(ref.Name)
		if name == "" {
			r.skip(ref, errors.New("empty tag name"))
			continue
		}

		key := strings.ToLower(name)
		if id, ok := byName[key]; ok {
			add(id)
			continue
		}

		id, err := r.resolveName(ctx, name)
		if errors.Is(err, errSkip) {
			r.skip(ref, err)
			continue
		}
		if err != nil {
			return nil, err
		}

		byName[key] = id
		add(id)
	}

	return ids, nil
}

func (r *Resolver) resolveName(ctx context.Context, name string) (int64, error) {
	tag, err := r.repo.FindByName(ctx, name)
	if err == nil {
		return tag.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, service.Storage("look up tag", err)
	}

	id, err := r.repo.Create(ctx, name)
	if err == nil {
		r.metrics.TagsCreated.Inc()
		r.logger.Info("tag created", "tag_id", id, "name", name)
		return id, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return 0, service.Storage("create tag", err)
	}

	// Another request created the same name first.
	tag, err = r.repo.FindByName(ctx, name)
	switch {
	case err == nil:
		return tag.ID, nil
	case errors.Is(err, repository.ErrNotFound):
		return 0, errSkip
	default:
		return 0, service.Storage("look up tag", err)
	}
}

func (r *Resolver) skip(ref model.TagRef, err error) {
	r.metrics.TagsSkipped.Inc()
	r.logger.Warn("skipping unresolvable tag", "tag", ref.String(), "error", err.Error())
}
