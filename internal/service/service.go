// Package service holds what the entity services share: ambient
// collaborators, event publishing and the list preamble.
package service

import (
	"context"
	"fmt"

	"github.com/SezginYurdakul/catering-api/internal/query"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
	"github.com/SezginYurdakul/catering-api/pkg/messaging"
	"github.com/SezginYurdakul/catering-api/pkg/metrics"
)

type Deps struct {
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	Publisher messaging.Publisher
}

// WithDefaults fills unset collaborators with no-op implementations.
func (d Deps) WithDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewNop()
	}
	if d.Publisher == nil {
		d.Publisher = messaging.NopPublisher{}
	}
	return d
}

// Publish hands an entity event to the broker. A failed publish is logged
// and counted; it never fails the write that triggered it.
func (d Deps) Publish(ctx context.Context, eventType string, payload interface{}) {
	status := "ok"
	if err := d.Publisher.Publish(ctx, eventType, payload); err != nil {
		status = "failed"
		d.Logger.Error(err, "failed to publish event", "type", eventType)
	}
	d.Metrics.EventsPublished.WithLabelValues(eventType, status).Inc()
}

// Storage wraps a repository failure. Clients only see a generic message.
func Storage(action string, err error) error {
	return apperrors.NewStorage(fmt.Errorf("failed to %s: %w", action, err))
}

// CountFunc counts the rows matching a predicate.
type CountFunc func(ctx context.Context, where query.Predicate) (int, error)

// Window validates and compiles the filter, counts matching rows and checks
// the requested page against the total.
func Window(ctx context.Context, fields query.Fields, f query.Filter, req query.PageRequest, count CountFunc) (query.Predicate, query.Pagination, error) {
	if err := f.Validate(fields); err != nil {
		return query.Predicate{}, query.Pagination{}, err
	}

	where := query.Compile(fields, f)

	total, err := count(ctx, where)
	if err != nil {
		return query.Predicate{}, query.Pagination{}, Storage("count "+fields.Entity()+" rows", err)
	}

	pagination := query.Paginate(total, req)
	if err := pagination.CheckRange(); err != nil {
		return query.Predicate{}, query.Pagination{}, err
	}
	return where, pagination, nil
}
