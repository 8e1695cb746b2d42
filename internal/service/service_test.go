package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SezginYurdakul/catering-api/internal/query"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

var fields = query.NewFields("facility", []string{"facility_name"},
	query.Field{Name: "facility_name", Column: "f.name"},
	query.Field{Name: "city", Column: "l.city"},
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, string, interface{}) error {
	return errors.New("broker down")
}

func TestWindow(t *testing.T) {
	var got query.Predicate
	count := func(_ context.Context, where query.Predicate) (int, error) {
		got = where
		return 2, nil
	}

	where, p, err := Window(context.Background(), fields,
		query.Filter{Values: map[string]string{"city": "Amsterdam"}, Operator: query.And},
		query.PageRequest{Page: 1, PerPage: 10}, count)
	require.NoError(t, err)

	assert.Equal(t, "l.city LIKE :city", where.Clause)
	assert.Equal(t, where, got)
	assert.Equal(t, query.Pagination{CurrentPage: 1, PerPage: 10, TotalItems: 2, TotalPages: 1}, p)
}

func TestWindowErrors(t *testing.T) {
	ctx := context.Background()
	page := query.PageRequest{Page: 1, PerPage: 10}

	_, _, err := Window(ctx, fields, query.Filter{Targets: []string{"email"}}, page,
		func(context.Context, query.Predicate) (int, error) {
			t.Fatal("count must not run for an invalid filter")
			return 0, nil
		})
	assert.True(t, apperrors.IsValidation(err))

	_, _, err = Window(ctx, fields, query.Filter{}, query.PageRequest{Page: 5, PerPage: 10},
		func(context.Context, query.Predicate) (int, error) { return 15, nil })
	assert.True(t, apperrors.IsValidation(err))

	cause := errors.New("connection refused")
	_, _, err = Window(ctx, fields, query.Filter{}, page,
		func(context.Context, query.Predicate) (int, error) { return 0, cause })
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInternal, apperrors.CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.(*apperrors.AppError).Message, "connection refused")
}

func TestPublishFailureIsCounted(t *testing.T) {
	d := Deps{Publisher: failingPublisher{}}.WithDefaults()

	d.Publish(context.Background(), "tag.created", map[string]int{"id": 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(d.Metrics.EventsPublished.WithLabelValues("tag.created", "failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(d.Metrics.EventsPublished.WithLabelValues("tag.created", "ok")))
}
