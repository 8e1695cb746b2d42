package tag

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SezginYurdakul/catering-api/internal/model"
	"github.com/SezginYurdakul/catering-api/internal/repository"
	"github.com/SezginYurdakul/catering-api/internal/repository/repotest"
	"github.com/SezginYurdakul/catering-api/internal/service"
	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
	"github.com/SezginYurdakul/catering-api/pkg/metrics"
)

// racyTags loses every creation race: another writer inserts the name just
// before our insert does.
type racyTags struct {
	*repotest.Tags
	vanish bool
}

func (r *racyTags) Create(ctx context.Context, name string) (int64, error) {
	if !r.vanish {
		if _, err := r.Tags.Create(ctx, name); err != nil {
			return 0, err
		}
	}
	return 0, repository.ErrDuplicate
}

func TestResolveCollapsesNamesOntoExistingID(t *testing.T) {
	repo := repotest.NewTags(model.Tag{ID: 1, Name: "Wedding"})
	r := NewResolver(repo, service.Deps{})

	ids, err := r.Resolve(context.Background(), []model.TagRef{
		model.TagName("Wedding"),
		model.TagName("wedding"),
		model.TagID(1),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, ids)
	assert.Equal(t, 1, repo.Len())
}

func TestResolveCreatesUnknownNameOnce(t *testing.T) {
	repo := repotest.NewTags()
	m := metrics.NewNop()
	r := NewResolver(repo, service.Deps{Metrics: m})
	ctx := context.Background()

	first, err := r.Resolve(ctx, []model.TagRef{model.TagName("Brand New Tag")})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := r.Resolve(ctx, []model.TagRef{model.TagName("Brand New Tag")})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TagsCreated))
}

func TestResolveMixedInput(t *testing.T) {
	repo := repotest.NewTags(model.Tag{ID: 4, Name: "Outdoor"})
	r := NewResolver(repo, service.Deps{})

	ids, err := r.Resolve(context.Background(), []model.TagRef{
		model.TagID(9),
		model.TagName("OUTDOOR"),
		model.TagName("Garden"),
		model.TagID(4),
		model.TagName("garden"),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{9, 4, 5}, ids)
}

func TestResolveReusesWinnerOfCreationRace(t *testing.T) {
	repo := &racyTags{Tags: repotest.NewTags()}
	r := NewResolver(repo, service.Deps{})

	ids, err := r.Resolve(context.Background(), []model.TagRef{model.TagName("Buffet")})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, ids)
}

func TestResolveSkipsUnresolvableItems(t *testing.T) {
	repo := &racyTags{Tags: repotest.NewTags(model.Tag{ID: 2, Name: "Vegan"}), vanish: true}
	m := metrics.NewNop()
	r := NewResolver(repo, service.Deps{Metrics: m})

	ids, err := r.Resolve(context.Background(), []model.TagRef{
		model.TagName("Ghost"),
		model.TagName("  "),
		model.TagName("vegan"),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, ids)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TagsSkipped))
}

func TestResolvePropagatesStorageFailure(t *testing.T) {
	repo := repotest.NewTags()
	cause := errors.New("connection refused")
	repo.Fail = func(op string, _ int64) error {
		if op == "FindByName" {
			return cause
		}
		return nil
	}
	r := NewResolver(repo, service.Deps{})

	_, err := r.Resolve(context.Background(), []model.TagRef{model.TagID(1), model.TagName("Lunch")})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperrors.ErrInternal, apperrors.CodeOf(err))
}

func TestResolveEmptyInput(t *testing.T) {
	ids, err := NewResolver(repotest.NewTags(), service.Deps{}).Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
