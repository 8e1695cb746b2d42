package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/SezginYurdakul/catering-api/pkg/errors"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		total, page, perPage int
		wantPages            int
	}{
		{25, 1, 10, 3},
		{0, 1, 10, 0},
		{10, 1, 10, 1},
		{11, 2, 10, 2},
		{1, 1, 50, 1},
		{2, 1, 10, 1},
	}

	for _, tt := range tests {
		got := Paginate(tt.total, PageRequest{Page: tt.page, PerPage: tt.perPage})
		assert.Equal(t, tt.wantPages, got.TotalPages, "total=%d perPage=%d", tt.total, tt.perPage)
		assert.Equal(t, tt.total, got.TotalItems)
		assert.Equal(t, tt.page, got.CurrentPage)
		assert.Equal(t, tt.perPage, got.PerPage)
	}
}

func TestPaginateZeroPagesOnlyWhenEmpty(t *testing.T) {
	for total := 0; total <= 40; total++ {
		for perPage := 1; perPage <= 12; perPage++ {
			p := Paginate(total, PageRequest{Page: 1, PerPage: perPage})
			assert.Equal(t, total == 0, p.TotalPages == 0)
			if total > 0 {
				assert.GreaterOrEqual(t, p.TotalPages*perPage, total)
				assert.Less(t, (p.TotalPages-1)*perPage, total)
			}
		}
	}
}

func TestNewPageRequestLargestPage(t *testing.T) {
	page := math.MaxInt/10 + 1
	req, err := NewPageRequest(page, 10, 100)
	require.NoError(t, err)

	offset, _ := req.OffsetLimit()
	assert.GreaterOrEqual(t, offset, 0)
	assert.Equal(t, math.MaxInt/10*10, offset)

	_, err = NewPageRequest(page+1, 10, 100)
	assert.Error(t, err)
}

func TestOffsetLimit(t *testing.T) {
	offset, limit := PageRequest{Page: 3, PerPage: 20}.OffsetLimit()
	assert.Equal(t, 40, offset)
	assert.Equal(t, 20, limit)

	offset, _ = PageRequest{Page: 1, PerPage: 10}.OffsetLimit()
	assert.Equal(t, 0, offset)
}

func TestCheckRange(t *testing.T) {
	err := Paginate(15, PageRequest{Page: 5, PerPage: 10}).CheckRange()
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	assert.NoError(t, Paginate(15, PageRequest{Page: 2, PerPage: 10}).CheckRange())
	// An empty result is never out of range.
	assert.NoError(t, Paginate(0, PageRequest{Page: 9, PerPage: 10}).CheckRange())
}

func TestNewPageRequest(t *testing.T) {
	req, err := NewPageRequest(2, 25, 100)
	require.NoError(t, err)
	assert.Equal(t, PageRequest{Page: 2, PerPage: 25}, req)

	tests := []struct {
		name          string
		page, perPage int
		fields        []string
	}{
		{"zero page", 0, 10, []string{"page"}},
		{"negative per page", 1, -1, []string{"per_page"}},
		{"both invalid", -3, 0, []string{"page", "per_page"}},
		{"per page over bound", 1, 101, []string{"per_page"}},
		{"offset overflows", math.MaxInt/7, 10, []string{"page"}},
		{"offset overflows at max page size", math.MaxInt, 100, []string{"page"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPageRequest(tt.page, tt.perPage, 100)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrValidation, appErr.Code)
			var got []string
			for _, f := range appErr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}
