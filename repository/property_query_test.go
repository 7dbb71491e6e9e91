package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/seekernothing/next-homes/utils"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestQueryOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    QueryOptions
		wantErr bool
	}{
		{"valid", QueryOptions{Page: 1, PageSize: 9}, false},
		{"zero page", QueryOptions{Page: 0, PageSize: 9}, true},
		{"negative page", QueryOptions{Page: -1, PageSize: 9}, true},
		{"zero pageSize", QueryOptions{Page: 1, PageSize: 0}, true},
		{"negative pageSize", QueryOptions{Page: 1, PageSize: -3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPagination)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestQueryOptionsFilter(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		opts := QueryOptions{Page: 1, PageSize: 9}
		assert.Equal(t, bson.M{}, opts.Filter())
	})

	t.Run("price range", func(t *testing.T) {
		opts := QueryOptions{Page: 1, PageSize: 9, MinPrice: floatPtr(100), MaxPrice: floatPtr(500)}
		assert.Equal(t, bson.M{
			"price": bson.M{"$gte": 100.0, "$lte": 500.0},
		}, opts.Filter())
	})

	t.Run("min price only", func(t *testing.T) {
		opts := QueryOptions{Page: 1, PageSize: 9, MinPrice: floatPtr(250)}
		assert.Equal(t, bson.M{"price": bson.M{"$gte": 250.0}}, opts.Filter())
	})

	t.Run("bedrooms and statuses", func(t *testing.T) {
		opts := QueryOptions{
			Page:        1,
			PageSize:    9,
			MinBedrooms: intPtr(2),
			Statuses:    []string{"for-sale", "draft"},
		}
		assert.Equal(t, bson.M{
			"bedrooms": bson.M{"$gte": 2},
			"status":   bson.M{"$in": []string{"for-sale", "draft"}},
		}, opts.Filter())
	})

	t.Run("contradictory bounds pass through", func(t *testing.T) {
		// minPrice > maxPrice is not rejected; the predicate just matches nothing.
		opts := QueryOptions{Page: 1, PageSize: 9, MinPrice: floatPtr(500), MaxPrice: floatPtr(300)}
		assert.Equal(t, bson.M{
			"price": bson.M{"$gte": 500.0, "$lte": 300.0},
		}, opts.Filter())
	})
}

func TestQueryOptionsSkip(t *testing.T) {
	assert.Equal(t, int64(0), QueryOptions{Page: 1, PageSize: 9}.Skip())
	assert.Equal(t, int64(3), QueryOptions{Page: 2, PageSize: 3}.Skip())
	assert.Equal(t, int64(27), QueryOptions{Page: 4, PageSize: 9}.Skip())
}

func TestQueryOptionsSkipHugePage(t *testing.T) {
	// The skip product must never wrap into a negative value.
	skip := QueryOptions{Page: 4611686018427387904, PageSize: 4}.Skip()
	assert.GreaterOrEqual(t, skip, int64(0))

	skip = QueryOptions{Page: math.MaxInt, PageSize: math.MaxInt}.Skip()
	assert.Equal(t, int64(math.MaxInt64), skip)
}

func TestPaginationArithmetic(t *testing.T) {
	// 10 properties, pageSize 3: pages are 1-3, 4-6, 7-9, 10.
	assert.Equal(t, 4, utils.TotalPages(10, 3))
	// Zero matches still report a single page.
	assert.Equal(t, 1, utils.TotalPages(0, 3))
	assert.Equal(t, 1, utils.TotalPages(3, 3))
	assert.Equal(t, 2, utils.TotalPages(4, 3))
}
