package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
)

func TestBuildSearchWhere(t *testing.T) {
	min, max := 10.0, 50.0

	tests := []struct {
		name     string
		q        repository.OfferSearch
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "no filters",
			q:        repository.OfferSearch{},
			wantSQL:  "",
			wantArgs: nil,
		},
		{
			name:     "title only",
			q:        repository.OfferSearch{Title: "jacket"},
			wantSQL:  " WHERE o.product_name ILIKE $1",
			wantArgs: []any{"%jacket%"},
		},
		{
			name:     "price range",
			q:        repository.OfferSearch{PriceMin: &min, PriceMax: &max},
			wantSQL:  " WHERE o.product_price >= $1 AND o.product_price <= $2",
			wantArgs: []any{min, max},
		},
		{
			name:     "all filters keep positional order",
			q:        repository.OfferSearch{Title: "shoe", PriceMin: &min, PriceMax: &max},
			wantSQL:  " WHERE o.product_name ILIKE $1 AND o.product_price >= $2 AND o.product_price <= $3",
			wantArgs: []any{"%shoe%", min, max},
		},
		{
			name:     "max bound alone",
			q:        repository.OfferSearch{PriceMax: &max},
			wantSQL:  " WHERE o.product_price <= $1",
			wantArgs: []any{max},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := buildSearchWhere(tt.q)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildSearchOrder(t *testing.T) {
	assert.Equal(t, " ORDER BY o.product_price ASC, o.created_at DESC", buildSearchOrder(repository.SortPriceAsc))
	assert.Equal(t, " ORDER BY o.product_price DESC, o.created_at DESC", buildSearchOrder(repository.SortPriceDesc))
	assert.Equal(t, " ORDER BY o.created_at DESC", buildSearchOrder(repository.SortNone))
}
