package repository

import (
	"context"

	"github.com/oksasatya/go-marketplace-api/internal/domain/entity"
)

// OfferSort orders search results by price. The zero value keeps the store's
// natural order (newest first).
type OfferSort int

const (
	SortNone OfferSort = iota
	SortPriceAsc
	SortPriceDesc
)

// OfferSearch is the store query the query builder produces: an optional
// title substring (case-insensitive), an optional inclusive price range,
// a sort key and a pre-computed window.
type OfferSearch struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
	Sort     OfferSort
	Limit    int
	Offset   int
}

// OfferRepository defines the interface for offer-related database
// operations. Reads populate the redacted owner projection.
type OfferRepository interface {
	Create(ctx context.Context, o *entity.Offer) error
	GetByID(ctx context.Context, id string) (*entity.Offer, error)
	Update(ctx context.Context, o *entity.Offer) error
	Delete(ctx context.Context, id string) error
	// Search returns the requested window of matching offers plus the total
	// number of matches before the window is applied.
	Search(ctx context.Context, q OfferSearch) ([]*entity.Offer, int, error)
}
