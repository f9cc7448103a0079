package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-marketplace-api/internal/domain/entity"
	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
)

type OfferRepository struct {
	pool *pgxpool.Pool
}

func NewOfferRepository(pool *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

const offerSelect = `
	SELECT o.id, o.product_name, o.product_description, o.product_price,
	       o.brand, o.size, o.condition, o.color, o.location,
	       o.image_url, o.image_public_id, o.owner_id, o.created_at, o.updated_at,
	       u.id, u.username, u.phone, u.avatar_url, u.avatar_public_id
	FROM offers o
	JOIN users u ON u.id = o.owner_id`

func (r *OfferRepository) Create(ctx context.Context, o *entity.Offer) error {
	var imageURL, imageID string
	if o.Image != nil {
		imageURL = o.Image.URL
		imageID = o.Image.PublicID
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO offers (id, product_name, product_description, product_price,
		                    brand, size, condition, color, location,
		                    image_url, image_public_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`, o.ID, o.Name, o.Description, o.Price,
		o.Details.Brand, o.Details.Size, o.Details.Condition, o.Details.Color, o.Details.Location,
		imageURL, imageID, o.OwnerID)

	return row.Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (*entity.Offer, error) {
	row := r.pool.QueryRow(ctx, offerSelect+` WHERE o.id = $1`, id)
	o, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *OfferRepository) Update(ctx context.Context, o *entity.Offer) error {
	var imageURL, imageID string
	if o.Image != nil {
		imageURL = o.Image.URL
		imageID = o.Image.PublicID
	}
	o.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE offers
		SET product_name = $1, product_description = $2, product_price = $3,
		    brand = $4, size = $5, condition = $6, color = $7, location = $8,
		    image_url = $9, image_public_id = $10, updated_at = $11
		WHERE id = $12
	`, o.Name, o.Description, o.Price,
		o.Details.Brand, o.Details.Size, o.Details.Condition, o.Details.Color, o.Details.Location,
		imageURL, imageID, o.UpdatedAt, o.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OfferRepository) Search(ctx context.Context, q repository.OfferSearch) ([]*entity.Offer, int, error) {
	where, args := buildSearchWhere(q)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM offers o`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageSQL := offerSelect + where + buildSearchOrder(q.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, pageSQL, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var offers []*entity.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, 0, err
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

// buildSearchWhere translates the filter part of an OfferSearch into a WHERE
// clause with positional args. Title matches as a case-insensitive substring,
// the price bounds are inclusive and combine into one range.
func buildSearchWhere(q repository.OfferSearch) (string, []any) {
	var conds []string
	var args []any
	if q.Title != "" {
		args = append(args, "%"+q.Title+"%")
		conds = append(conds, fmt.Sprintf("o.product_name ILIKE $%d", len(args)))
	}
	if q.PriceMin != nil {
		args = append(args, *q.PriceMin)
		conds = append(conds, fmt.Sprintf("o.product_price >= $%d", len(args)))
	}
	if q.PriceMax != nil {
		args = append(args, *q.PriceMax)
		conds = append(conds, fmt.Sprintf("o.product_price <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildSearchOrder(sort repository.OfferSort) string {
	switch sort {
	case repository.SortPriceAsc:
		return " ORDER BY o.product_price ASC, o.created_at DESC"
	case repository.SortPriceDesc:
		return " ORDER BY o.product_price DESC, o.created_at DESC"
	default:
		return " ORDER BY o.created_at DESC"
	}
}

func scanOffer(row pgx.Row) (*entity.Offer, error) {
	o := &entity.Offer{}
	owner := &entity.OwnerProfile{}
	var imageURL, imageID, avatarURL, avatarID string

	if err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Price,
		&o.Details.Brand, &o.Details.Size, &o.Details.Condition, &o.Details.Color, &o.Details.Location,
		&imageURL, &imageID, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt,
		&owner.ID, &owner.Account.Username, &owner.Account.Phone, &avatarURL, &avatarID); err != nil {
		return nil, err
	}
	if imageURL != "" {
		o.Image = &entity.Image{URL: imageURL, PublicID: imageID}
	}
	if avatarURL != "" {
		owner.Account.Avatar = &entity.Image{URL: avatarURL, PublicID: avatarID}
	}
	o.Owner = owner
	return o, nil
}

var _ repository.OfferRepository = (*OfferRepository)(nil)
