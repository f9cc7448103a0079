package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-marketplace-api/internal/domain/entity"
	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, username, phone, avatar_url, avatar_public_id, salt, hash, token, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	var avatarURL, avatarID string
	if u.Account.Avatar != nil {
		avatarURL = u.Account.Avatar.URL
		avatarID = u.Account.Avatar.PublicID
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, username, phone, avatar_url, avatar_public_id, salt, hash, token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Account.Username, u.Account.Phone, avatarURL, avatarID, u.Salt, u.Hash, u.Token)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) GetByToken(ctx context.Context, token string) (*entity.User, error) {
	return r.getBy(ctx, `WHERE token = $1`, token)
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg any) (*entity.User, error) {
	u := &entity.User{}
	var avatarURL, avatarID string

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.Account.Username, &u.Account.Phone,
		&avatarURL, &avatarID, &u.Salt, &u.Hash, &u.Token,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if avatarURL != "" {
		u.Account.Avatar = &entity.Image{URL: avatarURL, PublicID: avatarID}
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
