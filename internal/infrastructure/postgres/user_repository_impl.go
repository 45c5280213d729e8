package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id::text, email, password_hash, profile, recommendations, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	profile, recs, err := encodeUserDocs(u)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, profile, recommendations)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at, updated_at
	`, u.Email, u.PasswordHash, profile, recs)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if pgCode(err) == uniqueViolation {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id::text = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u := &entity.User{}
	var profile, recs []byte

	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &profile, &recs,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if len(profile) > 0 {
		u.Profile = &entity.Profile{}
		if err := json.Unmarshal(profile, u.Profile); err != nil {
			return nil, fmt.Errorf("decode profile of %s: %w", u.ID, err)
		}
	}
	if len(recs) > 0 {
		if err := json.Unmarshal(recs, &u.Recommendations); err != nil {
			return nil, fmt.Errorf("decode recommendations of %s: %w", u.ID, err)
		}
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	profile, recs, err := encodeUserDocs(u)
	if err != nil {
		return err
	}
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, profile = $3, recommendations = $4, updated_at = $5
		WHERE id::text = $6
	`, u.Email, u.PasswordHash, profile, recs, u.UpdatedAt, u.ID)
	if err != nil {
		if pgCode(err) == uniqueViolation {
			return repository.ErrDuplicate
		}
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// encodeUserDocs returns the jsonb arguments; a nil interface is written as SQL NULL.
func encodeUserDocs(u *entity.User) (profile any, recs any, err error) {
	if u.Profile != nil {
		b, err := json.Marshal(u.Profile)
		if err != nil {
			return nil, nil, err
		}
		profile = string(b)
	}
	if u.Recommendations != nil {
		b, err := json.Marshal(u.Recommendations)
		if err != nil {
			return nil, nil, err
		}
		recs = string(b)
	}
	return profile, recs, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
