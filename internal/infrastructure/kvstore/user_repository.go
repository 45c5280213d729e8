package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/internal/domain/repository"
)

type userRecord struct {
	ID              string                      `json:"id"`
	Email           string                      `json:"email"`
	Password        string                      `json:"password"`
	Profile         *entity.Profile             `json:"profile,omitempty"`
	Recommendations []entity.ClubRecommendation `json:"recommendations,omitempty"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

func (r userRecord) toEntity() *entity.User {
	return &entity.User{
		ID:              r.ID,
		Email:           r.Email,
		PasswordHash:    r.Password,
		Profile:         r.Profile,
		Recommendations: r.Recommendations,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func recordOf(u *entity.User) userRecord {
	return userRecord{
		ID:              u.ID,
		Email:           u.Email,
		Password:        u.PasswordHash,
		Profile:         u.Profile,
		Recommendations: u.Recommendations,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// UserRepository scans the users array linearly; email matching is exact.
type UserRepository struct {
	store Store
	mu    sync.Mutex
}

func NewUserRepository(store Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := load[userRecord](ctx, r.store, UsersKey)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	return save(ctx, r.store, UsersKey, append(users, recordOf(u)))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.find(ctx, func(rec userRecord) bool { return rec.ID == id })
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(ctx, func(rec userRecord) bool { return rec.Email == email })
}

func (r *UserRepository) find(ctx context.Context, match func(userRecord) bool) (*entity.User, error) {
	users, err := load[userRecord](ctx, r.store, UsersKey)
	if err != nil {
		return nil, err
	}
	for _, rec := range users {
		if match(rec) {
			return rec.toEntity(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := load[userRecord](ctx, r.store, UsersKey)
	if err != nil {
		return err
	}
	idx := -1
	for i, rec := range users {
		if rec.ID == u.ID {
			idx = i
		} else if rec.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if idx < 0 {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	users[idx] = recordOf(u)
	return save(ctx, r.store, UsersKey, users)
}

var _ repository.UserRepository = (*UserRepository)(nil)
