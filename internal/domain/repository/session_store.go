package repository

import (
	"context"

	"github.com/oksasatya/lincup/internal/domain/entity"
)

// SessionStore keeps the logged-in marker of each user, independent of the account record.
type SessionStore interface {
	Save(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, userID string) (*entity.Session, error)
	Delete(ctx context.Context, userID string) error
}
