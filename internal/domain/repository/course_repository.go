package repository

import (
	"context"

	"github.com/oksasatya/lincup/internal/domain/entity"
)

// CourseRepository stores courses with their reviews. It is append-only:
// there is no update or delete of existing records.
type CourseRepository interface {
	List(ctx context.Context) ([]entity.Course, error)
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	Create(ctx context.Context, c *entity.Course) error
	// AppendReview returns ErrNotFound for an unknown course and leaves the store untouched.
	AppendReview(ctx context.Context, courseID string, r entity.Review) error
}
