package kvstore

import (
	"context"
	"slices"
	"sync"

	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/internal/domain/repository"
)

type CourseRepository struct {
	store Store
	mu    sync.Mutex
}

func NewCourseRepository(store Store) *CourseRepository {
	return &CourseRepository{store: store}
}

func (r *CourseRepository) List(ctx context.Context) ([]entity.Course, error) {
	return load[entity.Course](ctx, r.store, CoursesKey)
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	courses, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, existing := range courses {
		if existing.ID == c.ID {
			return repository.ErrDuplicate
		}
	}
	stored := *c
	stored.Reviews = slices.Clone(c.Reviews)
	return save(ctx, r.store, CoursesKey, append(courses, stored))
}

func (r *CourseRepository) AppendReview(ctx context.Context, courseID string, rv entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range courses {
		if courses[i].ID == courseID {
			courses[i].Reviews = append(courses[i].Reviews, rv)
			return save(ctx, r.store, CoursesKey, courses)
		}
	}
	return repository.ErrNotFound
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
