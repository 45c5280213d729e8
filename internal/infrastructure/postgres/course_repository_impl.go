package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/internal/domain/repository"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const reviewColumns = `id, professor, course_load, has_exam, is_attendance_mandatory, rating, experience, created_at`

func (r *CourseRepository) List(ctx context.Context) ([]entity.Course, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, code, created_at FROM courses ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	courses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Course, error) {
		var c entity.Course
		err := row.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt)
		return c, err
	})
	if err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `SELECT course_id, `+reviewColumns+` FROM reviews ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byCourse := make(map[string][]entity.Review, len(courses))
	for rows.Next() {
		var courseID string
		var rv entity.Review
		if err := rows.Scan(&courseID, &rv.ID, &rv.Professor, &rv.CourseLoad, &rv.HasExam,
			&rv.IsAttendanceMandatory, &rv.Rating, &rv.Experience, &rv.CreatedAt); err != nil {
			return nil, err
		}
		byCourse[courseID] = append(byCourse[courseID], rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range courses {
		courses[i].Reviews = byCourse[courses[i].ID]
	}
	return courses, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	c := &entity.Course{}
	row := r.pool.QueryRow(ctx, `SELECT id, name, code, created_at FROM courses WHERE id = $1`, id)
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE course_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	c.Reviews, err = pgx.CollectRows(rows, scanReview)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO courses (id, name, code, created_at)
			VALUES ($1, $2, $3, $4)
		`, c.ID, c.Name, c.Code, c.CreatedAt); err != nil {
			if pgCode(err) == uniqueViolation {
				return repository.ErrDuplicate
			}
			return err
		}
		for _, rv := range c.Reviews {
			if err := insertReview(ctx, tx, c.ID, rv); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepository) AppendReview(ctx context.Context, courseID string, rv entity.Review) error {
	err := insertReview(ctx, r.pool, courseID, rv)
	if pgCode(err) == foreignKeyViolation {
		return repository.ErrNotFound
	}
	return err
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertReview(ctx context.Context, db execer, courseID string, rv entity.Review) error {
	_, err := db.Exec(ctx, `
		INSERT INTO reviews (id, course_id, professor, course_load, has_exam, is_attendance_mandatory, rating, experience, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rv.ID, courseID, rv.Professor, string(rv.CourseLoad), rv.HasExam, rv.IsAttendanceMandatory,
		rv.Rating, rv.Experience, rv.CreatedAt)
	return err
}

func scanReview(row pgx.CollectableRow) (entity.Review, error) {
	var rv entity.Review
	err := row.Scan(&rv.ID, &rv.Professor, &rv.CourseLoad, &rv.HasExam,
		&rv.IsAttendanceMandatory, &rv.Rating, &rv.Experience, &rv.CreatedAt)
	return rv, err
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
