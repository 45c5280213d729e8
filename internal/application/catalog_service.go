package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lincup/internal/domain/catalog"
	"github.com/oksasatya/lincup/internal/domain/entity"
	repo "github.com/oksasatya/lincup/internal/domain/repository"
	"github.com/oksasatya/lincup/pkg/helpers"
	"github.com/oksasatya/lincup/pkg/metrics"
)

// CourseIndex mirrors courses into a search backend for typeahead.
type CourseIndex interface {
	IndexCourse(ctx context.Context, s catalog.Summary) error
	Suggest(ctx context.Context, prefix string, size int) ([]catalog.Suggestion, error)
}

// ObjectUploader stores a blob and returns its URL; helpers.GCSUploader satisfies it.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type CatalogService struct {
	Courses  repo.CourseRepository
	Index    CourseIndex
	Uploader ObjectUploader
	Logger   *logrus.Logger

	now func() time.Time
}

// NewCatalogService wires the course catalog. Index and uploader are optional.
func NewCatalogService(courses repo.CourseRepository, index CourseIndex, uploader ObjectUploader, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		Courses:  courses,
		Index:    index,
		Uploader: uploader,
		Logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type NewCourseInput struct {
	Name        string
	Code        string
	FirstReview ReviewInput
}

type ReviewInput struct {
	Professor             string
	CourseLoad            entity.CourseLoad
	HasExam               bool
	IsAttendanceMandatory bool
	Rating                int
	Experience            string
}

// ListCourses returns the catalog sorted by code, narrowed by search term and difficulty filter.
func (s *CatalogService) ListCourses(ctx context.Context, filter, search string) ([]catalog.Summary, error) {
	f, err := catalog.ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	courses, err := s.Courses.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := catalog.Apply(courses, f, search)
	out := make([]catalog.Summary, 0, len(visible))
	for _, c := range visible {
		out = append(out, catalog.Summarize(c))
	}
	return out, nil
}

func (s *CatalogService) GetCourse(ctx context.Context, id string) (catalog.Summary, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return catalog.Summary{}, ErrCourseNotFound
		}
		return catalog.Summary{}, err
	}
	return catalog.Summarize(*c), nil
}

// AddCourse creates a course holding exactly one review. Duplicate codes are allowed.
func (s *CatalogService) AddCourse(ctx context.Context, in NewCourseInput) (catalog.Summary, error) {
	name := strings.TrimSpace(in.Name)
	code := strings.TrimSpace(in.Code)
	if name == "" || code == "" {
		return catalog.Summary{}, ErrInvalidCourse
	}
	rv := s.newReview(in.FirstReview)
	if err := rv.Validate(); err != nil {
		return catalog.Summary{}, err
	}
	c := &entity.Course{
		ID:        newID(),
		Name:      name,
		Code:      code,
		Reviews:   []entity.Review{rv},
		CreatedAt: s.now(),
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return catalog.Summary{}, err
	}
	metrics.ReviewsTotal.Inc()
	sum := catalog.Summarize(*c)
	s.index(ctx, sum)
	helpers.LogInfo(s.Logger, "course added", logrus.Fields{"course_id": c.ID, "code": c.Code})
	return sum, nil
}

// AddReview appends a validated review and returns the course with its new aggregate.
func (s *CatalogService) AddReview(ctx context.Context, courseID string, in ReviewInput) (catalog.Summary, error) {
	rv := s.newReview(in)
	if err := rv.Validate(); err != nil {
		return catalog.Summary{}, err
	}
	if err := s.Courses.AppendReview(ctx, courseID, rv); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return catalog.Summary{}, ErrCourseNotFound
		}
		return catalog.Summary{}, err
	}
	metrics.ReviewsTotal.Inc()
	sum, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return catalog.Summary{}, err
	}
	s.index(ctx, sum)
	return sum, nil
}

// SuggestCourses queries the search index by name or code prefix.
func (s *CatalogService) SuggestCourses(ctx context.Context, prefix string, size int) ([]catalog.Suggestion, error) {
	if s.Index == nil {
		return nil, ErrSearchUnavailable
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []catalog.Suggestion{}, nil
	}
	if size <= 0 || size > 20 {
		size = 10
	}
	return s.Index.Suggest(ctx, prefix, size)
}

// ReindexAll pushes every stored course to the search index.
func (s *CatalogService) ReindexAll(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, ErrSearchUnavailable
	}
	courses, err := s.Courses.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range courses {
		if err := s.Index.IndexCourse(ctx, catalog.Summarize(c)); err != nil {
			return 0, fmt.Errorf("index course %s: %w", c.ID, err)
		}
	}
	return len(courses), nil
}

// ExportCatalog uploads a JSON snapshot of all courses and returns its URL.
func (s *CatalogService) ExportCatalog(ctx context.Context) (string, error) {
	if s.Uploader == nil {
		return "", ErrExportUnavailable
	}
	courses, err := s.Courses.List(ctx)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(courses)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("exports/courses-%s.json", s.now().Format("20060102T150405Z"))
	url, err := s.Uploader.Upload(ctx, path, "application/json", bytes.NewReader(body))
	if err != nil {
		helpers.LogError(s.Logger, "catalog export failed", err, logrus.Fields{"path": path})
		return "", err
	}
	helpers.LogInfo(s.Logger, "catalog exported", logrus.Fields{"url": url, "courses": len(courses)})
	return url, nil
}

func (s *CatalogService) index(ctx context.Context, sum catalog.Summary) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexCourse(ctx, sum); err != nil {
		helpers.LogWarn(s.Logger, "failed to index course", err, logrus.Fields{"course_id": sum.Course.ID})
	}
}

func (s *CatalogService) newReview(in ReviewInput) entity.Review {
	return entity.Review{
		ID:                    newID(),
		Professor:             strings.TrimSpace(in.Professor),
		CourseLoad:            in.CourseLoad,
		HasExam:               in.HasExam,
		IsAttendanceMandatory: in.IsAttendanceMandatory,
		Rating:                in.Rating,
		Experience:            strings.TrimSpace(in.Experience),
		CreatedAt:             s.now(),
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
