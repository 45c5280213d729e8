package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lincup/internal/domain/entity"
	repo "github.com/oksasatya/lincup/internal/domain/repository"
	"github.com/oksasatya/lincup/pkg/helpers"
	"github.com/oksasatya/lincup/pkg/metrics"
)

// Recommender picks clubs for a profile; recommender.Client satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, p entity.Profile, clubs []entity.Club) ([]entity.ClubRecommendation, error)
}

type ProfileService struct {
	Users       repo.UserRepository
	Recommender Recommender
	Timeout     time.Duration
	Logger      *logrus.Logger
}

// NewProfileService builds the onboarding service. A nil recommender always yields the fallback list.
func NewProfileService(users repo.UserRepository, rec Recommender, timeout time.Duration, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Users: users, Recommender: rec, Timeout: timeout, Logger: logger}
}

func (s *ProfileService) Clubs() []entity.Club {
	return entity.Clubs()
}

// SubmitProfile stores the one-time onboarding profile together with its club recommendations.
func (s *ProfileService) SubmitProfile(ctx context.Context, userID string, p entity.Profile) (*UserView, error) {
	p = trimProfile(p)
	if p.Hobbies == "" || p.Enjoys == "" || p.Major == "" || p.Goals == "" {
		return nil, ErrInvalidProfile
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.HasProfile() {
		return nil, ErrProfileAlreadySet
	}

	u.Profile = &p
	u.Recommendations = s.Recommend(ctx, p)
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return NewUserView(u), nil
}

// Recommend never fails: any recommender error degrades to the static fallback list.
func (s *ProfileService) Recommend(ctx context.Context, p entity.Profile) []entity.ClubRecommendation {
	if s.Recommender == nil {
		metrics.RecordRecommendation(metrics.OutcomeFallback)
		return entity.FallbackRecommendations()
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	recs, err := s.Recommender.Recommend(ctx, p, entity.Clubs())
	if err == nil && len(recs) == 0 {
		err = errors.New("empty recommendation list")
	}
	if err != nil {
		metrics.RecordRecommendation(metrics.OutcomeFallback)
		helpers.LogWarn(s.Logger, "club recommender failed, using fallback", err, logrus.Fields{"major": p.Major})
		return entity.FallbackRecommendations()
	}
	metrics.RecordRecommendation(metrics.OutcomeModel)
	return recs
}

func trimProfile(p entity.Profile) entity.Profile {
	return entity.Profile{
		Hobbies: strings.TrimSpace(p.Hobbies),
		Enjoys:  strings.TrimSpace(p.Enjoys),
		Major:   strings.TrimSpace(p.Major),
		Minor:   strings.TrimSpace(p.Minor),
		Goals:   strings.TrimSpace(p.Goals),
	}
}
