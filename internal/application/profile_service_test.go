package application

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/internal/infrastructure/kvstore"
	"github.com/oksasatya/lincup/pkg/helpers"
	"github.com/oksasatya/lincup/pkg/metrics"
)

var testProfile = entity.Profile{
	Hobbies: "hiking, chess",
	Enjoys:  "building things",
	Major:   "Computer Science",
	Goals:   "work at a startup",
}

func seedUser(t *testing.T, users *kvstore.UserRepository) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword("pw")
	require.NoError(t, err)
	u := &entity.User{Email: "a@lehigh.edu", PasswordHash: hash}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestSubmitProfile(t *testing.T) {
	ctx := context.Background()
	logger, _ := newLogger(t)
	users := kvstore.NewUserRepository(kvstore.NewMemoryStore())
	u := seedUser(t, users)
	rec := &fakeRecommender{recs: []entity.ClubRecommendation{
		{ClubName: "Coding Community", Reason: "You like building things."},
	}}
	svc := NewProfileService(users, rec, time.Second, logger)

	view, err := svc.SubmitProfile(ctx, u.ID, testProfile)
	require.NoError(t, err)
	require.Len(t, view.Recommendations, 1)
	assert.Equal(t, "Coding Community", view.Recommendations[0].ClubName)
	assert.NotEmpty(t, view.Recommendations[0].Description)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Profile)
	assert.Equal(t, "Computer Science", stored.Profile.Major)
	assert.Len(t, stored.Recommendations, 1)

	_, err = svc.SubmitProfile(ctx, u.ID, testProfile)
	assert.ErrorIs(t, err, ErrProfileAlreadySet)
	assert.Equal(t, 1, rec.calls)
}

func TestSubmitProfileValidation(t *testing.T) {
	logger, _ := newLogger(t)
	users := kvstore.NewUserRepository(kvstore.NewMemoryStore())
	u := seedUser(t, users)
	svc := NewProfileService(users, &fakeRecommender{}, time.Second, logger)

	p := testProfile
	p.Goals = "   "
	_, err := svc.SubmitProfile(context.Background(), u.ID, p)
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.SubmitProfile(context.Background(), "nobody", testProfile)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubmitProfileFallsBack(t *testing.T) {
	tests := []struct {
		name string
		rec  Recommender
	}{
		{"error", &fakeRecommender{err: errBoom}},
		{"empty", &fakeRecommender{}},
		{"timeout", &fakeRecommender{block: true}},
		{"no recommender", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := newLogger(t)
			users := kvstore.NewUserRepository(kvstore.NewMemoryStore())
			u := seedUser(t, users)
			svc := NewProfileService(users, tt.rec, 20*time.Millisecond, logger)
			before := metrics.RecommendationCount(metrics.OutcomeFallback)

			view, err := svc.SubmitProfile(context.Background(), u.ID, testProfile)
			require.NoError(t, err)
			assert.Equal(t, "Outdoor Club", view.Recommendations[0].ClubName)
			assert.Empty(t, view.Recommendations[0].Description, "fallback club is not in the club list")
			assert.Len(t, view.Recommendations, 3)
			assert.Equal(t, before+1, metrics.RecommendationCount(metrics.OutcomeFallback))

			if tt.rec != nil {
				require.NotNil(t, hook.LastEntry())
				assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
			}
		})
	}
}

func TestClubs(t *testing.T) {
	svc := NewProfileService(nil, nil, 0, nil)
	assert.Len(t, svc.Clubs(), 12)
}
