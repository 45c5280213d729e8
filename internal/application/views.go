package application

import (
	"github.com/oksasatya/lincup/internal/domain/entity"
)

// UserView is what leaves the service layer for a user; it never carries the password.
type UserView struct {
	ID              string               `json:"id"`
	Email           string               `json:"email"`
	Profile         *entity.Profile      `json:"profile,omitempty"`
	Recommendations []RecommendationView `json:"recommendations,omitempty"`
}

// RecommendationView joins a recommendation with the club description when the club is known.
type RecommendationView struct {
	ClubName    string `json:"clubName"`
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
}

func NewUserView(u *entity.User) *UserView {
	v := &UserView{ID: u.ID, Email: u.Email, Profile: u.Profile}
	for _, r := range u.Recommendations {
		rv := RecommendationView{ClubName: r.ClubName, Reason: r.Reason}
		if club, ok := entity.FindClub(r.ClubName); ok {
			rv.Description = club.Description
		}
		v.Recommendations = append(v.Recommendations, rv)
	}
	return v
}
