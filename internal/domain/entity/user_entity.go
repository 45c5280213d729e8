package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Email is the natural key; PasswordHash holds a bcrypt hash and never leaves the service layer.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	Profile         *Profile
	Recommendations []ClubRecommendation
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasProfile reports whether onboarding was completed.
func (u *User) HasProfile() bool {
	return u != nil && u.Profile != nil
}

// Profile is the onboarding questionnaire. Minor is optional.
type Profile struct {
	Hobbies string `json:"hobbies"`
	Enjoys  string `json:"enjoys"`
	Major   string `json:"major"`
	Minor   string `json:"minor,omitempty"`
	Goals   string `json:"goals"`
}

// ClubRecommendation is one suggested club with a one-sentence reason.
type ClubRecommendation struct {
	ClubName string `json:"clubName"`
	Reason   string `json:"reason"`
}

// Session marks a logged-in user. It carries identity only.
type Session struct {
	UserID    string
	Email     string
	SID       string
	CreatedAt time.Time
}
