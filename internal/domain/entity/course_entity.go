package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CourseLoad is the subjective workload tag of a review.
type CourseLoad string

const (
	CourseLoadLight  CourseLoad = "Light"
	CourseLoadMedium CourseLoad = "Medium"
	CourseLoadHeavy  CourseLoad = "Heavy"
)

const (
	MinRating = 1
	MaxRating = 5
)

var ErrInvalidReview = errors.New("invalid review")

func (l CourseLoad) Valid() bool {
	switch l {
	case CourseLoadLight, CourseLoadMedium, CourseLoadHeavy:
		return true
	}
	return false
}

// Course owns its reviews; they are appended in submission order and never removed.
type Course struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Reviews   []Review  `json:"reviews"`
	CreatedAt time.Time `json:"createdAt"`
}

// Review is immutable once stored.
type Review struct {
	ID                    string     `json:"id"`
	Professor             string     `json:"professor"`
	CourseLoad            CourseLoad `json:"courseLoad"`
	HasExam               bool       `json:"hasExam"`
	IsAttendanceMandatory bool       `json:"isAttendanceMandatory"`
	Rating                int        `json:"rating"`
	Experience            string     `json:"experience"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// Validate checks the fields a client controls.
func (r Review) Validate() error {
	if strings.TrimSpace(r.Professor) == "" {
		return fmt.Errorf("%w: professor is required", ErrInvalidReview)
	}
	if !r.CourseLoad.Valid() {
		return fmt.Errorf("%w: course load must be Light, Medium or Heavy", ErrInvalidReview)
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidReview)
	}
	return nil
}
