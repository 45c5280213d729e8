// Package catalog holds the read-side rules of the course catalog: rating
// aggregation, the quote and colour tier shown for a mean rating, and the
// sort/search/filter pipeline behind the catalog listing.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/oksasatya/lincup/internal/domain/entity"
)

// Filter selects a difficulty band of the catalog.
type Filter string

const (
	FilterAll  Filter = "all"
	FilterEasy Filter = "easy"
	FilterHard Filter = "hard"
)

// Tier is the colour bucket for a mean rating.
type Tier string

const (
	TierSuccess Tier = "success"
	TierWarning Tier = "warning"
	TierError   Tier = "error"
)

const (
	EasyThreshold = 4.0
	HardThreshold = 2.5

	NoReviewsQuote = "No reviews yet."
)

var ErrUnknownFilter = errors.New("unknown filter")

var quotes = map[int]string{
	1: "I would never take this class again! A true test of my sanity.",
	2: "Challenging and not in a fun way. Proceed with caution.",
	3: "It was... a class. Perfectly balanced, as all things shouldn't be.",
	4: "A genuinely great class! You'll learn a lot and enjoy it.",
	5: "Life-changing! If you have the chance, you absolutely must take this course.",
}

// ParseFilter accepts all, easy or hard in any case. Empty means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterEasy, FilterHard:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// MeanRating is the arithmetic mean of the ratings, or 0 without reviews.
func MeanRating(reviews []entity.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// Quote rounds the mean half up and returns the matching blurb.
func Quote(mean float64) string {
	if q, ok := quotes[int(math.Floor(mean+0.5))]; ok {
		return q
	}
	return NoReviewsQuote
}

// TierFor buckets a mean rating for display.
func TierFor(mean float64) Tier {
	switch {
	case mean >= EasyThreshold:
		return TierSuccess
	case mean >= HardThreshold:
		return TierWarning
	default:
		return TierError
	}
}

// Matches reports whether the mean falls in the band selected by f.
// The [2.5, 4) band is only reachable through FilterAll.
func (f Filter) Matches(mean float64) bool {
	switch f {
	case FilterEasy:
		return mean >= EasyThreshold
	case FilterHard:
		return mean < HardThreshold
	default:
		return true
	}
}

// Apply sorts courses by code, then narrows them by search term and filter.
// The input slice is left untouched; courses with equal codes keep their order.
func Apply(courses []entity.Course, f Filter, search string) []entity.Course {
	sorted := slices.Clone(courses)
	col := collate.New(language.English)
	slices.SortStableFunc(sorted, func(a, b entity.Course) int {
		return col.CompareString(a.Code, b.Code)
	})

	needle := strings.ToLower(search)
	out := make([]entity.Course, 0, len(sorted))
	for _, c := range sorted {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Code), needle) {
			continue
		}
		if !f.Matches(MeanRating(c.Reviews)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Summary is the aggregated view of one course.
type Summary struct {
	Course      entity.Course
	Mean        float64
	MeanDisplay string
	Quote       string
	Tier        Tier
	ReviewCount int
}

func Summarize(c entity.Course) Summary {
	mean := MeanRating(c.Reviews)
	return Summary{
		Course:      c,
		Mean:        mean,
		MeanDisplay: fmt.Sprintf("%.1f", mean),
		Quote:       Quote(mean),
		Tier:        TierFor(mean),
		ReviewCount: len(c.Reviews),
	}
}

// Suggestion is one typeahead hit from the course search index.
type Suggestion struct {
	ID   string  `json:"id"`
	Code string  `json:"code"`
	Name string  `json:"name"`
	Mean float64 `json:"meanRating"`
}
