package models

import "time"

// Status is the lifecycle classification of a memorization item
type Status string

const (
	StatusLearning Status = "learning"
	StatusReview   Status = "review"
	StatusMastered Status = "mastered"
)

// IsValid reports whether s is one of the known lifecycle states
func (s Status) IsValid() bool {
	switch s {
	case StatusLearning, StatusReview, StatusMastered:
		return true
	}
	return false
}

// Item is one memorized verse (surah, ayah) and its scheduling state
type Item struct {
	ID                 string     `json:"id" db:"id"`
	Surah              int        `json:"surah" db:"surah"`
	Ayah               int        `json:"ayah" db:"ayah"`
	Page               int        `json:"page" db:"page"` // display hint only
	Status             Status     `json:"status" db:"status"`
	TotalReps          int        `json:"total_reps" db:"total_reps"`
	ConsecutiveCorrect int        `json:"consecutive_correct" db:"consecutive_correct"`
	EaseFactor         float64    `json:"ease_factor" db:"ease_factor"`
	IntervalDays       int        `json:"interval_days" db:"interval_days"`
	NextReviewAt       ReviewTime `json:"next_review_at" db:"next_review_at"`
	LastAttemptAt      *time.Time `json:"last_attempt_at,omitempty" db:"last_attempt_at"`
	LastGrade          *Grade     `json:"last_grade,omitempty" db:"last_grade"`
	Version            int64      `json:"-" db:"version"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// IsDue reports whether the item should be offered for review at now
func (i *Item) IsDue(now time.Time) bool {
	return i.NextReviewAt.DueBy(now)
}

// Outcome is the scheduling result of a single grading event
type Outcome struct {
	ItemID       string    `json:"item_id"`
	NextReviewAt time.Time `json:"next_review_at"`
	IntervalDays int       `json:"interval_days"`
	EaseFactor   float64   `json:"ease_factor"`
	Status       Status    `json:"status"`
}
