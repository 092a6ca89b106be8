package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/hifz/pkg/models"
)

// SM2 implements the four-level SuperMemo-2 variant used for verse review
type SM2 struct {
	// Ease factor assigned to newly registered items
	InitialEase float64
	// Lower bound of the ease factor
	MinEase float64
	// Consecutive successes that always promote an item to mastered
	MasteryStreak int
	// Ease and streak that together promote an item early
	FastTrackEase   float64
	FastTrackStreak int
}

// NewSM2 returns the algorithm with its standard settings
func NewSM2() *SM2 {
	return &SM2{
		InitialEase:     2.5,
		MinEase:         1.3,
		MasteryStreak:   10,
		FastTrackEase:   2.9,
		FastTrackStreak: 5,
	}
}

// EaseDelta returns the change applied to the ease factor for a grade.
// Computed in hundredths so that Good is exactly neutral:
// Again -0.32, Hard -0.14, Good 0, Easy +0.10.
func EaseDelta(grade models.Grade) float64 {
	miss := 3 - int(grade)
	hundredths := 10 - miss*(8+miss*2)
	return float64(hundredths) / 100
}

// NextEase applies the grade to the current ease, clamped at MinEase
func (sm *SM2) NextEase(current float64, grade models.Grade) float64 {
	ease := roundHundredths(current + EaseDelta(grade))
	if ease < sm.MinEase {
		ease = sm.MinEase
	}
	return ease
}

// NextInterval returns the next review interval in days.
// newEase is the ease factor already updated for this grade.
func (sm *SM2) NextInterval(prevInterval int, grade models.Grade, newEase float64) int {
	if !grade.Passed() {
		return 1
	}
	switch prevInterval {
	case 0:
		return 1
	case 1:
		return 6
	}
	return int(math.Round(float64(prevInterval) * newEase))
}

// NextStatus classifies the item after a grading event
func (sm *SM2) NextStatus(current models.Status, grade models.Grade, streak int, ease float64, interval int) models.Status {
	if current == models.StatusMastered {
		if !grade.Passed() {
			// a single lapse costs mastery but never the whole history
			return models.StatusReview
		}
		return models.StatusMastered
	}
	if sm.IsMastered(streak, ease) {
		return models.StatusMastered
	}
	if interval > 0 {
		return models.StatusReview
	}
	return models.StatusLearning
}

// IsMastered determines whether a streak and ease qualify for mastery
func (sm *SM2) IsMastered(streak int, ease float64) bool {
	return streak >= sm.MasteryStreak ||
		(ease >= sm.FastTrackEase && streak >= sm.FastTrackStreak)
}

// Process applies one grading event to item in place.
// The grade must already be validated.
func (sm *SM2) Process(item *models.Item, grade models.Grade, now time.Time) {
	if grade.Passed() {
		item.ConsecutiveCorrect++
	} else {
		item.ConsecutiveCorrect = 0
	}

	item.EaseFactor = sm.NextEase(item.EaseFactor, grade)
	item.IntervalDays = sm.NextInterval(item.IntervalDays, grade, item.EaseFactor)
	item.NextReviewAt = models.ScheduledAt(now.AddDate(0, 0, item.IntervalDays))
	item.Status = sm.NextStatus(item.Status, grade, item.ConsecutiveCorrect, item.EaseFactor, item.IntervalDays)

	item.TotalReps++
	attempted := now
	item.LastAttemptAt = &attempted
	g := grade
	item.LastGrade = &g
	item.UpdatedAt = now
}

// NewItem returns a freshly registered item that is immediately due
func (sm *SM2) NewItem(surah, ayah, page int, now time.Time) *models.Item {
	return &models.Item{
		Surah:        surah,
		Ayah:         ayah,
		Page:         page,
		Status:       models.StatusLearning,
		EaseFactor:   sm.InitialEase,
		IntervalDays: 0,
		NextReviewAt: models.NeverReviewed(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func roundHundredths(v float64) float64 {
	return math.Round(v*100) / 100
}
