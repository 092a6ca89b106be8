// Package hifz schedules review of memorized verses.
//
// All operations take the current time from the caller, so results are
// deterministic for a given store state.
package hifz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/hifz/internal/spaced_repetition"
	"github.com/example/hifz/pkg/models"
)

const (
	minSurah = 1
	maxSurah = 114
)

// Scheduler owns due selection, grading and lifecycle transitions
type Scheduler struct {
	store  ItemStore
	sm2    *spaced_repetition.SM2
	logger *slog.Logger
	newID  func() string
}

// New creates a scheduler over store
func New(store ItemStore, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:  store,
		sm2:    spaced_repetition.NewSM2(),
		logger: logger,
		newID:  uuid.NewString,
	}
}

// AddItem registers a verse for review and returns its id.
// Registering an already known verse returns the existing id.
func (s *Scheduler) AddItem(ctx context.Context, surah, ayah, page int, now time.Time) (string, error) {
	if err := validateVerse(surah, ayah, page); err != nil {
		return "", err
	}

	existing, err := s.store.FindByVerse(ctx, surah, ayah)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	item := s.sm2.NewItem(surah, ayah, page, now)
	item.ID = s.newID()
	err = s.store.Insert(ctx, item)
	if errors.Is(err, models.ErrDuplicate) {
		// lost a registration race; the other caller's record wins
		existing, err = s.store.FindByVerse(ctx, surah, ayah)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return "", fmt.Errorf("verse %d:%d vanished after duplicate insert", surah, ayah)
		}
		return existing.ID, nil
	}
	if err != nil {
		return "", err
	}

	s.logger.Debug("item added",
		slog.String("id", item.ID),
		slog.Int("surah", surah),
		slog.Int("ayah", ayah))
	return item.ID, nil
}

// RemoveItem deletes an item. Unknown ids are ignored.
func (s *Scheduler) RemoveItem(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		s.logger.Debug("item removed", slog.String("id", id))
	}
	return nil
}

// GetDueItems returns at most limit items due at now, never-reviewed items
// first, then by next review time and registration time
func (s *Scheduler) GetDueItems(ctx context.Context, now time.Time, limit int) ([]models.Item, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", models.ErrValidation, limit)
	}
	return s.store.ListDue(ctx, now, limit)
}

// RecordAttempt applies a grade to an item and persists the new schedule
func (s *Scheduler) RecordAttempt(ctx context.Context, id string, grade models.Grade, now time.Time) (*models.Outcome, error) {
	if !grade.IsValid() {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidGrade, int(grade))
	}

	var before models.Status
	item, err := s.store.Modify(ctx, id, func(item *models.Item) error {
		before = item.Status
		s.sm2.Process(item, grade, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	next, _ := item.NextReviewAt.Time()
	s.logger.Debug("attempt recorded",
		slog.String("id", item.ID),
		slog.String("grade", grade.String()),
		slog.Int("interval_days", item.IntervalDays),
		slog.Float64("ease_factor", item.EaseFactor))
	if before != item.Status && (before == models.StatusMastered || item.Status == models.StatusMastered) {
		s.logger.Info("mastery changed",
			slog.String("id", item.ID),
			slog.Int("surah", item.Surah),
			slog.Int("ayah", item.Ayah),
			slog.String("from", string(before)),
			slog.String("to", string(item.Status)))
	}

	return &models.Outcome{
		ItemID:       item.ID,
		NextReviewAt: next,
		IntervalDays: item.IntervalDays,
		EaseFactor:   item.EaseFactor,
		Status:       item.Status,
	}, nil
}

// GetProgressStats aggregates the store as of now
func (s *Scheduler) GetProgressStats(ctx context.Context, now time.Time) (models.ProgressStats, error) {
	return s.store.Stats(ctx, now)
}

// GetItem returns a single item
func (s *Scheduler) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.store.Get(ctx, id)
}

// ListItems returns every registered item ordered by verse
func (s *Scheduler) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.store.ListAll(ctx)
}

func validateVerse(surah, ayah, page int) error {
	if surah < minSurah || surah > maxSurah {
		return fmt.Errorf("%w: surah %d outside [%d, %d]", models.ErrInvalidVerse, surah, minSurah, maxSurah)
	}
	if ayah < 1 {
		return fmt.Errorf("%w: ayah %d must be at least 1", models.ErrInvalidVerse, ayah)
	}
	if page < 0 {
		return fmt.Errorf("%w: page %d must not be negative", models.ErrInvalidVerse, page)
	}
	return nil
}
