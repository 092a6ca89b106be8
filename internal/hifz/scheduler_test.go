package hifz

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hifz/internal/database"
	"github.com/example/hifz/pkg/models"
)

var _ ItemStore = (*database.ItemRepository)(nil)

var t0 = time.Date(2025, 2, 1, 19, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	db, err := database.Connect(context.Background(), database.DriverSQLite, filepath.Join(t.TempDir(), "hifz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(database.NewItemRepository(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAddItem_CreatesImmediatelyDueItem(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	id, err := s.AddItem(ctx, 18, 10, 294, t0)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	item, err := s.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLearning, item.Status)
	assert.Equal(t, 2.5, item.EaseFactor)
	assert.Equal(t, 0, item.IntervalDays)
	assert.Equal(t, 0, item.TotalReps)
	assert.Equal(t, 294, item.Page)
	assert.True(t, item.IsDue(t0))
}

func TestAddItem_Idempotent(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	first, err := s.AddItem(ctx, 2, 255, 42, t0)
	require.NoError(t, err)
	second, err := s.AddItem(ctx, 2, 255, 42, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddItem_Validation(t *testing.T) {
	s := newTestScheduler(t)
	tests := []struct {
		name              string
		surah, ayah, page int
	}{
		{"surah zero", 0, 1, 0},
		{"surah too large", 115, 1, 0},
		{"ayah zero", 1, 0, 0},
		{"negative page", 1, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddItem(context.Background(), tt.surah, tt.ayah, tt.page, t0)
			assert.ErrorIs(t, err, models.ErrInvalidVerse)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}

	items, err := s.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddItem_Bounds(t *testing.T) {
	s := newTestScheduler(t)
	for _, surah := range []int{1, 114} {
		_, err := s.AddItem(context.Background(), surah, 1, 0, t0)
		assert.NoError(t, err)
	}
}

func TestAddItem_ConcurrentRegistration(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	const n = 8
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.AddItem(ctx, 36, 1, 440, t0)
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRemoveItem(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	id, err := s.AddItem(ctx, 112, 1, 604, t0)
	require.NoError(t, err)

	require.NoError(t, s.RemoveItem(ctx, id))
	_, err = s.GetItem(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// already gone
	assert.NoError(t, s.RemoveItem(ctx, id))
	assert.NoError(t, s.RemoveItem(ctx, "never-existed"))
}

func TestRecordAttempt_EndToEnd(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	id, err := s.AddItem(ctx, 18, 10, 0, t0)
	require.NoError(t, err)

	due, err := s.GetDueItems(ctx, t0, 20)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, id, due[0].ID)

	out, err := s.RecordAttempt(ctx, id, models.GradeEasy, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, out.IntervalDays)
	assert.Equal(t, models.StatusReview, out.Status)
	assert.Equal(t, t0.AddDate(0, 0, 1), out.NextReviewAt)

	// not due again until tomorrow
	due, err = s.GetDueItems(ctx, t0.Add(time.Hour), 20)
	require.NoError(t, err)
	assert.Empty(t, due)

	next := t0.AddDate(0, 0, 1)
	out, err = s.RecordAttempt(ctx, id, models.GradeEasy, next)
	require.NoError(t, err)
	assert.Equal(t, 6, out.IntervalDays)
	assert.Equal(t, next.AddDate(0, 0, 6), out.NextReviewAt)

	item, err := s.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, item.TotalReps)
	assert.Equal(t, 2, item.ConsecutiveCorrect)
	assert.Equal(t, 2.7, item.EaseFactor)
	require.NotNil(t, item.LastGrade)
	assert.Equal(t, models.GradeEasy, *item.LastGrade)
}

func TestRecordAttempt_GoodSequence(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()
	id, err := s.AddItem(ctx, 1, 1, 1, t0)
	require.NoError(t, err)

	now := t0
	var intervals []int
	for i := 0; i < 3; i++ {
		out, err := s.RecordAttempt(ctx, id, models.GradeGood, now)
		require.NoError(t, err)
		assert.Equal(t, 2.5, out.EaseFactor)
		intervals = append(intervals, out.IntervalDays)
		now = out.NextReviewAt
	}
	assert.Equal(t, []int{1, 6, 15}, intervals)
}

func TestRecordAttempt_MasteryAndLapse(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()
	id, err := s.AddItem(ctx, 55, 13, 532, t0)
	require.NoError(t, err)

	var out *models.Outcome
	for i := 0; i < 5; i++ {
		out, err = s.RecordAttempt(ctx, id, models.GradeEasy, t0)
		require.NoError(t, err)
	}
	assert.Equal(t, models.StatusMastered, out.Status)

	stats, err := s.GetProgressStats(ctx, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MasteredCount)

	out, err = s.RecordAttempt(ctx, id, models.GradeAgain, t0)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReview, out.Status)
	assert.Equal(t, 1, out.IntervalDays)

	item, err := s.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, item.ConsecutiveCorrect)
}

func TestRecordAttempt_NotFound(t *testing.T) {
	s := newTestScheduler(t)

	_, err := s.RecordAttempt(context.Background(), "missing", models.GradeGood, t0)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecordAttempt_InvalidGrade(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()
	id, err := s.AddItem(ctx, 1, 2, 1, t0)
	require.NoError(t, err)

	for _, g := range []models.Grade{-1, 4, 42} {
		_, err := s.RecordAttempt(ctx, id, g, t0)
		assert.ErrorIs(t, err, models.ErrInvalidGrade)
		assert.ErrorIs(t, err, models.ErrValidation)
	}

	item, err := s.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, item.TotalReps)
	assert.False(t, item.NextReviewAt.IsScheduled())
}

func TestRecordAttempt_ConcurrentGradesAreNotLost(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()
	id, err := s.AddItem(ctx, 67, 1, 562, t0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RecordAttempt(ctx, id, models.GradeGood, t0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	item, err := s.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, item.TotalReps)
	assert.Equal(t, 2, item.ConsecutiveCorrect)
	assert.Equal(t, 6, item.IntervalDays)
}

func TestGetDueItems(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	reviewed, err := s.AddItem(ctx, 1, 1, 1, t0)
	require.NoError(t, err)
	fresh, err := s.AddItem(ctx, 1, 2, 1, t0.Add(time.Minute))
	require.NoError(t, err)
	_, err = s.RecordAttempt(ctx, reviewed, models.GradeHard, t0)
	require.NoError(t, err)

	due, err := s.GetDueItems(ctx, t0.Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, fresh, due[0].ID)

	due, err = s.GetDueItems(ctx, t0.AddDate(0, 0, 1), 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, fresh, due[0].ID)
	assert.Equal(t, reviewed, due[1].ID)

	due, err = s.GetDueItems(ctx, t0.AddDate(0, 0, 1), 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)

	_, err = s.GetDueItems(ctx, t0, 0)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestGetProgressStats(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	for ayah := 1; ayah <= 3; ayah++ {
		_, err := s.AddItem(ctx, 103, ayah, 601, t0)
		require.NoError(t, err)
	}
	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	_, err = s.RecordAttempt(ctx, items[0].ID, models.GradeGood, t0)
	require.NoError(t, err)

	stats, err := s.GetProgressStats(ctx, t0)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressStats{
		TotalItems:    3,
		DueToday:      2,
		MasteredCount: 0,
		LearningCount: 2,
		ReviewCount:   1,
	}, stats)
}

// failingStore returns a storage error from every call
type failingStore struct {
	err      error
	modified bool
}

func (f *failingStore) Get(context.Context, string) (*models.Item, error) { return nil, f.err }
func (f *failingStore) FindByVerse(context.Context, int, int) (*models.Item, error) {
	return nil, f.err
}
func (f *failingStore) Insert(context.Context, *models.Item) error    { return f.err }
func (f *failingStore) Delete(context.Context, string) (bool, error) { return false, f.err }
func (f *failingStore) ListDue(context.Context, time.Time, int) ([]models.Item, error) {
	return nil, f.err
}
func (f *failingStore) ListAll(context.Context) ([]models.Item, error) { return nil, f.err }
func (f *failingStore) Stats(context.Context, time.Time) (models.ProgressStats, error) {
	return models.ProgressStats{}, f.err
}
func (f *failingStore) Modify(_ context.Context, _ string, fn func(*models.Item) error) (*models.Item, error) {
	item := &models.Item{ID: "x", Status: models.StatusLearning, EaseFactor: 2.5}
	if err := fn(item); err != nil {
		return nil, err
	}
	f.modified = true
	return nil, f.err
}

func TestStorageErrorsPropagateUnchanged(t *testing.T) {
	storeErr := &models.StorageError{Op: "disk", Err: errors.New("i/o error")}
	store := &failingStore{err: storeErr}
	s := New(store, nil)
	ctx := context.Background()

	_, err := s.AddItem(ctx, 1, 1, 1, t0)
	assert.Same(t, storeErr, err)
	assert.Same(t, storeErr, s.RemoveItem(ctx, "x"))
	_, err = s.GetDueItems(ctx, t0, 5)
	assert.Same(t, storeErr, err)
	_, err = s.GetProgressStats(ctx, t0)
	assert.Same(t, storeErr, err)

	out, err := s.RecordAttempt(ctx, "x", models.GradeGood, t0)
	assert.Same(t, storeErr, err)
	assert.Nil(t, out)
	assert.True(t, store.modified)
}
