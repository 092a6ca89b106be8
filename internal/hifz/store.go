package hifz

import (
	"context"
	"time"

	"github.com/example/hifz/pkg/models"
)

// ItemStore is the persistent record store the scheduler reads and writes.
// Get and Modify return models.ErrNotFound for unknown ids. FindByVerse
// returns nil without error when no item is registered for the verse.
type ItemStore interface {
	Get(ctx context.Context, id string) (*models.Item, error)
	FindByVerse(ctx context.Context, surah, ayah int) (*models.Item, error)
	Insert(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id string) (bool, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]models.Item, error)
	ListAll(ctx context.Context) ([]models.Item, error)
	Stats(ctx context.Context, now time.Time) (models.ProgressStats, error)

	// Modify atomically re-reads the item, applies fn and persists the result.
	Modify(ctx context.Context, id string, fn func(*models.Item) error) (*models.Item, error)
}
