package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/hifz/pkg/models"
)

const itemColumns = `id, surah, ayah, page, status, total_reps, consecutive_correct,
	ease_factor, interval_days, next_review_at, last_attempt_at, last_grade,
	version, created_at, updated_at`

// dueOrder sorts never-reviewed items first on every driver
const dueOrder = `CASE WHEN next_review_at IS NULL THEN 0 ELSE 1 END,
	next_review_at ASC, created_at ASC, id ASC`

// ItemRepository handles database operations for memorization items
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new repository instance
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Get returns the item with the given id, or models.ErrNotFound
func (r *ItemRepository) Get(ctx context.Context, id string) (*models.Item, error) {
	return r.get(ctx, r.db, id, false)
}

func (r *ItemRepository) get(ctx context.Context, q sqlx.QueryerContext, id string, lock bool) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM memorization_items WHERE id = ?`
	if lock && r.db.DriverName() == DriverPostgres {
		query += ` FOR UPDATE`
	}
	var item models.Item
	err := sqlx.GetContext(ctx, q, &item, r.db.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get item", Err: err}
	}
	return &item, nil
}

// FindByVerse returns the item registered for (surah, ayah), or nil when there is none
func (r *ItemRepository) FindByVerse(ctx context.Context, surah, ayah int) (*models.Item, error) {
	query := r.db.Rebind(`SELECT ` + itemColumns + ` FROM memorization_items WHERE surah = ? AND ayah = ?`)
	var item models.Item
	err := r.db.GetContext(ctx, &item, query, surah, ayah)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StorageError{Op: "find item by verse", Err: err}
	}
	return &item, nil
}

// Insert stores a new item. It returns models.ErrDuplicate when the verse is already registered.
func (r *ItemRepository) Insert(ctx context.Context, item *models.Item) error {
	query := r.db.Rebind(`
		INSERT INTO memorization_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (surah, ayah) DO NOTHING
	`)
	if item.Version == 0 {
		item.Version = 1
	}
	result, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Surah,
		item.Ayah,
		item.Page,
		item.Status,
		item.TotalReps,
		item.ConsecutiveCorrect,
		item.EaseFactor,
		item.IntervalDays,
		item.NextReviewAt,
		utcPtr(item.LastAttemptAt),
		item.LastGrade,
		item.Version,
		item.CreatedAt.UTC(),
		item.UpdatedAt.UTC(),
	)
	if err != nil {
		return &models.StorageError{Op: "insert item", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "insert item", Err: err}
	}
	if rows == 0 {
		return fmt.Errorf("%w: surah %d ayah %d", models.ErrDuplicate, item.Surah, item.Ayah)
	}
	return nil
}

// Update writes item back if its version still matches the stored one.
// On success the version is advanced.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	return r.update(ctx, r.db, item)
}

func (r *ItemRepository) update(ctx context.Context, e sqlx.ExecerContext, item *models.Item) error {
	query := r.db.Rebind(`
		UPDATE memorization_items SET
			page = ?,
			status = ?,
			total_reps = ?,
			consecutive_correct = ?,
			ease_factor = ?,
			interval_days = ?,
			next_review_at = ?,
			last_attempt_at = ?,
			last_grade = ?,
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND version = ?
	`)
	result, err := e.ExecContext(ctx, query,
		item.Page,
		item.Status,
		item.TotalReps,
		item.ConsecutiveCorrect,
		item.EaseFactor,
		item.IntervalDays,
		item.NextReviewAt,
		utcPtr(item.LastAttemptAt),
		item.LastGrade,
		item.UpdatedAt.UTC(),
		item.ID,
		item.Version,
	)
	if err != nil {
		return &models.StorageError{Op: "update item", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &models.StorageError{Op: "update item", Err: err}
	}
	if rows == 0 {
		return &models.StorageError{Op: "update item " + item.ID, Err: models.ErrConflict}
	}
	item.Version++
	return nil
}

// Modify reads the current item, applies fn and writes the result in one transaction.
// Errors returned by fn abort the transaction unchanged.
func (r *ItemRepository) Modify(ctx context.Context, id string, fn func(*models.Item) error) (*models.Item, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &models.StorageError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	item, err := r.get(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if err := fn(item); err != nil {
		return nil, err
	}
	if err := r.update(ctx, tx, item); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, &models.StorageError{Op: "commit transaction", Err: err}
	}
	return item, nil
}

// Delete removes an item. It reports whether a record was deleted.
func (r *ItemRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM memorization_items WHERE id = ?`), id)
	if err != nil {
		return false, &models.StorageError{Op: "delete item", Err: err}
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, &models.StorageError{Op: "delete item", Err: err}
	}
	return rows > 0, nil
}

// ListDue returns up to limit items whose review is due at now,
// never-reviewed first, then by next review time and registration time
func (r *ItemRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.Item, error) {
	query := r.db.Rebind(`
		SELECT ` + itemColumns + `
		FROM memorization_items
		WHERE next_review_at IS NULL OR next_review_at <= ?
		ORDER BY ` + dueOrder + `
		LIMIT ?
	`)
	items := []models.Item{}
	if err := r.db.SelectContext(ctx, &items, query, now.UTC(), limit); err != nil {
		return nil, &models.StorageError{Op: "list due items", Err: err}
	}
	return items, nil
}

// ListAll returns every item ordered by verse
func (r *ItemRepository) ListAll(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM memorization_items ORDER BY surah ASC, ayah ASC`
	items := []models.Item{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, &models.StorageError{Op: "list items", Err: err}
	}
	return items, nil
}

// Stats aggregates item counts as of now
func (r *ItemRepository) Stats(ctx context.Context, now time.Time) (models.ProgressStats, error) {
	query := r.db.Rebind(`
		SELECT
			COUNT(*) AS total_items,
			COALESCE(SUM(CASE WHEN next_review_at IS NULL OR next_review_at <= ? THEN 1 ELSE 0 END), 0) AS due_today,
			COALESCE(SUM(CASE WHEN status = 'mastered' THEN 1 ELSE 0 END), 0) AS mastered_count,
			COALESCE(SUM(CASE WHEN status = 'learning' THEN 1 ELSE 0 END), 0) AS learning_count,
			COALESCE(SUM(CASE WHEN status = 'review' THEN 1 ELSE 0 END), 0) AS review_count
		FROM memorization_items
	`)
	var stats models.ProgressStats
	if err := r.db.GetContext(ctx, &stats, query, now.UTC()); err != nil {
		return models.ProgressStats{}, &models.StorageError{Op: "progress stats", Err: err}
	}
	return stats, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
