package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReviewTime is either "never reviewed" or a concrete scheduled time.
// The zero value is NeverReviewed.
type ReviewTime struct {
	at        time.Time
	scheduled bool
}

// NeverReviewed is the review time of an item that has not been graded yet
func NeverReviewed() ReviewTime {
	return ReviewTime{}
}

// ScheduledAt returns a review time fixed at t
func ScheduledAt(t time.Time) ReviewTime {
	return ReviewTime{at: t, scheduled: true}
}

// IsScheduled reports whether a concrete review time is set
func (r ReviewTime) IsScheduled() bool {
	return r.scheduled
}

// Time returns the scheduled time and true, or the zero time and false
func (r ReviewTime) Time() (time.Time, bool) {
	return r.at, r.scheduled
}

// DueBy reports whether a review is due at now. Never-reviewed items are always due.
func (r ReviewTime) DueBy(now time.Time) bool {
	return !r.scheduled || !r.at.After(now)
}

// Before orders review times with NeverReviewed ahead of every scheduled time
func (r ReviewTime) Before(o ReviewTime) bool {
	switch {
	case !r.scheduled:
		return o.scheduled
	case !o.scheduled:
		return false
	}
	return r.at.Before(o.at)
}

// Equal reports whether both values describe the same review time
func (r ReviewTime) Equal(o ReviewTime) bool {
	if r.scheduled != o.scheduled {
		return false
	}
	return !r.scheduled || r.at.Equal(o.at)
}

func (r ReviewTime) String() string {
	if !r.scheduled {
		return "never"
	}
	return r.at.Format(time.RFC3339)
}

// Value implements driver.Valuer. NeverReviewed is stored as NULL.
func (r ReviewTime) Value() (driver.Value, error) {
	if !r.scheduled {
		return nil, nil
	}
	return r.at.UTC(), nil
}

// Scan implements sql.Scanner
func (r *ReviewTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = NeverReviewed()
		return nil
	case time.Time:
		*r = ScheduledAt(v)
		return nil
	case string:
		return r.scanText(v)
	case []byte:
		return r.scanText(string(v))
	}
	return fmt.Errorf("cannot scan %T into ReviewTime", src)
}

var reviewTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (r *ReviewTime) scanText(s string) error {
	for _, layout := range reviewTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*r = ScheduledAt(t)
			return nil
		}
	}
	return fmt.Errorf("cannot parse review time %q", s)
}

// MarshalJSON encodes NeverReviewed as null
func (r ReviewTime) MarshalJSON() ([]byte, error) {
	if !r.scheduled {
		return []byte("null"), nil
	}
	return json.Marshal(r.at)
}

// UnmarshalJSON implements json.Unmarshaler
func (r *ReviewTime) UnmarshalJSON(data []byte) error {
	var t *time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	if t == nil {
		*r = NeverReviewed()
		return nil
	}
	*r = ScheduledAt(*t)
	return nil
}
