package scheduler

import (
	"fmt"
	"io"
	"time"

	"github.com/example/hifz/pkg/models"
)

// WriterReporter prints one line per digest
type WriterReporter struct {
	W io.Writer
}

// Report implements Reporter
func (r WriterReporter) Report(at time.Time, stats models.ProgressStats) error {
	_, err := fmt.Fprintf(r.W, "%s  total=%d due=%d learning=%d review=%d mastered=%d\n",
		at.Format(time.RFC3339),
		stats.TotalItems,
		stats.DueToday,
		stats.LearningCount,
		stats.ReviewCount,
		stats.MasteredCount)
	return err
}
