package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hifz/pkg/models"
)

type fakeSource struct {
	stats models.ProgressStats
	err   error
	asked []time.Time
}

func (f *fakeSource) GetProgressStats(_ context.Context, now time.Time) (models.ProgressStats, error) {
	f.asked = append(f.asked, now)
	return f.stats, f.err
}

type chanReporter struct {
	mu      sync.Mutex
	reports []models.ProgressStats
	ch      chan struct{}
}

func (c *chanReporter) Report(_ time.Time, stats models.ProgressStats) error {
	c.mu.Lock()
	c.reports = append(c.reports, stats)
	c.mu.Unlock()
	select {
	case c.ch <- struct{}{}:
	default:
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce(t *testing.T) {
	fixed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	source := &fakeSource{stats: models.ProgressStats{TotalItems: 4, DueToday: 2, LearningCount: 1, ReviewCount: 2, MasteredCount: 1}}
	var buf bytes.Buffer
	s := New(source, WriterReporter{W: &buf}, time.Hour, quietLogger())
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, []time.Time{fixed}, source.asked)
	assert.Equal(t, "2025-05-01T09:00:00Z  total=4 due=2 learning=1 review=2 mastered=1\n", buf.String())
}

func TestRunOnce_SourceError(t *testing.T) {
	boom := errors.New("boom")
	var buf bytes.Buffer
	s := New(&fakeSource{err: boom}, WriterReporter{W: &buf}, time.Hour, quietLogger())

	assert.ErrorIs(t, s.RunOnce(context.Background()), boom)
	assert.Empty(t, buf.String())
}

func TestStartRunsImmediately(t *testing.T) {
	source := &fakeSource{stats: models.ProgressStats{TotalItems: 1}}
	reporter := &chanReporter{ch: make(chan struct{}, 1)}
	s := New(source, reporter, time.Hour, quietLogger())

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-reporter.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("digest did not run after Start")
	}
	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	assert.Equal(t, 1, reporter.reports[0].TotalItems)
}
