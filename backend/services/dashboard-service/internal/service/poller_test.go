package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"voltboard/backend/services/dashboard-service/internal/models"
)

// pollFeed is a controllable feed: rows can be added mid-test and errors
// injected per call. Every Delta call signals deltaCalled and records the
// watermark it was given.
type pollFeed struct {
	mu          sync.Mutex
	rows        models.Table
	snapshotErr error
	deltaErr    error
	watermarks  []*time.Time
	deltaCalled chan struct{}
}

func newPollFeed(rows models.Table) *pollFeed {
	return &pollFeed{rows: rows, deltaCalled: make(chan struct{}, 64)}
}

func (f *pollFeed) add(rows ...models.Reading) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
}

func (f *pollFeed) setDeltaErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deltaErr = err
}

func (f *pollFeed) Snapshot(context.Context) (models.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	out := make(models.Table, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *pollFeed) Delta(_ context.Context, watermark *time.Time) (models.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watermarks = append(f.watermarks, watermark)
	select {
	case f.deltaCalled <- struct{}{}:
	default:
	}
	if f.deltaErr != nil {
		return nil, f.deltaErr
	}
	if watermark == nil {
		return models.Table{}, nil
	}
	var out models.Table
	for _, r := range f.rows {
		if r.Timestamp.After(*watermark) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *pollFeed) deltaWatermarks() []*time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*time.Time, len(f.watermarks))
	copy(out, f.watermarks)
	return out
}

// pollSink records chart updates and signals each one.
type pollSink struct {
	mu        sync.Mutex
	snapshots []models.Table
	appends   []models.Table
	waits     int
	event     chan string
}

func newPollSink() *pollSink {
	return &pollSink{event: make(chan string, 64)}
}

func (s *pollSink) RenderSnapshot(rows models.Table) error {
	s.mu.Lock()
	s.snapshots = append(s.snapshots, rows)
	s.mu.Unlock()
	s.event <- "snapshot"
	return nil
}

func (s *pollSink) AppendRows(rows models.Table) error {
	s.mu.Lock()
	s.appends = append(s.appends, rows)
	s.mu.Unlock()
	s.event <- "append"
	return nil
}

func (s *pollSink) Waiting() error {
	s.mu.Lock()
	s.waits++
	s.mu.Unlock()
	s.event <- "waiting"
	return nil
}

func (s *pollSink) appended() []models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Table, len(s.appends))
	copy(out, s.appends)
	return out
}

func waitEvent(t *testing.T, s *pollSink, want string) {
	t.Helper()
	select {
	case got := <-s.event:
		if got != want {
			t.Fatalf("expected %q event, got %q", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q event", want)
	}
}

func newTestPoller(feed Feed, sink ChartSink) *Poller {
	return NewPoller(feed, sink, 5*time.Millisecond, 40*time.Millisecond, newTestMetrics(), zap.NewNop())
}

func TestPollerRendersSnapshotThenStreams(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := newPollFeed(rowsAt(base, 5))
	sink := newPollSink()
	poller := newTestPoller(feed, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	waitEvent(t, sink, "snapshot")

	// Three new rows arrive after the snapshot; one poll cycle must deliver
	// exactly those three, in order.
	newRows := rowsAt(base.Add(10*time.Second), 3)
	feed.add(newRows...)
	waitEvent(t, sink, "append")

	appends := sink.appended()
	if len(appends) != 1 || len(appends[0]) != 3 {
		t.Fatalf("expected one append of 3 rows, got %v", appends)
	}
	for i, r := range appends[0] {
		if !r.Timestamp.Equal(newRows[i].Timestamp) {
			t.Fatalf("append row %d out of order: %v", i, r.Timestamp)
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}

func TestPollerWatermarkUnchangedOnEmptyDelta(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := newPollFeed(rowsAt(base, 5))
	sink := newPollSink()
	poller := newTestPoller(feed, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	waitEvent(t, sink, "snapshot")

	// Let at least two empty poll cycles happen.
	for i := 0; i < 2; i++ {
		select {
		case <-feed.deltaCalled:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for poll cycle")
		}
	}
	cancel()

	want := base.Add(4 * time.Second)
	for i, wm := range feed.deltaWatermarks() {
		if wm == nil || !wm.Equal(want) {
			t.Fatalf("cycle %d polled with watermark %v, want %v", i, wm, want)
		}
	}
	if len(sink.appended()) != 0 {
		t.Fatal("empty deltas must not produce appends")
	}
}

func TestPollerEmptySnapshotWaitsForManualRetry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := newPollFeed(nil)
	sink := newPollSink()
	poller := newTestPoller(feed, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	waitEvent(t, sink, "waiting")

	// No auto-polling against an empty collection.
	select {
	case <-feed.deltaCalled:
		t.Fatal("poller must not poll while waiting for data")
	case <-time.After(50 * time.Millisecond):
	}

	feed.add(rowsAt(base, 2)...)
	poller.Retry()
	waitEvent(t, sink, "snapshot")
}

func TestPollerSkipsCycleOnTransientError(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := newPollFeed(rowsAt(base, 2))
	sink := newPollSink()
	poller := newTestPoller(feed, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	waitEvent(t, sink, "snapshot")

	feed.setDeltaErr(errors.New("store unreachable"))
	for i := 0; i < 3; i++ {
		select {
		case <-feed.deltaCalled:
		case <-time.After(2 * time.Second):
			t.Fatal("poller stopped polling after a transient error")
		}
	}

	// Recovery: the loop must still be alive and deliver new rows.
	feed.setDeltaErr(nil)
	feed.add(rowsAt(base.Add(time.Minute), 1)...)
	waitEvent(t, sink, "append")

	select {
	case err := <-done:
		t.Fatalf("poller exited during transient errors: %v", err)
	default:
	}
}

func TestPollerSnapshotFailureIsFatal(t *testing.T) {
	feed := newPollFeed(nil)
	feed.snapshotErr = errors.New("credentials rejected")
	sink := newPollSink()
	poller := newTestPoller(feed, sink)

	err := poller.Run(context.Background())
	if err == nil || !errors.Is(err, feed.snapshotErr) {
		t.Fatalf("expected snapshot error to surface, got %v", err)
	}
}
