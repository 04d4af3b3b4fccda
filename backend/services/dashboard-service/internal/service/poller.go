package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"voltboard/backend/services/dashboard-service/internal/models"
	"voltboard/backend/services/dashboard-service/internal/observability/metrics"
)

// Feed is the slice of FeedService the poller needs.
type Feed interface {
	Snapshot(ctx context.Context) (models.Table, error)
	Delta(ctx context.Context, watermark *time.Time) (models.Table, error)
}

// ChartSink receives chart updates for one dashboard session. Implementations
// are driven from a single goroutine; they do not need to be safe for
// concurrent use by the poller.
type ChartSink interface {
	// RenderSnapshot draws the initial chart content.
	RenderSnapshot(rows models.Table) error
	// AppendRows extends an already-rendered chart, preserving time order.
	AppendRows(rows models.Table) error
	// Waiting tells the session no data exists yet and a manual retry is the
	// way forward.
	Waiting() error
}

// Poller drives one dashboard session. It starts waiting for a non-empty
// snapshot, then streams: every interval it asks the feed for rows above the
// watermark and appends whatever comes back. Transient fetch errors skip the
// cycle and back off exponentially instead of killing the session. The whole
// loop stops when the context is cancelled.
type Poller struct {
	feed       Feed
	sink       ChartSink
	interval   time.Duration
	maxBackoff time.Duration
	metrics    *metrics.Metrics
	logger     *zap.Logger

	// retry wakes the waiting state for another snapshot attempt. Buffered so
	// a retry fired between attempts is not lost.
	retry chan struct{}

	watermark *time.Time
}

// NewPoller returns a poller for a single session.
func NewPoller(feed Feed, sink ChartSink, interval, maxBackoff time.Duration, m *metrics.Metrics, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if maxBackoff < interval {
		maxBackoff = 30 * time.Second
	}
	return &Poller{
		feed:       feed,
		sink:       sink,
		interval:   interval,
		maxBackoff: maxBackoff,
		metrics:    m,
		logger:     logger,
		retry:      make(chan struct{}, 1),
	}
}

// Retry requests another snapshot attempt while the session is still waiting
// for data. Safe to call from other goroutines; extra requests coalesce.
func (p *Poller) Retry() {
	select {
	case p.retry <- struct{}{}:
	default:
	}
}

// Run executes the session loop until ctx is cancelled or a snapshot attempt
// fails. A failed snapshot is surfaced to the caller: without an initial chart
// there is nothing to stream.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.waitForSnapshot(ctx); err != nil {
		return err
	}
	return p.stream(ctx)
}

// waitForSnapshot is the INITIAL state: fetch the snapshot, render it if it
// has rows, otherwise tell the session to wait. There is no automatic retry
// against an empty collection; the session asks again via Retry.
func (p *Poller) waitForSnapshot(ctx context.Context) error {
	for {
		table, err := p.feed.Snapshot(ctx)
		if err != nil {
			return err
		}

		if len(table) > 0 {
			if err := p.sink.RenderSnapshot(table); err != nil {
				return err
			}
			last, _ := table.LastTimestamp()
			p.watermark = &last
			return nil
		}

		if err := p.sink.Waiting(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.retry:
		}
	}
}

// stream is the STREAMING state: tick, fetch the delta, append, advance the
// watermark. Fetch errors are logged and counted, the cycle is skipped, and
// the next tick is pushed out exponentially until a cycle succeeds again.
func (p *Poller) stream(ctx context.Context) error {
	backoff := time.Duration(0)
	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		rows, err := p.feed.Delta(ctx, p.watermark)
		p.metrics.PollCycles.Inc()
		if err != nil {
			p.metrics.PollErrors.Inc()
			backoff = p.nextBackoff(backoff)
			p.logger.Warn("poll cycle failed, backing off",
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			timer.Reset(backoff)
			continue
		}
		backoff = 0

		if len(rows) > 0 {
			if err := p.sink.AppendRows(rows); err != nil {
				return err
			}
			last, _ := rows.LastTimestamp()
			p.watermark = &last
		}

		timer.Reset(p.interval)
	}
}

func (p *Poller) nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return p.interval
	}
	next := current * 2
	if next > p.maxBackoff {
		next = p.maxBackoff
	}
	return next
}
