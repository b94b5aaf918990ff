// Package monitor drives a pool-tag monitoring run: capture a baseline,
// sample on a fixed interval, report growth after every sample, and rank
// leak suspects at the end.
//
// A run is single-use and purely sequential. One snapshot is captured per
// interval; the wait between captures is a blocking, context-aware sleep.
// Cancelling the context does not abort the run abruptly: the loop stops
// sampling and still emits the final summary from the most recent usable
// snapshot, so a long run interrupted by Ctrl-C keeps its findings.
package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/pooltrack/delta"
	"github.com/arloliu/pooltrack/internal/options"
	"github.com/arloliu/pooltrack/pooltag"
)

// Source supplies one pool-tag snapshot per call. A source never fails; a
// failed acquisition is represented as an empty snapshot.
// *sysquery.Collector is the production implementation.
type Source interface {
	Collect(now time.Time) pooltag.Snapshot
}

// SnapshotSink receives every captured snapshot, baseline and final
// included. *archive.Writer satisfies it. Sink failures are logged and never
// interrupt sampling.
type SnapshotSink interface {
	Append(snap pooltag.Snapshot) error
}

// Clock abstracts time for the sampling loop so tests can run a multi-hour
// schedule instantly.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Monitor owns one monitoring run.
type Monitor struct {
	source   Source
	store    *delta.Store
	reporter *Reporter
	logger   *zap.Logger
	clock    Clock
	sink     SnapshotSink

	out     io.Writer
	topRows int

	interval time.Duration
	samples  int

	state State
}

// Option configures a Monitor.
type Option = options.Option[*Monitor]

// WithSink appends every captured snapshot to the given sink.
func WithSink(sink SnapshotSink) Option {
	return options.NoError(func(m *Monitor) {
		m.sink = sink
	})
}

// WithClock replaces the wall clock. Intended for tests.
func WithClock(clock Clock) Option {
	return options.NoError(func(m *Monitor) {
		m.clock = clock
	})
}

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(m *Monitor) {
		m.logger = logger
	})
}

// WithOutput redirects the report tables. Defaults to standard output.
func WithOutput(w io.Writer) Option {
	return options.NoError(func(m *Monitor) {
		m.out = w
	})
}

// WithTopRows caps the per-interval table at n rows. Defaults to
// DefaultTopRows. The final summary is never capped.
func WithTopRows(n int) Option {
	return options.New(func(m *Monitor) error {
		if n < 1 {
			return fmt.Errorf("top rows must be positive, got %d", n)
		}
		m.topRows = n

		return nil
	})
}

// New creates a Monitor that samples from source every interval, samples
// times, comparing against the baseline held by store.
func New(source Source, store *delta.Store, interval time.Duration, samples int, opts ...Option) (*Monitor, error) {
	if source == nil {
		return nil, fmt.Errorf("snapshot source is required")
	}
	if store == nil {
		return nil, fmt.Errorf("delta store is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("sampling interval must be positive, got %s", interval)
	}
	if samples < 1 {
		return nil, fmt.Errorf("sample count must be positive, got %d", samples)
	}

	m := &Monitor{
		source:   source,
		store:    store,
		logger:   zap.NewNop(),
		clock:    systemClock{},
		interval: interval,
		samples:  samples,
		out:      os.Stdout,
		topRows:  DefaultTopRows,
		state:    StateInit,
	}
	if err := options.Apply(m, opts...); err != nil {
		return nil, err
	}
	m.reporter = NewReporter(m.out, m.topRows)

	return m, nil
}

// State returns the run's current lifecycle state. It is only meaningful
// from the goroutine calling Run.
func (m *Monitor) State() State {
	return m.state
}

// Run executes the monitoring run to completion and always emits a final
// summary, even when ctx is cancelled mid-run. A Monitor is single-use;
// running it twice returns ErrBaselineRecorded.
//
// Failed acquisitions surface as empty snapshots and never stop the loop;
// the run exits successfully regardless of how many samples were lost.
func (m *Monitor) Run(ctx context.Context) error {
	m.reporter.Preamble(m.interval, m.samples, m.store.Threshold())

	baseline := m.source.Collect(m.clock.Now())
	if err := m.store.RecordBaseline(baseline); err != nil {
		return err
	}
	m.state = StateBaselineCaptured
	m.reporter.Baseline(baseline.Len())
	m.appendToSink(baseline)
	m.logger.Debug("baseline captured", zap.Int("tags", baseline.Len()))

	// Last usable snapshot and its scheduled offset, for the interrupted
	// final summary.
	last := baseline
	lastElapsed := time.Duration(0)

	m.state = StateSampling
	interrupted := false
	for i := 1; i <= m.samples; i++ {
		if err := m.clock.Sleep(ctx, m.interval); err != nil {
			m.logger.Info("run interrupted, emitting final summary",
				zap.Int("completed_samples", i-1),
				zap.Error(err),
			)
			interrupted = true

			break
		}

		current := m.source.Collect(m.clock.Now())
		// Report against the scheduled offset, not wall time, so labels
		// line up across runs regardless of query latency.
		elapsed := time.Duration(i) * m.interval
		m.reporter.IntervalGrowth(elapsed, m.store.Growth(current))
		m.appendToSink(current)
		m.logger.Debug("sample captured",
			zap.Int("sample", i),
			zap.Int("tags", current.Len()),
			zap.Duration("elapsed", elapsed),
		)

		if !current.IsEmpty() {
			last = current
			lastElapsed = elapsed
		}
	}

	m.state = StateFinalSummary
	finalSnap := last
	finalElapsed := lastElapsed
	if !interrupted {
		// One extra capture after the last interval; the whole scheduled
		// window is the rate denominator.
		finalSnap = m.source.Collect(m.clock.Now())
		finalElapsed = time.Duration(m.samples) * m.interval
		m.appendToSink(finalSnap)
	}
	m.reporter.FinalSummary(m.store.FinalGrowth(finalSnap, finalElapsed))

	m.state = StateDone

	return nil
}

func (m *Monitor) appendToSink(snap pooltag.Snapshot) {
	if m.sink == nil {
		return
	}
	if err := m.sink.Append(snap); err != nil {
		m.logger.Warn("snapshot archive append failed", zap.Error(err))
	}
}
