package delta

import (
	"time"

	"github.com/arloliu/pooltrack/errs"
	"github.com/arloliu/pooltrack/internal/options"
	"github.com/arloliu/pooltrack/pooltag"
)

// DefaultThresholdBytes is the minimum total growth a tag must exceed,
// strictly, before it appears in any report. 100 KB hides the constant churn
// of healthy tags while catching even slow leaks within a few samples.
const DefaultThresholdBytes = 100 * 1024

// Store compares snapshots against the baseline captured at the start of a
// monitoring run.
//
// The baseline is write-once: recording it twice is an error, because a
// silently replaced baseline would make every subsequent delta lie. A Store
// is not safe for concurrent use; the sampling loop owns it.
type Store struct {
	baseline    pooltag.Snapshot
	hasBaseline bool

	thresholdBytes int64
	filter         *TagFilter
}

// Option configures a Store.
type Option = options.Option[*Store]

// WithThreshold sets the growth threshold in bytes. Tags must exceed it
// strictly to be reported.
func WithThreshold(bytes int64) Option {
	return options.New(func(s *Store) error {
		if bytes < 0 {
			return errs.ErrNegativeThreshold
		}
		s.thresholdBytes = bytes

		return nil
	})
}

// WithTagFilter restricts reports to tags matching at least one of the given
// glob patterns. No patterns means no restriction.
func WithTagFilter(patterns ...string) Option {
	return options.New(func(s *Store) error {
		if len(patterns) == 0 {
			return nil
		}

		filter, err := NewTagFilter(patterns...)
		if err != nil {
			return err
		}
		s.filter = filter

		return nil
	})
}

// NewStore creates a Store with the default threshold, adjusted by the given
// options.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{
		thresholdBytes: DefaultThresholdBytes,
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Threshold returns the configured growth threshold in bytes.
func (s *Store) Threshold() int64 {
	return s.thresholdBytes
}

// HasBaseline reports whether a baseline has been recorded.
func (s *Store) HasBaseline() bool {
	return s.hasBaseline
}

// Baseline returns the recorded baseline snapshot. The zero snapshot is
// returned before RecordBaseline has been called.
func (s *Store) Baseline() pooltag.Snapshot {
	return s.baseline
}

// RecordBaseline stores the run's reference snapshot.
//
// Returns ErrBaselineRecorded if a baseline already exists.
func (s *Store) RecordBaseline(snap pooltag.Snapshot) error {
	if s.hasBaseline {
		return errs.ErrBaselineRecorded
	}
	s.baseline = snap
	s.hasBaseline = true

	return nil
}

// Growth compares a snapshot against the baseline and returns the tags whose
// total growth strictly exceeds the threshold, largest first.
//
// Tags missing from the baseline count as growing from zero. Before a
// baseline is recorded the whole baseline counts as zero, so every tag's
// current usage is its growth.
func (s *Store) Growth(current pooltag.Snapshot) []TagGrowth {
	rows := make([]TagGrowth, 0)
	for tag, cur := range current.Samples {
		if s.filter != nil && !s.filter.Match(tag) {
			continue
		}

		base, _ := s.baseline.Get(tag)
		pagedDelta := signedDelta(cur.PagedUsed, base.PagedUsed)
		nonPagedDelta := signedDelta(cur.NonPagedUsed, base.NonPagedUsed)
		totalDelta := pagedDelta + nonPagedDelta
		if totalDelta > s.thresholdBytes {
			rows = append(rows, TagGrowth{
				Tag:           tag,
				PagedDelta:    pagedDelta,
				NonPagedDelta: nonPagedDelta,
				TotalDelta:    totalDelta,
				CurrentTotal:  cur.TotalUsed(),
			})
		}
	}
	sortGrowth(rows)

	return rows
}

// FinalGrowth compares the final snapshot against the baseline and returns
// every tag over the threshold with its growth rate over the elapsed
// monitoring window.
//
// The elapsed duration is the scheduled window (samples times interval), so
// rates stay comparable between runs even when individual queries lag. A
// non-positive elapsed yields zero rates rather than dividing by zero.
func (s *Store) FinalGrowth(final pooltag.Snapshot, elapsed time.Duration) []LeakSuspect {
	suspects := make([]LeakSuspect, 0)
	for tag, cur := range final.Samples {
		if s.filter != nil && !s.filter.Match(tag) {
			continue
		}

		base, _ := s.baseline.Get(tag)
		totalDelta := signedDelta(cur.TotalUsed(), base.TotalUsed())
		if totalDelta <= s.thresholdBytes {
			continue
		}

		var rate float64
		if elapsed > 0 {
			rate = float64(totalDelta) / 1024 / elapsed.Minutes()
		}
		suspects = append(suspects, LeakSuspect{
			Tag:          tag,
			TotalDelta:   totalDelta,
			RateKBPerMin: rate,
			CurrentTotal: cur.TotalUsed(),
		})
	}
	sortSuspects(suspects)

	return suspects
}
