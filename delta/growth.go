package delta

import (
	"cmp"
	"slices"
)

// TagGrowth is one row of an interval growth report: how far a tag has moved
// from the baseline, split by pool type.
type TagGrowth struct {
	// Tag is the rendered four-character pool tag.
	Tag string
	// PagedDelta is the paged pool growth in bytes since the baseline.
	PagedDelta int64
	// NonPagedDelta is the nonpaged pool growth in bytes since the baseline.
	NonPagedDelta int64
	// TotalDelta is PagedDelta + NonPagedDelta.
	TotalDelta int64
	// CurrentTotal is the tag's combined pool usage in bytes right now.
	CurrentTotal uint64
}

// LeakSuspect is one row of the final summary: a tag whose total growth over
// the whole run exceeded the threshold.
type LeakSuspect struct {
	// Tag is the rendered four-character pool tag.
	Tag string
	// TotalDelta is the total growth in bytes between baseline and final
	// snapshot.
	TotalDelta int64
	// RateKBPerMin is the average growth rate over the scheduled monitoring
	// window. Zero when the window is empty.
	RateKBPerMin float64
	// CurrentTotal is the tag's combined pool usage in bytes at the end.
	CurrentTotal uint64
}

// EstimatedMBPerDay projects the observed growth rate forward one day.
func (s LeakSuspect) EstimatedMBPerDay() float64 {
	return s.RateKBPerMin * 60 * 24 / 1024
}

// sortGrowth orders rows by total growth descending; equal growth falls back
// to tag order so reports are deterministic.
func sortGrowth(rows []TagGrowth) {
	slices.SortFunc(rows, func(a, b TagGrowth) int {
		if a.TotalDelta != b.TotalDelta {
			return cmp.Compare(b.TotalDelta, a.TotalDelta)
		}

		return cmp.Compare(a.Tag, b.Tag)
	})
}

// sortSuspects orders suspects by total growth descending with the same tag
// tiebreak as sortGrowth.
func sortSuspects(rows []LeakSuspect) {
	slices.SortFunc(rows, func(a, b LeakSuspect) int {
		if a.TotalDelta != b.TotalDelta {
			return cmp.Compare(b.TotalDelta, a.TotalDelta)
		}

		return cmp.Compare(a.Tag, b.Tag)
	})
}

// signedDelta returns cur-base as a signed quantity. Unsigned subtraction
// wraps, and reinterpreting the wrapped value as int64 yields the correct
// signed difference for any real-world pool size.
func signedDelta(cur, base uint64) int64 {
	return int64(cur - base) //nolint: gosec
}
