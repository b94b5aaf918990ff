// Package delta turns pool-tag snapshots into growth reports.
//
// A Store records the first snapshot of a run as the immutable baseline and
// compares every later snapshot against it. Growth produces the per-interval
// table rows; FinalGrowth produces the end-of-run leak suspects with growth
// rates and a bytes-per-day projection.
//
// Tags absent from the baseline are treated as starting from zero, so pool
// usage created after monitoring began still shows up. Tags that vanish from
// a later snapshot simply drop out of the report.
package delta
