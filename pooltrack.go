// Package pooltrack samples the kernel's pool-tag memory accounting and
// surfaces the tags whose usage keeps growing, the classic signature of a
// kernel memory leak.
//
// A monitoring run captures a baseline snapshot, samples on a fixed
// interval, prints a growth table after every sample, and finishes with a
// ranked leak-suspect summary including extrapolated daily growth. Failed
// queries cost one round of data, never the run.
//
// # Core Features
//
//   - Zero-copy decoding of the packed pool-tag buffer into per-tag samples
//   - Baseline-relative growth tracking with a configurable threshold
//   - Signal-aware sampling loop that always emits its final summary
//   - Optional append-only snapshot archive (None, Zstd, S2, LZ4 framing)
//     with xxHash64 frame checksums, for offline replay
//   - Glob-based tag filtering
//
// # Basic Usage
//
// Running a complete monitoring run with default settings:
//
//	import "github.com/arloliu/pooltrack"
//
//	// Sample every 30 seconds, 20 samples, report to stdout.
//	err := pooltrack.Track(context.Background(), 30*time.Second, 20)
//
// Wiring the pieces manually for full control:
//
//	collector, _ := pooltrack.NewCollector(
//	    sysquery.WithBufferSize(4*1024*1024),
//	)
//	store, _ := pooltrack.NewStore(
//	    delta.WithThreshold(512*1024),
//	    delta.WithTagFilter("Ntf*"),
//	)
//	mon, _ := pooltrack.NewMonitor(collector, store, time.Minute, 60,
//	    monitor.WithSink(archiveWriter),
//	)
//	err := mon.Run(ctx)
//
// Decoding a raw pool-tag buffer directly:
//
//	snap := pooltrack.DecodeSnapshot(buf, time.Now())
//	for tag, sample := range snap.Samples {
//	    fmt.Printf("%s: %d bytes\n", tag, sample.TotalUsed())
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the pooltag,
// delta, sysquery, monitor and archive packages, simplifying the most
// common use cases. For advanced usage and fine-grained control, use those
// packages directly.
package pooltrack

import (
	"context"
	"time"

	"github.com/arloliu/pooltrack/archive"
	"github.com/arloliu/pooltrack/delta"
	"github.com/arloliu/pooltrack/endian"
	"github.com/arloliu/pooltrack/monitor"
	"github.com/arloliu/pooltrack/pooltag"
	"github.com/arloliu/pooltrack/sysquery"
)

// DecodeSnapshot decodes a raw pool-tag buffer into a snapshot stamped with
// the given capture time.
//
// The buffer layout is the kernel's: a little-endian record count, four
// reserved bytes, then fixed 40-byte records. Decoding never fails; a
// truncated or garbled buffer yields the records that could be read.
//
// Parameters:
//   - data: The raw buffer as returned by the pool-tag query
//   - capturedAt: The capture timestamp for the snapshot
//
// Returns:
//   - pooltag.Snapshot: The decoded per-tag samples.
func DecodeSnapshot(data []byte, capturedAt time.Time) pooltag.Snapshot {
	return pooltag.DecodeSnapshot(data, capturedAt, endian.GetLittleEndianEngine())
}

// EncodeSnapshot renders a snapshot back into the canonical buffer layout,
// with records sorted by tag. Decoding the result yields an equal snapshot,
// which is how archive frames round-trip.
func EncodeSnapshot(snap pooltag.Snapshot) []byte {
	return pooltag.EncodeSnapshot(snap, endian.GetLittleEndianEngine())
}

// NewCollector creates a snapshot collector backed by the platform's
// pool-tag query.
//
// On Windows the collector queries NtQuerySystemInformation with the
// SystemPoolTagInformation class; elsewhere every capture degrades to an
// empty snapshot. Options control the query buffer size and logger.
//
// Example:
//
//	collector, err := pooltrack.NewCollector(
//	    sysquery.WithBufferSize(4*1024*1024),
//	    sysquery.WithLogger(logger),
//	)
func NewCollector(opts ...sysquery.CollectorOption) (*sysquery.Collector, error) {
	return sysquery.NewCollector(opts...)
}

// NewStore creates a growth store with the default 100 KB reporting
// threshold, adjusted by the given options.
//
// Available options:
//   - delta.WithThreshold(bytes)
//   - delta.WithTagFilter(patterns...)
func NewStore(opts ...delta.Option) (*delta.Store, error) {
	return delta.NewStore(opts...)
}

// NewMonitor creates a monitoring run that samples from source every
// interval, samples times, comparing against the baseline held by store.
//
// Parameters:
//   - source: The snapshot source, typically a *sysquery.Collector
//   - store: The growth store owning the run's baseline
//   - interval: The wait between samples
//   - samples: The number of sampling iterations
//   - opts: Optional configuration (see monitor.Option)
//
// Returns:
//   - *monitor.Monitor: The created monitor, ready to Run.
//   - error: An error if the configuration is invalid.
func NewMonitor(source monitor.Source, store *delta.Store, interval time.Duration, samples int, opts ...monitor.Option) (*monitor.Monitor, error) {
	return monitor.New(source, store, interval, samples, opts...)
}

// NewArchiveWriter creates an append-only snapshot archive at path,
// taking an exclusive lock so concurrent runs cannot interleave frames.
//
// Available options:
//   - archive.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - archive.WithRunID(id)
//   - archive.WithStartTime(t)
func NewArchiveWriter(path string, opts ...archive.WriterOption) (*archive.Writer, error) {
	return archive.NewWriter(path, opts...)
}

// OpenArchive opens a snapshot archive for sequential reading. Frames are
// checksum-verified as they are read; a torn trailing frame surfaces as
// errs.ErrTruncatedFrame after the complete frames.
func OpenArchive(path string) (*archive.Reader, error) {
	return archive.OpenReader(path)
}

// Track runs a complete monitoring run with default settings: the platform
// collector, a 100 KB growth threshold, and tables on stdout.
//
// This is the recommended entry point for simple programmatic use. The run
// honors ctx: cancellation stops sampling and still prints the final
// summary from the most recent snapshot.
//
// Parameters:
//   - ctx: Cancels the run early
//   - interval: The wait between samples
//   - samples: The number of sampling iterations
//   - opts: Optional monitor configuration, applied over the defaults
//
// Example:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	err := pooltrack.Track(ctx, time.Minute, 120)
func Track(ctx context.Context, interval time.Duration, samples int, opts ...monitor.Option) error {
	collector, err := sysquery.NewCollector()
	if err != nil {
		return err
	}
	store, err := delta.NewStore()
	if err != nil {
		return err
	}
	mon, err := monitor.New(collector, store, interval, samples, opts...)
	if err != nil {
		return err
	}

	return mon.Run(ctx)
}
