package main

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/pooltrack/archive"
	"github.com/arloliu/pooltrack/pooltag"
	"github.com/arloliu/pooltrack/sysquery"
)

var flagSnapOut string

// snapCmd captures a single snapshot without starting a monitoring run,
// which is handy for a quick look at the biggest tags or for seeding an
// archive to diff against later.
var snapCmd = &cobra.Command{
	Use:   "snap",
	Short: "Capture one pool-tag snapshot and print the biggest tags",
	Args:  cobra.NoArgs,
	RunE:  runSnap,
}

func init() {
	snapCmd.Flags().StringVar(&flagSnapOut, "out", "", "Write the snapshot as a single-frame archive")
}

func runSnap(_ *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	collector, err := sysquery.NewCollector(
		sysquery.WithBufferSize(cfg.BufferSize),
		sysquery.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	snap := collector.Collect(time.Now())
	printSnapshot(os.Stdout, snap, cfg.TopRows)

	if flagSnapOut == "" {
		return nil
	}

	compression, err := cfg.Compression()
	if err != nil {
		return err
	}
	w, err := archive.NewWriter(flagSnapOut, archive.WithCompression(compression))
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", flagSnapOut, err)
	}
	if err := w.Append(snap); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	logger.Info("snapshot archived", zap.String("path", flagSnapOut), zap.Int("tags", snap.Len()))

	return nil
}

// printSnapshot renders the top tags by current total usage.
func printSnapshot(w io.Writer, snap pooltag.Snapshot, topRows int) {
	fmt.Fprintf(w, "Captured %d tags\n", snap.Len())
	if snap.IsEmpty() {
		return
	}

	top := topTagsByUsage(snap, topRows)
	fmt.Fprintf(w, "  %6s  %12s  %12s  %10s\n", "Tag", "Paged_KB", "NP_KB", "Total_MB")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 46))
	for _, s := range top {
		fmt.Fprintf(w, "  %6s  %12.1f  %12.1f  %10.1f\n",
			s.TagString(),
			float64(s.PagedUsed)/1024,
			float64(s.NonPagedUsed)/1024,
			float64(s.TotalUsed())/(1024*1024))
	}
}

// topTagsByUsage returns up to n samples ordered by total usage descending,
// ties by tag ascending.
func topTagsByUsage(snap pooltag.Snapshot, n int) []pooltag.Sample {
	samples := make([]pooltag.Sample, 0, snap.Len())
	for _, s := range snap.Samples {
		samples = append(samples, s)
	}
	slices.SortFunc(samples, func(a, b pooltag.Sample) int {
		if a.TotalUsed() != b.TotalUsed() {
			return cmp.Compare(b.TotalUsed(), a.TotalUsed())
		}

		return cmp.Compare(a.TagString(), b.TagString())
	})

	return samples[:min(len(samples), n)]
}
