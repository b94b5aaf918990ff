package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/pooltrack/archive"
	"github.com/arloliu/pooltrack/config"
	"github.com/arloliu/pooltrack/errs"
	"github.com/arloliu/pooltrack/monitor"
)

// replayCmd recomputes growth tables from an archived run. The first frame
// acts as the baseline, elapsed offsets come from the frame timestamps, and
// the threshold, row cap and tag filters can differ from the original run.
var replayCmd = &cobra.Command{
	Use:   "replay <archive>",
	Short: "Recompute growth reports from an archived run",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return replayArchive(args[0], cfg, logger, os.Stdout)
	},
}

func replayArchive(path string, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r, err := archive.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer r.Close()

	header := r.Header()
	logger.Info("replaying archive",
		zap.String("path", path),
		zap.String("run_id", header.RunID.String()),
		zap.String("compression", header.Compression.String()),
		zap.Time("started_at", header.StartTimeAsTime()),
	)

	baseline, err := r.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("archive %s contains no snapshots", path)
		}

		return fmt.Errorf("failed to read baseline frame: %w", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	if err := store.RecordBaseline(baseline); err != nil {
		return err
	}

	reporter := monitor.NewReporter(out, cfg.TopRows)
	reporter.Baseline(baseline.Len())

	last := baseline
	var lastElapsed time.Duration
	for {
		snap, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, errs.ErrTruncatedFrame) {
			// A torn tail means the recording run was cut off mid-write;
			// everything before it is still good.
			logger.Warn("archive ends with a torn frame, replaying what was recorded")
			break
		}
		if err != nil {
			logger.Warn("replay stopped early", zap.Error(err))
			break
		}

		elapsed := snap.CapturedAt.Sub(baseline.CapturedAt)
		reporter.IntervalGrowth(elapsed, store.Growth(snap))
		last = snap
		lastElapsed = elapsed
	}

	reporter.FinalSummary(store.FinalGrowth(last, lastElapsed))

	return nil
}
