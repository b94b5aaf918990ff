package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/pooltrack/archive"
	"github.com/arloliu/pooltrack/config"
	"github.com/arloliu/pooltrack/delta"
	"github.com/arloliu/pooltrack/monitor"
	"github.com/arloliu/pooltrack/sysquery"
)

var (
	// Global flags
	flagConfig      string
	flagVerbose     bool
	flagThresholdKB int
	flagTopRows     int
	flagBufferSize  int
	flagMatch       []string
	flagCompression string

	// Root-only flags
	flagArchive string

	// Resolved per invocation in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd samples pool tags on an interval and reports growers, mirroring
// the positional contract: pooltrack [interval_seconds] [sample_count].
var rootCmd = &cobra.Command{
	Use:   "pooltrack [interval_seconds] [sample_count]",
	Short: "Kernel pool-tag leak sampler",
	Long: `pooltrack periodically queries the kernel's pool-tag accounting, compares
every sample against a baseline captured at startup, and surfaces the tags
whose memory usage keeps growing - the signature of a kernel memory leak.

Growth tables print after every sample; a final summary ranks the leak
suspects with extrapolated daily growth. A failed query only costs that
round's data, never the run.`,
	Example: `  pooltrack              # sample every 30s, 20 samples
  pooltrack 60 120       # sample every 60s for two hours
  pooltrack --archive run.ptrk 10 30
  pooltrack replay run.ptrk`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		if cmd.Flags().Changed("config") {
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}
		applyFlagOverrides(cmd, cfg)

		logger, err = buildLogger(cfg.Logging.Level, flagVerbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTrack,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
	pf.IntVar(&flagThresholdKB, "threshold-kb", 100, "Minimum growth in KB before a tag is reported")
	pf.IntVar(&flagTopRows, "top", monitor.DefaultTopRows, "Row cap for per-interval tables")
	pf.IntVar(&flagBufferSize, "buffer-size", 2*1024*1024, "Query buffer size in bytes")
	pf.StringArrayVar(&flagMatch, "match", nil, "Only report tags matching this glob (repeatable)")
	pf.StringVar(&flagCompression, "compression", "s2", "Archive compression: none, zstd, s2, lz4")

	rootCmd.Flags().StringVar(&flagArchive, "archive", "", "Append every snapshot to this archive file")

	rootCmd.AddCommand(snapCmd)
	rootCmd.AddCommand(replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlagOverrides layers explicitly set flags over the config file.
// Unset flags leave the file's values alone, so precedence stays
// defaults < file < flags < positional args.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("threshold-kb") {
		cfg.ThresholdKB = flagThresholdKB
	}
	if f.Changed("top") {
		cfg.TopRows = flagTopRows
	}
	if f.Changed("buffer-size") {
		cfg.BufferSize = flagBufferSize
	}
	if f.Changed("match") {
		cfg.TagFilters = flagMatch
	}
	if f.Changed("compression") {
		cfg.Archive.Compression = flagCompression
	}
	if f.Changed("archive") {
		cfg.Archive.Enabled = true
		cfg.Archive.Path = flagArchive
	}
}

// parsePositionalArgs applies the positional interval and sample count.
// Non-integer values are startup-fatal.
func parsePositionalArgs(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("interval_seconds must be an integer, got %q", args[0])
		}
		cfg.IntervalSeconds = n
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("sample_count must be an integer, got %q", args[1])
		}
		cfg.SampleCount = n
	}

	return nil
}

func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	lv, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging level %q: %w", level, err)
	}
	if verbose {
		lv = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lv)

	return zcfg.Build()
}

func newStore(cfg *config.Config) (*delta.Store, error) {
	opts := []delta.Option{delta.WithThreshold(cfg.ThresholdBytes())}
	if len(cfg.TagFilters) > 0 {
		opts = append(opts, delta.WithTagFilter(cfg.TagFilters...))
	}

	return delta.NewStore(opts...)
}

// runTrack executes the monitoring run. Sampling failures degrade to empty
// rounds inside the monitor, so once the run starts the only error paths
// left are configuration mistakes.
func runTrack(cmd *cobra.Command, args []string) error {
	if err := parsePositionalArgs(cfg, args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector, err := sysquery.NewCollector(
		sysquery.WithBufferSize(cfg.BufferSize),
		sysquery.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger.Info("starting monitoring run",
		zap.String("run_id", runID.String()),
		zap.Int("interval_seconds", cfg.IntervalSeconds),
		zap.Int("sample_count", cfg.SampleCount),
		zap.Int64("threshold_bytes", cfg.ThresholdBytes()),
	)

	monOpts := []monitor.Option{
		monitor.WithLogger(logger),
		monitor.WithTopRows(cfg.TopRows),
	}
	if cfg.Archive.Enabled {
		compression, err := cfg.Compression()
		if err != nil {
			return err
		}
		w, err := archive.NewWriter(cfg.Archive.Path,
			archive.WithCompression(compression),
			archive.WithRunID(runID),
		)
		if err != nil {
			return fmt.Errorf("failed to open archive %s: %w", cfg.Archive.Path, err)
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("archive close failed", zap.Error(err))
			}
		}()
		logger.Info("archiving snapshots", zap.String("path", cfg.Archive.Path), zap.String("compression", cfg.Archive.Compression))
		monOpts = append(monOpts, monitor.WithSink(w))
	}

	mon, err := monitor.New(collector, store, cfg.Interval(), cfg.SampleCount, monOpts...)
	if err != nil {
		return err
	}

	return mon.Run(ctx)
}
