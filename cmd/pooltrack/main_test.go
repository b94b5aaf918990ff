package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/pooltrack/config"
)

func TestParsePositionalArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantInterval int
		wantSamples  int
		wantErr      string
	}{
		{
			name:         "no args keep defaults",
			args:         nil,
			wantInterval: 30,
			wantSamples:  20,
		},
		{
			name:         "interval only",
			args:         []string{"60"},
			wantInterval: 60,
			wantSamples:  20,
		},
		{
			name:         "interval and samples",
			args:         []string{"10", "120"},
			wantInterval: 10,
			wantSamples:  120,
		},
		{
			name:    "non-integer interval",
			args:    []string{"fast"},
			wantErr: "interval_seconds must be an integer",
		},
		{
			name:    "non-integer samples",
			args:    []string{"30", "forever"},
			wantErr: "sample_count must be an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := parsePositionalArgs(cfg, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInterval, cfg.IntervalSeconds)
			assert.Equal(t, tt.wantSamples, cfg.SampleCount)
		})
	}

	t.Run("negative values parse but fail validation", func(t *testing.T) {
		cfg := config.Default()
		require.NoError(t, parsePositionalArgs(cfg, []string{"-5"}))
		require.Error(t, cfg.Validate())
	})
}

func TestApplyFlagOverrides(t *testing.T) {
	// Subtests share rootCmd's flag set; the unset case must run before any
	// flags are parsed.
	t.Run("unset flags leave config alone", func(t *testing.T) {
		cfg := config.Default()
		applyFlagOverrides(rootCmd, cfg)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("set flags override file values", func(t *testing.T) {
		require.NoError(t, rootCmd.ParseFlags([]string{
			"--threshold-kb", "512",
			"--top", "5",
			"--buffer-size", "4194304",
			"--match", "Ntf*",
			"--match", "Mm*",
			"--compression", "lz4",
			"--archive", "run.ptrk",
		}))

		cfg := config.Default()
		applyFlagOverrides(rootCmd, cfg)

		assert.Equal(t, 512, cfg.ThresholdKB)
		assert.Equal(t, 5, cfg.TopRows)
		assert.Equal(t, 4*1024*1024, cfg.BufferSize)
		assert.Equal(t, []string{"Ntf*", "Mm*"}, cfg.TagFilters)
		assert.Equal(t, "lz4", cfg.Archive.Compression)
		assert.True(t, cfg.Archive.Enabled)
		assert.Equal(t, "run.ptrk", cfg.Archive.Path)

		// Untouched settings keep their values.
		assert.Equal(t, 30, cfg.IntervalSeconds)
		assert.Equal(t, 20, cfg.SampleCount)
	})
}

func TestBuildLogger(t *testing.T) {
	t.Run("level from config", func(t *testing.T) {
		logger, err := buildLogger("warn", false)
		require.NoError(t, err)
		defer func() { _ = logger.Sync() }()

		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("verbose forces debug", func(t *testing.T) {
		logger, err := buildLogger("error", true)
		require.NoError(t, err)
		defer func() { _ = logger.Sync() }()

		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := buildLogger("chatty", false)
		require.Error(t, err)
	})
}
