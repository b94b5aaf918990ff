package sysquery

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arloliu/pooltrack/endian"
	"github.com/arloliu/pooltrack/internal/options"
	"github.com/arloliu/pooltrack/internal/pool"
	"github.com/arloliu/pooltrack/pooltag"
)

// Collector captures pool-tag snapshots through a Querier.
//
// The scratch buffer handed to the querier comes from the shared query-buffer
// pool and is recycled after every capture; the returned snapshot never
// references it.
type Collector struct {
	querier Querier
	engine  endian.EndianEngine
	bufSize int
	logger  *zap.Logger
}

// CollectorOption configures a Collector.
type CollectorOption = options.Option[*Collector]

// WithQuerier replaces the platform querier, which is how tests and archive
// replay feed recorded buffers through the normal capture path.
func WithQuerier(q Querier) CollectorOption {
	return options.NoError(func(c *Collector) {
		c.querier = q
	})
}

// WithBufferSize sets the query buffer size in bytes. The kernel rejects
// undersized buffers outright, so this is the knob to raise on systems with
// very large tag populations. There is no automatic retry with a larger
// buffer.
func WithBufferSize(size int) CollectorOption {
	return options.New(func(c *Collector) error {
		if size <= 0 {
			return fmt.Errorf("query buffer size must be positive, got %d", size)
		}
		c.bufSize = size

		return nil
	})
}

// WithLogger sets the logger used to report failed captures.
func WithLogger(logger *zap.Logger) CollectorOption {
	return options.NoError(func(c *Collector) {
		c.logger = logger
	})
}

// NewCollector creates a Collector backed by the platform querier, a 2MiB
// query buffer, and a no-op logger unless options say otherwise.
func NewCollector(opts ...CollectorOption) (*Collector, error) {
	c := &Collector{
		querier: NewSystemQuerier(),
		engine:  endian.GetLittleEndianEngine(),
		bufSize: pool.QueryBufferDefaultSize,
		logger:  zap.NewNop(),
	}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// BufferSize returns the configured query buffer size in bytes.
func (c *Collector) BufferSize() int {
	return c.bufSize
}

// Collect captures one snapshot stamped with the given time.
//
// A failed query logs a warning and yields an empty snapshot instead of an
// error, so a sampling loop keeps its cadence through transient failures.
func (c *Collector) Collect(now time.Time) pooltag.Snapshot {
	bb := pool.GetQueryBuffer()
	defer pool.PutQueryBuffer(bb)

	bb.ExtendOrGrow(c.bufSize)
	buf := bb.Bytes()

	n, err := c.querier.Query(buf)
	if err != nil {
		c.logger.Warn("pool tag query failed", zap.Error(err), zap.Int("buffer_size", c.bufSize))
		return pooltag.NewSnapshot(now)
	}
	if n > len(buf) {
		n = len(buf)
	}

	return pooltag.DecodeSnapshot(buf[:n], now, c.engine)
}
