package archive

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/arloliu/pooltrack/compress"
	"github.com/arloliu/pooltrack/endian"
	"github.com/arloliu/pooltrack/errs"
	"github.com/arloliu/pooltrack/format"
	"github.com/arloliu/pooltrack/internal/hash"
	"github.com/arloliu/pooltrack/internal/options"
	"github.com/arloliu/pooltrack/internal/pool"
	"github.com/arloliu/pooltrack/pooltag"
)

// Writer appends snapshot frames to an archive file.
//
// A Writer owns its file exclusively from NewWriter until Close, enforced
// with a sidecar flock so a second monitoring run pointed at the same path
// fails fast instead of interleaving frames.
type Writer struct {
	file   *os.File
	lock   *flock.Flock
	codec  compress.Codec
	engine endian.EndianEngine
	header Header
	frames int
}

// WriterOption configures a Writer before the file is created.
type WriterOption = options.Option[*Writer]

// WithCompression selects the codec for every frame payload in the file.
func WithCompression(compression format.CompressionType) WriterOption {
	return options.New(func(w *Writer) error {
		codec, err := compress.CreateCodec(compression, "archive")
		if err != nil {
			return err
		}
		w.codec = codec
		w.header.Compression = compression

		return nil
	})
}

// WithRunID overrides the generated run identifier, which replay tooling
// uses to correlate an archive with its log stream.
func WithRunID(runID uuid.UUID) WriterOption {
	return options.NoError(func(w *Writer) {
		w.header.RunID = runID
	})
}

// WithStartTime overrides the run start time recorded in the header.
func WithStartTime(startTime time.Time) WriterOption {
	return options.NoError(func(w *Writer) {
		w.header.StartTime = startTime.UnixMicro()
	})
}

// NewWriter creates the archive file at path, locks it, and writes the file
// header. The default configuration uses S2 compression, a random run ID,
// and the current time.
//
// Returns ErrArchiveLocked when another process holds the archive.
func NewWriter(path string, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		codec:  compress.NewS2Compressor(),
		engine: endian.GetLittleEndianEngine(),
		header: NewHeader(format.CompressionS2, uuid.New(), time.Now()),
	}
	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	w.lock = flock.New(path + ".lock")
	locked, err := w.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock archive %s: %w", path, err)
	}
	if !locked {
		return nil, errs.ErrArchiveLocked
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		_ = w.lock.Unlock()
		return nil, fmt.Errorf("create archive %s: %w", path, err)
	}
	w.file = file

	if _, err := file.Write(w.header.Bytes(w.engine)); err != nil {
		_ = file.Close()
		_ = w.lock.Unlock()

		return nil, fmt.Errorf("write archive header: %w", err)
	}

	return w, nil
}

// Header returns the header written at the start of the file.
func (w *Writer) Header() Header {
	return w.header
}

// Frames returns the number of frames appended so far.
func (w *Writer) Frames() int {
	return w.frames
}

// Append encodes the snapshot, compresses it, and appends one frame.
//
// When the codec cannot shrink the payload, the canonical bytes are stored
// untouched with StoredLen == UncompressedLen so the reader knows to skip
// decompression.
func (w *Writer) Append(snap pooltag.Snapshot) error {
	payload := pooltag.EncodeSnapshot(snap, w.engine)

	compressed, err := w.codec.Compress(payload)
	if err != nil {
		return fmt.Errorf("compress frame payload: %w", err)
	}

	stored := compressed
	if len(stored) == 0 || len(stored) >= len(payload) {
		stored = payload
	}

	capturedMicros := snap.CapturedAt.UnixMicro()

	bb := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(bb)

	bb.B = w.engine.AppendUint64(bb.B, *(*uint64)(unsafe.Pointer(&capturedMicros)))
	bb.B = w.engine.AppendUint32(bb.B, uint32(len(payload))) //nolint: gosec
	bb.B = w.engine.AppendUint32(bb.B, uint32(len(stored)))  //nolint: gosec
	bb.B = w.engine.AppendUint64(bb.B, hash.Checksum(stored))
	bb.MustWrite(stored)

	if _, err := bb.WriteTo(w.file); err != nil {
		return fmt.Errorf("append archive frame: %w", err)
	}
	w.frames++

	return nil
}

// Close flushes the file and releases the lock. The Writer is unusable
// afterwards.
func (w *Writer) Close() error {
	syncErr := w.file.Sync()
	closeErr := w.file.Close()
	unlockErr := w.lock.Unlock()

	if syncErr != nil {
		return fmt.Errorf("sync archive: %w", syncErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close archive: %w", closeErr)
	}
	if unlockErr != nil {
		return fmt.Errorf("unlock archive: %w", unlockErr)
	}

	return nil
}
