package archive

import (
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/arloliu/pooltrack/endian"
	"github.com/arloliu/pooltrack/errs"
	"github.com/arloliu/pooltrack/format"
)

const (
	// HeaderSize is the fixed archive file header size in bytes.
	HeaderSize = 32
	// FrameHeaderSize is the fixed per-frame header size in bytes.
	FrameHeaderSize = 24
	// Version is the archive format version this package writes.
	Version = 1
)

// magicNumber identifies a pooltrack archive file.
var magicNumber = [4]byte{'P', 'T', 'R', 'K'}

// Header is the fixed-size metadata block at the start of an archive file.
type Header struct {
	// Version is the archive format version.
	Version byte // byte offset 4
	// Compression is the codec applied to every frame payload in the file.
	Compression format.CompressionType // byte offset 5
	// RunID identifies the monitoring run that produced the archive.
	RunID uuid.UUID // byte offset 8-23
	// StartTime is the run start as a unix timestamp in microseconds.
	StartTime int64 // byte offset 24-31
}

// NewHeader creates a header for a fresh archive.
func NewHeader(compression format.CompressionType, runID uuid.UUID, startTime time.Time) Header {
	return Header{
		Version:     Version,
		Compression: compression,
		RunID:       runID,
		StartTime:   startTime.UnixMicro(),
	}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least 32 bytes)
//   - engine: Endian engine for byte order
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidMagicNumber, or
//     ErrUnsupportedVersion
func (h *Header) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}
	if [4]byte(data[0:4]) != magicNumber {
		return errs.ErrInvalidMagicNumber
	}

	h.Version = data[4]
	if h.Version != Version {
		return errs.ErrUnsupportedVersion
	}

	h.Compression = format.CompressionType(data[5])
	// bytes 6-7 are reserved
	copy(h.RunID[:], data[8:24])

	// Use unsafe pointer conversion to interpret bytes as signed int64
	startTimeUint := engine.Uint64(data[24:32])
	h.StartTime = *(*int64)(unsafe.Pointer(&startTimeUint))

	if !h.Compression.IsValid() {
		return errs.ErrUnsupportedCompression
	}

	return nil
}

// Bytes serializes the header into a byte slice.
func (h *Header) Bytes(engine endian.EndianEngine) []byte {
	b := make([]byte, HeaderSize)

	copy(b[0:4], magicNumber[:])
	b[4] = h.Version
	b[5] = byte(h.Compression)
	copy(b[8:24], h.RunID[:])
	// Use bitwise conversion to avoid overflow warning - timestamps are stored as-is in binary
	engine.PutUint64(b[24:32], *(*uint64)(unsafe.Pointer(&h.StartTime)))

	return b
}

// StartTimeAsTime returns the start time as a time.Time object.
func (h *Header) StartTimeAsTime() time.Time {
	return time.UnixMicro(h.StartTime)
}
