package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unsafe"

	"github.com/arloliu/pooltrack/compress"
	"github.com/arloliu/pooltrack/endian"
	"github.com/arloliu/pooltrack/errs"
	"github.com/arloliu/pooltrack/internal/hash"
	"github.com/arloliu/pooltrack/pooltag"
)

// maxFramePayload caps how much a single frame may ask the reader to
// allocate. Real payloads top out around a few hundred KiB, so anything near
// this limit is a corrupt or hostile file, not a big system.
const maxFramePayload = 512 * 1024 * 1024

// Reader iterates the snapshot frames of an archive file in write order.
type Reader struct {
	file   *os.File
	reader *bufio.Reader
	codec  compress.Codec
	engine endian.EndianEngine
	header Header
}

// OpenReader opens an archive file and validates its header.
func OpenReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	r := &Reader{
		file:   file,
		reader: bufio.NewReader(file),
		engine: endian.GetLittleEndianEngine(),
	}

	var headerBytes [HeaderSize]byte
	if _, err := io.ReadFull(r.reader, headerBytes[:]); err != nil {
		_ = file.Close()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errs.ErrInvalidHeaderSize
		}

		return nil, fmt.Errorf("read archive header: %w", err)
	}
	if err := r.header.Parse(headerBytes[:], r.engine); err != nil {
		_ = file.Close()
		return nil, err
	}

	codec, err := compress.GetCodec(r.header.Compression)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	r.codec = codec

	return r, nil
}

// Header returns the validated file header.
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next snapshot in the archive.
//
// It returns io.EOF at a clean end of file, ErrTruncatedFrame when the file
// ends inside a frame (the torn tail of an interrupted run), and
// ErrChecksumMismatch when stored bytes fail their digest. Every complete
// frame before a torn tail is still returned.
func (r *Reader) Next() (pooltag.Snapshot, error) {
	var frameHeader [FrameHeaderSize]byte
	if _, err := io.ReadFull(r.reader, frameHeader[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return pooltag.Snapshot{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return pooltag.Snapshot{}, errs.ErrTruncatedFrame
		}

		return pooltag.Snapshot{}, fmt.Errorf("read frame header: %w", err)
	}

	capturedUint := r.engine.Uint64(frameHeader[0:8])
	capturedMicros := *(*int64)(unsafe.Pointer(&capturedUint))
	uncompressedLen := r.engine.Uint32(frameHeader[8:12])
	storedLen := r.engine.Uint32(frameHeader[12:16])
	checksum := r.engine.Uint64(frameHeader[16:24])

	if uncompressedLen > maxFramePayload || storedLen > maxFramePayload {
		return pooltag.Snapshot{}, errs.ErrFrameTooLarge
	}

	stored := make([]byte, storedLen)
	if _, err := io.ReadFull(r.reader, stored); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return pooltag.Snapshot{}, errs.ErrTruncatedFrame
		}

		return pooltag.Snapshot{}, fmt.Errorf("read frame payload: %w", err)
	}

	if hash.Checksum(stored) != checksum {
		return pooltag.Snapshot{}, errs.ErrChecksumMismatch
	}

	data := stored
	if storedLen != uncompressedLen {
		decompressed, err := r.codec.Decompress(stored)
		if err != nil {
			return pooltag.Snapshot{}, fmt.Errorf("decompress frame payload: %w", err)
		}
		if len(decompressed) != int(uncompressedLen) {
			return pooltag.Snapshot{}, fmt.Errorf("frame payload decompressed to %d bytes, header declares %d", len(decompressed), uncompressedLen)
		}
		data = decompressed
	}

	return pooltag.DecodeSnapshot(data, time.UnixMicro(capturedMicros), r.engine), nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
