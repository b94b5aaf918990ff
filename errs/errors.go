// Package errs defines sentinel errors shared across pooltrack packages.
//
// All errors are plain sentinel values intended for errors.Is checks.
// Packages wrap them with fmt.Errorf("...: %w", err) when adding context.
package errs

import "errors"

var (
	// ErrTruncatedRecord indicates fewer bytes remain in a pool tag buffer
	// than one full fixed-size record requires.
	ErrTruncatedRecord = errors.New("truncated pool tag record")

	// ErrBaselineRecorded indicates a second attempt to record the baseline
	// snapshot. The baseline is write-once for the lifetime of a store.
	ErrBaselineRecorded = errors.New("baseline snapshot already recorded")

	// ErrNegativeThreshold indicates a growth threshold below zero.
	ErrNegativeThreshold = errors.New("growth threshold cannot be negative")

	// ErrQueryUnsupported indicates the running platform has no pool tag
	// introspection interface. Callers treat it as an acquisition failure.
	ErrQueryUnsupported = errors.New("pool tag query not supported on this platform")

	// ErrEmptyQueryBuffer indicates a querier was invoked with a zero-length
	// output buffer.
	ErrEmptyQueryBuffer = errors.New("empty pool tag query buffer")

	// ErrInvalidHeaderSize indicates an archive file too short to contain
	// the fixed-size file header.
	ErrInvalidHeaderSize = errors.New("invalid archive header size")

	// ErrInvalidMagicNumber indicates an archive file whose magic bytes do
	// not identify a pooltrack archive.
	ErrInvalidMagicNumber = errors.New("invalid archive magic number")

	// ErrUnsupportedVersion indicates an archive written by an incompatible
	// format version.
	ErrUnsupportedVersion = errors.New("unsupported archive version")

	// ErrUnsupportedCompression indicates an archive header naming a codec
	// this build does not provide.
	ErrUnsupportedCompression = errors.New("unsupported archive compression")

	// ErrFrameTooLarge indicates a frame header declaring a payload beyond
	// the sanity limit, which means the file is corrupt or hostile.
	ErrFrameTooLarge = errors.New("archive frame exceeds size limit")

	// ErrTruncatedFrame indicates an archive frame cut short, typically the
	// torn tail of an interrupted run.
	ErrTruncatedFrame = errors.New("truncated archive frame")

	// ErrChecksumMismatch indicates an archive frame whose payload digest
	// does not match the recorded checksum.
	ErrChecksumMismatch = errors.New("archive frame checksum mismatch")

	// ErrArchiveLocked indicates the archive file is locked by another
	// pooltrack process.
	ErrArchiveLocked = errors.New("archive file locked by another process")
)
