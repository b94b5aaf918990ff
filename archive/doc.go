// Package archive persists snapshot streams so a monitoring run can be
// replayed and re-analyzed after the fact.
//
// An archive is a single append-only file: a fixed header identifying the
// run, followed by one frame per captured snapshot.
//
// # File Structure
//
//	┌─────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                    │
//	│  - Magic (4 bytes): "PTRK"                  │
//	│  - Version (1 byte)                         │
//	│  - Compression (1 byte)                     │
//	│  - Reserved (2 bytes)                       │
//	│  - RunID (16 bytes): random UUID            │
//	│  - StartTime (8 bytes): unix microseconds   │
//	├─────────────────────────────────────────────┤
//	│ Frame 0                                     │
//	├─────────────────────────────────────────────┤
//	│ Frame 1                                     │
//	├─────────────────────────────────────────────┤
//	│ ...                                         │
//	└─────────────────────────────────────────────┘
//
// # Frame Format
//
// Each frame is a 24-byte header followed by the stored payload:
//
//	Bytes  | Field           | Type   | Description
//	-------|-----------------|--------|----------------------------------
//	0-7    | CapturedAt      | int64  | Snapshot capture time, unix micros
//	8-11   | UncompressedLen | uint32 | Canonical payload size in bytes
//	12-15  | StoredLen       | uint32 | Bytes stored after this header
//	16-23  | Checksum        | uint64 | xxHash64 of the stored bytes
//	24-    | Payload         |        | StoredLen bytes
//
// The payload is the canonical snapshot encoding from the pooltag package,
// compressed with the codec named in the file header. When compression does
// not shrink the payload, the writer stores the canonical bytes untouched
// and signals it with StoredLen == UncompressedLen; readers skip
// decompression for such frames.
//
// # Durability
//
// Frames are appended in order and never rewritten. A crash mid-append
// leaves a torn final frame, which readers surface as ErrTruncatedFrame
// after yielding every complete frame before it. The writer holds an
// exclusive sidecar lock for the lifetime of the run so two processes cannot
// interleave frames in one file.
package archive
