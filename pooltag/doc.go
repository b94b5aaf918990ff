// Package pooltag defines the binary layout of the kernel pool-tag buffer and
// decodes it into typed snapshots.
//
// The Windows kernel tracks every pool allocation under a four-byte tag and
// exposes the per-tag totals through the SystemPoolTagInformation class of
// NtQuerySystemInformation. This package owns the byte-level contract with
// that buffer: record sizes, field offsets, tag rendering, and the tolerant
// decode rules for short or inconsistent buffers.
//
// # Buffer Structure
//
// The kernel fills the caller's buffer with a count header followed by a
// packed array of fixed-size records:
//
//	┌─────────────────────────────────────────────┐
//	│ Header (8 bytes, fixed)                     │
//	│  - Count (4 bytes): number of records       │
//	│  - Reserved (4 bytes): struct padding       │
//	├─────────────────────────────────────────────┤
//	│ Record 0 (40 bytes, fixed)                  │
//	├─────────────────────────────────────────────┤
//	│ Record 1 (40 bytes, fixed)                  │
//	├─────────────────────────────────────────────┤
//	│ ...                                         │
//	└─────────────────────────────────────────────┘
//
// # Record Format
//
// Each record is 40 bytes, little-endian:
//
//	Bytes  | Field          | Type    | Description
//	-------|----------------|---------|----------------------------------
//	0-3    | Tag            | [4]byte | Pool tag as raw ASCII bytes
//	4-7    | PagedAllocs    | uint32  | Paged pool allocation count
//	8-11   | PagedFrees     | uint32  | Paged pool free count
//	12-15  | (reserved)     |         | Struct padding, ignored
//	16-23  | PagedUsed      | uint64  | Paged pool bytes in use
//	24-27  | NonPagedAllocs | uint32  | Nonpaged pool allocation count
//	28-31  | NonPagedFrees  | uint32  | Nonpaged pool free count
//	32-39  | NonPagedUsed   | uint64  | Nonpaged pool bytes in use
//
// # Decode Rules
//
// Decoding is deliberately forgiving because the buffer comes from a racing
// kernel query:
//
//   - The declared count is clamped to the records that physically fit in the
//     buffer; a trailing partial record is dropped, never partially read.
//   - A buffer shorter than the 8-byte header decodes to zero records.
//   - Duplicate rendered tags keep the last record seen.
//   - Decoding never fails and never panics; garbage in yields fewer or
//     stranger records, not an error.
//
// The same layout doubles as the canonical payload format inside snapshot
// archives, so EncodeSnapshot/DecodeSnapshot round-trip through the identical
// record codec the live query path uses.
package pooltag
