package pooltag

import (
	"github.com/arloliu/pooltrack/endian"
	"github.com/arloliu/pooltrack/errs"
)

// Sample holds the decoded counters for a single pool tag at one point in
// time. Field order mirrors the record layout; the four reserved bytes at
// record offset 12-15 have no field.
type Sample struct {
	// Tag is the raw four-byte pool tag as the kernel reports it.
	Tag [TagSize]byte // byte offset 0-3
	// PagedAllocs is the cumulative paged pool allocation count.
	PagedAllocs uint32 // byte offset 4-7
	// PagedFrees is the cumulative paged pool free count.
	PagedFrees uint32 // byte offset 8-11
	// PagedUsed is the paged pool bytes currently in use by this tag.
	PagedUsed uint64 // byte offset 16-23
	// NonPagedAllocs is the cumulative nonpaged pool allocation count.
	NonPagedAllocs uint32 // byte offset 24-27
	// NonPagedFrees is the cumulative nonpaged pool free count.
	NonPagedFrees uint32 // byte offset 28-31
	// NonPagedUsed is the nonpaged pool bytes currently in use by this tag.
	NonPagedUsed uint64 // byte offset 32-39
}

// ParseRecord parses a single pool-tag record from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the record (must be at least 40 bytes)
//   - engine: Endian engine for byte order
//
// Returns:
//   - Sample: Parsed record
//   - error: ErrTruncatedRecord if data is shorter than one record
func ParseRecord(data []byte, engine endian.EndianEngine) (Sample, error) {
	if len(data) < RecordSize {
		return Sample{}, errs.ErrTruncatedRecord
	}

	var s Sample
	copy(s.Tag[:], data[0:4])
	s.PagedAllocs = engine.Uint32(data[4:8])
	s.PagedFrees = engine.Uint32(data[8:12])
	// bytes 12-15 are struct padding
	s.PagedUsed = engine.Uint64(data[16:24])
	s.NonPagedAllocs = engine.Uint32(data[24:28])
	s.NonPagedFrees = engine.Uint32(data[28:32])
	s.NonPagedUsed = engine.Uint64(data[32:40])

	return s, nil
}

// Bytes returns the record as a byte slice using the specified endian engine.
// The reserved padding bytes are written as zero.
func (s *Sample) Bytes(engine endian.EndianEngine) []byte {
	var b [RecordSize]byte // stack allocation, it's faster than heap allocation
	copy(b[0:4], s.Tag[:])
	engine.PutUint32(b[4:8], s.PagedAllocs)
	engine.PutUint32(b[8:12], s.PagedFrees)
	engine.PutUint64(b[16:24], s.PagedUsed)
	engine.PutUint32(b[24:28], s.NonPagedAllocs)
	engine.PutUint32(b[28:32], s.NonPagedFrees)
	engine.PutUint64(b[32:40], s.NonPagedUsed)

	return b[:]
}

// AppendTo appends the encoded record to dst and returns the extended slice.
//
// This is the preferred method when encoding many records sequentially, as it
// avoids the intermediate slice Bytes produces.
func (s *Sample) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	dst = append(dst, s.Tag[:]...)
	dst = engine.AppendUint32(dst, s.PagedAllocs)
	dst = engine.AppendUint32(dst, s.PagedFrees)
	dst = append(dst, 0, 0, 0, 0) // reserved padding
	dst = engine.AppendUint64(dst, s.PagedUsed)
	dst = engine.AppendUint32(dst, s.NonPagedAllocs)
	dst = engine.AppendUint32(dst, s.NonPagedFrees)
	dst = engine.AppendUint64(dst, s.NonPagedUsed)

	return dst
}

// TagString renders the tag for display and keying. Printable ASCII bytes
// are kept as-is and everything else becomes a dot, so binary tags still
// produce a stable four-character key.
func (s Sample) TagString() string {
	return FormatTag(s.Tag)
}

// TotalUsed returns the combined paged and nonpaged bytes in use.
func (s Sample) TotalUsed() uint64 {
	return s.PagedUsed + s.NonPagedUsed
}

// PagedOutstanding returns allocations minus frees for the paged pool.
// The counters are free-running and may individually wrap, so the result is
// signed.
func (s Sample) PagedOutstanding() int64 {
	return int64(s.PagedAllocs) - int64(s.PagedFrees)
}

// NonPagedOutstanding returns allocations minus frees for the nonpaged pool.
func (s Sample) NonPagedOutstanding() int64 {
	return int64(s.NonPagedAllocs) - int64(s.NonPagedFrees)
}

// FormatTag renders a four-byte pool tag as a four-character string,
// replacing non-printable bytes with dots.
func FormatTag(tag [TagSize]byte) string {
	var out [TagSize]byte
	for i, b := range tag {
		if b >= printableMin && b <= printableMax {
			out[i] = b
		} else {
			out[i] = '.'
		}
	}

	return string(out[:])
}
