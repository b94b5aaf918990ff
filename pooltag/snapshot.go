package pooltag

import (
	"slices"
	"time"

	"github.com/arloliu/pooltrack/endian"
)

// Snapshot is the decoded state of every pool tag at a single capture
// instant.
type Snapshot struct {
	// CapturedAt is when the buffer was obtained from the kernel.
	CapturedAt time.Time
	// Samples maps the rendered four-character tag to its counters. When the
	// buffer reports the same rendered tag more than once, the later record
	// wins.
	Samples map[string]Sample
}

// NewSnapshot creates an empty snapshot for the given capture time.
//
// An empty snapshot is also how a failed kernel query is represented, so the
// sampling loop can keep running on transient errors.
func NewSnapshot(capturedAt time.Time) Snapshot {
	return Snapshot{
		CapturedAt: capturedAt,
		Samples:    make(map[string]Sample),
	}
}

// Len returns the number of distinct tags in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Samples)
}

// IsEmpty reports whether the snapshot holds no tags.
func (s Snapshot) IsEmpty() bool {
	return len(s.Samples) == 0
}

// Get returns the sample for a rendered tag.
func (s Snapshot) Get(tag string) (Sample, bool) {
	sample, ok := s.Samples[tag]
	return sample, ok
}

// Tags returns the rendered tags in ascending order.
func (s Snapshot) Tags() []string {
	tags := make([]string, 0, len(s.Samples))
	for tag := range s.Samples {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	return tags
}

// RecordCount returns the number of complete records a decode of data will
// yield: the count the header declares, clamped to the records that
// physically fit after the header. A buffer shorter than the header yields
// zero.
func RecordCount(data []byte, engine endian.EndianEngine) int {
	if len(data) < HeaderSize {
		return 0
	}

	declared := int64(engine.Uint32(data[0:4]))
	avail := int64(len(data)-HeaderSize) / RecordSize

	return int(min(declared, avail))
}

// DecodeRecords decodes the buffer into records in buffer order, duplicates
// included. It never fails: truncated trailing records are dropped and a
// malformed header yields an empty slice.
func DecodeRecords(data []byte, engine endian.EndianEngine) []Sample {
	n := RecordCount(data, engine)
	records := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		off := HeaderSize + i*RecordSize
		record, _ := ParseRecord(data[off:off+RecordSize], engine)
		records = append(records, record)
	}

	return records
}

// DecodeSnapshot decodes the buffer into a snapshot keyed by rendered tag.
// Later duplicates of a rendered tag overwrite earlier ones.
func DecodeSnapshot(data []byte, capturedAt time.Time, engine endian.EndianEngine) Snapshot {
	snap := NewSnapshot(capturedAt)
	n := RecordCount(data, engine)
	for i := 0; i < n; i++ {
		off := HeaderSize + i*RecordSize
		record, _ := ParseRecord(data[off:off+RecordSize], engine)
		snap.Samples[record.TagString()] = record
	}

	return snap
}

// EncodeSnapshot encodes the snapshot into the canonical buffer layout:
// count header followed by records sorted by rendered tag. The result decodes
// back to an identical snapshot, which is what archive frames rely on.
func EncodeSnapshot(snap Snapshot, engine endian.EndianEngine) []byte {
	tags := snap.Tags()

	buf := make([]byte, 0, HeaderSize+len(tags)*RecordSize)
	buf = engine.AppendUint32(buf, uint32(len(tags))) //nolint: gosec
	buf = append(buf, 0, 0, 0, 0)                     // header padding
	for _, tag := range tags {
		sample := snap.Samples[tag]
		buf = sample.AppendTo(buf, engine)
	}

	return buf
}
