package pooltag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/pooltrack/endian"
)

// buildBuffer assembles a kernel-style buffer with the given declared count.
// Header padding bytes are deliberately non-zero because decoders must ignore
// them.
func buildBuffer(engine endian.EndianEngine, declared uint32, records ...Sample) []byte {
	buf := make([]byte, 0, HeaderSize+len(records)*RecordSize)
	buf = engine.AppendUint32(buf, declared)
	buf = append(buf, 0xAA, 0xBB, 0xCC, 0xDD)
	for i := range records {
		buf = records[i].AppendTo(buf, engine)
	}

	return buf
}

func tagSample(tag string, pagedUsed, nonPagedUsed uint64) Sample {
	var s Sample
	copy(s.Tag[:], tag)
	s.PagedUsed = pagedUsed
	s.NonPagedUsed = nonPagedUsed

	return s
}

func TestRecordCount(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	three := []Sample{
		tagSample("AAAA", 1, 1),
		tagSample("BBBB", 2, 2),
		tagSample("CCCC", 3, 3),
	}

	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"nil buffer", nil, 0},
		{"shorter than header", make([]byte, HeaderSize-1), 0},
		{"header only, zero declared", buildBuffer(engine, 0), 0},
		{"declared matches available", buildBuffer(engine, 3, three...), 3},
		{"declared below available", buildBuffer(engine, 2, three...), 2},
		{"declared above available", buildBuffer(engine, 100, three...), 3},
		{"max declared count", buildBuffer(engine, 0xFFFFFFFF, three...), 3},
		{"partial trailing record dropped", buildBuffer(engine, 3, three...)[:HeaderSize+2*RecordSize+17], 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecordCount(tt.data, engine))
		})
	}
}

func TestDecodeRecords(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	t.Run("preserves buffer order and duplicates", func(t *testing.T) {
		records := []Sample{
			tagSample("Vad ", 10, 0),
			tagSample("MmSt", 20, 0),
			tagSample("Vad ", 30, 0),
		}
		decoded := DecodeRecords(buildBuffer(engine, 3, records...), engine)

		require.Len(t, decoded, 3)
		assert.Equal(t, records, decoded)
	})

	t.Run("truncated mid-record stops early", func(t *testing.T) {
		records := []Sample{
			tagSample("AAAA", 1, 0),
			tagSample("BBBB", 2, 0),
			tagSample("CCCC", 3, 0),
		}
		buf := buildBuffer(engine, 3, records...)
		decoded := DecodeRecords(buf[:len(buf)-1], engine)

		require.Len(t, decoded, 2)
		assert.Equal(t, records[:2], decoded)
	})

	t.Run("empty buffer decodes to nothing", func(t *testing.T) {
		assert.Empty(t, DecodeRecords(nil, engine))
		assert.Empty(t, DecodeRecords([]byte{1, 2, 3}, engine))
	})
}

func TestDecodeSnapshot(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	capturedAt := time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC)

	t.Run("keys by rendered tag", func(t *testing.T) {
		snap := DecodeSnapshot(buildBuffer(engine, 2,
			tagSample("Ntfx", 100, 50),
			tagSample("Irp ", 200, 0),
		), capturedAt, engine)

		require.Equal(t, 2, snap.Len())
		assert.Equal(t, capturedAt, snap.CapturedAt)

		sample, ok := snap.Get("Ntfx")
		require.True(t, ok)
		assert.Equal(t, uint64(150), sample.TotalUsed())

		_, ok = snap.Get("none")
		assert.False(t, ok)
	})

	t.Run("duplicate rendered tags keep the last record", func(t *testing.T) {
		first := Sample{Tag: [4]byte{0x01, 'A', 'B', 'C'}, PagedUsed: 111}
		second := Sample{Tag: [4]byte{0x02, 'A', 'B', 'C'}, PagedUsed: 222}
		require.Equal(t, first.TagString(), second.TagString(), "fixture tags must collide after rendering")

		snap := DecodeSnapshot(buildBuffer(engine, 2, first, second), capturedAt, engine)

		require.Equal(t, 1, snap.Len())
		sample, ok := snap.Get(".ABC")
		require.True(t, ok)
		assert.Equal(t, second, sample)
	})

	t.Run("garbage buffer decodes without panicking", func(t *testing.T) {
		garbage := make([]byte, 100)
		for i := range garbage {
			garbage[i] = 0xFF
		}

		var snap Snapshot
		require.NotPanics(t, func() {
			snap = DecodeSnapshot(garbage, capturedAt, engine)
		})
		// 0xFFFFFFFF declared, two complete records available, both render "....".
		assert.Equal(t, 1, snap.Len())
	})
}

func TestEncodeSnapshot(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	capturedAt := time.Now()

	snap := NewSnapshot(capturedAt)
	for _, s := range []Sample{
		tagSample("Zulu", 1, 0),
		tagSample("Alfa", 2, 0),
		tagSample("Mike", 3, 0),
	} {
		snap.Samples[s.TagString()] = s
	}

	t.Run("canonical layout is sorted by tag", func(t *testing.T) {
		data := EncodeSnapshot(snap, engine)
		require.Len(t, data, HeaderSize+3*RecordSize)
		assert.Equal(t, 3, RecordCount(data, engine))

		decoded := DecodeRecords(data, engine)
		require.Len(t, decoded, 3)
		assert.Equal(t, "Alfa", decoded[0].TagString())
		assert.Equal(t, "Mike", decoded[1].TagString())
		assert.Equal(t, "Zulu", decoded[2].TagString())
	})

	t.Run("encoding is deterministic", func(t *testing.T) {
		assert.Equal(t, EncodeSnapshot(snap, engine), EncodeSnapshot(snap, engine))
	})

	t.Run("round trip preserves samples", func(t *testing.T) {
		restored := DecodeSnapshot(EncodeSnapshot(snap, engine), capturedAt, engine)
		assert.Equal(t, snap.Samples, restored.Samples)
		assert.Equal(t, capturedAt, restored.CapturedAt)
	})

	t.Run("empty snapshot encodes to a bare header", func(t *testing.T) {
		data := EncodeSnapshot(NewSnapshot(capturedAt), engine)
		require.Len(t, data, HeaderSize)
		assert.Equal(t, 0, RecordCount(data, engine))
	})
}

func TestSnapshot_Tags(t *testing.T) {
	snap := NewSnapshot(time.Now())
	for _, tag := range []string{"Zulu", "Alfa", "Mike"} {
		snap.Samples[tag] = tagSample(tag, 0, 0)
	}

	assert.Equal(t, []string{"Alfa", "Mike", "Zulu"}, snap.Tags())
}

func TestSnapshot_IsEmpty(t *testing.T) {
	snap := NewSnapshot(time.Now())
	assert.True(t, snap.IsEmpty())
	assert.Equal(t, 0, snap.Len())

	snap.Samples["Pool"] = tagSample("Pool", 1, 1)
	assert.False(t, snap.IsEmpty())
	assert.Equal(t, 1, snap.Len())
}
