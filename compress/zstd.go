package compress

// ZstdCompressor provides Zstandard compression for archived snapshot streams.
//
// This compressor favors compression ratio over speed, making it the right
// choice for long monitoring runs whose archives are kept around for later
// replay and comparison. Snapshot payloads are dominated by repeated tag
// bytes and slowly-changing counters, which Zstd compresses very well.
//
// Performance characteristics:
//   - Compression: ~5-20 ns/byte (depending on compression level)
//   - Decompression: ~2-5 ns/byte
//   - Compression ratio: 5:1 to 15:1 for typical pool-tag payloads
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
