// Package compress provides compression and decompression codecs for archived
// pool-tag snapshot payloads.
//
// Snapshots are encoded into a fixed-layout binary payload before archiving,
// and this package implements the optional second stage that shrinks those
// payloads inside archive frames. The frame header records which algorithm
// was used, so readers pick the matching codec automatically.
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Codecs are obtained through the factory functions:
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	if err != nil {
//	    return err
//	}
//	compressed, _ := codec.Compress(payload)
//
// # Supported Algorithms
//
// **None** (format.CompressionNone)
//
// Passes payloads through untouched. Use it when the archive must remain
// directly inspectable or when runs are short enough that size is irrelevant.
//
// **Zstandard** (format.CompressionZstd)
//
// Best compression ratio, moderate speed. Pool-tag payloads compress 5:1 to
// 15:1 because consecutive snapshots repeat the same tag bytes and counters
// drift slowly. Choose Zstd for long retention or multi-day monitoring runs.
//
// The Zstd implementation is selected at build time: cgo builds use the
// libzstd binding from valyala/gozstd, and pure-Go builds (including all
// cross-compiled release binaries) use klauspost/compress/zstd.
//
// **S2** (format.CompressionS2)
//
// The default. Compression is fast enough to be invisible next to a kernel
// query, and the ratio on snapshot payloads is still typically 3:1 or better.
//
// **LZ4** (format.CompressionLZ4)
//
// Fastest decompression. Useful when archives are replayed far more often
// than they are written.
//
// # Algorithm Selection Guide
//
// | Scenario                    | Recommended | Reason                       |
// |-----------------------------|-------------|------------------------------|
// | Default monitoring runs     | S2          | Balanced speed and ratio     |
// | Multi-day archives          | Zstd        | Best compression ratio       |
// | Replay-heavy analysis       | LZ4         | Fastest decompression        |
// | Debugging archive contents  | None        | Payload bytes stay readable  |
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use. The Zstd and LZ4
// implementations pool their encoder and decoder state internally, so sharing
// a single codec across goroutines is also the fastest way to use them.
//
// # Error Handling
//
// Compression errors are rare. Decompression errors indicate corrupted frames
// or a payload written with an incompatible algorithm; the archive reader
// surfaces them per frame so a single damaged frame does not invalidate the
// rest of the file.
package compress
