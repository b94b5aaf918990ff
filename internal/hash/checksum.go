package hash

import "github.com/cespare/xxhash/v2"

// Checksum computes the xxHash64 digest of the given bytes.
// Archive frames store it to detect payload corruption on read.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
