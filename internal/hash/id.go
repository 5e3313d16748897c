// Package hash computes the 64-bit fingerprints used to identify records.
package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of the given bytes.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
