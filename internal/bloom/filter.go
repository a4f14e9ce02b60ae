package bloom

import (
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// NumBits is the filter width. With two bit positions per hash and fewer than 100
// stored directories the false positive rate stays near
// (1-e^(-2*100/1024))^2, about 3%.
const NumBits = 1024

const words = NumBits / 64

// Filter is a 1024-bit Bloom filter indexed by the low and high 16 bits of a
// 32-bit hash. The zero value is an empty filter ready for use.
//
// Filter is not safe for concurrent use; each connection owns its filter.
type Filter struct {
	bits [words]uint64
}

// StoreHash records h. Stored hashes are never removed.
func (f *Filter) StoreHash(h uint32) {
	f.set(lowIndex(h))
	f.set(highIndex(h))
}

// MayContain reports whether h might have been stored. It never returns
// false for a stored hash.
func (f *Filter) MayContain(h uint32) bool {
	return f.test(lowIndex(h)) && f.test(highIndex(h))
}

// Count returns the number of set bits.
func (f *Filter) Count() int {
	n := 0
	for _, w := range f.bits {
		for w != 0 {
			w &= w - 1
			n++
		}
	}
	return n
}

func (f *Filter) set(i uint32) {
	f.bits[i/64] |= 1 << (i % 64)
}

func (f *Filter) test(i uint32) bool {
	return f.bits[i/64]&(1<<(i%64)) != 0
}

func lowIndex(h uint32) uint32 {
	return (h & 0xFFFF) % NumBits
}

func highIndex(h uint32) uint32 {
	return (h >> 16) % NumBits
}

// HashPath hashes a directory path for use with a Filter. The path is
// converted to slash form first so the same directory hashes identically no
// matter which separator the caller used.
func HashPath(dir string) uint32 {
	sum := xxhash.Sum64String(filepath.ToSlash(dir))
	return uint32(sum) ^ uint32(sum>>32)
}
