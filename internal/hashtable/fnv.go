package hashtable

import "math"

// FNV-1a constants for 64-bit hash.
const (
	fnvBasis64 uint64 = 14695981039346656037
	fnvPrime64 uint64 = 1099511628211
)

// Hasher accumulates an FNV-1a 64-bit hash. The zero value is not ready for
// use; start from NewHasher.
//
// Scalars are hashed through their little-endian bytes, so hashing a value
// and hashing its encoding give the same result.
type Hasher struct {
	h uint64
}

// NewHasher returns a Hasher holding the FNV offset basis.
func NewHasher() Hasher {
	return Hasher{h: fnvBasis64}
}

// Byte mixes a single byte.
func (h *Hasher) Byte(b byte) {
	h.h ^= uint64(b)
	h.h *= fnvPrime64
}

// Bytes mixes every byte of b.
func (h *Hasher) Bytes(b []byte) {
	x := h.h
	for _, c := range b {
		x ^= uint64(c)
		x *= fnvPrime64
	}
	h.h = x
}

// String mixes every byte of s.
func (h *Hasher) String(s string) {
	x := h.h
	for i := 0; i < len(s); i++ {
		x ^= uint64(s[i])
		x *= fnvPrime64
	}
	h.h = x
}

// Uint16 mixes the two bytes of v.
func (h *Hasher) Uint16(v uint16) {
	h.Byte(byte(v))
	h.Byte(byte(v >> 8))
}

// Uint32 mixes the four bytes of v.
func (h *Hasher) Uint32(v uint32) {
	for range 4 {
		h.Byte(byte(v))
		v >>= 8
	}
}

// Uint64 mixes the eight bytes of v.
func (h *Hasher) Uint64(v uint64) {
	for range 8 {
		h.Byte(byte(v))
		v >>= 8
	}
}

// Int mixes v as a 64-bit value.
func (h *Hasher) Int(v int) { h.Uint64(uint64(v)) }

// Int64 mixes v.
func (h *Hasher) Int64(v int64) { h.Uint64(uint64(v)) }

// Float64 mixes the IEEE 754 bits of v.
func (h *Hasher) Float64(v float64) { h.Uint64(math.Float64bits(v)) }

// Bool mixes a single byte, 1 for true.
func (h *Hasher) Bool(v bool) {
	if v {
		h.Byte(1)
		return
	}
	h.Byte(0)
}

// Sum64 returns the hash accumulated so far.
func (h *Hasher) Sum64() uint64 {
	return h.h
}

// HashBytes returns the FNV-1a hash of b.
func HashBytes(b []byte) uint64 {
	h := NewHasher()
	h.Bytes(b)
	return h.h
}

// HashString returns the FNV-1a hash of s.
func HashString(s string) uint64 {
	h := NewHasher()
	h.String(s)
	return h.h
}

// Mix64 scrambles an integer key with the murmur3 finalizer. Keys such as
// addresses or sequential indices hash badly under a plain mask.
func Mix64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}
