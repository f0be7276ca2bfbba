package mr

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
)

// Source is the randomness generators and transforms draw from.
//
// *rand.Rand from math/rand/v2 satisfies it. IntN must return a value in
// [0, n) and may panic when n <= 0; use the helpers below, which guard
// against that.
type Source interface {
	IntN(n int) int
}

// IntRange returns a value in [lo, hi]. Returns lo when hi < lo.
func IntRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}

	return lo + src.IntN(hi-lo+1)
}

// Bool returns true with probability 1/2.
func Bool(src Source) bool {
	return src.IntN(2) == 1
}

// Chance returns true with probability num/den.
func Chance(src Source, num, den int) bool {
	if den <= 0 {
		return false
	}

	return src.IntN(den) < num
}

// Perm returns a permutation of [0, n).
func Perm(src Source, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}

	Shuffle(src, len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })

	return p
}

// Shuffle permutes n elements using swap (Fisher-Yates).
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, src.IntN(i+1))
	}
}

// Pick returns a random element of s. s must not be empty.
func Pick[T any](src Source, s []T) T {
	return s[src.IntN(len(s))]
}

// caseSource returns the stream a generator uses for case i of seed.
func caseSource(seed uint64, caseIndex int) Source {
	return rand.New(rand.NewPCG(seed, uint64(caseIndex)))
}

// relationSource returns the stream relation name uses for case i of seed.
// It is independent of which other relations run.
func relationSource(seed uint64, caseIndex int, name string) Source {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))

	return rand.New(rand.NewPCG(seed^h.Sum64(), uint64(caseIndex)))
}

// ByteStream reads values sequentially from a byte slice.
//
// Used by fuzz tests to deterministically derive values from fuzz input.
// When the stream is exhausted, all reads return zero values. This ensures
// determinism: the same input always produces the same sequence of values.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over the given bytes.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// IntN returns a value in [0, n) derived from the next one or four bytes.
// Returns 0 when n <= 0.
func (s *ByteStream) IntN(n int) int {
	if n <= 0 {
		return 0
	}

	if n <= 256 {
		return int(s.NextByte()) % n
	}

	var buf [4]byte
	for i := range buf {
		buf[i] = s.NextByte()
	}

	return int(uint64(binary.LittleEndian.Uint32(buf[:])) % uint64(n))
}
