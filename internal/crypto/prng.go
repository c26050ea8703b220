package crypto

import (
	"crypto/sha1"
)

const digestSize = sha1.Size

// SeededRandom is a deterministic byte stream compatible with the SHA1PRNG
// generator when it is constructed from an explicit seed. The same seed
// always produces the same stream.
type SeededRandom struct {
	state     []byte
	remainder []byte
	remCount  int
}

// NewSeededRandom creates a generator whose state is SHA1(seed)
func NewSeededRandom(seed []byte) *SeededRandom {
	sum := sha1.Sum(seed)
	state := make([]byte, digestSize)
	copy(state, sum[:])
	return &SeededRandom{state: state}
}

// Read fills p with the next bytes of the stream. It never fails.
func (r *SeededRandom) Read(p []byte) (int, error) {
	index := 0

	// Drain what is left of the previous block first
	if r.remCount > 0 {
		todo := min(len(p), digestSize-r.remCount)
		for i := 0; i < todo; i++ {
			p[i] = r.remainder[r.remCount]
			r.remainder[r.remCount] = 0
			r.remCount++
		}
		index += todo
	}

	for index < len(p) {
		sum := sha1.Sum(r.state)
		output := sum[:]
		updateState(r.state, output)

		todo := min(len(p)-index, digestSize)
		for i := 0; i < todo; i++ {
			p[index] = output[i]
			output[i] = 0
			index++
		}
		r.remainder = output
		r.remCount += todo
	}

	r.remCount %= digestSize
	return len(p), nil
}

// Destroy zeroes the generator state
func (r *SeededRandom) Destroy() {
	ClearBytes(r.state)
	ClearBytes(r.remainder)
	r.remCount = 0
}

// updateState computes state = state + output + 1 byte by byte, low index
// first. Bytes are added as signed values and the carry is an arithmetic
// shift, so a negative sum propagates -1 into the next byte.
func updateState(state, output []byte) {
	last := 1
	changed := false
	for i := range state {
		v := int(int8(state[i])) + int(int8(output[i])) + last
		t := byte(v)
		changed = changed || state[i] != t
		state[i] = t
		last = v >> 8
	}
	// At least one bit must change
	if !changed {
		state[0]++
	}
}
