package data

// pcgRand is a PCG-XSH-RR 32-bit pseudo-random generator. Unlike the
// generators in math/rand, its full state is two words that can be written
// to and restored from a tape, which the shuffle source requires for exact
// position round-trips.
type pcgRand struct {
	state uint64
	inc   uint64
}

const pcgMultiplier = 6364136223846793005

func newPcgRand(seed uint64) *pcgRand {
	r := &pcgRand{inc: (seed << 1) | 1}
	r.next()
	r.state += seed
	r.next()
	return r
}

func (r *pcgRand) next() uint32 {
	old := r.state
	r.state = old*pcgMultiplier + r.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// intn returns a value in [0, n). n must be positive.
func (r *pcgRand) intn(n int) int {
	return int(r.next() % uint32(n))
}

func (r *pcgRand) snapshot() (state, inc uint64) { return r.state, r.inc }

func (r *pcgRand) restore(state, inc uint64) {
	r.state = state
	r.inc = inc
}
