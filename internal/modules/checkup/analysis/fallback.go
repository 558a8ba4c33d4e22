package analysis

// fallbackSeed fixes the generator so fallback output is reproducible.
const fallbackSeed = 42

// FallbackVector returns the same normalized pseudo-random vector on every
// call. Values sum to 1. The draws are the first NumClasses doubles of an
// MT19937 stream seeded with fallbackSeed, so the demo output is stable
// across builds and platforms.
func FallbackVector() []float64 {
	rng := newMT19937(fallbackSeed)
	vec := make([]float64, NumClasses)
	total := 0.0
	for i := range vec {
		vec[i] = rng.float64()
		total += vec[i]
	}
	for i := range vec {
		vec[i] /= total
	}
	return vec
}

// Fallback runs the fallback vector through Detect at the fallback
// threshold. A non-empty errMsg is attached as the result error.
func Fallback(errMsg string) Result {
	res := Detect(FallbackVector(), false)
	res.Error = errMsg
	return res
}

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// mt19937 is the 32-bit Mersenne Twister.
type mt19937 struct {
	state [mtN]uint32
	pos   int
}

func newMT19937(seed uint32) *mt19937 {
	m := &mt19937{pos: mtN}
	m.state[0] = seed
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	return m
}

func (m *mt19937) twist() {
	for i := 0; i < mtN; i++ {
		y := (m.state[i] & mtUpperMask) | (m.state[(i+1)%mtN] & mtLowerMask)
		next := m.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		m.state[i] = next
	}
	m.pos = 0
}

func (m *mt19937) uint32() uint32 {
	if m.pos >= mtN {
		m.twist()
	}
	y := m.state[m.pos]
	m.pos++
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// float64 returns a double in [0, 1) with 53 random bits.
func (m *mt19937) float64() float64 {
	a := m.uint32() >> 5
	b := m.uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) / 9007199254740992.0
}
