package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Used for bot decisions and simulations where reproducibility matters more
// than unpredictability.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// FromDigest returns a ChaCha8-backed *rand.Rand keyed by a 32-byte digest.
// Every deck shuffle goes through this so the permutation is a pure function
// of the digest.
func FromDigest(seed [32]byte) *rand.Rand {
	return rand.New(rand.NewChaCha8(seed))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
