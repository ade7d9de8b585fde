package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Shoes, simulations and tests all derive their sequences through here so a
// seed printed in a log is enough to replay a session.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns a seed derived from the wall clock, for interactive play
func Seed() int64 {
	return int64(mix(uint64(time.Now().UnixNano())) >> 1)
}

// Derive returns the n-th child seed of a base seed. Child seeds are
// well separated so parallel sessions never share a sequence.
func Derive(base int64, n int) int64 {
	return int64(mix(uint64(base)+uint64(n)*goldenRatio64) >> 1)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
