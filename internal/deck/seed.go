package deck

import (
	"crypto/sha256"
	"encoding/binary"
)

// Seed derives the shuffle seed for a round: SHA-256 over the big-endian
// round counter followed by the big-endian secret of every occupied seat in
// seat order. Unoccupied seats must not be passed.
func Seed(roundSecret uint64, seatSecrets []uint64) [32]byte {
	buf := make([]byte, 0, 8*(len(seatSecrets)+1))
	buf = binary.BigEndian.AppendUint64(buf, roundSecret)
	for _, s := range seatSecrets {
		buf = binary.BigEndian.AppendUint64(buf, s)
	}
	return sha256.Sum256(buf)
}

// reshuffleSeed chains a fresh seed off the round seed for the n-th reshuffle.
func reshuffleSeed(seed [32]byte, n int) [32]byte {
	buf := make([]byte, 0, len(seed)+len("reshuffle")+8)
	buf = append(buf, seed[:]...)
	buf = append(buf, "reshuffle"...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(n))
	return sha256.Sum256(buf)
}
