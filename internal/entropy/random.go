// Package entropy picks fresh seeds for board generation.
// Boards are reproducible from their seed, so a seed is always chosen up
// front and reported, never left to an ambient random source.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"
)

// Seed returns a positive seed from crypto/rand.
// Falls back to the wall clock if the system source fails.
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Debug("crypto/rand unavailable, seeding from clock", "error", err)
		return clockSeed()
	}
	s := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if s == 0 {
		return 1
	}
	return s
}

// Resolve returns seed unchanged when it is set, or a fresh one for 0.
// The second result reports whether a fresh seed was drawn.
func Resolve(seed int64) (int64, bool) {
	if seed != 0 {
		return seed, false
	}
	return Seed(), true
}

func clockSeed() int64 {
	s := time.Now().UnixNano() & (1<<63 - 1)
	if s == 0 {
		return 1
	}
	return s
}
