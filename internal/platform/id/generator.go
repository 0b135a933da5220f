package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator creates opaque request identifiers.
type Generator interface {
	NewID() string
}

type RandomGenerator struct {
	size int
}

// NewRandomGenerator returns hex ids of 2*size characters. size <= 0 means 8 bytes.
func NewRandomGenerator(size int) *RandomGenerator {
	if size <= 0 {
		size = 8
	}
	return &RandomGenerator{size: size}
}

func (g *RandomGenerator) NewID() string {
	buf := make([]byte, g.size)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Valid reports whether an incoming id is safe to echo and log.
func Valid(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
