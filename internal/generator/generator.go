// Package generator produces the short codes that identify shortened links.
package generator

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Alphabet is the URL-safe character set codes are drawn from.
// 64 characters, so a 6-character code has 64^6 (~6.8e10) possible values:
// collisions on generated codes are negligible but still handled by the
// reservation loop in the service layer.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

// DefaultCodeLength is the length used when no length is configured.
const DefaultCodeLength = 6

// Generator produces short codes for new links.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws each character uniformly from Alphabet using
// crypto/rand. It holds no mutable state and is safe for concurrent use.
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a generator producing codes of the given length.
// Lengths below 1 fall back to DefaultCodeLength.
func NewRandomGenerator(length int) *RandomGenerator {
	if length < 1 {
		length = DefaultCodeLength
	}
	return &RandomGenerator{length: length}
}

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate returns a new random code.
func (g *RandomGenerator) Generate() (string, error) {
	code := make([]byte, g.length)
	for i := range code {
		num, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		code[i] = Alphabet[num.Int64()]
	}
	return string(code), nil
}

// Length returns the configured code length.
func (g *RandomGenerator) Length() int {
	return g.length
}

// ValidCode reports whether s is a non-empty string made only of Alphabet
// characters. Used to vet caller-supplied custom codes before reservation.
func ValidCode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}

var _ Generator = (*RandomGenerator)(nil)
