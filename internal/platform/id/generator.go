// Package id generates the public identifiers handed out on matches,
// predictions, leagues, grants, and notifications.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// idBytes of entropy per ID; encoded as 32 hex characters.
const idBytes = 16

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
