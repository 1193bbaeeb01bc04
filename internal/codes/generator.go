// Package codes issues short numeric activation codes.
package codes

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Length is the number of digits in an activation code.
const Length = 4

var upperBound = big.NewInt(10000)

// Generator draws codes uniformly from "0000".."9999".
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a Generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// Generate returns a new zero-padded 4-digit code.
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(g.rand, upperBound)
	if err != nil {
		return "", fmt.Errorf("failed to generate activation code: %w", err)
	}
	return fmt.Sprintf("%0*d", Length, n.Int64()), nil
}
