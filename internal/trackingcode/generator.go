package trackingcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Alphabet excludes I, O, 0 and 1.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length of every generated code.
const Length = 8

const defaultMaxAttempts = 64

// ErrExhausted is returned when every attempt collided with an existing code.
var ErrExhausted = errors.New("tracking code attempts exhausted")

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator draws random codes and retries on collision.
type Generator struct {
	random      io.Reader
	maxAttempts int
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRandom replaces the entropy source.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		g.random = r
	}
}

// WithMaxAttempts bounds the retry loop.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// NewGenerator builds a generator backed by crypto/rand.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{random: rand.Reader, maxAttempts: defaultMaxAttempts}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a code for which exists reported false.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := g.draw()
		if err != nil {
			return "", fmt.Errorf("draw tracking code: %w", err)
		}
		if exists == nil {
			return code, nil
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}

func (g *Generator) draw() (string, error) {
	var b strings.Builder
	b.Grow(Length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < Length; i++ {
		n, err := rand.Int(g.random, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String(), nil
}

// Valid reports whether code has the expected length and alphabet.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}

// Normalize uppercases and trims user-entered codes.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
