package trackingcode

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesDistinctValidCodes(t *testing.T) {
	g := NewGenerator()
	ctx := context.Background()
	taken := map[string]bool{}
	exists := func(_ context.Context, code string) (bool, error) {
		return taken[code], nil
	}

	for i := 0; i < 500; i++ {
		code, err := g.Generate(ctx, exists)
		require.NoError(t, err)
		require.True(t, Valid(code), "invalid code %q", code)
		require.False(t, taken[code], "duplicate code %q", code)
		taken[code] = true
	}
	assert.Len(t, taken, 500)
}

func TestGenerateRetriesOnCollision(t *testing.T) {
	// rand.Int keeps the low five bits of each byte for a 32-symbol alphabet.
	source := append(bytes.Repeat([]byte{0}, Length), bytes.Repeat([]byte{1}, Length)...)
	g := NewGenerator(WithRandom(bytes.NewReader(source)))

	calls := 0
	exists := func(_ context.Context, code string) (bool, error) {
		calls++
		return code == "AAAAAAAA", nil
	}

	code, err := g.Generate(context.Background(), exists)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBB", code)
	assert.Equal(t, 2, calls)
}

func TestGenerateStopsAfterMaxAttempts(t *testing.T) {
	g := NewGenerator(WithMaxAttempts(3))
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := g.Generate(context.Background(), exists)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 3, calls)
}

func TestGeneratePropagatesLookupError(t *testing.T) {
	boom := errors.New("store down")
	_, err := NewGenerator().Generate(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestGenerateHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator().Generate(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("ABCD2345"))
	assert.False(t, Valid("ABCD234"))
	assert.False(t, Valid("ABCD2341"))
	assert.False(t, Valid("ABCDO345"))
	assert.False(t, Valid("abcd2345"))
	assert.Equal(t, "ABCD2345", Normalize("  abcd2345 "))
}
