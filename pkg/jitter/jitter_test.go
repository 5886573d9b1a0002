package jitter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_Bounds(t *testing.T) {
	base := 100 * time.Millisecond

	for i := 0; i < 100; i++ {
		got := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, got, base)
		assert.LessOrEqual(t, got, base+base/2)
	}
}

func TestDurationWithSeed_Deterministic(t *testing.T) {
	base := 100 * time.Millisecond

	a := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(42)))
	b := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(42)))

	assert.Equal(t, a, b)
}

func TestExponentialBackoff(t *testing.T) {
	base := 500 * time.Millisecond
	max := 8 * time.Second

	// Без джиттера отступление удваивается до потолка.
	assert.Equal(t, 500*time.Millisecond, ExponentialBackoff(base, max, 0, 0))
	assert.Equal(t, 1*time.Second, ExponentialBackoff(base, max, 1, 0))
	assert.Equal(t, 4*time.Second, ExponentialBackoff(base, max, 3, 0))
	assert.Equal(t, 8*time.Second, ExponentialBackoff(base, max, 10, 0))

	// С джиттером результат не выходит за полуторный потолок.
	got := ExponentialBackoff(base, max, 20, DefaultJitter)
	assert.LessOrEqual(t, got, max+max/2)
	assert.GreaterOrEqual(t, got, max)
}
