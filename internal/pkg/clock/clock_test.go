package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Neon681/bmt-idle-sub000/internal/pkg/clock"
)

func TestFixed(t *testing.T) {
	start := time.UnixMilli(1_000)
	c := clock.NewFixed(start)
	assert.Equal(t, int64(1_000), clock.Millis(c))

	c.Advance(2500 * time.Millisecond)
	assert.Equal(t, int64(3_500), clock.Millis(c))

	c.Set(time.UnixMilli(42))
	assert.Equal(t, int64(42), clock.Millis(c))
}

func TestReal(t *testing.T) {
	before := time.Now()
	got := clock.New().Now()
	assert.False(t, got.Before(before))
}
