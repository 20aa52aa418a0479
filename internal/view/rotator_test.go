package view

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotator_ManualNavigationWraps(t *testing.T) {
	r := NewRotator(3, time.Hour, nil)

	r.Next()
	assert.Equal(t, 1, r.Index())
	r.Next()
	r.Next()
	assert.Equal(t, 0, r.Index(), "advancing past the end wraps to the first slide")

	r.Prev()
	assert.Equal(t, 2, r.Index(), "stepping back from the first slide wraps to the last")
}

func TestRotator_SeekBounds(t *testing.T) {
	r := NewRotator(3, time.Hour, nil)
	r.Seek(2)
	assert.Equal(t, 2, r.Index())

	r.Seek(5)
	assert.Equal(t, 2, r.Index(), "out of range seek is ignored")
	r.Seek(-1)
	assert.Equal(t, 2, r.Index())
}

func TestRotator_AutoAdvance(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	r := NewRotator(3, 20*time.Millisecond, func(i int) {
		mu.Lock()
		seen = append(seen, i)
		mu.Unlock()
	})

	r.Start()
	assert.True(t, r.Running())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 2
	}, time.Second, 5*time.Millisecond)

	r.Stop()
}

func TestRotator_StopResetsToFirstSlide(t *testing.T) {
	r := NewRotator(3, time.Hour, nil)
	r.Start()
	r.Seek(2)

	r.Stop()
	assert.False(t, r.Running())
	assert.Equal(t, 0, r.Index())

	// stopping again is a no-op
	r.Stop()
}

func TestRotator_SingleSlideNeverStarts(t *testing.T) {
	r := NewRotator(1, time.Millisecond, nil)
	r.Start()
	assert.False(t, r.Running())
}

func TestRotator_StartTwiceIsNoOp(t *testing.T) {
	r := NewRotator(3, time.Hour, nil)
	r.Start()
	r.Start()
	assert.True(t, r.Running())
	r.Stop()
}
