package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plane(n int, fill byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = fill
	}
	return p
}

func TestStateObserve(t *testing.T) {
	s := NewState(4, InitialWarmup)
	require.Len(t, s.Current, 4)
	require.Len(t, s.Previous, 4)
	assert.Equal(t, InitialWarmup, s.Warmup)

	assert.True(t, s.Observe(plane(4, 1)))
	assert.Equal(t, []byte{1, 1, 1, 1}, s.Current)
	assert.Equal(t, []byte{0, 0, 0, 0}, s.Previous)

	cur := &s.Current[0]
	assert.False(t, s.Observe(plane(4, 2)))
	assert.Equal(t, []byte{2, 2, 2, 2}, s.Current)
	assert.Equal(t, []byte{1, 1, 1, 1}, s.Previous)
	assert.Same(t, cur, &s.Current[0])
	assert.Len(t, s.Current, 4)
}

func TestStateWarmup(t *testing.T) {
	tests := []struct {
		name        string
		warmup      int
		wantSkipped int
	}{
		{"default", InitialWarmup, InitialWarmup},
		{"first frame only", 1, 1},
		{"zero still skips the first frame", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(4, tt.warmup)

			var skipped int
			for i := 0; i < 10; i++ {
				first := s.Observe(plane(4, byte(i)))
				if s.Skip(first) {
					skipped++
				}
			}
			assert.Equal(t, tt.wantSkipped, skipped)
			assert.Zero(t, s.Warmup)
		})
	}
}

func TestStateRewarmup(t *testing.T) {
	s := NewState(4, 0)
	s.Observe(plane(4, 0))
	s.Skip(true)

	s.Warmup = 3
	for i := 0; i < 3; i++ {
		assert.True(t, s.Skip(false))
	}
	assert.False(t, s.Skip(false))
}

func TestStateDetect(t *testing.T) {
	s := NewState(2000, 1)
	s.Observe(plane(2000, 0))
	s.Observe(plane(2000, 100))

	moved, n := Detect(s.Current, s.Previous)
	assert.True(t, moved)
	assert.Equal(t, 2000, n)
}
