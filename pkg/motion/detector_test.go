package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	const planeLen = 57600

	changed := func(n int, delta byte) []byte {
		p := make([]byte, planeLen)
		for i := 0; i < n; i++ {
			p[i*7] = delta
		}
		return p
	}
	zero := make([]byte, planeLen)

	tests := []struct {
		name      string
		current   []byte
		wantCount int
		want      bool
	}{
		{"identical", make([]byte, planeLen), 0, false},
		{"at threshold", changed(1000, 20), 1000, false},
		{"above threshold", changed(1001, 20), 1001, true},
		{"within noise", changed(5000, NoiseTolerance), 0, false},
		{"just above noise", changed(5000, NoiseTolerance+1), 5000, true},
		{"full swing", changed(1500, 255), 1500, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moved, n := Detect(tt.current, zero)
			assert.Equal(t, tt.want, moved)
			assert.Equal(t, tt.wantCount, n)
			// the difference is absolute
			moved, n = Detect(zero, tt.current)
			assert.Equal(t, tt.want, moved)
			assert.Equal(t, tt.wantCount, n)
		})
	}
}

func TestCountUnsigned(t *testing.T) {
	// 200 and 60 are 140 apart; a signed reading would see -56 and 60
	assert.Equal(t, 1, Count([]byte{200}, []byte{60}))
	assert.Equal(t, 0, Count([]byte{250}, []byte{245}))
	assert.Equal(t, 1, Count([]byte{128}, []byte{127 - NoiseTolerance}))
}

func TestCountCommonPrefix(t *testing.T) {
	assert.Equal(t, 1, Count([]byte{0, 50, 0}, []byte{0, 0}))
	assert.Zero(t, Count(nil, []byte{1, 2, 3}))
}
