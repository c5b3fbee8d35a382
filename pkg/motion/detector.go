// Package motion compares successive luminance planes.
package motion

const (
	// NoiseTolerance is the largest per-pixel difference still treated as
	// sensor noise.
	NoiseTolerance = 10
	// MovementThreshold is the mismatch count that must be exceeded.
	MovementThreshold = 1000
)

// Count returns the number of positions whose values differ by more than
// NoiseTolerance. Only the common prefix of a and b is compared.
func Count(a, b []byte) int {
	n := min(len(a), len(b))
	a, b = a[:n], b[:n]

	diff := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d > NoiseTolerance || d < -NoiseTolerance {
			diff++
		}
	}

	return diff
}

// Detect reports whether more than MovementThreshold positions changed,
// together with the mismatch count.
func Detect(current, previous []byte) (bool, int) {
	n := Count(current, previous)
	return n > MovementThreshold, n
}
