package motion

// InitialWarmup is the default number of frames skipped after streaming
// starts. The first frame counts toward it.
const InitialWarmup = 4

// State is the double buffer of luminance planes compared each cycle.
// Current and Previous are allocated once and overwritten in place.
type State struct {
	Current  []byte
	Previous []byte

	FirstFrameSeen bool
	Warmup         int
}

// NewState allocates both planes with planeLen bytes. The first frame is
// never compared, whatever warmup is.
func NewState(planeLen, warmup int) *State {
	return &State{
		Current:  make([]byte, planeLen),
		Previous: make([]byte, planeLen),
		Warmup:   warmup,
	}
}

// Observe copies luma into Current, shifting the old Current into Previous
// first unless this is the first frame. It reports whether luma was the
// first one.
func (s *State) Observe(luma []byte) (first bool) {
	if !s.FirstFrameSeen {
		copy(s.Current, luma)
		s.FirstFrameSeen = true
		return true
	}

	copy(s.Previous, s.Current)
	copy(s.Current, luma)

	return false
}

// Skip consumes one warmup tick when no comparison should run this cycle.
func (s *State) Skip(first bool) bool {
	if first || s.Warmup > 0 {
		if s.Warmup > 0 {
			s.Warmup--
		}
		return true
	}

	return false
}
