package camera

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type StreamState int

const (
	Idle StreamState = iota
	Streaming
)

func (s StreamState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// StreamController is the only place the streaming state changes.
type StreamController struct {
	dev    Device
	pool   *BufferPool
	logger *zap.SugaredLogger

	state StreamState
}

func NewStreamController(dev Device, pool *BufferPool, logger *zap.SugaredLogger) *StreamController {
	return &StreamController{dev: dev, pool: pool, logger: logger}
}

func (s *StreamController) State() StreamState {
	return s.state
}

// Start turns streaming on. On failure the state stays Idle.
func (s *StreamController) Start() error {
	if s.state == Streaming {
		return nil
	}
	if err := s.dev.StreamOn(); err != nil {
		return newError(ErrStreamStartFailed, StageSetup, "VIDIOC_STREAMON", err)
	}
	s.state = Streaming
	s.logger.Info("streaming started")

	return nil
}

// Stop turns streaming off. If the device refuses, the buffer pool is
// unmapped and released anyway before the error is reported.
func (s *StreamController) Stop() error {
	if s.state == Idle {
		return nil
	}
	if err := s.dev.StreamOff(); err != nil {
		return multierr.Append(
			newError(ErrStreamStopFailed, StageTeardown, "VIDIOC_STREAMOFF", err),
			s.pool.Close(),
		)
	}
	s.state = Idle
	s.logger.Info("streaming stopped")

	return nil
}
