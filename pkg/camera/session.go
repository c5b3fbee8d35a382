package camera

import (
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"motion-sentinel/pkg/motion"
	"motion-sentinel/pkg/types"
	"motion-sentinel/pkg/utils"
)

// ControlApplier is implemented by devices that expose sensor controls.
type ControlApplier interface {
	ApplyControls(settings types.CameraSettings, logger *zap.SugaredLogger) error
}

type Option func(*Session)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithWaitTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.waitTimeout = d
	}
}

// WithWarmup sets how many frames are skipped after streaming starts, the
// first frame included. The default is motion.InitialWarmup.
func WithWarmup(frames int) Option {
	return func(s *Session) {
		s.warmup = frames
	}
}

// WithControls sets sensor controls after the format is negotiated. It has
// no effect on devices that do not implement ControlApplier.
func WithControls(settings types.CameraSettings) Option {
	return func(s *Session) {
		s.controls = settings
	}
}

// Session owns everything acquired from one device between setup and
// teardown.
type Session struct {
	dev    Device
	gate   AlertGate
	cancel *utils.CancelFlag
	logger *zap.SugaredLogger

	waitTimeout time.Duration
	warmup      int
	controls    types.CameraSettings

	format Format
	pool   *BufferPool
	stream *StreamController
	loop   *CaptureLoop
}

func NewSession(dev Device, gate AlertGate, cancel *utils.CancelFlag, opts ...Option) *Session {
	s := &Session{
		dev:         dev,
		gate:        gate,
		cancel:      cancel,
		logger:      utils.GetLogger(),
		waitTimeout: WaitTimeout,
		warmup:      motion.InitialWarmup,
	}
	for _, o := range opts {
		o(s)
	}
	s.pool = NewBufferPool(dev, s.logger)
	s.stream = NewStreamController(dev, s.pool, s.logger)
	s.loop = NewCaptureLoop(dev, s.pool, gate, cancel, s.logger)
	s.loop.waitTimeout = s.waitTimeout
	s.loop.warmup = s.warmup

	return s
}

// Run sets the device up, captures until cancelled or a failure, and tears
// everything down. It returns nil only after a clean cancellation with a
// clean teardown.
func (s *Session) Run() error {
	if err := s.Setup(); err != nil {
		return err
	}

	err := s.loop.Run()
	stats := s.loop.Stats()
	s.logger.Infof("capture loop finished: %d frames, %d comparisons, %d detections",
		stats.Frames, stats.Comparisons, stats.Detections)

	return multierr.Append(err, s.Teardown())
}

// Setup runs the setup chain. On failure exactly what was acquired so far
// is released.
func (s *Session) Setup() error {
	if _, err := CheckCapabilities(s.dev, s.logger); err != nil {
		return err
	}
	format, err := NegotiateFormat(s.dev, s.logger)
	if err != nil {
		return err
	}
	s.format = format

	if ca, ok := s.dev.(ControlApplier); ok {
		if err := ca.ApplyControls(s.controls, s.logger); err != nil {
			s.logger.Warnf("failed to apply camera settings: %v", err)
		}
	}

	// both of these unwind themselves
	if _, err := s.pool.RequestBuffers(WantedNumberOfBuffers); err != nil {
		return err
	}
	if err := s.pool.MapBuffers(); err != nil {
		return err
	}
	s.logger.Infof("mapped %d buffers of %s", s.pool.Granted(), humanize.IBytes(uint64(s.pool.FrameLen())))

	if err := s.pool.EnqueueAll(); err != nil {
		return multierr.Append(err, s.pool.Close())
	}
	if err := s.stream.Start(); err != nil {
		return multierr.Append(err, s.pool.Close())
	}

	return nil
}

// Teardown stops streaming, unmaps and releases. It is safe to call more
// than once.
func (s *Session) Teardown() error {
	if err := s.stream.Stop(); err != nil {
		// Stop already unmapped and released
		return err
	}

	return s.pool.Close()
}

func (s *Session) Format() Format {
	return s.format
}

func (s *Session) Pool() *BufferPool {
	return s.pool
}

func (s *Session) Stream() *StreamController {
	return s.stream
}

func (s *Session) Loop() *CaptureLoop {
	return s.loop
}
