package camera

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"motion-sentinel/pkg/motion"
	"motion-sentinel/pkg/utils"
)

// WaitTimeout bounds each readiness wait. A wait that times out ends the
// loop; there is no retry.
const WaitTimeout = 2 * time.Second

// errCancelled marks a wait ended by cancellation.
var errCancelled = errors.New("capture cancelled")

// AlertGate is called on every positive detection. It owns the cooldown and
// resets state.Warmup.
type AlertGate interface {
	Trigger(state *motion.State)
}

type LoopStats struct {
	Frames      int
	Comparisons int
	Detections  int
}

// CaptureLoop runs wait, dequeue, copy, enqueue, compare until cancelled.
type CaptureLoop struct {
	dev    Device
	pool   *BufferPool
	gate   AlertGate
	cancel *utils.CancelFlag
	logger *zap.SugaredLogger

	waitTimeout time.Duration
	warmup      int

	state *motion.State
	stats LoopStats
}

func NewCaptureLoop(dev Device, pool *BufferPool, gate AlertGate, cancel *utils.CancelFlag, logger *zap.SugaredLogger) *CaptureLoop {
	return &CaptureLoop{
		dev:         dev,
		pool:        pool,
		gate:        gate,
		cancel:      cancel,
		logger:      logger,
		waitTimeout: WaitTimeout,
		warmup:      motion.InitialWarmup,
	}
}

func (l *CaptureLoop) State() *motion.State {
	return l.state
}

func (l *CaptureLoop) Stats() LoopStats {
	return l.stats
}

// Run returns nil only when the loop ends through cancellation.
func (l *CaptureLoop) Run() error {
	l.state = motion.NewState(l.pool.FrameLen()/2, l.warmup)
	for i := 0; i < l.pool.Len(); i++ {
		slot, _ := l.pool.Slot(uint32(i))
		l.logger.Debugf("half the buffer length %d is %d", i, len(slot.Luma()))
	}

	for !l.cancel.Cancelled() {
		if err := l.wait(); err == errCancelled {
			return nil
		} else if err != nil {
			return err
		}
		if err := l.cycle(); err != nil {
			return err
		}
	}

	return nil
}

func (l *CaptureLoop) wait() error {
	err := l.dev.Wait(l.waitTimeout, l.cancel.Wake())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrWaitInterrupted):
		if l.cancel.Cancelled() {
			return errCancelled
		}
		return newError(ErrWaitFailed, StageLoop, "poll", err)
	case errors.Is(err, ErrWaitTimeout):
		return newError(ErrWaitTimedOut, StageLoop, "poll", err)
	default:
		return newError(ErrWaitFailed, StageLoop, "poll", err)
	}
}

func (l *CaptureLoop) cycle() error {
	buf, err := l.dev.Dequeue()
	if errors.Is(err, ErrNotReady) {
		return nil
	}
	if err != nil {
		return newError(ErrDequeueFailed, StageLoop, "VIDIOC_DQBUF", err)
	}

	slot, err := l.pool.Slot(buf.Index)
	if err != nil {
		return err
	}
	first := l.state.Observe(slot.Luma())
	l.stats.Frames++

	// hand the slot back before comparing so the device queue never runs dry
	if err := l.dev.Enqueue(buf.Index); err != nil {
		return newError(ErrRequeueFailed, StageLoop, "VIDIOC_QBUF", err)
	}

	if l.state.Skip(first) {
		return nil
	}

	l.stats.Comparisons++
	moved, diff := motion.Detect(l.state.Current, l.state.Previous)
	l.logger.Debugf("the difference is %d", diff)
	if moved {
		l.stats.Detections++
		l.logger.Infof("movement detected in frame %d (%d pixels changed)", buf.Sequence, diff)
		l.gate.Trigger(l.state)
	}

	return nil
}
