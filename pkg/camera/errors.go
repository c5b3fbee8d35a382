package camera

import (
	"errors"
	"fmt"
)

var (
	ErrCapabilityUnsupported = errors.New("capability unsupported")
	ErrFormatRejected        = errors.New("format rejected")
	ErrInsufficientBuffers   = errors.New("insufficient buffers")
	ErrMapFailed             = errors.New("map failed")
	ErrEnqueueFailed         = errors.New("enqueue failed")
	ErrStreamStartFailed     = errors.New("stream start failed")
	ErrStreamStopFailed      = errors.New("stream stop failed")
	ErrWaitFailed            = errors.New("wait failed")
	ErrWaitTimedOut          = errors.New("wait timed out")
	ErrInvalidBufferIndex    = errors.New("invalid buffer index")
	ErrDequeueFailed         = errors.New("dequeue failed")
	ErrRequeueFailed         = errors.New("requeue failed")
)

// Device level conditions, returned by Device implementations.
var (
	ErrNotReady        = errors.New("no buffer ready")
	ErrWaitInterrupted = errors.New("wait interrupted")
	ErrWaitTimeout     = errors.New("wait timeout")
)

var (
	errNoCapture   = errors.New("device is no video capture device")
	errNoStreaming = errors.New("device does not support streaming i/o")
)

type Stage string

const (
	StageSetup    Stage = "setup"
	StageLoop     Stage = "loop"
	StageTeardown Stage = "teardown"
)

// Error carries the failure kind together with where it happened.
// errors.Is matches both Kind and the underlying cause.
type Error struct {
	Kind  error
	Stage Stage
	Op    string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", e.Stage, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s: %s", e.Stage, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, stage Stage, op string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Op: op, Err: err}
}
