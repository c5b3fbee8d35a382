package camera

import (
	"time"
)

// Device is the control surface of a streaming capture device. Every call
// blocks; implementations retry on EINTR and on nothing else.
type Device interface {
	QueryCapabilities() (Capabilities, error)
	// SetFormat requests f and returns what the device actually granted.
	SetFormat(f Format) (Format, error)
	// RequestBuffers reserves count buffers and returns the granted count.
	// A count of zero releases the reservation.
	RequestBuffers(count uint32) (uint32, error)
	QueryBuffer(index uint32) (BufferDesc, error)
	// Map maps the backing region of desc read-write and shared.
	Map(desc BufferDesc) ([]byte, error)
	Unmap(data []byte) error
	Enqueue(index uint32) error
	// Dequeue returns ErrNotReady when no filled buffer is available yet.
	Dequeue() (Dequeued, error)
	StreamOn() error
	StreamOff() error
	// Wait blocks until a filled buffer can be dequeued. It returns
	// ErrWaitInterrupted once wake is closed and ErrWaitTimeout when timeout
	// elapses without data.
	Wait(timeout time.Duration, wake <-chan struct{}) error
}

type Capabilities struct {
	Driver  string `json:"driver"`
	Card    string `json:"card"`
	BusInfo string `json:"busInfo"`

	Capture   bool `json:"capture"`
	Streaming bool `json:"streaming"`
	ReadWrite bool `json:"readWrite"`
}

type Format struct {
	Width        uint32 `json:"width"`
	Height       uint32 `json:"height"`
	PixelFormat  uint32 `json:"pixelFormat"`
	Field        uint32 `json:"field"`
	BytesPerLine uint32 `json:"bytesPerLine"`
	SizeImage    uint32 `json:"sizeImage"`
}

// BufferDesc is the physical descriptor of one reserved slot.
type BufferDesc struct {
	Index  uint32
	Offset uint32
	Length uint32
}

type Dequeued struct {
	Index     uint32
	BytesUsed uint32
	Sequence  uint32
}
