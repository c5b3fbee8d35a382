package camera

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// FrameBuffer is one mapped slot. Data aliases device memory and is only
// valid until the pool is unmapped.
type FrameBuffer struct {
	Index uint32
	Data  []byte
}

// Luma returns the first half of the slot, which holds the Y plane.
func (b FrameBuffer) Luma() []byte {
	return b.Data[:len(b.Data)/2]
}

// BufferPool owns the device buffer reservation and the mappings of every
// granted slot. It is not safe for concurrent use.
type BufferPool struct {
	dev    Device
	logger *zap.SugaredLogger

	granted uint32
	slots   []FrameBuffer
}

func NewBufferPool(dev Device, logger *zap.SugaredLogger) *BufferPool {
	return &BufferPool{dev: dev, logger: logger}
}

// RequestBuffers reserves desired buffers. When the device grants fewer the
// reservation is released again and ErrInsufficientBuffers returned.
func (p *BufferPool) RequestBuffers(desired uint32) (uint32, error) {
	granted, err := p.dev.RequestBuffers(desired)
	if err != nil {
		return 0, newError(ErrInsufficientBuffers, StageSetup, "VIDIOC_REQBUFS", err)
	}
	if granted < desired {
		err = newError(ErrInsufficientBuffers, StageSetup, "VIDIOC_REQBUFS",
			fmt.Errorf("granted %d of %d", granted, desired))
		if _, releaseErr := p.dev.RequestBuffers(0); releaseErr != nil {
			err = multierr.Append(err, fmt.Errorf("release buffers: %w", releaseErr))
		}
		return granted, err
	}

	p.granted = granted
	p.logger.Debugf("device granted %d buffers", granted)

	return granted, nil
}

// MapBuffers maps every granted slot. A failure part way unmaps what was
// mapped so far and releases the reservation.
func (p *BufferPool) MapBuffers() error {
	p.slots = make([]FrameBuffer, 0, p.granted)
	for i := uint32(0); i < p.granted; i++ {
		desc, err := p.dev.QueryBuffer(i)
		if err != nil {
			return p.abort(newError(ErrMapFailed, StageSetup, "VIDIOC_QUERYBUF", err))
		}
		data, err := p.dev.Map(desc)
		if err != nil {
			return p.abort(newError(ErrMapFailed, StageSetup, "mmap", err))
		}
		p.slots = append(p.slots, FrameBuffer{Index: i, Data: data})
		if len(data) != int(desc.Length) {
			return p.abort(newError(ErrMapFailed, StageSetup, "mmap",
				fmt.Errorf("slot %d mapped %d bytes, device reports %d", i, len(data), desc.Length)))
		}
		p.logger.Debugf("mapped buffer %d: %s", i, humanize.IBytes(uint64(desc.Length)))
	}

	return nil
}

func (p *BufferPool) abort(err error) error {
	return multierr.Combine(err, p.Unmap(), p.Release())
}

// EnqueueAll hands every mapped slot to the device. Slots queued before a
// failure stay queued.
func (p *BufferPool) EnqueueAll() error {
	for _, slot := range p.slots {
		if err := p.dev.Enqueue(slot.Index); err != nil {
			return newError(ErrEnqueueFailed, StageSetup, "VIDIOC_QBUF",
				fmt.Errorf("slot %d: %w", slot.Index, err))
		}
	}

	return nil
}

// Unmap unmaps every mapped slot. It is a no-op on an empty pool.
func (p *BufferPool) Unmap() error {
	if len(p.slots) == 0 {
		return nil
	}

	var err error
	for _, slot := range p.slots {
		if unmapErr := p.dev.Unmap(slot.Data); unmapErr != nil {
			err = multierr.Append(err, fmt.Errorf("munmap slot %d: %w", slot.Index, unmapErr))
		}
	}
	p.logger.Debugf("unmapped %d buffers", len(p.slots))
	p.slots = nil

	return err
}

// Release drops the device reservation. It is a no-op when nothing is
// reserved.
func (p *BufferPool) Release() error {
	if p.granted == 0 {
		return nil
	}
	if _, err := p.dev.RequestBuffers(0); err != nil {
		return fmt.Errorf("release buffers: %w", err)
	}
	p.granted = 0

	return nil
}

// Close unmaps and releases.
func (p *BufferPool) Close() error {
	return multierr.Append(p.Unmap(), p.Release())
}

// Slot returns the mapped slot for an index reported by the device.
func (p *BufferPool) Slot(index uint32) (FrameBuffer, error) {
	if uint64(index) >= uint64(len(p.slots)) {
		return FrameBuffer{}, newError(ErrInvalidBufferIndex, StageLoop, "VIDIOC_DQBUF",
			fmt.Errorf("index %d outside [0, %d)", index, len(p.slots)))
	}

	return p.slots[index], nil
}

func (p *BufferPool) Len() int {
	return len(p.slots)
}

func (p *BufferPool) Granted() uint32 {
	return p.granted
}

// FrameLen is the length of slot 0, or 0 when nothing is mapped.
func (p *BufferPool) FrameLen() int {
	if len(p.slots) == 0 {
		return 0
	}
	return len(p.slots[0].Data)
}
