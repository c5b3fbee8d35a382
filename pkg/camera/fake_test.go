package camera

import (
	"errors"
	"time"
)

var errInjected = errors.New("injected")

// fakeDevice is an in-memory capture device. Frames are delivered in order,
// each into the lowest queued slot.
type fakeDevice struct {
	caps    Capabilities
	format  Format
	grant   uint32
	bufLen  uint32
	frames  [][]byte
	badSlot map[uint32]bool // Dequeue reports these indices verbatim

	failSetFormat bool
	failReqbufs   bool
	failQuery     int // slot index, -1 for none
	failMap       int
	failQbuf      int
	failStreamOn  bool
	failStreamOff bool
	failDqbuf     bool
	failRequeue   bool
	waitErr       error

	// onDrain runs when Wait finds no frame left to deliver.
	onDrain func()

	reserved  uint32
	mapped    map[uint32][]byte
	queued    map[uint32]bool
	streaming bool
	started   bool
	seq       uint32
	calls     []string
	releases  int
}

func newFakeDevice(bufLen uint32, frames ...[]byte) *fakeDevice {
	return &fakeDevice{
		caps: Capabilities{Driver: "fake", Card: "fake camera", BusInfo: "platform:fake",
			Capture: true, Streaming: true, ReadWrite: true},
		grant:     WantedNumberOfBuffers,
		bufLen:    bufLen,
		frames:    frames,
		failQuery: -1,
		failMap:   -1,
		failQbuf:  -1,
		mapped:    map[uint32][]byte{},
		queued:    map[uint32]bool{},
	}
}

func (f *fakeDevice) QueryCapabilities() (Capabilities, error) {
	f.calls = append(f.calls, "querycap")
	return f.caps, nil
}

func (f *fakeDevice) SetFormat(req Format) (Format, error) {
	f.calls = append(f.calls, "s_fmt")
	if f.failSetFormat {
		return Format{}, errInjected
	}
	if f.format.Width != 0 {
		return f.format, nil
	}
	req.BytesPerLine = req.Width
	req.SizeImage = f.bufLen
	return req, nil
}

func (f *fakeDevice) RequestBuffers(count uint32) (uint32, error) {
	f.calls = append(f.calls, "reqbufs")
	if count == 0 {
		f.releases++
		f.reserved = 0
		return 0, nil
	}
	if f.failReqbufs {
		return 0, errInjected
	}
	f.reserved = min(count, f.grant)
	return f.reserved, nil
}

func (f *fakeDevice) QueryBuffer(index uint32) (BufferDesc, error) {
	if int(index) == f.failQuery {
		return BufferDesc{}, errInjected
	}
	return BufferDesc{Index: index, Offset: index * 4096, Length: f.bufLen}, nil
}

func (f *fakeDevice) Map(desc BufferDesc) ([]byte, error) {
	if int(desc.Index) == f.failMap {
		return nil, errInjected
	}
	data := make([]byte, desc.Length)
	f.mapped[desc.Index] = data
	return data, nil
}

func (f *fakeDevice) Unmap(data []byte) error {
	f.calls = append(f.calls, "munmap")
	for i, m := range f.mapped {
		if len(m) > 0 && len(data) > 0 && &m[0] == &data[0] {
			delete(f.mapped, i)
			return nil
		}
	}
	return errors.New("unmap of unknown region")
}

func (f *fakeDevice) Enqueue(index uint32) error {
	if f.started && f.failRequeue {
		return errInjected
	}
	if int(index) == f.failQbuf {
		return errInjected
	}
	f.queued[index] = true
	return nil
}

func (f *fakeDevice) Dequeue() (Dequeued, error) {
	if f.failDqbuf {
		return Dequeued{}, errInjected
	}
	if len(f.frames) == 0 {
		return Dequeued{}, ErrNotReady
	}
	frame := f.frames[0]
	f.frames = f.frames[1:]

	for i := uint32(0); i < f.reserved; i++ {
		if !f.queued[i] {
			continue
		}
		idx := i
		if f.badSlot[i] {
			idx = f.reserved + i
		} else {
			copy(f.mapped[i], frame)
		}
		delete(f.queued, i)
		f.seq++
		return Dequeued{Index: idx, BytesUsed: uint32(len(frame)), Sequence: f.seq}, nil
	}
	return Dequeued{}, ErrNotReady
}

func (f *fakeDevice) StreamOn() error {
	f.calls = append(f.calls, "streamon")
	if f.failStreamOn {
		return errInjected
	}
	f.streaming = true
	f.started = true
	return nil
}

func (f *fakeDevice) StreamOff() error {
	f.calls = append(f.calls, "streamoff")
	if f.failStreamOff {
		return errInjected
	}
	f.streaming = false
	return nil
}

func (f *fakeDevice) Wait(timeout time.Duration, wake <-chan struct{}) error {
	if f.waitErr != nil {
		return f.waitErr
	}
	if len(f.frames) > 0 {
		return nil
	}
	if f.onDrain != nil {
		f.onDrain()
	}
	select {
	case <-wake:
		return ErrWaitInterrupted
	case <-time.After(timeout):
		return ErrWaitTimeout
	}
}

// leaked reports whether anything acquired from the device is still held.
func (f *fakeDevice) leaked() bool {
	return f.streaming || f.reserved != 0 || len(f.mapped) != 0
}
