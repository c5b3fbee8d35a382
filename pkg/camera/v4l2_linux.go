//go:build linux

package camera

import (
	"errors"
	"fmt"
	"time"

	"github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"
	"golang.org/x/sys/unix"
)

const DefaultDevice = "/dev/video0"

// pollSlice bounds how long a single poll may block before the wake channel
// is looked at again.
const pollSlice = 100 * time.Millisecond

// V4L2Device drives a V4L2 capture node through go4vl. Buffers are mapped
// and polled here so that each setup step can be undone on its own.
type V4L2Device struct {
	dev *device.Device
	fd  uintptr
}

// OpenV4L2 checks the node's capabilities before handing it to go4vl, which
// refuses non-streaming nodes with an unclassified error.
func OpenV4L2(path string) (*V4L2Device, error) {
	if err := precheck(path); err != nil {
		return nil, err
	}
	dev, err := device.Open(path, device.WithBufferSize(WantedNumberOfBuffers))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &V4L2Device{dev: dev, fd: dev.Fd()}, nil
}

func precheck(path string) error {
	fd, err := v4l2.OpenDevice(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	c, err := v4l2.GetCapability(fd)
	_ = v4l2.CloseDevice(fd)
	if err != nil {
		return newError(ErrCapabilityUnsupported, StageSetup, "VIDIOC_QUERYCAP", err)
	}

	return requireCapabilities(toCapabilities(c))
}

func (d *V4L2Device) Name() string {
	return d.dev.Name()
}

func (d *V4L2Device) Close() error {
	return d.dev.Close()
}

func (d *V4L2Device) QueryCapabilities() (Capabilities, error) {
	c, err := v4l2.GetCapability(d.fd)
	if err != nil {
		return Capabilities{}, err
	}

	return toCapabilities(c), nil
}

func toCapabilities(c v4l2.Capability) Capabilities {
	return Capabilities{
		Driver:    c.Driver,
		Card:      c.Card,
		BusInfo:   c.BusInfo,
		Capture:   c.IsVideoCaptureSupported(),
		Streaming: c.IsStreamingSupported(),
		ReadWrite: c.IsReadWriteSupported(),
	}
}

func (d *V4L2Device) SetFormat(f Format) (Format, error) {
	err := v4l2.SetPixFormat(d.fd, v4l2.PixFormat{
		Width:       f.Width,
		Height:      f.Height,
		PixelFormat: v4l2.FourCCType(f.PixelFormat),
		Field:       v4l2.FieldType(f.Field),
	})
	if err != nil {
		return Format{}, err
	}

	granted, err := v4l2.GetPixFormat(d.fd)
	if err != nil {
		return Format{}, err
	}

	return Format{
		Width:        granted.Width,
		Height:       granted.Height,
		PixelFormat:  uint32(granted.PixelFormat),
		Field:        uint32(granted.Field),
		BytesPerLine: granted.BytesPerLine,
		SizeImage:    granted.SizeImage,
	}, nil
}

// RequestBuffers reserves count buffers. go4vl fixes the count when the
// node is opened, so only that count or zero is accepted.
func (d *V4L2Device) RequestBuffers(count uint32) (uint32, error) {
	if count == 0 {
		if _, err := v4l2.ResetBuffers(d.dev); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if count != d.dev.BufferCount() {
		return 0, fmt.Errorf("buffer count is fixed at %d when the device is opened", d.dev.BufferCount())
	}

	req, err := v4l2.InitBuffers(d.dev)
	if err != nil {
		return 0, err
	}

	return req.Count, nil
}

func (d *V4L2Device) QueryBuffer(index uint32) (BufferDesc, error) {
	buf, err := v4l2.GetBuffer(d.dev, index)
	if err != nil {
		return BufferDesc{}, err
	}

	return BufferDesc{Index: buf.Index, Offset: buf.Info.Offset, Length: buf.Length}, nil
}

func (d *V4L2Device) Map(desc BufferDesc) ([]byte, error) {
	return unix.Mmap(int(d.fd), int64(desc.Offset), int(desc.Length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func (d *V4L2Device) Unmap(data []byte) error {
	return unix.Munmap(data)
}

func (d *V4L2Device) Enqueue(index uint32) error {
	_, err := v4l2.QueueBuffer(d.fd, v4l2.IOTypeMMAP, v4l2.BufTypeVideoCapture, index)
	return err
}

func (d *V4L2Device) Dequeue() (Dequeued, error) {
	buf, err := v4l2.DequeueBuffer(d.fd, v4l2.IOTypeMMAP, v4l2.BufTypeVideoCapture)
	if err != nil {
		// go4vl opens the node non-blocking
		if errors.Is(err, unix.EAGAIN) {
			return Dequeued{}, ErrNotReady
		}
		return Dequeued{}, err
	}

	return Dequeued{Index: buf.Index, BytesUsed: buf.BytesUsed, Sequence: buf.Sequence}, nil
}

func (d *V4L2Device) StreamOn() error {
	return v4l2.StreamOn(d.dev)
}

func (d *V4L2Device) StreamOff() error {
	return v4l2.StreamOff(d.dev)
}

func (d *V4L2Device) Wait(timeout time.Duration, wake <-chan struct{}) error {
	deadline := time.Now().Add(timeout)
	fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
	for {
		select {
		case <-wake:
			return ErrWaitInterrupted
		default:
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrWaitTimeout
		}
		slice := min(remaining, pollSlice)
		ms := int((slice + time.Millisecond - 1) / time.Millisecond)

		n, err := unix.Poll(fds, ms)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
			return fmt.Errorf("poll: revents %#x", fds[0].Revents)
		}
		return nil
	}
}
