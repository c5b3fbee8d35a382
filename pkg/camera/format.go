package camera

import (
	"go.uber.org/zap"

	"motion-sentinel/pkg/utils"
)

const (
	Width  = 320
	Height = 240

	// WantedNumberOfBuffers is also the minimum the device must grant.
	WantedNumberOfBuffers = 3
)

// PixelFmtNV12 is a full-resolution Y plane followed by interleaved CbCr at
// quarter resolution: 12 bits per pixel, luminance in the first 2/3 of the
// frame and always covering the first half.
const PixelFmtNV12 uint32 = 'N' | 'V'<<8 | '1'<<16 | '2'<<24

const FieldNone = 1

// CheckCapabilities requires video capture and streaming I/O.
func CheckCapabilities(dev Device, logger *zap.SugaredLogger) (Capabilities, error) {
	caps, err := dev.QueryCapabilities()
	if err != nil {
		return caps, newError(ErrCapabilityUnsupported, StageSetup, "VIDIOC_QUERYCAP", err)
	}
	logger.Infof("device %s (%s) on %s", caps.Card, caps.Driver, caps.BusInfo)

	if err := requireCapabilities(caps); err != nil {
		return caps, err
	}
	if !caps.ReadWrite {
		logger.Warn("device does not support read i/o, streaming only")
	}

	return caps, nil
}

func requireCapabilities(caps Capabilities) error {
	if !caps.Capture {
		return newError(ErrCapabilityUnsupported, StageSetup, "VIDIOC_QUERYCAP", errNoCapture)
	}
	if !caps.Streaming {
		return newError(ErrCapabilityUnsupported, StageSetup, "VIDIOC_QUERYCAP", errNoStreaming)
	}

	return nil
}

// NegotiateFormat asks for Width x Height NV12 and returns the granted
// format, which may differ from the request.
func NegotiateFormat(dev Device, logger *zap.SugaredLogger) (Format, error) {
	granted, err := dev.SetFormat(Format{
		Width:       Width,
		Height:      Height,
		PixelFormat: PixelFmtNV12,
		Field:       FieldNone,
	})
	if err != nil {
		return Format{}, newError(ErrFormatRejected, StageSetup, "VIDIOC_S_FMT", err)
	}

	logger.Infof("set format: width %d, height %d, pixel format %s, field %d, stride %d, size %d",
		granted.Width, granted.Height, utils.FourCC(granted.PixelFormat),
		granted.Field, granted.BytesPerLine, granted.SizeImage)
	if granted.Width != Width || granted.Height != Height || granted.PixelFormat != PixelFmtNV12 {
		logger.Warnf("device adjusted the requested format %dx%d %s",
			Width, Height, utils.FourCC(PixelFmtNV12))
	}

	return granted, nil
}
