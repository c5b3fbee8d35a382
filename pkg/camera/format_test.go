package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNegotiateFormatAdjusted(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dev := newFakeDevice(153600)
	dev.format = Format{Width: 640, Height: 480, PixelFormat: PixelFmtNV12, Field: FieldNone,
		BytesPerLine: 640, SizeImage: 460800}

	f, err := NegotiateFormat(dev, zap.New(core).Sugar())
	require.NoError(t, err)
	assert.EqualValues(t, 640, f.Width)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t,
		"set format: width 640, height 480, pixel format NV12, field 1, stride 640, size 460800",
		logs.FilterLevelExact(zapcore.InfoLevel).All()[0].Message)
}

func TestCheckCapabilitiesReadWriteWarning(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dev := newFakeDevice(1024)
	dev.caps.ReadWrite = false

	_, err := CheckCapabilities(dev, zap.New(core).Sugar())
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestCheckCapabilitiesMissing(t *testing.T) {
	dev := newFakeDevice(1024)
	dev.caps.Streaming = false

	_, err := CheckCapabilities(dev, zap.NewNop().Sugar())
	require.ErrorIs(t, err, ErrCapabilityUnsupported)
	require.ErrorIs(t, err, errNoStreaming)
	assert.Equal(t, "setup: VIDIOC_QUERYCAP: capability unsupported: device does not support streaming i/o", err.Error())
}

func TestRequireCapabilities(t *testing.T) {
	tests := []struct {
		name    string
		caps    Capabilities
		wantErr error
	}{
		{"capture and streaming", Capabilities{Capture: true, Streaming: true}, nil},
		{"read/write is optional", Capabilities{Capture: true, Streaming: true, ReadWrite: false}, nil},
		{"no capture", Capabilities{Streaming: true, ReadWrite: true}, errNoCapture},
		{"no streaming", Capabilities{Capture: true, ReadWrite: true}, errNoStreaming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireCapabilities(tt.caps)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrCapabilityUnsupported)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
