//go:build linux

package camera

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimirvivien/go4vl/v4l2"
)

func TestToCapabilities(t *testing.T) {
	tests := []struct {
		name    string
		bits    uint32
		want    Capabilities
		wantErr error
	}{
		{"capture and streaming", v4l2.CapVideoCapture | v4l2.CapStreaming | v4l2.CapReadWrite,
			Capabilities{Driver: "uvcvideo", Capture: true, Streaming: true, ReadWrite: true}, nil},
		{"read/write only", v4l2.CapVideoCapture | v4l2.CapReadWrite,
			Capabilities{Driver: "uvcvideo", Capture: true, ReadWrite: true}, errNoStreaming},
		{"output device", v4l2.CapStreaming,
			Capabilities{Driver: "uvcvideo", Streaming: true}, errNoCapture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := toCapabilities(v4l2.Capability{Driver: "uvcvideo", Capabilities: tt.bits})
			assert.Equal(t, tt.want, caps)

			err := requireCapabilities(caps)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrCapabilityUnsupported)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOpenV4L2MissingNode(t *testing.T) {
	_, err := OpenV4L2(filepath.Join(t.TempDir(), "video0"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCapabilityUnsupported)
}
