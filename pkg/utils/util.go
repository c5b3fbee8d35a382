package utils

import (
	"encoding/binary"
	"strings"
)

// FourCC renders a V4L2 pixel format code, e.g. 0x3231564e as "NV12".
func FourCC(code uint32) string {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, code)

	return strings.TrimRight(string(b), "\x00")
}
