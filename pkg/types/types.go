package types

import (
	"github.com/vladimirvivien/go4vl/v4l2"
)

// CameraSettings maps V4L2 control ids to the value applied after format
// negotiation.
type CameraSettings map[v4l2.CtrlID]v4l2.CtrlValue

// ControlInfo describes one sensor control as reported by the device.
type ControlInfo struct {
	ID    v4l2.CtrlID    `json:"id"`
	Value v4l2.CtrlValue `json:"value"`
	Name  string         `json:"name"`

	IsMenu bool `json:"isMenu"`

	MenuItems []string `json:"menuItems,omitempty"`

	Minimum int32 `json:"minimum"`
	Maximum int32 `json:"maximum"`
	Step    int32 `json:"step"`
	Default int32 `json:"default"`
}
