//go:build linux

package camera

import (
	"fmt"

	"github.com/vladimirvivien/go4vl/v4l2"
	"go.uber.org/zap"

	"motion-sentinel/pkg/types"
)

// ApplyControls sets every known control listed in settings. Controls the
// device does not expose are skipped with a warning.
func (d *V4L2Device) ApplyControls(settings types.CameraSettings, logger *zap.SugaredLogger) error {
	if len(settings) == 0 {
		return nil
	}
	ctrls, err := v4l2.QueryAllExtControls(d.fd)
	if err != nil {
		return err
	}

	known := make(map[v4l2.CtrlID]v4l2.Control, len(ctrls))
	for _, ctrl := range ctrls {
		known[ctrl.ID] = ctrl
	}
	for id, value := range settings {
		ctrl, ok := known[id]
		if !ok {
			logger.Warnf("the device does not support control(%d)", id)
			continue
		}
		if err := d.dev.SetControlValue(id, value); err != nil {
			return fmt.Errorf("set ctrl(%s) to %d: %w", ctrl.Name, value, err)
		}
		logger.Infof("set ctrl(%s) to %d", ctrl.Name, value)
	}

	return nil
}

func (d *V4L2Device) Controls() ([]types.ControlInfo, error) {
	ctrls, err := v4l2.QueryAllExtControls(d.fd)
	if err != nil {
		return nil, err
	}

	res := make([]types.ControlInfo, 0, len(ctrls))
	for _, ctrl := range ctrls {
		info, err := ctrlToInfo(ctrl)
		if err != nil {
			return nil, err
		}
		res = append(res, info)
	}

	return res, nil
}

func ctrlToInfo(ctrl v4l2.Control) (types.ControlInfo, error) {
	info := types.ControlInfo{
		ID:      ctrl.ID,
		Value:   ctrl.Value,
		Name:    ctrl.Name,
		IsMenu:  ctrl.IsMenu(),
		Minimum: int32(ctrl.Minimum),
		Maximum: int32(ctrl.Maximum),
		Step:    int32(ctrl.Step),
		Default: int32(ctrl.Default),
	}
	if !info.IsMenu {
		return info, nil
	}

	menus, err := ctrl.GetMenuItems()
	if err != nil {
		return info, fmt.Errorf("menu items of ctrl(%s): %w", ctrl.Name, err)
	}
	for _, m := range menus {
		info.MenuItems = append(info.MenuItems, fmt.Sprintf("%d: %s", m.Index, m.Name))
	}

	return info, nil
}
