//go:build linux

package main

import (
	"flag"
	"log"
	"os"

	"github.com/goccy/go-json"

	"motion-sentinel/pkg/camera"
	"motion-sentinel/pkg/types"
	"motion-sentinel/pkg/utils"
)

type report struct {
	Device       string              `json:"device"`
	Capabilities camera.Capabilities `json:"capabilities"`
	Format       camera.Format       `json:"format"`
	FourCC       string              `json:"fourcc"`
	Controls     []types.ControlInfo `json:"controls"`
}

func main() {
	devName := camera.DefaultDevice
	flag.StringVar(&devName, "d", devName, "device name (path)")
	flag.Parse()

	logger := utils.GetLogger()
	defer logger.Sync()

	dev, err := camera.OpenV4L2(devName)
	if err != nil {
		log.Fatalf("failed to open device: %s", err)
	}
	defer dev.Close()

	caps, err := camera.CheckCapabilities(dev, logger)
	if err != nil {
		log.Fatal(err)
	}
	format, err := camera.NegotiateFormat(dev, logger)
	if err != nil {
		log.Fatal(err)
	}
	ctrls, err := dev.Controls()
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "    ")
	if err := enc.Encode(report{
		Device:       devName,
		Capabilities: caps,
		Format:       format,
		FourCC:       utils.FourCC(format.PixelFormat),
		Controls:     ctrls,
	}); err != nil {
		log.Fatal(err)
	}
}
