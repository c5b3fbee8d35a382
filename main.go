//go:build linux

package main

import (
	"errors"
	"flag"
	"os"

	"go.uber.org/zap"

	"motion-sentinel/pkg/alert"
	"motion-sentinel/pkg/alert/notify"
	"motion-sentinel/pkg/camera"
	"motion-sentinel/pkg/clock"
	"motion-sentinel/pkg/config"
	"motion-sentinel/pkg/utils"
)

var (
	configPath = flag.String("config", "", "path to the YAML config file")
	devName    = flag.String("d", "", "device name (path), overrides the config file")
	logLevel   = flag.String("log-level", "", "debug, info, warn or error, overrides the config file")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	logger := utils.GetLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(err)
		return 1
	}
	if *devName != "" {
		cfg.Device = *devName
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		logger.Errorf("invalid log level %q: %v", cfg.LogLevel, err)
		return 1
	}
	logger = utils.GetLogger()
	defer logger.Sync()

	dev, err := camera.OpenV4L2(cfg.Device)
	if errors.Is(err, camera.ErrCapabilityUnsupported) {
		logger.Errorf("%s cannot stream video capture: %v", cfg.Device, err)
		return 1
	}
	if err != nil {
		logger.Errorf("failed to open device: %v", err)
		return 1
	}
	defer dev.Close()
	logger.Infof("opened %s", dev.Name())

	gate := alert.NewGate(buildNotifier(cfg, logger), alert.WithLogger(logger))

	cancel := utils.NewCancelFlag()
	stop := utils.WatchSignal(cancel)
	defer stop()

	session := camera.NewSession(dev, gate, cancel,
		camera.WithLogger(logger),
		camera.WithControls(cfg.CameraSettings()),
	)
	if err := session.Run(); err != nil {
		logger.Errorf("capture failed: %v", err)
		return 1
	}
	logger.Infof("stopped after %d alerts", gate.Alerts())

	return 0
}

func buildNotifier(cfg config.Config, logger *zap.SugaredLogger) alert.Notifier {
	var clk clock.Clock = clock.System{}
	if cfg.NTP.Server != "" {
		c := clock.NewOffset(cfg.NTP.Server, cfg.NTP.Timeout)
		if offset, err := c.Sync(); err != nil {
			logger.Warnf("failed to sync clock, using the system time: %v", err)
		} else {
			logger.Infof("clock offset to %s is %s", cfg.NTP.Server, offset)
		}
		clk = c
	}
	composer := notify.NewComposer(clk, cfg.Alert.HostInfo)
	opts := []notify.Option{
		notify.WithLogger(logger),
		notify.WithRetry(cfg.Alert.Attempts, notify.DefaultInterval),
	}

	var notifiers notify.Multi
	if cfg.Mail.Enabled() {
		notifiers = append(notifiers, notify.NewMail(cfg.Mail, composer, opts...))
	}
	if cfg.Webhook.Enabled() {
		notifiers = append(notifiers, notify.NewWebhook(cfg.Webhook, composer, opts...))
	}
	if len(notifiers) == 0 {
		logger.Warn("no alert transport configured, alerts are only logged")
		return notify.Log{Composer: composer, Logger: logger}
	}

	return notifiers
}
