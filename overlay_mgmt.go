package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adambalon/vcm-overlay/config"
	"github.com/adambalon/vcm-overlay/overlay"
	"github.com/adambalon/vcm-overlay/state"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/nest"
)

func overlayDisplay(publisher state.EventPublisher) *overlay.DisplayState {
	return overlay.NewDisplayState(publisher)
}

func startOverlayMonitor(ctx context.Context, cfgDir string, repository *state.DescriptionRepository, display *overlay.DisplayState, publisher state.EventPublisher, l logwrap.Logger) (func(), error) {
	cfg, err := config.LoadOverlayConfig(filepath.Join(cfgDir, config.OverlayFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to load overlay configuration: %w", err)
	}

	wl := logwrap.New(nest.Wrap(l))
	wl.AddOptionsToLogger(logwrap.Source("overlay"))

	wl.LogInfo(ctx, "Overlay monitor configured.",
		logwrap.Datum("windowTitle", cfg.WindowTitle),
		logwrap.Datum("pollIntervalMs", cfg.PollIntervalMs))

	integration := overlay.NewPlatformIntegration(cfg)
	monitor := overlay.NewMonitor(integration, repository, display, publisher, wl, cfg.DetachCooldownTicks)

	return monitor.Start(time.Duration(cfg.PollIntervalMs) * time.Millisecond), nil
}
