package main

import (
	"context"
	"fmt"

	"github.com/adambalon/vcm-overlay/state"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/nest"
)

// loadDescriptionRepository loads the device-type catalog and its parameter
// description documents from the configuration directory. A broken catalog is
// an error; a broken document only logs, the repository skips that entry.
func loadDescriptionRepository(ctx context.Context, cfgDir string, l logwrap.Logger) (*state.DescriptionRepository, error) {
	wl := logwrap.New(nest.Wrap(l))
	wl.AddOptionsToLogger(logwrap.Source("repository"))

	repository := state.NewDescriptionRepository(cfgDir, wl)

	if err := repository.Load(); err != nil {
		return nil, fmt.Errorf("failed to load parameter descriptions: %w", err)
	}

	wl.LogInfo(ctx, "Parameter descriptions loaded.", logwrap.Datum("deviceTypes", len(repository.DeviceTypes())))

	return repository, nil
}
