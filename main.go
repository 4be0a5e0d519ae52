package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/adambalon/vcm-overlay/state"
	lw "github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"
)

func main() {
	ctx := context.Background()
	l := lw.New(golog.Wrap(log.New(os.Stderr, "", log.LstdFlags)))

	l.LogInfo(ctx, "VCM Overlay - Starting...")

	directories := enumerateDirectories(ctx, l)

	l.LogInfo(ctx, "Directory enumeration complete.", lw.Datum("directories", directories))

	l, err := configureLogging(filepath.Join(directories.Config, "logging"), directories.Log, l)
	if err != nil {
		l.LogFatal(ctx, "Failed to configure logging.", lw.Err(err))
	}

	interfaceCfgs, err := loadInterfaceConfigurations(filepath.Join(directories.Config, "interfaces"))
	if err != nil {
		l.LogFatal(ctx, "Failed to load interface configurations.", lw.Err(err))
	}

	l.LogInfo(ctx, "Loading parameter descriptions.")
	repository, err := loadDescriptionRepository(ctx, directories.Config, l)
	if err != nil {
		l.LogFatal(ctx, "Failed to load parameter descriptions.", lw.Err(err))
	}

	l.LogInfo(ctx, "Initialising submission store.")
	store := state.NewSubmissionStore()

	shutdownSubmissionStore, err := initialiseSubmissionStore(l, directories.Data, store)
	if err != nil {
		l.LogFatal(ctx, "Failed to initialise submission store.", lw.Err(err))
	}

	eventbus := state.NewEventBus()
	display := overlayDisplay(eventbus)

	l.LogInfo(ctx, "Starting interfaces.", lw.Datum("configCount", len(interfaceCfgs)))
	startedInterfaces, err := startInterfaces(interfaceCfgs, interfaceServices{
		repository: repository,
		store:      store,
		display:    display,
		reloader:   repository.Reload,
		eventbus:   eventbus,
	}, l)
	if err != nil {
		l.LogFatal(ctx, "Failed to start interfaces.", lw.Err(err))
	}

	l.LogInfo(ctx, "Starting overlay monitor.")
	shutdownMonitor, err := startOverlayMonitor(ctx, directories.Config, repository, display, eventbus, l)
	if err != nil {
		l.LogFatal(ctx, "Failed to start overlay monitor.", lw.Err(err))
	}

	l.LogInfo(ctx, "Overlay ready.")

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, os.Kill)

	s := <-signalCh
	l.LogInfo(ctx, "Signal received, shutting down.", lw.Datum("signal", s.String()))

	l.LogInfo(ctx, "Shutting down overlay monitor.")
	shutdownMonitor()
	display.Close()

	for _, intf := range startedInterfaces {
		l.LogInfo(ctx, "Shutting down interface.", lw.Datum("interface", intf.Name))

		if err := intf.Shutdown(); err != nil {
			l.LogError(ctx, "Failed to shutdown interface.", lw.Err(err), lw.Datum("interface", intf.Name))
		}
	}

	l.LogInfo(ctx, "Shutting down submission store.")
	shutdownSubmissionStore()

	l.LogInfo(ctx, "Shut down complete.")
}

func initialiseSubmissionStore(l lw.Logger, dir string, s *state.SubmissionStore) (func(), error) {
	submissionFile := filepath.Join(dir, "submissions.json")

	if err := state.LoadSubmissions(submissionFile, s); err != nil {
		return func() {}, fmt.Errorf("failed to load submissions: %w", err)
	}

	if err := state.SaveSubmissions(submissionFile, s); err != nil {
		return func() {}, fmt.Errorf("failed initial save of submissions: %w", err)
	}

	shutCh := make(chan struct{}, 1)

	go func() {
		t := time.NewTicker(1 * time.Minute)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				if err := state.SaveSubmissions(submissionFile, s); err != nil {
					l.LogError(context.Background(), "Failed to periodically save submissions.", lw.Err(err))
				}
			case <-shutCh:
				if err := state.SaveSubmissions(submissionFile, s); err != nil {
					l.LogError(context.Background(), "Failed final save of submissions.", lw.Err(err))
				}
				return
			}
		}
	}()

	return func() {
		shutCh <- struct{}{}
	}, nil
}
