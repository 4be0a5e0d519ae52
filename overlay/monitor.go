package overlay

import (
	"context"
	"time"

	"github.com/adambalon/vcm-overlay/config"
	"github.com/adambalon/vcm-overlay/state"
	"github.com/shimmeringbee/logwrap"
)

type MonitorState string

const (
	StateSearching MonitorState = "searching"
	StateAttached  MonitorState = "attached"
	StateDetached  MonitorState = "detached"
)

// ParameterLookup is the slice of the description repository the monitor
// needs.
type ParameterLookup interface {
	Lookup(typeId string, parameterId string) (config.ParameterRecord, bool)
}

// Monitor drives the overlay from the target editor: while searching it
// looks for the editor window, while attached it polls the status text and
// resolves parameter identifiers against the repository. All transient
// integration failures degrade, none are fatal.
type Monitor struct {
	Integration    TargetIntegration
	Repository     ParameterLookup
	Display        Display
	Publisher      state.EventPublisher
	Logger         logwrap.Logger
	DetachCooldown int

	state      MonitorState
	handle     WindowHandle
	bounds     Rect
	lastStatus string
	cooldown   int
}

func NewMonitor(integration TargetIntegration, repository ParameterLookup, display Display, publisher state.EventPublisher, logger logwrap.Logger, detachCooldown int) *Monitor {
	return &Monitor{
		Integration:    integration,
		Repository:     repository,
		Display:        display,
		Publisher:      publisher,
		Logger:         logger,
		DetachCooldown: detachCooldown,
		state:          StateSearching,
	}
}

func (m *Monitor) State() MonitorState {
	return m.state
}

// Tick advances the state machine by one poll. Transitions only ever follow
// searching -> attached -> detached -> searching.
func (m *Monitor) Tick(ctx context.Context) {
	switch m.state {
	case StateSearching:
		m.tickSearching(ctx)
	case StateAttached:
		m.tickAttached(ctx)
	case StateDetached:
		m.tickDetached(ctx)
	}
}

func (m *Monitor) tickSearching(ctx context.Context) {
	handle, err := m.Integration.FindTargetWindow()
	if err != nil {
		return
	}

	bounds, err := m.Integration.WindowBounds(handle)
	if err != nil {
		// Window disappeared between enumeration and the bounds read;
		// keep searching.
		return
	}

	m.state = StateAttached
	m.handle = handle
	m.bounds = bounds
	m.lastStatus = ""

	m.Display.Reposition(bounds)
	m.Publisher.Publish(AttachedEvent{Bounds: bounds})
	m.Logger.LogInfo(ctx, "Attached to target window.", logwrap.Datum("handle", uint64(handle)))
}

func (m *Monitor) tickAttached(ctx context.Context) {
	bounds, err := m.Integration.WindowBounds(m.handle)
	if err != nil {
		m.state = StateDetached
		m.handle = 0
		m.cooldown = m.DetachCooldown

		m.Display.ShowSearching()
		m.Publisher.Publish(DetachedEvent{})
		m.Logger.LogInfo(ctx, "Target window lost, detached.")
		return
	}

	if bounds != m.bounds {
		m.bounds = bounds
		m.Display.Reposition(bounds)
	}

	text, err := m.Integration.ReadStatusText(m.handle)
	if err != nil {
		// Unreadable status is "no change" for this tick.
		return
	}

	if text == m.lastStatus {
		return
	}
	m.lastStatus = text

	info, ok := ParseStatus(text)
	if !ok {
		return
	}

	if record, found := m.Repository.Lookup(info.DeviceType, info.ParamId); found {
		m.Display.ShowRecord(info.DeviceType, record)
		m.Publisher.Publish(ParameterMatchedEvent{DeviceType: info.DeviceType, Record: record})
	} else {
		m.Display.ShowPlaceholder(info)
		m.Publisher.Publish(ParameterMissedEvent{DeviceType: info.DeviceType, ParamId: info.ParamId, Name: info.Name})
		m.Logger.LogDebug(ctx, "No description for parameter.", logwrap.Datum("deviceType", info.DeviceType), logwrap.Datum("paramId", info.ParamId))
	}
}

func (m *Monitor) tickDetached(ctx context.Context) {
	if m.cooldown > 0 {
		m.cooldown--
		return
	}

	m.state = StateSearching
	m.Publisher.Publish(SearchingEvent{})
	m.Logger.LogDebug(ctx, "Cooldown complete, searching for target window.")
}

// Start runs the polling loop at the given interval until the returned
// shutdown function is called.
func (m *Monitor) Start(interval time.Duration) func() {
	shutCh := make(chan struct{}, 1)

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				m.Tick(context.Background())
			case <-shutCh:
				return
			}
		}
	}()

	return func() {
		shutCh <- struct{}{}
	}
}
