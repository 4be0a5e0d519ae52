package overlay

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/adambalon/vcm-overlay/config"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() logwrap.Logger {
	return logwrap.New(golog.Wrap(log.New(io.Discard, "", log.LstdFlags)))
}

type capturePublisher struct {
	events []any
}

func (c *capturePublisher) Publish(e any) {
	c.events = append(c.events, e)
}

func TestMonitor_Searching(t *testing.T) {
	t.Run("stays searching while the target window cannot be found", func(t *testing.T) {
		mi := MockIntegration{}
		defer mi.AssertExpectations(t)
		mi.On("FindTargetWindow").Return(WindowHandle(0), ErrTargetUnavailable)

		m := NewMonitor(&mi, &MockLookup{}, &MockDisplay{}, &capturePublisher{}, testLogger(), 2)

		m.Tick(context.Background())
		m.Tick(context.Background())

		assert.Equal(t, StateSearching, m.State())
	})

	t.Run("attaches when the target window is found", func(t *testing.T) {
		bounds := Rect{Left: 10, Top: 20, Right: 410, Bottom: 320}

		mi := MockIntegration{}
		defer mi.AssertExpectations(t)
		mi.On("FindTargetWindow").Return(WindowHandle(42), nil)
		mi.On("WindowBounds", WindowHandle(42)).Return(bounds, nil)

		md := MockDisplay{}
		defer md.AssertExpectations(t)
		md.On("Reposition", bounds)

		pub := capturePublisher{}
		m := NewMonitor(&mi, &MockLookup{}, &md, &pub, testLogger(), 2)

		m.Tick(context.Background())

		assert.Equal(t, StateAttached, m.State())
		assert.Contains(t, pub.events, AttachedEvent{Bounds: bounds})
	})

	t.Run("keeps searching when the window vanishes before the bounds read", func(t *testing.T) {
		mi := MockIntegration{}
		defer mi.AssertExpectations(t)
		mi.On("FindTargetWindow").Return(WindowHandle(42), nil)
		mi.On("WindowBounds", WindowHandle(42)).Return(Rect{}, ErrTargetUnavailable)

		m := NewMonitor(&mi, &MockLookup{}, &MockDisplay{}, &capturePublisher{}, testLogger(), 2)

		m.Tick(context.Background())

		assert.Equal(t, StateSearching, m.State())
	})
}

func attachedMonitor(t *testing.T, mi *MockIntegration, ml *MockLookup, md *MockDisplay, pub *capturePublisher, cooldown int) *Monitor {
	t.Helper()

	bounds := Rect{Left: 10, Top: 20, Right: 410, Bottom: 320}
	mi.On("FindTargetWindow").Return(WindowHandle(42), nil).Once()
	mi.On("WindowBounds", WindowHandle(42)).Return(bounds, nil).Once()
	md.On("Reposition", bounds).Once()

	m := NewMonitor(mi, ml, md, pub, testLogger(), cooldown)
	m.Tick(context.Background())
	assert.Equal(t, StateAttached, m.State())

	return m
}

func TestMonitor_Attached(t *testing.T) {
	bounds := Rect{Left: 10, Top: 20, Right: 410, Bottom: 320}

	t.Run("a changed parameter id resolves and shows the record", func(t *testing.T) {
		mi := MockIntegration{}
		ml := MockLookup{}
		md := MockDisplay{}
		pub := capturePublisher{}
		m := attachedMonitor(t, &mi, &ml, &md, &pub, 2)

		record := config.ParameterRecord{Id: "12345", Name: "Spark Advance"}

		mi.On("WindowBounds", WindowHandle(42)).Return(bounds, nil)
		mi.On("ReadStatusText", WindowHandle(42)).Return("[E38] Parameter #12345 - Spark Advance", nil)
		ml.On("Lookup", "E38", "12345").Return(record, true).Once()
		md.On("ShowRecord", "E38", record).Once()

		m.Tick(context.Background())

		assert.Contains(t, pub.events, ParameterMatchedEvent{DeviceType: "E38", Record: record})

		// Unchanged status text must not trigger another lookup.
		m.Tick(context.Background())

		mi.AssertExpectations(t)
		ml.AssertExpectations(t)
		md.AssertExpectations(t)
	})

	t.Run("a lookup miss shows the placeholder instead of hiding", func(t *testing.T) {
		mi := MockIntegration{}
		ml := MockLookup{}
		md := MockDisplay{}
		pub := capturePublisher{}
		m := attachedMonitor(t, &mi, &ml, &md, &pub, 2)

		mi.On("WindowBounds", WindowHandle(42)).Return(bounds, nil)
		mi.On("ReadStatusText", WindowHandle(42)).Return("[E38] Parameter #99999", nil)
		ml.On("Lookup", "E38", "99999").Return(config.ParameterRecord{}, false).Once()
		md.On("ShowPlaceholder", StatusInfo{DeviceType: "E38", ParamId: "99999", Name: "Parameter 99999"}).Once()

		m.Tick(context.Background())

		assert.Contains(t, pub.events, ParameterMissedEvent{DeviceType: "E38", ParamId: "99999", Name: "Parameter 99999"})

		mi.AssertExpectations(t)
		ml.AssertExpectations(t)
		md.AssertExpectations(t)
	})

	t.Run("an unreadable status is no change for the tick", func(t *testing.T) {
		mi := MockIntegration{}
		ml := MockLookup{}
		md := MockDisplay{}
		m := attachedMonitor(t, &mi, &ml, &md, &capturePublisher{}, 2)

		mi.On("WindowBounds", WindowHandle(42)).Return(bounds, nil)
		mi.On("ReadStatusText", WindowHandle(42)).Return("", ErrStatusUnreadable)

		m.Tick(context.Background())

		assert.Equal(t, StateAttached, m.State())
		ml.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	})

	t.Run("non parameter status text is ignored", func(t *testing.T) {
		mi := MockIntegration{}
		ml := MockLookup{}
		md := MockDisplay{}
		m := attachedMonitor(t, &mi, &ml, &md, &capturePublisher{}, 2)

		mi.On("WindowBounds", WindowHandle(42)).Return(bounds, nil)
		mi.On("ReadStatusText", WindowHandle(42)).Return("Ready", nil)

		m.Tick(context.Background())

		assert.Equal(t, StateAttached, m.State())
		ml.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	})

	t.Run("moved target window repositions the display", func(t *testing.T) {
		mi := MockIntegration{}
		ml := MockLookup{}
		md := MockDisplay{}
		m := attachedMonitor(t, &mi, &ml, &md, &capturePublisher{}, 2)

		moved := Rect{Left: 110, Top: 120, Right: 510, Bottom: 420}
		mi.On("WindowBounds", WindowHandle(42)).Return(moved, nil)
		mi.On("ReadStatusText", WindowHandle(42)).Return("", ErrStatusUnreadable)
		md.On("Reposition", moved).Once()

		m.Tick(context.Background())

		md.AssertExpectations(t)
	})

	t.Run("losing the window detaches", func(t *testing.T) {
		mi := MockIntegration{}
		ml := MockLookup{}
		md := MockDisplay{}
		pub := capturePublisher{}
		m := attachedMonitor(t, &mi, &ml, &md, &pub, 2)

		mi.On("WindowBounds", WindowHandle(42)).Return(Rect{}, ErrTargetUnavailable)
		md.On("ShowSearching").Once()

		m.Tick(context.Background())

		assert.Equal(t, StateDetached, m.State())
		assert.Contains(t, pub.events, DetachedEvent{})
	})
}

func TestMonitor_Detached(t *testing.T) {
	t.Run("returns to searching only after the cooldown", func(t *testing.T) {
		mi := MockIntegration{}
		ml := MockLookup{}
		md := MockDisplay{}
		pub := capturePublisher{}
		m := attachedMonitor(t, &mi, &ml, &md, &pub, 2)

		mi.On("WindowBounds", WindowHandle(42)).Return(Rect{}, ErrTargetUnavailable).Once()
		md.On("ShowSearching").Once()

		m.Tick(context.Background())
		assert.Equal(t, StateDetached, m.State())

		m.Tick(context.Background())
		assert.Equal(t, StateDetached, m.State())

		m.Tick(context.Background())
		assert.Equal(t, StateDetached, m.State())

		m.Tick(context.Background())
		assert.Equal(t, StateSearching, m.State())
		assert.Contains(t, pub.events, SearchingEvent{})
	})

	t.Run("never transitions directly from detached to attached", func(t *testing.T) {
		mi := MockIntegration{}
		ml := MockLookup{}
		md := MockDisplay{}
		m := attachedMonitor(t, &mi, &ml, &md, &capturePublisher{}, 1)

		mi.On("WindowBounds", WindowHandle(42)).Return(Rect{}, ErrTargetUnavailable).Once()
		md.On("ShowSearching").Once()

		m.Tick(context.Background())
		assert.Equal(t, StateDetached, m.State())

		// Even with the window immediately available again, the machine
		// passes through searching.
		m.Tick(context.Background())
		assert.Equal(t, StateDetached, m.State())

		m.Tick(context.Background())
		assert.Equal(t, StateSearching, m.State())
	})
}
