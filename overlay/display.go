package overlay

import (
	"sync"

	"github.com/adambalon/vcm-overlay/config"
	"github.com/adambalon/vcm-overlay/state"
)

// Display is the translucent companion panel. It carries no state beyond the
// record currently shown and the last known target bounds.
type Display interface {
	ShowSearching()
	ShowRecord(deviceType string, record config.ParameterRecord)
	ShowPlaceholder(info StatusInfo)
	Reposition(bounds Rect)
	Close()
}

type DisplayMode string

const (
	ModeSearching   DisplayMode = "searching"
	ModeRecord      DisplayMode = "record"
	ModePlaceholder DisplayMode = "no_description"
)

// CurrentDisplay is a snapshot of what the panel is showing.
type CurrentDisplay struct {
	Mode       DisplayMode             `json:"mode"`
	DeviceType string                  `json:"device_type,omitempty"`
	ParamId    string                  `json:"param_id,omitempty"`
	Name       string                  `json:"name,omitempty"`
	Record     *config.ParameterRecord `json:"record,omitempty"`
	Bounds     Rect                    `json:"bounds"`
}

var _ Display = (*DisplayState)(nil)

// DisplayState implements Display by holding the current snapshot and
// publishing every change to the event bus, where the rendering surfaces
// (websocket page, MQTT) pick it up.
type DisplayState struct {
	lock      sync.Mutex
	publisher state.EventPublisher
	current   CurrentDisplay
	closed    bool
}

func NewDisplayState(publisher state.EventPublisher) *DisplayState {
	return &DisplayState{
		publisher: publisher,
		current:   CurrentDisplay{Mode: ModeSearching},
	}
}

func (d *DisplayState) ShowSearching() {
	d.update(func(c *CurrentDisplay) {
		c.Mode = ModeSearching
		c.DeviceType = ""
		c.ParamId = ""
		c.Name = ""
		c.Record = nil
	})
}

func (d *DisplayState) ShowRecord(deviceType string, record config.ParameterRecord) {
	d.update(func(c *CurrentDisplay) {
		c.Mode = ModeRecord
		c.DeviceType = deviceType
		c.ParamId = record.Id
		c.Name = record.Name
		copied := record
		c.Record = &copied
	})
}

func (d *DisplayState) ShowPlaceholder(info StatusInfo) {
	d.update(func(c *CurrentDisplay) {
		c.Mode = ModePlaceholder
		c.DeviceType = info.DeviceType
		c.ParamId = info.ParamId
		c.Name = info.Name
		c.Record = nil
	})
}

func (d *DisplayState) Reposition(bounds Rect) {
	d.update(func(c *CurrentDisplay) {
		c.Bounds = bounds
	})
}

func (d *DisplayState) Close() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.closed = true
}

func (d *DisplayState) Snapshot() CurrentDisplay {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.current
}

func (d *DisplayState) update(fn func(*CurrentDisplay)) {
	d.lock.Lock()

	if d.closed {
		d.lock.Unlock()
		return
	}

	fn(&d.current)
	snapshot := d.current
	d.lock.Unlock()

	d.publisher.Publish(DisplayUpdatedEvent{Current: snapshot})
}
