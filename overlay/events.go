package overlay

import (
	"github.com/adambalon/vcm-overlay/config"
)

// Events published to the application event bus by the monitor and display.

type AttachedEvent struct {
	Bounds Rect
}

type DetachedEvent struct{}

type SearchingEvent struct{}

type ParameterMatchedEvent struct {
	DeviceType string
	Record     config.ParameterRecord
}

type ParameterMissedEvent struct {
	DeviceType string
	ParamId    string
	Name       string
}

type DisplayUpdatedEvent struct {
	Current CurrentDisplay
}
