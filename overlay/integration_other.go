//go:build !windows

package overlay

import (
	"github.com/adambalon/vcm-overlay/config"
)

// The editor only runs on Windows; elsewhere the monitor simply never
// attaches, leaving the review page and APIs fully functional.
type unsupportedIntegration struct{}

func NewPlatformIntegration(_ config.OverlayConfig) TargetIntegration {
	return unsupportedIntegration{}
}

func (unsupportedIntegration) FindTargetWindow() (WindowHandle, error) {
	return 0, ErrTargetUnavailable
}

func (unsupportedIntegration) ReadStatusText(WindowHandle) (string, error) {
	return "", ErrTargetUnavailable
}

func (unsupportedIntegration) WindowBounds(WindowHandle) (Rect, error) {
	return Rect{}, ErrTargetUnavailable
}
