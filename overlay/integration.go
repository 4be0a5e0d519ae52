package overlay

// Error is a transient integration failure. These are tolerated by the
// polling loop, never fatal.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrTargetUnavailable = Error("target window unavailable")
	ErrStatusUnreadable  = Error("status text unreadable")
)

// WindowHandle identifies a window of the foreign editor. Zero is never a
// valid handle.
type WindowHandle uintptr

type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (r Rect) Width() int {
	return r.Right - r.Left
}

func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// TargetIntegration is the platform specific capability the monitor polls:
// locate the editor window, read its parameter status text and report its
// screen bounds. Implementations may fail transiently at any call.
type TargetIntegration interface {
	FindTargetWindow() (WindowHandle, error)
	ReadStatusText(WindowHandle) (string, error)
	WindowBounds(WindowHandle) (Rect, error)
}
