//go:build windows

package overlay

import (
	"strings"
	"syscall"
	"unsafe"

	"github.com/adambalon/vcm-overlay/config"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows          = user32.NewProc("EnumWindows")
	procEnumChildWindows     = user32.NewProc("EnumChildWindows")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetClassNameW        = user32.NewProc("GetClassNameW")
	procGetWindowRect        = user32.NewProc("GetWindowRect")
	procIsWindow             = user32.NewProc("IsWindow")
	procSendMessageW         = user32.NewProc("SendMessageW")
)

const (
	wmGetText       = 0x000D
	wmGetTextLength = 0x000E
)

// WindowsIntegration locates the editor window by title substring and reads
// parameter status text from its child controls over the user32 API.
type WindowsIntegration struct {
	TitleMatch   string
	ControlClass string
}

func NewPlatformIntegration(cfg config.OverlayConfig) TargetIntegration {
	return &WindowsIntegration{
		TitleMatch:   cfg.WindowTitle,
		ControlClass: cfg.StatusControlClass,
	}
}

type windowSearch struct {
	title string
	found uintptr
}

// Callbacks are created once: syscall.NewCallback allocations are permanent,
// and FindTargetWindow runs on every searching tick.
var enumWindowsCallback = syscall.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
	search := (*windowSearch)(unsafe.Pointer(lparam))

	if strings.Contains(windowText(hwnd), search.title) {
		search.found = hwnd
		return 0
	}

	return 1
})

type statusSearch struct {
	class string
	text  string
}

var enumChildrenCallback = syscall.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
	search := (*statusSearch)(unsafe.Pointer(lparam))

	if className(hwnd) != search.class {
		return 1
	}

	if text := controlText(hwnd); strings.HasPrefix(text, "[") {
		search.text = text
		return 0
	}

	return 1
})

func (w *WindowsIntegration) FindTargetWindow() (WindowHandle, error) {
	search := windowSearch{title: w.TitleMatch}

	procEnumWindows.Call(enumWindowsCallback, uintptr(unsafe.Pointer(&search)))

	if search.found == 0 {
		return 0, ErrTargetUnavailable
	}

	return WindowHandle(search.found), nil
}

func (w *WindowsIntegration) ReadStatusText(handle WindowHandle) (string, error) {
	if valid, _, _ := procIsWindow.Call(uintptr(handle)); valid == 0 {
		return "", ErrTargetUnavailable
	}

	search := statusSearch{class: w.ControlClass}

	procEnumChildWindows.Call(uintptr(handle), enumChildrenCallback, uintptr(unsafe.Pointer(&search)))

	if search.text == "" {
		return "", ErrStatusUnreadable
	}

	return search.text, nil
}

func (w *WindowsIntegration) WindowBounds(handle WindowHandle) (Rect, error) {
	var r struct {
		left, top, right, bottom int32
	}

	ok, _, _ := procGetWindowRect.Call(uintptr(handle), uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return Rect{}, ErrTargetUnavailable
	}

	return Rect{Left: int(r.left), Top: int(r.top), Right: int(r.right), Bottom: int(r.bottom)}, nil
}

func windowText(hwnd uintptr) string {
	length, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if length == 0 {
		return ""
	}

	buf := make([]uint16, length+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))

	return windows.UTF16ToString(buf)
}

func className(hwnd uintptr) string {
	buf := make([]uint16, 256)
	procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))

	return windows.UTF16ToString(buf)
}

func controlText(hwnd uintptr) string {
	length, _, _ := procSendMessageW.Call(hwnd, wmGetTextLength, 0, 0)
	if length == 0 {
		return ""
	}

	buf := make([]uint16, length+1)
	procSendMessageW.Call(hwnd, wmGetText, uintptr(len(buf)), uintptr(unsafe.Pointer(&buf[0])))

	return windows.UTF16ToString(buf)
}
