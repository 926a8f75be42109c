//go:build windows

package wintitle

import (
	"errors"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWnd = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW   = user32.NewProc("GetWindowTextW")
)

// Capture returns the title of the current foreground window.
func Capture() (string, error) {
	hwnd, _, _ := procGetForegroundWnd.Call()
	if hwnd == 0 {
		return "", errors.New("no foreground window")
	}

	buf := make([]uint16, 512)
	n, _, err := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		if errno, ok := err.(syscall.Errno); ok && errno != 0 {
			return "", errno
		}
		return "", errors.New("foreground window has an empty title")
	}
	return windows.UTF16ToString(buf[:n]), nil
}
