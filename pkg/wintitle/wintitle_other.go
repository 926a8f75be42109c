//go:build !windows

package wintitle

// Capture is a stub on non-Windows platforms.
func Capture() (string, error) {
	return "", ErrUnsupported
}
