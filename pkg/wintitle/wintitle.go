// Package wintitle reads the title of the foreground window. Only Windows
// has a real implementation; other platforms return ErrUnsupported so the
// caller can degrade or take a title from elsewhere.
package wintitle

import "errors"

var ErrUnsupported = errors.New("foreground window title capture is not supported on this platform")
