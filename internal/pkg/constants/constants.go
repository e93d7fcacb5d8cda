// Package constants provides shared constants used across wordmask components.
package constants

import "time"

// Shutdown and graceful termination timeouts
const (
	// GracefulShutdownTimeout is the time to wait for graceful component shutdown
	GracefulShutdownTimeout = 2 * time.Second

	// WatchDebounce is the default quiet period before a changed word file
	// is reloaded
	WatchDebounce = 100 * time.Millisecond
)

// Channel buffer sizes
//
// Single-item buffers are used for signals that should never block the
// sender. Line channels are medium-sized so a slow writer does not stall the
// reader on every line.
const (
	// SignalChannelBuffer is the buffer size for OS signal channels
	SignalChannelBuffer = 1

	// LineChannelBuffer is the buffer size between the stdin reader and the
	// redacting writer of wm watch
	LineChannelBuffer = 100
)

// Input limits
const (
	// MaxLineLength is the longest input line the line scanners accept (1MB)
	MaxLineLength = 1024 * 1024
)
