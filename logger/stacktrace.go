package logger

import (
	"fmt"
	"runtime"
	"strings"
)

// CaptureStacktrace formats up to depth frames (32 when depth <= 0), skipping the
// first skip frames.
func CaptureStacktrace(skip int, depth int) string {
	if depth <= 0 {
		depth = 32
	}
	pcs := make([]uintptr, depth*2)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	lines := make([]string, 0, depth)
	for {
		frame, more := frames.Next()
		lines = append(lines, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		if len(lines) >= depth || !more {
			break
		}
	}
	return strings.Join(lines, "\n")
}
