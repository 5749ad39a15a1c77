package main

import (
	"fmt"
	"os"
	"runtime"
)

// debugEnabled and locEnabled are set once from -v/-l before any command
// runs. There is no concurrent access: both are written by the root app's
// Before hook and only read afterwards.
var (
	debugEnabled bool
	locEnabled   bool
)

// debugf prints a debug line to stderr when -v was given, the way the
// teacher's internal/debug.Printf gates its own output on a package-level
// toggle rather than a logging library. With -l, each line is prefixed
// with the Go source location of the debugf call, not a DSL location:
// this is the CLI's own logging, not merrors diagnostics.
func debugf(format string, args ...any) {
	if !debugEnabled {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if locEnabled {
		if _, file, line, ok := runtime.Caller(1); ok {
			fmt.Fprintf(os.Stderr, "[DEBUG %s:%d] %s\n", file, line, msg)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
}
