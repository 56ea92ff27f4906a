package hxo

import "errors"

// Common errors used throughout the hxo packages
var (
	// ErrUnknownTarget indicates an output target name that is not supported.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrNoInputFiles is returned when a build or check finds no component files.
	ErrNoInputFiles = errors.New("no .hxo files found")
	// ErrCompileFailed indicates at least one component failed to compile.
	ErrCompileFailed = errors.New("compilation failed")
)
