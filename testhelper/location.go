package testhelper

import (
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
)

// GetCaller returns " (file:line)" of the caller. Appending it to a table
// case name points a failing subtest at its table entry.
func GetCaller(t *testing.T) string {
	t.Helper()

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}

	return fmt.Sprintf(" (%s:%d)", filepath.Base(file), line)
}
