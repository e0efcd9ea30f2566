// Package testutil provides testing helpers shared across this module's
// package tests.
// Adapted from the teacher's driver/log/testutil package, itself adapted
// from https://github.com/google/mtail/tree/main/internal.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestTempDir creates a temporary directory for use during tests, returning
// the pathname. It is removed when the test completes.
func TestTempDir(tb testing.TB) string {
	tb.Helper()
	name, err := os.MkdirTemp("", "logmonitor-test")
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := os.RemoveAll(name); err != nil {
			tb.Fatalf("os.RemoveAll(%s): %s", name, err)
		}
	})
	return name
}

// TestOpenFile opens the file called name for append, creating it if it
// does not exist, as if it were a log being written to by some other process.
func TestOpenFile(tb testing.TB, name string) *os.File {
	tb.Helper()
	f, err := os.OpenFile(filepath.Clean(name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		tb.Fatal(err)
	}
	return f
}

// OpenLogFile creates or truncates a file at name, for tests that need to
// start a log from empty.
func OpenLogFile(tb testing.TB, name string) *os.File {
	tb.Helper()
	f, err := os.OpenFile(filepath.Clean(name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		tb.Fatal(err)
	}
	return f
}

// Chdir changes the current working directory to dir and registers a
// cleanup function to restore the previous one.
func Chdir(tb testing.TB, dir string) {
	tb.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		tb.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := os.Chdir(cwd); err != nil {
			tb.Fatal(err)
		}
	})
}
