package testutil

import (
	"io"
	"os"
	"testing"

	"github.com/nrpe-tools/logmonitor/internal/logging"
)

// WriteString writes str to f, syncing it to disk when f is a regular file
// so the write happens-before this call returns — tests that simulate log
// appends rely on that ordering against a subsequent probe run.
func WriteString(tb testing.TB, f io.StringWriter, str string) int {
	tb.Helper()
	n, err := f.WriteString(str)
	FatalIfErr(tb, err)
	logging.L.Info("wrote %d bytes", n)
	if v, ok := f.(*os.File); ok {
		fi, err := v.Stat()
		FatalIfErr(tb, err)
		if fi.Mode().IsRegular() {
			FatalIfErr(tb, v.Sync())
		}
	}
	return n
}
