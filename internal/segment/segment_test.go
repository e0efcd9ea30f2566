package segment

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"

	"github.com/nrpe-tools/logmonitor/internal/filetype"
	"github.com/nrpe-tools/logmonitor/internal/logline"
	"github.com/nrpe-tools/logmonitor/internal/testutil"
)

func writePlain(t *testing.T, content string) string {
	t.Helper()
	dir := testutil.TestTempDir(t)
	path := filepath.Join(dir, "current.log")
	f := testutil.OpenLogFile(t, path)
	testutil.WriteString(t, f, content)
	testutil.FatalIfErr(t, f.Close())
	return path
}

func texts(lines []*logline.LogLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Line
	}
	return out
}

func TestLinesCompleteOnly(t *testing.T) {
	path := writePlain(t, "INFO start\nWARN disk 80%\nFATAL boom\n")

	lines, offset, err := Lines(path, filetype.Plain, 0)
	testutil.FatalIfErr(t, err)

	want := []string{"INFO start", "WARN disk 80%", "FATAL boom"}
	testutil.ExpectNoDiff(t, want, texts(lines))
	for _, l := range lines {
		if l.Filename != path {
			t.Errorf("LogLine.Filename = %q, want %q", l.Filename, path)
		}
	}
	if offset != int64(len("INFO start\nWARN disk 80%\nFATAL boom\n")) {
		t.Errorf("offset = %d, want full length", offset)
	}
}

func TestLinesLeavesPartialTrailingLine(t *testing.T) {
	path := writePlain(t, "FATAL boom\nWARN partial without newline")

	lines, offset, err := Lines(path, filetype.Plain, 0)
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, []string{"FATAL boom"}, texts(lines))

	wantOffset := int64(len("FATAL boom\n"))
	if offset != wantOffset {
		t.Errorf("offset = %d, want %d (partial tail left unconsumed)", offset, wantOffset)
	}

	// Second call with no new bytes must not re-emit the partial line.
	lines2, offset2, err := Lines(path, filetype.Plain, offset)
	testutil.FatalIfErr(t, err)
	if len(lines2) != 0 {
		t.Errorf("second call got %v, want no lines yet", texts(lines2))
	}
	if offset2 != offset {
		t.Errorf("second call offset = %d, want unchanged %d", offset2, offset)
	}

	// Completing the line on a later write surfaces it.
	f := testutil.TestOpenFile(t, path)
	testutil.WriteString(t, f, "\n")
	testutil.FatalIfErr(t, f.Close())

	lines3, _, err := Lines(path, filetype.Plain, offset)
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, []string{"WARN partial without newline"}, texts(lines3))
}

func TestLinesResumesFromOffset(t *testing.T) {
	path := writePlain(t, "FATAL first\n")
	_, offset, err := Lines(path, filetype.Plain, 0)
	testutil.FatalIfErr(t, err)

	f := testutil.TestOpenFile(t, path)
	testutil.WriteString(t, f, "WARN second\n")
	testutil.FatalIfErr(t, f.Close())

	lines, _, err := Lines(path, filetype.Plain, offset)
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, []string{"WARN second"}, texts(lines))
}

func TestLinesGzip(t *testing.T) {
	dir := testutil.TestTempDir(t)
	path := filepath.Join(dir, "rotated.log.0.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	testutil.FatalIfErr(t, writeAll(gz, "FATAL rotated boom\n"))
	testutil.FatalIfErr(t, gz.Close())
	testutil.FatalIfErr(t, os.WriteFile(path, buf.Bytes(), 0o600))

	lines, _, err := Lines(path, filetype.Gzip, 0)
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, []string{"FATAL rotated boom"}, texts(lines))
}

func TestLinesBzip2(t *testing.T) {
	dir := testutil.TestTempDir(t)
	path := filepath.Join(dir, "rotated.log.0.bz2")

	var buf bytes.Buffer
	bz, err := bzip2.NewWriter(&buf, nil)
	testutil.FatalIfErr(t, err)
	testutil.FatalIfErr(t, writeAll(bz, "WARN rotated disk\n"))
	testutil.FatalIfErr(t, bz.Close())
	testutil.FatalIfErr(t, os.WriteFile(path, buf.Bytes(), 0o600))

	lines, _, err := Lines(path, filetype.Bzip2, 0)
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, []string{"WARN rotated disk"}, texts(lines))
}

func writeAll(w interface{ Write([]byte) (int, error) }, s string) error {
	_, err := w.Write([]byte(s))
	return err
}

func TestHeadShorterThanN(t *testing.T) {
	path := writePlain(t, "short")
	head, err := Head(path, 256)
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, "short", string(head))
}

func TestSize(t *testing.T) {
	path := writePlain(t, "1234567890")
	n, err := Size(path)
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, int64(10), n)
}
