// Package segment opens a log segment (plain or compressed) and exposes
// sequential, byte-addressed reads over its logical (decompressed) content.
// For compressed segments, offsets are into the decompressed stream, not the
// on-disk bytes (§4.2).
//
// Line splitting mirrors the teacher's decodeAndSend
// (driver/log/tailer/logstream/decode.go): split on '\n', and never hand
// back a record for a line that hasn't been terminated by a newline yet —
// that trailing partial write is left for the next invocation to pick up,
// the same way the teacher's fileStream buffers a partial line across reads
// instead of guessing at an unterminated tail.
package segment

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"

	"github.com/nrpe-tools/logmonitor/internal/filetype"
	"github.com/nrpe-tools/logmonitor/internal/logline"
)

// Lines reads the logical content of the segment at path (classified as
// kind) starting at byte offset, and returns the complete lines found,
// each carrying path as its provenance (§4.2, so a severity match can
// still be traced back to the segment it came from — the predecessor or
// the current log), plus the offset that should be persisted as
// "consumed" (i.e. offset plus the number of decompressed bytes that made
// up those complete lines). Any trailing bytes not yet terminated by '\n'
// are left unconsumed: they will be re-read, from the same starting
// point, on the next invocation.
func Lines(path string, kind filetype.Kind, offset int64) (lines []*logline.LogLine, newOffset int64, err error) {
	data, err := decode(path, kind)
	if err != nil {
		return nil, offset, err
	}
	if offset < 0 || offset > int64(len(data)) {
		offset = 0
	}
	tail := data[offset:]

	lastNL := bytes.LastIndexByte(tail, '\n')
	if lastNL < 0 {
		// No complete line in the new bytes; nothing to consume yet.
		return nil, offset, nil
	}

	complete := tail[:lastNL] // excludes the final '\n' itself
	for _, l := range bytes.Split(complete, []byte{'\n'}) {
		lines = append(lines, logline.New(path, string(l)))
	}
	return lines, offset + int64(lastNL) + 1, nil
}

// decode returns the full decompressed content of the segment at path.
// Predecessor segments are read once per invocation and are expected to be
// bounded in size (a single rotated log), so decoding in full rather than
// supporting random access into the compressed stream keeps this simple and
// correct.
func decode(path string, kind filetype.Kind) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("segment: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader
	switch kind {
	case filetype.Gzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("segment: gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case filetype.Bzip2:
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, fmt.Errorf("segment: bzip2 %s: %w", path, err)
		}
		defer bz.Close()
		r = bz
	default:
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("segment: read %s: %w", path, err)
	}
	return data, nil
}

// Size returns the size, in bytes, of the segment's on-disk plain content.
// It is only meaningful for Plain segments; rotation detection compares it
// against a previously persisted cursor offset (§4.7 step 3).
func Size(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("segment: stat %s: %w", path, err)
	}
	return fi.Size(), nil
}

// Head returns up to n bytes from the start of the plain file at path, used
// to compute the rotation-detection fingerprint (§9). It never decompresses
// — the fingerprint is always taken over the current (plain) log, never a
// rotated predecessor.
func Head(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("segment: open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("segment: read %s: %w", path, err)
	}
	return buf[:read], nil
}
