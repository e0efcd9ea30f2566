// Package filetype classifies a filesystem path as plain, gzip, or bzip2 by
// magic bytes, never by file-name extension — rotation daemons sometimes
// strip or append suffixes inconsistently (§9).
package filetype

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Kind is the classification of a log segment's on-disk encoding.
type Kind int

const (
	Plain Kind = iota
	Gzip
	Bzip2
)

func (k Kind) String() string {
	switch k {
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	default:
		return "plain"
	}
}

var (
	gzipMagic  = []byte{0x1F, 0x8B}
	bzip2Magic = []byte("BZh")
)

// Classify reads the leading bytes of path and matches them against known
// magic numbers. Anything that doesn't match a known compressed format is
// Plain. Classification itself never fails on content it doesn't
// recognize; it only fails if the file cannot be opened or read.
func Classify(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plain, fmt.Errorf("filetype: open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, len(bzip2Magic))
	n, err := f.Read(head)
	if err != nil && n == 0 {
		// An empty file is a legitimate plain file, not an IO error.
		if errors.Is(err, io.EOF) {
			return Plain, nil
		}
		return Plain, fmt.Errorf("filetype: read %s: %w", path, err)
	}
	head = head[:n]

	if len(head) >= len(gzipMagic) && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		return Gzip, nil
	}
	if len(head) >= len(bzip2Magic) && string(head[:len(bzip2Magic)]) == string(bzip2Magic) {
		return Bzip2, nil
	}
	return Plain, nil
}
