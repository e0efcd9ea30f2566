// Package rotation locates a target log's rotated predecessor and, when the
// target path itself isn't fixed, the current log among a set of dated
// siblings (§4.4, §4.5).
package rotation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/nrpe-tools/logmonitor/internal/filetype"
)

// ErrNoMatch is returned by ResolveCurrent when no file matches log_prefix
// and rotation_pattern.
var ErrNoMatch = errors.New("rotation: no file matches log_prefix/rotation_pattern")

// Predecessor is the most recently rotated sibling of a current log.
type Predecessor struct {
	Path string
	Kind filetype.Kind
}

// FindPredecessor enumerates files in currentLog's directory whose basename
// matches rotationPattern, excludes currentLog itself, and returns the one
// with the newest mtime, classified by filetype.Classify (§4.4). Ties are
// broken by lexically descending path (§9, Open Questions). rotationPattern
// is pre-compiled by the caller at config load time (§4.8), so an invalid
// pattern never reaches here.
func FindPredecessor(currentLog string, rotationPattern *regexp.Regexp) (*Predecessor, error) {
	dir := filepath.Dir(currentLog)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("rotation: read dir %s: %w", dir, err)
	}

	type candidate struct {
		path    string
		modTime int64
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if samePath(full, currentLog) {
			continue
		}
		if !rotationPattern.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{full, info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].modTime != candidates[j].modTime {
			return candidates[i].modTime > candidates[j].modTime
		}
		return candidates[i].path > candidates[j].path
	})

	kind, err := filetype.Classify(candidates[0].path)
	if err != nil {
		return nil, err
	}
	return &Predecessor{Path: candidates[0].path, Kind: kind}, nil
}

// ResolveCurrent picks the current log among files matching logPrefix (a
// glob) whose basename also matches rotationPattern (a regex), returning
// the lexicographically maximum match (§4.5). This assumes date-stamped
// names, where lexical order coincides with chronological order — the
// primary use case this policy targets. Confirmed against the original
// implementation's `log_prefix` + `rotation_pattern` pairing (§8,
// "Combined log_prefix + explicit rotation_pattern regex resolution").
func ResolveCurrent(logPrefix string, rotationPattern *regexp.Regexp) (string, error) {
	matches, err := filepath.Glob(logPrefix)
	if err != nil {
		return "", fmt.Errorf("rotation: glob %s: %w", logPrefix, err)
	}

	var best string
	for _, m := range matches {
		if !rotationPattern.MatchString(filepath.Base(m)) {
			continue
		}
		if m > best {
			best = m
		}
	}
	if best == "" {
		return "", ErrNoMatch
	}
	return best, nil
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return aa == bb
}
