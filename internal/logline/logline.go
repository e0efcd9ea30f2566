// Package logline provides the data structure for a single line read from a
// monitored log segment.
// Adapted from the teacher's driver/log/logline package, itself adapted from
// https://github.com/google/mtail/tree/main/internal.
package logline

// LogLine contains the information needed to match and account for a single
// line pulled from a segment.
type LogLine struct {
	Filename string // path of the segment this line was read from
	Line     string // text of the line, without its trailing newline
}

// New creates a new LogLine.
func New(filename, line string) *LogLine {
	return &LogLine{Filename: filename, Line: line}
}
