// Package severity implements the ScanEngine: a fold over a stream of log
// lines that produces a terminal Severity, applying the sticky-critical,
// clearable-on-OK state machine from §4.6.
//
// The Criterion/Predicate shape is adapted from the teacher's generic rules
// engine (core/policyengine/engine/{types,predicates,operations}.go), which
// builds boolean criteria over a generic record type R and composes them
// with And/Or/Not. This package keeps that same functional-predicate idiom
// but specializes R to a logline.LogLine and the predicates to compiled
// regular expressions over its text, since §4.6 doesn't need attribute
// mappers, field comparisons, or a rule DSL — three named patterns applied
// directly to a line's text is the entire rule surface this spec calls for.
package severity

import (
	"regexp"

	"github.com/nrpe-tools/logmonitor/internal/logline"
)

// Severity is the terminal outcome of a scan, ordered OK < WARNING <
// CRITICAL.
type Severity int

const (
	OK Severity = iota
	WARNING
	CRITICAL
)

func (s Severity) String() string {
	switch s {
	case WARNING:
		return "WARNING"
	case CRITICAL:
		return "CRITICAL"
	default:
		return "OK"
	}
}

// ExitCode maps a Severity to the Nagios-style exit code (§6). UNKNOWN (3)
// is never produced here; it is reserved for probe-level failures (§7) and
// is mapped directly by the caller.
func (s Severity) ExitCode() int {
	return int(s)
}

// Criterion is a compiled predicate over a single line's text.
type Criterion struct {
	pattern *regexp.Regexp
}

// Eval reports whether l's text satisfies the criterion.
func (c Criterion) Eval(l *logline.LogLine) bool {
	return c.pattern != nil && l != nil && c.pattern.MatchString(l.Line)
}

// FromRegexp wraps an already-compiled regular expression as a Criterion.
// internal/config compiles every pattern once at load time; FromRegexp is
// the sole constructor this package needs as a result. A nil re produces a
// Criterion that never matches, modeling "unset pattern means never
// matches" for warning/critical (§3).
func FromRegexp(re *regexp.Regexp) Criterion {
	return Criterion{pattern: re}
}

// Patterns holds the three compiled severity criteria (§3, §4.6). OK is the
// nil Criterion (never matches) when ok_pattern is unset, per §4.6's
// "OK-clearing semantics" note: an unset OK pattern means prior severity is
// never cleared within this fold.
type Patterns struct {
	Warning  Criterion
	Critical Criterion
	OK       Criterion
	HasOK    bool // true iff an ok_pattern was configured
}

// Fold applies the state machine in §4.7's table to an initial severity and
// a sequence of lines, returning the terminal severity. It is used both to
// score a single segment's lines (ScanEngine proper) and, by the Probe, to
// combine a predecessor's terminal severity with the current segment's
// lines in their natural order (§4.7 step 6).
func Fold(start Severity, lines []*logline.LogLine, p Patterns) Severity {
	sev := start
	for _, l := range lines {
		switch {
		case p.Critical.Eval(l):
			sev = CRITICAL
		case p.Warning.Eval(l):
			if sev != CRITICAL {
				sev = WARNING
			}
		case p.HasOK && p.OK.Eval(l):
			sev = OK
		}
	}
	return sev
}
