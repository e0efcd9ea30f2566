package severity

import (
	"regexp"
	"testing"

	"github.com/nrpe-tools/logmonitor/internal/logline"
	"github.com/nrpe-tools/logmonitor/internal/testutil"
)

func lines(filename string, texts ...string) []*logline.LogLine {
	out := make([]*logline.LogLine, len(texts))
	for i, t := range texts {
		out[i] = logline.New(filename, t)
	}
	return out
}

func TestFoldBasic(t *testing.T) {
	pat := Patterns{
		Warning:  FromRegexp(regexp.MustCompile(`WARN`)),
		Critical: FromRegexp(regexp.MustCompile(`FATAL`)),
		OK:       FromRegexp(regexp.MustCompile(`RECOVERED`)),
		HasOK:    true,
	}

	cases := []struct {
		name  string
		start Severity
		lines []*logline.LogLine
		want  Severity
	}{
		{"empty", OK, nil, OK},
		{"single warning", OK, lines("app.log", "WARN disk 80%"), WARNING},
		{"single critical", OK, lines("app.log", "FATAL disk full"), CRITICAL},
		{"critical sticky over warning", OK, lines("app.log", "FATAL boom", "WARN disk 80%"), CRITICAL},
		{"ok clears critical", CRITICAL, lines("app.log", "RECOVERED"), OK},
		{"warning then ok", WARNING, lines("app.log", "RECOVERED"), OK},
		{"irrelevant line no change", WARNING, lines("app.log", "INFO nothing interesting"), WARNING},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Fold(c.start, c.lines, pat)
			testutil.ExpectNoDiff(t, c.want, got)
		})
	}
}

func TestFoldWithoutOKPattern(t *testing.T) {
	pat := Patterns{Critical: FromRegexp(regexp.MustCompile(`FATAL`)), HasOK: false}

	// Without ok_pattern configured, nothing clears prior severity within
	// the same fold either — OK criterion is the zero Criterion, which
	// never matches (§4.6).
	got := Fold(CRITICAL, lines("app.log", "all is well"), pat)
	testutil.ExpectNoDiff(t, CRITICAL, got)
}

func TestFromRegexpNilNeverMatches(t *testing.T) {
	c := FromRegexp(nil)
	if c.Eval(logline.New("app.log", "anything at all")) {
		t.Error("nil-regexp Criterion matched a line, want never-match")
	}
}

func TestExitCode(t *testing.T) {
	for sev, want := range map[Severity]int{OK: 0, WARNING: 1, CRITICAL: 2} {
		testutil.ExpectNoDiff(t, want, sev.ExitCode())
	}
}
