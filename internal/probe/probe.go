// Package probe orchestrates one invocation of the log monitor: resolve the
// current log, detect rotation, drain predecessor and current segments
// through the severity engine, and persist the cursor (§4.7).
package probe

import (
	"os"

	"github.com/nrpe-tools/logmonitor/internal/config"
	"github.com/nrpe-tools/logmonitor/internal/cursor"
	"github.com/nrpe-tools/logmonitor/internal/filetype"
	"github.com/nrpe-tools/logmonitor/internal/logging"
	"github.com/nrpe-tools/logmonitor/internal/rotation"
	"github.com/nrpe-tools/logmonitor/internal/segment"
	"github.com/nrpe-tools/logmonitor/internal/severity"
)

// Result is the outcome of one probe run.
type Result struct {
	Severity severity.Severity
	Message  string
}

// targetKey picks the identity under which this target's cursor sidecar is
// stored. When log_filename is unset, log_prefix alone stands in for the
// target's identity across invocations (§4.3's "derived
// from the target log path" leaves this case open when there is no single
// fixed path — see DESIGN.md Open Questions).
func targetKey(cfg *config.Config) string {
	if cfg.LogFilename != "" {
		return cfg.LogFilename
	}
	return cfg.LogPrefix
}

// Run executes one probe invocation against cfg.
func Run(cfg *config.Config) (Result, error) {
	store := cursor.NewStore(cfg.CachedPath)
	key := targetKey(cfg)

	unlock, err := store.Lock(key)
	if err != nil {
		// Both "already locked" and a lock-file IO error surface as the same
		// disposition (§7): we cannot safely proceed without exclusive
		// ownership of the sidecar.
		return Result{}, ErrLockContention
	}
	defer unlock()

	// 1. Resolve current log.
	currentPath := cfg.LogFilename
	if currentPath == "" {
		resolved, rerr := rotation.ResolveCurrent(cfg.LogPrefix, cfg.Rotation)
		if rerr == nil {
			currentPath = resolved
		}
	}

	cur, found := store.Load(key)

	missing := currentPath == ""
	if !missing {
		if _, serr := os.Stat(currentPath); serr != nil {
			missing = true
		}
	}
	if missing {
		if !found {
			return Result{Severity: severity.OK, Message: "no log to monitor yet"}, nil
		}
		return Result{}, ErrLogMissing
	}

	if !found {
		cur = cursor.Cursor{Offset: 0, Checksum: ""}
	}

	// 3. Rotation detection. The fingerprint covers the first N bytes, or
	// only the bytes consumed so far when that is fewer, so appending to a
	// short log does not change it.
	size, err := segment.Size(currentPath)
	if err != nil {
		return Result{}, err
	}
	head, err := segment.Head(currentPath, int(min(int64(config.DefaultFingerprintSize), cur.Offset)))
	if err != nil {
		return Result{}, err
	}

	rotated := found && (size < cur.Offset || cursor.Fingerprint(head) != cur.Checksum)

	pat := severity.Patterns{
		Warning:  severity.FromRegexp(cfg.Warning),
		Critical: severity.FromRegexp(cfg.Critical),
		OK:       severity.FromRegexp(cfg.OK),
		HasOK:    cfg.HasOK(),
	}

	sev := severity.OK

	// 4. Drain predecessor tail, if rotated.
	if rotated {
		pred, perr := rotation.FindPredecessor(currentPath, cfg.Rotation)
		if perr != nil {
			logging.L.Warn("probe: find predecessor for %s: %v", currentPath, perr)
		} else if pred != nil {
			lines, _, derr := segment.Lines(pred.Path, pred.Kind, cur.Offset)
			if derr != nil {
				// DecompressFailure: predecessor contributes nothing, continue
				// with current (§7).
				logging.L.Warn("probe: decode predecessor %s: %v", pred.Path, derr)
			} else {
				sev = severity.Fold(sev, lines, pat)
			}
		}
	}
	severityPrev := sev

	// 5. Drain current log.
	startOffset := cur.Offset
	if rotated {
		startOffset = 0
	}
	lines, newOffset, err := segment.Lines(currentPath, filetype.Plain, startOffset)
	if err != nil {
		return Result{}, err
	}
	severityCurr := severity.Fold(severity.OK, lines, pat)

	// 6. Combine with sticky prior state.
	var combined severity.Severity
	if cfg.HasOK() {
		combined = severity.Fold(severityPrev, lines, pat)
	} else {
		combined = severityCurr
	}

	// 7. Save cursor once a line has been consumed or a prior cursor exists;
	// a first run that consumed no complete line leaves no sidecar.
	if newOffset > 0 || rotated || found {
		head, err := segment.Head(currentPath, int(min(int64(config.DefaultFingerprintSize), newOffset)))
		if err != nil {
			return Result{}, err
		}
		newCur := cursor.Cursor{Offset: newOffset, Checksum: cursor.Fingerprint(head)}
		if err := store.Save(key, newCur); err != nil {
			return Result{}, ErrSidecarUnwritable
		}
	}

	return Result{Severity: combined, Message: combined.String()}, nil
}
