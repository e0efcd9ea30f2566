// Command logmonitor is an NRPE-style probe that incrementally scans a
// (possibly rotating) log file for warning/critical patterns and reports a
// Nagios-compatible exit code.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nrpe-tools/logmonitor/internal/config"
	"github.com/nrpe-tools/logmonitor/internal/logging"
	"github.com/nrpe-tools/logmonitor/internal/probe"
)

var configFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "logmonitor",
		Short:         "Incrementally scan a log file and report its severity as a Nagios-style exit code",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runE,
	}

	flags := cmd.Flags()
	flags.String("log_filename", "", "explicit current-log path")
	flags.String("log_prefix", "", "glob used with rotation_pattern to discover the current log")
	flags.String("cached_path", "", "directory holding the sidecar state file (required)")
	flags.String("warning_pattern", "", "regex marking a WARNING line")
	flags.String("critical_pattern", "", "regex marking a CRITICAL line")
	flags.String("ok_pattern", "", "regex that clears prior WARNING/CRITICAL within a scan")
	flags.String("rotation_pattern", "", "regex identifying rotated siblings of the current log (required)")
	flags.String("log_level", config.DefaultLogLevel, "diagnostic log level (DEBUG, INFO, WARN, ERR, CRIT)")
	flags.String("log_dest", config.DefaultLogDest, "diagnostic log destination (STDERR, STDOUT, NONE, SYSLOG, or a file path)")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML config file")

	return cmd
}

func runE(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	if err := logging.Init(cfg.LogDest, cfg.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	result, err := probe.Run(cfg)
	if err != nil {
		return err
	}

	fmt.Println(formatStatus(result))
	os.Exit(result.Severity.ExitCode())
	return nil
}

func formatStatus(r probe.Result) string {
	return fmt.Sprintf("%s - %s", r.Severity, r.Message)
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		// Every probe-level error (LogMissing, SidecarUnwritable,
		// LockContention, or anything undistinguished) surfaces as UNKNOWN:
		// the operator must not be told a false OK or a misleadingly
		// specific severity for a condition the probe couldn't complete
		// (§7).
		fmt.Println("UNKNOWN - " + err.Error())
		logging.Fatalf("logmonitor: %v", err)
	}
}
