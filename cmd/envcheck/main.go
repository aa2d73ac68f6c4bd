package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/raven-betanet/envcheck/internal/checks"
	"github.com/raven-betanet/envcheck/internal/hostenv"
	"github.com/raven-betanet/envcheck/internal/utils"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errRequirementsFailed signals a failed mandatory requirement; main turns
// it into exit status 1 without printing it.
var errRequirementsFailed = errors.New("mandatory requirements failed")

type configKey struct{}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errRequirementsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configFile string
		verbose    bool
	)
	defaults := utils.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "envcheck",
		Short: "PHP runtime requirements checker for Symfony projects",
		Long: `Check that a PHP installation satisfies the requirements of a Symfony
project: mandatory requirements that must pass and recommendations that
should pass.

The PHP runtime is probed through its CLI binary, or read from a snapshot
file captured earlier with "envcheck snapshot".

Examples:
  envcheck check
  envcheck check --project-dir /var/www/app --format json
  envcheck check --ruleset legacy --php-binary /usr/bin/php5
  envcheck snapshot --output prod.yaml
  envcheck check --snapshot prod.yaml`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := utils.LoadConfig(configFile, cmd.Flags())
			if err != nil {
				return err
			}

			loggerConfig := utils.LoggerConfig{
				Level:  utils.LogLevel(cfg.LogLevel),
				Format: utils.LogFormat(cfg.LogFormat),
				Output: cmd.ErrOrStderr(),
			}
			if verbose {
				loggerConfig.Level = utils.LogLevelDebug
			}
			logger := utils.NewLogger(loggerConfig)

			ctx := utils.WithLogger(cmd.Context(), logger)
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
			return nil
		},
	}

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $HOME/.envcheck/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", defaults.LogLevel, "Set log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", defaults.LogFormat, "Set log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (equivalent to --log-level debug)")

	rootCmd.AddCommand(newCheckCommand(), newSnapshotCommand(), newRuleSetsCommand())

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	}

	return rootCmd
}

// addRuntimeFlags registers the flags selecting the PHP runtime to inspect
func addRuntimeFlags(cmd *cobra.Command) {
	defaults := utils.DefaultConfig()
	cmd.Flags().String("php-binary", defaults.PHPBinary, "PHP CLI binary to probe")
	cmd.Flags().String("snapshot", "", "Read the runtime from a snapshot file (.yaml, .yml or .json) instead of probing")
	cmd.Flags().Duration("probe-timeout", defaults.ProbeTimeout, "Timeout for probing the PHP binary")
}

func newCheckCommand() *cobra.Command {
	defaults := utils.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the PHP runtime against a rule set",
		Long: `Evaluate the selected rule set against the PHP runtime and print a report.

Mandatory requirements that fail make the command exit with status 1.
Failed recommendations are reported as warnings only.`,
		Args: cobra.NoArgs,
		RunE: runCheckCommand,
	}

	cmd.Flags().StringP("format", "f", defaults.Format, "Output format (json, text)")
	cmd.Flags().StringP("ruleset", "r", defaults.RuleSet, "Rule set to evaluate (see \"envcheck rulesets\")")
	cmd.Flags().String("project-dir", defaults.ProjectDir, "Project root directory")
	cmd.Flags().String("app-dir", defaults.AppDir, "Application directory, relative to the project root")
	addRuntimeFlags(cmd)

	return cmd
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	cfg := configFromContext(cmd.Context())
	logger := loggerFromCommand(cmd)

	if !isValidOutputFormat(cfg.Format) {
		return fmt.Errorf("invalid output format: %s (supported: json, text)", cfg.Format)
	}

	registry := checks.DefaultRegistry()
	if _, err := registry.Get(cfg.RuleSet); err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(registry.IDs(), ", "))
	}

	fs := afero.NewOsFs()
	snap, err := loadRuntime(cmd.Context(), cfg, fs, logger)
	if err != nil {
		return err
	}

	logger.WithComponent("check").Infof("Checking PHP %s against rule set %s (project: %s)", snap.Version, cfg.RuleSet, cfg.ProjectDir)

	runner := checks.NewCheckRunner(registry)
	report, err := runner.Run(cfg.RuleSet, hostenv.NewHost(snap, fs), checks.Options{
		ProjectDir: cfg.ProjectDir,
		AppDir:     cfg.AppDir,
	})
	if err != nil {
		return err
	}

	logger.WithComponent("check").Debugf("Completed %d checks in %v", report.TotalChecks, report.Duration)

	if err := outputReport(cmd.OutOrStdout(), report, cfg.Format); err != nil {
		return fmt.Errorf("failed to output report: %w", err)
	}

	if !report.IsReportPassing() {
		logger.WithComponent("check").Warnf("Requirements check failed: %d mandatory requirement(s) not fulfilled", report.FailedChecks)
		return errRequirementsFailed
	}

	logger.WithComponent("check").Infof("All mandatory requirements fulfilled (%d warning(s))", report.WarningChecks)
	return nil
}

func newSnapshotCommand() *cobra.Command {
	var (
		output string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture the PHP runtime into a snapshot file",
		Long: `Probe the PHP binary and write what the rule sets inspect (version,
extensions, ini directives, functions, classes, timezones, PDO drivers) as
YAML or JSON. The snapshot can be checked later, or on another machine, with
"envcheck check --snapshot".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			logger := loggerFromCommand(cmd)
			fs := afero.NewOsFs()

			snap, err := loadRuntime(cmd.Context(), cfg, fs, logger)
			if err != nil {
				return err
			}

			if output != "" {
				if err := hostenv.SaveSnapshot(fs, output, snap); err != nil {
					return err
				}
				logger.WithComponent("snapshot").Infof("Snapshot of PHP %s written to %s", snap.Version, output)
				return nil
			}

			data, err := hostenv.EncodeSnapshot(snap, asJSON)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the snapshot to a file; the extension selects YAML or JSON")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of YAML when writing to stdout")
	addRuntimeFlags(cmd)

	return cmd
}

func newRuleSetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rulesets",
		Short: "List the available rule sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := checks.DefaultRegistry()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tDESCRIPTION\n")
			for _, id := range registry.IDs() {
				rs, err := registry.Get(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", rs.ID(), rs.Description())
			}
			return w.Flush()
		},
	}
}

// loadRuntime reads the configured snapshot file, or probes the PHP binary
// when none is set.
func loadRuntime(ctx context.Context, cfg *utils.Config, fs afero.Fs, logger *utils.Logger) (*hostenv.Snapshot, error) {
	if cfg.Snapshot != "" {
		logger.WithComponent("snapshot").Debugf("Loading snapshot %s", cfg.Snapshot)
		return hostenv.LoadSnapshot(fs, cfg.Snapshot)
	}
	return hostenv.NewProber(cfg.PHPBinary, cfg.ProbeTimeout, logger).Probe(ctx)
}

func configFromContext(ctx context.Context) *utils.Config {
	if cfg, ok := ctx.Value(configKey{}).(*utils.Config); ok {
		return cfg
	}
	cfg := utils.DefaultConfig()
	return &cfg
}

func loggerFromCommand(cmd *cobra.Command) *utils.Logger {
	if logger := utils.LoggerFromContext(cmd.Context()); logger != nil {
		return logger
	}
	return utils.NewDefaultLogger()
}

// isValidOutputFormat checks if the output format is supported
func isValidOutputFormat(format string) bool {
	switch strings.ToLower(format) {
	case "json", "text":
		return true
	default:
		return false
	}
}
