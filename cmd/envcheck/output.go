package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/raven-betanet/envcheck/internal/checks"
)

// outputReport writes the report in the requested format
func outputReport(w io.Writer, report *checks.ComplianceReport, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return outputJSONReport(w, report)
	case "text":
		return outputTextReport(w, report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputJSONReport(w io.Writer, report *checks.ComplianceReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func outputTextReport(w io.Writer, report *checks.ComplianceReport) error {
	fmt.Fprintf(w, "PHP Requirements Report\n")
	fmt.Fprintf(w, "=======================\n\n")

	fmt.Fprintf(w, "Rule set: %s\n", report.RuleSet)
	fmt.Fprintf(w, "PHP version: %s\n", report.PHPVersion)
	if report.OS != "" {
		fmt.Fprintf(w, "OS: %s\n", report.OS)
	}
	if report.ConfigFile != "" {
		fmt.Fprintf(w, "php.ini: %s\n", report.ConfigFile)
	} else {
		fmt.Fprintf(w, "php.ini: WARNING: no configuration file is in use\n")
	}
	fmt.Fprintf(w, "Timestamp: %s\n\n", report.Timestamp.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(w, "The PHP CLI can use a different php.ini file than the one used by\n")
	fmt.Fprintf(w, "your web server. If this is the case, check the web server runtime too.\n\n")

	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d failed (%d checks)\n",
		report.PassedChecks, report.WarningChecks, report.FailedChecks, report.TotalChecks)

	if err := writeResultTable(w, "Mandatory requirements", report.Requirements()); err != nil {
		return err
	}
	if err := writeResultTable(w, "Optional recommendations", report.Recommendations()); err != nil {
		return err
	}

	writeHelp(w, "Failed Requirements", report.Requirements())
	writeHelp(w, "Recommendations to Fix", report.Recommendations())

	if report.ConfigFileIssue {
		if report.ConfigFile != "" {
			fmt.Fprintf(w, "\n* Changes to the php.ini file must be done in \"%s\".\n", report.ConfigFile)
		} else {
			fmt.Fprintf(w, "\n* To change settings, create a php.ini.\n")
		}
	}

	return nil
}

func writeResultTable(w io.Writer, title string, results []checks.CheckResult) error {
	if len(results) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%s:\n\n", title)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "CHECK ID\tSTATUS\tDESCRIPTION\n")
	fmt.Fprintf(tw, "--------\t------\t-----------\n")
	for _, result := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", result.ID, statusLabel(result.Status), result.Description)
	}
	return tw.Flush()
}

// writeHelp prints the help text of each unfulfilled result
func writeHelp(w io.Writer, title string, results []checks.CheckResult) {
	var failed []checks.CheckResult
	for _, result := range results {
		if result.Status != checks.StatusPass {
			failed = append(failed, result)
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s:\n", title)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", len(title)+1))
	for _, result := range failed {
		fmt.Fprintf(w, "\n%s: %s\n", result.ID, result.Description)
		fmt.Fprintf(w, "  %s\n", result.Details)
	}
}

func statusLabel(status string) string {
	switch status {
	case checks.StatusPass:
		return "✓ PASS"
	case checks.StatusWarn:
		return "! WARN"
	default:
		return "✗ FAIL"
	}
}
