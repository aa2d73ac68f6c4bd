package checks

import (
	"time"

	"github.com/raven-betanet/envcheck/internal/hostenv"
	"github.com/raven-betanet/envcheck/internal/requirements"
)

// RuleSet defines the interface for a versioned set of requirements
type RuleSet interface {
	ID() string
	Description() string
	// Build evaluates every rule against env once and returns the results
	// in report order.
	Build(env hostenv.Environment, opts Options) (*requirements.Collection, error)
}

// Options locates the project being checked
type Options struct {
	// ProjectDir contains the vendor directory.
	ProjectDir string
	// AppDir is the application directory relative to ProjectDir, holding
	// cache/ and logs/.
	AppDir string
}

// Check result statuses
const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// CheckResult represents the outcome of a single requirement
type CheckResult struct {
	ID          string `json:"check_id"`
	Description string `json:"description"`
	Status      string `json:"status"` // "pass" | "warn" | "fail"
	Optional    bool   `json:"optional"`
	Details     string `json:"details,omitempty"`
	HelpHTML    string `json:"help_html,omitempty"`
	Directive   string `json:"directive,omitempty"`
}

// ComplianceReport represents the complete report of one rule set run
type ComplianceReport struct {
	Timestamp       time.Time     `json:"timestamp"`
	RuleSet         string        `json:"ruleset"`
	PHPVersion      string        `json:"php_version"`
	OS              string        `json:"os,omitempty"`
	ConfigFile      string        `json:"config_file,omitempty"`
	TotalChecks     int           `json:"total_checks"`
	PassedChecks    int           `json:"passed_checks"`
	WarningChecks   int           `json:"warning_checks"`
	FailedChecks    int           `json:"failed_checks"`
	ConfigFileIssue bool          `json:"config_file_issue"`
	Results         []CheckResult `json:"results"`
	Duration        time.Duration `json:"duration"`
}

// IsReportPassing reports whether no mandatory requirement failed
func (r *ComplianceReport) IsReportPassing() bool {
	return r.FailedChecks == 0
}

// Requirements returns the results of mandatory checks in order
func (r *ComplianceReport) Requirements() []CheckResult {
	return r.filter(false)
}

// Recommendations returns the results of optional checks in order
func (r *ComplianceReport) Recommendations() []CheckResult {
	return r.filter(true)
}

func (r *ComplianceReport) filter(optional bool) []CheckResult {
	var out []CheckResult
	for _, res := range r.Results {
		if res.Optional == optional {
			out = append(out, res)
		}
	}
	return out
}
