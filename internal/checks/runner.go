package checks

import (
	"fmt"
	"time"

	"github.com/raven-betanet/envcheck/internal/hostenv"
	"github.com/raven-betanet/envcheck/internal/requirements"
)

// CheckRunner builds rule sets from a registry and reports on them
type CheckRunner struct {
	registry *CheckRegistry
	clock    func() time.Time
}

// NewCheckRunner creates a runner over registry
func NewCheckRunner(registry *CheckRegistry) *CheckRunner {
	return &CheckRunner{registry: registry, clock: time.Now}
}

// Run evaluates the rule set id against env
func (r *CheckRunner) Run(id string, env hostenv.Environment, opts Options) (*ComplianceReport, error) {
	rs, err := r.registry.Get(id)
	if err != nil {
		return nil, err
	}

	start := r.clock()
	coll, err := rs.Build(env, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build rule set %s: %w", id, err)
	}

	report := NewReport(id, coll, env)
	report.Timestamp = start.UTC()
	report.Duration = r.clock().Sub(start)
	return report, nil
}

// NewReport converts an evaluated collection into a report
func NewReport(ruleSet string, coll *requirements.Collection, env hostenv.Environment) *ComplianceReport {
	report := &ComplianceReport{
		RuleSet:         ruleSet,
		PHPVersion:      env.Version(),
		OS:              env.OS(),
		ConfigFileIssue: coll.HasConfigFileIssue(),
		Results:         make([]CheckResult, 0, coll.Len()),
	}
	if path, ok := coll.ConfigFilePath(env); ok {
		report.ConfigFile = path
	}

	for i, req := range coll.All() {
		result := CheckResult{
			ID:          fmt.Sprintf("%s-%02d", ruleSet, i+1),
			Description: req.TestMessage(),
			Status:      statusOf(req),
			Optional:    req.IsOptional(),
		}
		if d, ok := req.(*requirements.ConfigDirectiveRequirement); ok {
			result.Directive = d.Directive()
		}
		if !req.IsFulfilled() {
			result.Details = req.HelpText()
			result.HelpHTML = req.HelpHTML()
		}

		switch result.Status {
		case StatusPass:
			report.PassedChecks++
		case StatusWarn:
			report.WarningChecks++
		default:
			report.FailedChecks++
		}
		report.Results = append(report.Results, result)
	}
	report.TotalChecks = len(report.Results)

	return report
}

func statusOf(req requirements.Result) string {
	switch {
	case req.IsFulfilled():
		return StatusPass
	case req.IsOptional():
		return StatusWarn
	default:
		return StatusFail
	}
}
