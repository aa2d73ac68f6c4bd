package requirements

// Result is the read-only view shared by every kind of requirement.
type Result interface {
	IsFulfilled() bool
	TestMessage() string
	HelpHTML() string
	HelpText() string
	IsOptional() bool
}

// Requirement represents a single evaluated precondition, either mandatory
// or an optional recommendation.
type Requirement struct {
	fulfilled   bool
	testMessage string
	helpHTML    string
	helpText    string
	optional    bool
}

// NewRequirement creates a requirement. When helpText is empty it is derived
// from helpHTML by stripping all markup.
func NewRequirement(fulfilled bool, testMessage, helpHTML, helpText string, optional bool) *Requirement {
	if helpText == "" {
		helpText = StripTags(helpHTML)
	}
	return &Requirement{
		fulfilled:   fulfilled,
		testMessage: testMessage,
		helpHTML:    helpHTML,
		helpText:    helpText,
		optional:    optional,
	}
}

// IsFulfilled reports whether the requirement is satisfied
func (r *Requirement) IsFulfilled() bool { return r.fulfilled }

// TestMessage returns the short description of what was checked
func (r *Requirement) TestMessage() string { return r.testMessage }

// HelpHTML returns the remediation text, possibly containing markup
func (r *Requirement) HelpHTML() string { return r.helpHTML }

// HelpText returns the plain-text remediation
func (r *Requirement) HelpText() string { return r.helpText }

// IsOptional reports whether this is a recommendation rather than a
// mandatory requirement
func (r *Requirement) IsOptional() bool { return r.optional }
