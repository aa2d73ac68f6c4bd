package requirements

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingDescription is returned when a predicate-based directive
// requirement is defined without both a test message and help text.
var ErrMissingDescription = errors.New("predicate directive requirement needs a test message and help text")

// MissingDescriptionError reports an incomplete directive rule definition.
type MissingDescriptionError struct {
	Directive string
}

func (e *MissingDescriptionError) Error() string {
	return fmt.Sprintf("directive %s: %v", e.Directive, ErrMissingDescription)
}

// Is reports whether target is ErrMissingDescription.
func (e *MissingDescriptionError) Is(target error) bool {
	return target == ErrMissingDescription
}

// DirectiveValue is the value of an ini directive as seen by ini_get: either
// unset (the directive is not registered at all) or a raw string.
//
// Truthiness follows PHP string coercion: a set value is falsy when its raw
// text is "" or "0" and truthy otherwise. An unset directive is falsy, but
// IsSet tells it apart from an explicit falsy value.
type DirectiveValue struct {
	raw string
	set bool
}

// Unset returns the value of a directive that does not exist.
func Unset() DirectiveValue { return DirectiveValue{} }

// DirectiveOf returns the value of a directive set to raw.
func DirectiveOf(raw string) DirectiveValue { return DirectiveValue{raw: raw, set: true} }

// IsSet reports whether the directive exists in the runtime configuration.
func (v DirectiveValue) IsSet() bool { return v.set }

// Raw returns the directive's textual value, "" when unset.
func (v DirectiveValue) Raw() string { return v.raw }

// Truthy applies the PHP string-to-bool coercion.
func (v DirectiveValue) Truthy() bool {
	return v.set && v.raw != "" && v.raw != "0"
}

// Equals compares the directive with a boolean the way PHP's loose == does:
// both sides are coerced to bool.
func (v DirectiveValue) Equals(b bool) bool { return v.Truthy() == b }

func (v DirectiveValue) String() string {
	if !v.set {
		return "<unset>"
	}
	return strconv.Quote(v.raw)
}

// MarshalJSON encodes an unset value as null and a set value as its raw string.
func (v DirectiveValue) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.raw)
}

// UnmarshalJSON accepts null, strings, booleans and numbers.
func (v *DirectiveValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode directive value: %w", err)
	}
	switch t := raw.(type) {
	case nil:
		*v = Unset()
	case string:
		*v = DirectiveOf(t)
	case bool:
		*v = DirectiveOf(boolRaw(t))
	case float64:
		*v = DirectiveOf(string(data))
	default:
		return fmt.Errorf("decode directive value: unsupported JSON value %s", string(data))
	}
	return nil
}

// MarshalYAML encodes an unset value as null. Raw values spelled like ini
// booleans are quoted so they decode back verbatim.
func (v DirectiveValue) MarshalYAML() (interface{}, error) {
	if !v.set {
		return nil, nil
	}
	if _, ok := iniBool(v.raw); ok {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: v.raw}, nil
	}
	return v.raw, nil
}

// UnmarshalYAML accepts null and scalar nodes. Booleans and the unquoted
// php.ini words on/yes/true and off/no/false/none map to "1" and "", as the
// ini parser stores them. Quoted values are kept verbatim.
func (v *DirectiveValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("decode directive value: line %d: expected a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*v = Unset()
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("decode directive value: %w", err)
		}
		*v = DirectiveOf(boolRaw(b))
	default:
		raw := node.Value
		if node.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) == 0 {
			if b, ok := iniBool(raw); ok {
				raw = boolRaw(b)
			}
		}
		*v = DirectiveOf(raw)
	}
	return nil
}

func iniBool(word string) (value, ok bool) {
	switch strings.ToLower(word) {
	case "on", "yes", "true":
		return true, true
	case "off", "no", "false", "none":
		return false, true
	}
	return false, false
}

// ini_get reports boolean directives as "1" and "".
func boolRaw(b bool) string {
	if b {
		return "1"
	}
	return ""
}

// DirectiveReader looks up ini directives.
type DirectiveReader interface {
	Directive(name string) DirectiveValue
}

// Evaluation decides whether a directive value fulfills a requirement. It is
// either a fixed boolean (see Expect) or a predicate (see Predicate).
type Evaluation struct {
	expected  bool
	predicate func(DirectiveValue) bool
}

// Expect returns an evaluation fulfilled when the directive coerces to want.
func Expect(want bool) Evaluation {
	return Evaluation{expected: want}
}

// Predicate returns an evaluation delegating to fn. Requirements built from a
// predicate must carry an explicit test message and help text.
func Predicate(fn func(DirectiveValue) bool) Evaluation {
	return Evaluation{predicate: fn}
}

// IsPredicate reports whether the evaluation wraps a caller-supplied function.
func (e Evaluation) IsPredicate() bool { return e.predicate != nil }

func (e Evaluation) evaluate(v DirectiveValue) bool {
	if e.predicate != nil {
		return e.predicate(v)
	}
	return v.Equals(e.expected)
}

// DirectiveOptions carries the optional parts of a directive requirement.
// Empty strings mean "not supplied".
type DirectiveOptions struct {
	// ApproveAbsence also fulfills the requirement when the directive does
	// not exist, e.g. for settings removed in later PHP versions or
	// belonging to an extension that is not loaded.
	ApproveAbsence bool
	TestMessage    string
	HelpHTML       string
	HelpText       string
	Optional       bool
}

// ConfigDirectiveRequirement is a requirement evaluated from an ini directive.
type ConfigDirectiveRequirement struct {
	Requirement
	directive      string
	value          DirectiveValue
	approveAbsence bool
}

// NewConfigDirectiveRequirement reads the directive once from env and
// evaluates it. Predicate evaluations without a test message or help HTML
// fail with a *MissingDescriptionError.
func NewConfigDirectiveRequirement(env DirectiveReader, name string, eval Evaluation, opts DirectiveOptions) (*ConfigDirectiveRequirement, error) {
	value := env.Directive(name)

	if eval.IsPredicate() {
		if opts.TestMessage == "" || opts.HelpHTML == "" {
			return nil, &MissingDescriptionError{Directive: name}
		}
	} else {
		if opts.TestMessage == "" {
			opts.TestMessage = fmt.Sprintf("%s %s be %s in php.ini",
				name, modal(opts.Optional), onOff(eval.expected, "enabled", "disabled"))
		}
		if opts.HelpHTML == "" {
			opts.HelpHTML = fmt.Sprintf(`Set <strong>%s</strong> to <strong>%s</strong> in php.ini<a href="#phpini">*</a>.`,
				name, onOff(eval.expected, "on", "off"))
		}
	}

	fulfilled := eval.evaluate(value) || (opts.ApproveAbsence && !value.IsSet())

	return &ConfigDirectiveRequirement{
		Requirement:    *NewRequirement(fulfilled, opts.TestMessage, opts.HelpHTML, opts.HelpText, opts.Optional),
		directive:      name,
		value:          value,
		approveAbsence: opts.ApproveAbsence,
	}, nil
}

// Directive returns the name of the evaluated directive
func (r *ConfigDirectiveRequirement) Directive() string { return r.directive }

// Value returns the directive value observed at construction
func (r *ConfigDirectiveRequirement) Value() DirectiveValue { return r.value }

// ApprovesAbsence reports whether an unset directive fulfills the requirement
func (r *ConfigDirectiveRequirement) ApprovesAbsence() bool { return r.approveAbsence }

func modal(optional bool) string {
	if optional {
		return "should"
	}
	return "must"
}

func onOff(b bool, on, off string) string {
	if b {
		return on
	}
	return off
}
