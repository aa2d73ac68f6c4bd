// Package requirements evaluates preconditions about a host PHP runtime.
//
// A Requirement is an already-resolved fact: it is evaluated once, at
// construction, and never changes afterwards. Requirements are grouped in
// an ordered Collection whose queries split them into mandatory
// requirements and optional recommendations, failed or not.
//
// ConfigDirectiveRequirement derives its outcome from a named ini
// directive. Directives are three-state (unset, truthy, falsy); see
// DirectiveValue for the coercion rule used when a directive is compared
// against a fixed boolean.
package requirements
