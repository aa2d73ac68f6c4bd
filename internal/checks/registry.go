package checks

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrRuleSetExists is returned when registering a duplicate rule set id
	ErrRuleSetExists = errors.New("rule set already registered")
	// ErrRuleSetNotFound is returned for unknown rule set ids
	ErrRuleSetNotFound = errors.New("rule set not found")
)

// CheckRegistry holds the available rule sets by id
type CheckRegistry struct {
	ruleSets map[string]RuleSet
}

// NewCheckRegistry creates an empty registry
func NewCheckRegistry() *CheckRegistry {
	return &CheckRegistry{ruleSets: make(map[string]RuleSet)}
}

// DefaultRegistry returns a registry with the built-in rule sets
func DefaultRegistry() *CheckRegistry {
	r := NewCheckRegistry()
	for _, rs := range []RuleSet{StandardRuleSet{}, LegacyRuleSet{}} {
		// ids are distinct constants
		_ = r.Register(rs)
	}
	return r
}

// Register adds a rule set
func (r *CheckRegistry) Register(rs RuleSet) error {
	if rs == nil {
		return errors.New("rule set cannot be nil")
	}
	id := rs.ID()
	if id == "" {
		return errors.New("rule set id cannot be empty")
	}
	if _, exists := r.ruleSets[id]; exists {
		return fmt.Errorf("%w: %s", ErrRuleSetExists, id)
	}
	r.ruleSets[id] = rs
	return nil
}

// Get returns the rule set registered under id
func (r *CheckRegistry) Get(id string) (RuleSet, error) {
	rs, ok := r.ruleSets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRuleSetNotFound, id)
	}
	return rs, nil
}

// IDs returns the registered ids in sorted order
func (r *CheckRegistry) IDs() []string {
	ids := make([]string, 0, len(r.ruleSets))
	for id := range r.ruleSets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered rule sets
func (r *CheckRegistry) Count() int {
	return len(r.ruleSets)
}
