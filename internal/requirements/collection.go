package requirements

// ConfigFileLocator reports the ini file the runtime loaded, if any.
type ConfigFileLocator interface {
	ConfigFilePath() (string, bool)
}

// Collection is an ordered set of requirements and recommendations.
// Insertion order is kept and drives report order. The same check may
// appear more than once.
type Collection struct {
	results []Result
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends a requirement.
func (c *Collection) Add(r Result) {
	c.results = append(c.results, r)
}

// AddRequirement appends a mandatory requirement.
func (c *Collection) AddRequirement(fulfilled bool, testMessage, helpHTML, helpText string) {
	c.Add(NewRequirement(fulfilled, testMessage, helpHTML, helpText, false))
}

// AddRecommendation appends an optional recommendation.
func (c *Collection) AddRecommendation(fulfilled bool, testMessage, helpHTML, helpText string) {
	c.Add(NewRequirement(fulfilled, testMessage, helpHTML, helpText, true))
}

// AddConfigDirectiveRequirement appends a mandatory requirement evaluated
// from the named directive. opts.Optional is ignored.
func (c *Collection) AddConfigDirectiveRequirement(env DirectiveReader, name string, eval Evaluation, opts DirectiveOptions) error {
	opts.Optional = false
	return c.addDirective(env, name, eval, opts)
}

// AddConfigDirectiveRecommendation appends an optional recommendation
// evaluated from the named directive. opts.Optional is ignored.
func (c *Collection) AddConfigDirectiveRecommendation(env DirectiveReader, name string, eval Evaluation, opts DirectiveOptions) error {
	opts.Optional = true
	return c.addDirective(env, name, eval, opts)
}

func (c *Collection) addDirective(env DirectiveReader, name string, eval Evaluation, opts DirectiveOptions) error {
	r, err := NewConfigDirectiveRequirement(env, name, eval, opts)
	if err != nil {
		return err
	}
	c.Add(r)
	return nil
}

// AddCollection appends every entry of other, keeping its order. A nil
// other adds nothing.
func (c *Collection) AddCollection(other *Collection) {
	if other == nil {
		return
	}
	c.results = append(c.results, other.results...)
}

// Len returns the number of entries.
func (c *Collection) Len() int { return len(c.results) }

// All returns requirements and recommendations in insertion order.
func (c *Collection) All() []Result {
	return c.filter(func(Result) bool { return true })
}

// Requirements returns all mandatory requirements.
func (c *Collection) Requirements() []Result {
	return c.filter(func(r Result) bool { return !r.IsOptional() })
}

// FailedRequirements returns the mandatory requirements that are not fulfilled.
func (c *Collection) FailedRequirements() []Result {
	return c.filter(func(r Result) bool { return !r.IsOptional() && !r.IsFulfilled() })
}

// Recommendations returns all optional recommendations.
func (c *Collection) Recommendations() []Result {
	return c.filter(func(r Result) bool { return r.IsOptional() })
}

// FailedRecommendations returns the recommendations that are not fulfilled.
func (c *Collection) FailedRecommendations() []Result {
	return c.filter(func(r Result) bool { return r.IsOptional() && !r.IsFulfilled() })
}

// HasConfigFileIssue reports whether any directive requirement failed, which
// means the ini file has to be edited.
func (c *Collection) HasConfigFileIssue() bool {
	for _, r := range c.results {
		if d, ok := r.(*ConfigDirectiveRequirement); ok && !d.IsFulfilled() {
			return true
		}
	}
	return false
}

// ConfigFilePath returns the ini file currently in effect. It is a pass
// through to env and not part of the collection's state.
func (c *Collection) ConfigFilePath(env ConfigFileLocator) (string, bool) {
	return env.ConfigFilePath()
}

func (c *Collection) filter(keep func(Result) bool) []Result {
	out := make([]Result, 0, len(c.results))
	for _, r := range c.results {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
