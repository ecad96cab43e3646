package reconcile

import (
	"encoding/json"
	"fmt"

	"indentflow/internal/domain"
)

// Registry holds the rules an Engine evaluates, in registration order.
type Registry struct {
	rules []Rule
	keys  map[string]bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{keys: make(map[string]bool)}
}

// DefaultRegistry returns a Registry loaded with BuiltinRules.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range BuiltinRules() {
		r.Register(rule)
	}
	return r
}

// Register adds a rule. A rule with an already registered key is ignored.
func (r *Registry) Register(rule Rule) {
	if r.keys[rule.Key()] {
		return
	}
	r.keys[rule.Key()] = true
	r.rules = append(r.rules, rule)
}

// All returns the registered rules.
func (r *Registry) All() []Rule {
	return r.rules
}

// Outcome is the evaluated bill check.
type Outcome struct {
	Status  domain.ReconcileStatus
	Results []Result
}

// JSON encodes the results for storage on the lift.
func (o Outcome) JSON() (json.RawMessage, error) {
	b, err := json.Marshal(o.Results)
	if err != nil {
		return nil, fmt.Errorf("encoding reconcile results: %w", err)
	}
	return b, nil
}

// Engine evaluates a Registry against bills.
type Engine struct {
	registry *Registry
}

// NewEngine creates an Engine over registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Evaluate runs every rule. The bill is matched when all error severity
// rules pass; warnings are reported without affecting the status.
func (e *Engine) Evaluate(b *Bill) Outcome {
	out := Outcome{Status: domain.ReconcileMatched}
	for _, rule := range e.registry.All() {
		res := rule.Check(b)
		out.Results = append(out.Results, res)
		if !res.Passed && res.Severity == SeverityError {
			out.Status = domain.ReconcileMismatch
		}
	}
	return out
}
