// Package reconcile checks a lift's vendor bill against the purchase order
// and the goods actually received.
package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"indentflow/internal/domain"
)

// Severity decides whether a failed rule blocks a match.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Tolerance is the largest accepted difference between the billed and the
// expected amount.
var Tolerance = decimal.NewFromInt(1)

// Bill is the data a bill check runs against.
type Bill struct {
	Lift   *domain.Lift
	Indent *domain.Indent
	// PO may be nil for indents imported without a purchase order record.
	PO  *domain.PurchaseOrder
	Now time.Time
}

// Result is the outcome of one rule.
type Result struct {
	RuleKey  string   `json:"rule_key"`
	RuleName string   `json:"rule_name"`
	Severity Severity `json:"severity"`
	Passed   bool     `json:"passed"`
	Field    string   `json:"field"`
	Expected string   `json:"expected_value"`
	Actual   string   `json:"actual_value"`
	Message  string   `json:"message"`
}

// Rule is a single bill check.
type Rule interface {
	Key() string
	Name() string
	Severity() Severity
	Check(b *Bill) Result
}

type rule struct {
	key      string
	name     string
	severity Severity
	check    func(b *Bill) (passed bool, field, expected, actual string)
}

func (r *rule) Key() string        { return r.key }
func (r *rule) Name() string       { return r.name }
func (r *rule) Severity() Severity { return r.severity }

func (r *rule) Check(b *Bill) Result {
	passed, field, expected, actual := r.check(b)
	msg := r.name + ": ok"
	if !passed {
		msg = r.name + ": expected " + expected + ", got " + actual
	}
	return Result{
		RuleKey: r.key, RuleName: r.name, Severity: r.severity, Passed: passed,
		Field: field, Expected: expected, Actual: actual, Message: msg,
	}
}
