package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// billDay formats t as a calendar date in the bill date's own zone, so every
// date rule compares days in one zone.
func billDay(b *Bill, t time.Time) string {
	loc := time.UTC
	if b.Lift.BillDate != nil {
		loc = b.Lift.BillDate.Location()
	}
	return t.In(loc).Format(dateLayout)
}

func fmtDec(d decimal.Decimal) string { return d.StringFixed(2) }

// BuiltinRules returns the default rule set.
func BuiltinRules() []Rule {
	return []Rule{
		&rule{
			key: "bill.number.required", name: "Bill number present", severity: SeverityError,
			check: func(b *Bill) (bool, string, string, string) {
				n := strings.TrimSpace(b.Lift.BillNumber)
				return n != "", "bill_number", "non-empty", n
			},
		},
		&rule{
			key: "bill.date.not_future", name: "Bill date not in the future", severity: SeverityError,
			check: func(b *Bill) (bool, string, string, string) {
				today := billDay(b, b.Now)
				if b.Lift.BillDate == nil {
					return false, "bill_date", "<= " + today, "missing"
				}
				got := billDay(b, *b.Lift.BillDate)
				return got <= today, "bill_date", "<= " + today, got
			},
		},
		&rule{
			key: "bill.date.after_po", name: "Bill date not before PO date", severity: SeverityError,
			check: func(b *Bill) (bool, string, string, string) {
				poDate := poDate(b)
				if poDate == "" || b.Lift.BillDate == nil {
					return true, "bill_date", "n/a", "n/a"
				}
				got := billDay(b, *b.Lift.BillDate)
				return got >= poDate, "bill_date", ">= " + poDate, got
			},
		},
		&rule{
			key: "quantity.received_matches_lifted", name: "Received quantity equals lifted quantity", severity: SeverityError,
			check: func(b *Bill) (bool, string, string, string) {
				expected := b.Lift.LiftedQuantity
				if !b.Lift.ReceivedQuantity.Valid {
					return false, "received_quantity", expected.String(), "missing"
				}
				got := b.Lift.ReceivedQuantity.Decimal
				return got.Equal(expected), "received_quantity", expected.String(), got.String()
			},
		},
		&rule{
			key: "amount.matches_expected", name: "Bill amount matches received value with GST", severity: SeverityError,
			check: func(b *Bill) (bool, string, string, string) {
				expected, ok := ExpectedAmount(b)
				if !ok {
					return false, "bill_amount", "rate and received quantity", "missing"
				}
				if !b.Lift.BillAmount.Valid {
					return false, "bill_amount", fmtDec(expected), "missing"
				}
				got := b.Lift.BillAmount.Decimal
				diff := got.Sub(expected).Abs()
				return diff.LessThanOrEqual(Tolerance), "bill_amount", fmtDec(expected), fmtDec(got)
			},
		},
		&rule{
			key: "quality.accepted", name: "Goods accepted at store", severity: SeverityWarning,
			check: func(b *Bill) (bool, string, string, string) {
				if b.Lift.QualityOK == nil {
					return false, "quality_ok", "true", "missing"
				}
				if *b.Lift.QualityOK {
					return true, "quality_ok", "true", "true"
				}
				return false, "quality_ok", "true", "false"
			},
		},
	}
}

// ExpectedAmount is received quantity x rate x (1 + gst%), rounded to 2
// places. GST comes from the PO, or zero without one.
func ExpectedAmount(b *Bill) (decimal.Decimal, bool) {
	if !b.Indent.Rate.Valid || !b.Lift.ReceivedQuantity.Valid {
		return decimal.Zero, false
	}
	gst := decimal.Zero
	if b.PO != nil {
		gst = b.PO.GSTPercent
	}
	factor := decimal.NewFromInt(1).Add(gst.Div(decimal.NewFromInt(100)))
	return b.Lift.ReceivedQuantity.Decimal.Mul(b.Indent.Rate.Decimal).Mul(factor).Round(2), true
}

func poDate(b *Bill) string {
	if b.PO != nil {
		return billDay(b, b.PO.CreatedAt)
	}
	if b.Indent.ActualPO != nil {
		return billDay(b, *b.Indent.ActualPO)
	}
	return ""
}
