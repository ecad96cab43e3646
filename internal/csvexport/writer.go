package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"indentflow/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// IndentColumns is the header row of an indent export.
var IndentColumns = []string{
	"Indent Number",
	"Firm Name",
	"Indenter",
	"Department",
	"Area Of Use",
	"Group Head",
	"Product Name",
	"Specifications",
	"Quantity",
	"UOM",
	"Indent Type",
	"Vendor Type",
	"Approved Quantity",
	"Approval Remarks",
	"Vendor Name",
	"Rate",
	"Payment Term",
	"PO Number",
	"Received Quantity",
	"Issued Quantity",
	"Planned Approval",
	"Actual Approval",
	"Planned Rate",
	"Actual Rate",
	"Planned Three Party",
	"Actual Three Party",
	"Planned PO",
	"Actual PO",
	"Planned Receipt",
	"Actual Receipt",
	"Planned Store Issue",
	"Actual Store Issue",
	"Created At",
}

// LiftColumns is the header row of a lift export.
var LiftColumns = []string{
	"Lift Number",
	"Indent Number",
	"PO Number",
	"Firm Name",
	"Vendor Name",
	"Product Name",
	"Lifted Quantity",
	"Received Quantity",
	"Transporter",
	"Vehicle Number",
	"LR Number",
	"Bill Number",
	"Bill Date",
	"Bill Amount",
	"Quality OK",
	"Reconcile Status",
	"Tally Status",
	"Tally Voucher",
	"Tally Remarks",
	"Correction Remarks",
	"Planned Store In",
	"Actual Store In",
	"Planned Bill Check",
	"Actual Bill Check",
	"Planned Tally",
	"Actual Tally",
	"Planned Correction",
	"Actual Correction",
	"Created At",
}

// Writer wraps csv.Writer for exporting workflow records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteIndents writes the indent header followed by one row per indent.
func (w *Writer) WriteIndents(indents []domain.Indent) error {
	if err := w.csv.Write(IndentColumns); err != nil {
		return err
	}
	for i := range indents {
		if err := w.csv.Write(IndentRow(&indents[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteLifts writes the lift header followed by one row per lift.
func (w *Writer) WriteLifts(lifts []domain.Lift) error {
	if err := w.csv.Write(LiftColumns); err != nil {
		return err
	}
	for i := range lifts {
		if err := w.csv.Write(LiftRow(&lifts[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// IndentRow renders an indent in IndentColumns order.
func IndentRow(in *domain.Indent) []string {
	return []string{
		in.IndentNumber,
		in.FirmName,
		in.IndenterName,
		in.Department,
		in.AreaOfUse,
		in.GroupHead,
		in.ProductName,
		in.Specifications,
		in.Quantity.String(),
		in.UOM,
		string(in.IndentType),
		string(in.VendorType),
		formatNullDecimal(in.ApprovedQuantity, -1),
		in.ApprovalRemarks,
		in.VendorName,
		formatNullDecimal(in.Rate, 2),
		in.PaymentTerm,
		in.PONumber,
		in.ReceivedQuantity.String(),
		formatNullDecimal(in.IssuedQuantity, -1),
		formatTime(in.PlannedApproval),
		formatTime(in.ActualApproval),
		formatTime(in.PlannedRate),
		formatTime(in.ActualRate),
		formatTime(in.PlannedThreeParty),
		formatTime(in.ActualThreeParty),
		formatTime(in.PlannedPO),
		formatTime(in.ActualPO),
		formatTime(in.PlannedReceipt),
		formatTime(in.ActualReceipt),
		formatTime(in.PlannedStoreIssue),
		formatTime(in.ActualStoreIssue),
		in.CreatedAt.Format(time.RFC3339),
	}
}

// LiftRow renders a lift in LiftColumns order.
func LiftRow(l *domain.Lift) []string {
	return []string{
		l.LiftNumber,
		l.IndentNumber,
		l.PONumber,
		l.FirmName,
		l.VendorName,
		l.ProductName,
		l.LiftedQuantity.String(),
		formatNullDecimal(l.ReceivedQuantity, -1),
		l.TransporterName,
		l.VehicleNumber,
		l.LRNumber,
		l.BillNumber,
		formatDate(l.BillDate),
		formatNullDecimal(l.BillAmount, 2),
		formatBoolPtr(l.QualityOK),
		string(l.ReconcileStatus),
		string(l.TallyStatus),
		l.TallyVoucher,
		l.TallyRemarks,
		l.CorrectionRemarks,
		formatTime(l.PlannedStoreIn),
		formatTime(l.ActualStoreIn),
		formatTime(l.PlannedBillCheck),
		formatTime(l.ActualBillCheck),
		formatTime(l.PlannedTally),
		formatTime(l.ActualTally),
		formatTime(l.PlannedCorrection),
		formatTime(l.ActualCorrection),
		l.CreatedAt.Format(time.RFC3339),
	}
}

// formatNullDecimal renders d with places decimals, or as-is when places < 0.
func formatNullDecimal(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return ""
	}
	if places < 0 {
		return d.Decimal.String()
	}
	return d.Decimal.StringFixed(places)
}

func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename such as
// indents_approval_pending_2026-01-31.csv.
func BuildFilename(base, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(base), now.Format("2006-01-02"), ext)
}
