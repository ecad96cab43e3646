package xlsx

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"indentflow/internal/domain"
)

// ImportRow is one parsed sheet row. Row is the 1-based sheet row number.
type ImportRow struct {
	Row    int
	Indent domain.Indent
}

// RowError reports a sheet row that could not be imported.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult is the outcome of parsing an indent sheet.
type ImportResult struct {
	Rows   []ImportRow
	Errors []RowError
}

type field int

const (
	fieldIndentNumber field = iota
	fieldFirmName
	fieldIndenterName
	fieldDepartment
	fieldAreaOfUse
	fieldGroupHead
	fieldProductName
	fieldSpecifications
	fieldQuantity
	fieldUOM
	fieldIndentType
	fieldVendorType
	fieldApprovedQuantity
	fieldApprovalRemarks
	fieldVendorName
	fieldRate
	fieldPaymentTerm
	fieldPONumber
	fieldPlannedApproval
	fieldActualApproval
	fieldPlannedRate
	fieldActualRate
	fieldPlannedThreeParty
	fieldActualThreeParty
	fieldPlannedPO
	fieldActualPO
	fieldPlannedReceipt
	fieldActualReceipt
	fieldPlannedStoreIssue
	fieldActualStoreIssue
)

// headerAliases maps normalized header text to a field. Normalized headers
// are lower case with everything but letters and digits removed, so the
// export's own headers import back unchanged.
var headerAliases = map[string]field{
	"indentnumber": fieldIndentNumber, "indentno": fieldIndentNumber, "indentid": fieldIndentNumber,
	"firmname": fieldFirmName, "firm": fieldFirmName,
	"indenter": fieldIndenterName, "indentername": fieldIndenterName, "indentby": fieldIndenterName,
	"department": fieldDepartment, "dept": fieldDepartment,
	"areaofuse": fieldAreaOfUse,
	"grouphead": fieldGroupHead,
	"productname": fieldProductName, "product": fieldProductName, "itemname": fieldProductName,
	"specifications": fieldSpecifications, "specification": fieldSpecifications,
	"quantity": fieldQuantity, "qty": fieldQuantity,
	"uom": fieldUOM, "unit": fieldUOM,
	"indenttype": fieldIndentType,
	"vendortype": fieldVendorType,
	"approvedquantity": fieldApprovedQuantity, "approvedqty": fieldApprovedQuantity,
	"approvalremarks": fieldApprovalRemarks, "remarks": fieldApprovalRemarks,
	"vendorname": fieldVendorName, "vendor": fieldVendorName,
	"rate": fieldRate,
	"paymentterm": fieldPaymentTerm, "paymentterms": fieldPaymentTerm,
	"ponumber": fieldPONumber, "pono": fieldPONumber,
	"plannedapproval": fieldPlannedApproval, "planned1": fieldPlannedApproval,
	"actualapproval": fieldActualApproval, "actual1": fieldActualApproval,
	"plannedrate": fieldPlannedRate, "planned2": fieldPlannedRate,
	"actualrate": fieldActualRate, "actual2": fieldActualRate,
	"plannedthreeparty": fieldPlannedThreeParty,
	"actualthreeparty": fieldActualThreeParty,
	"plannedpo": fieldPlannedPO, "planned3": fieldPlannedPO,
	"actualpo": fieldActualPO, "actual3": fieldActualPO,
	"plannedreceipt": fieldPlannedReceipt, "planned4": fieldPlannedReceipt,
	"actualreceipt": fieldActualReceipt, "actual4": fieldActualReceipt,
	"plannedstoreissue": fieldPlannedStoreIssue,
	"actualstoreissue": fieldActualStoreIssue,
}

var requiredFields = map[field]string{
	fieldFirmName:    "Firm Name",
	fieldProductName: "Product Name",
	fieldQuantity:    "Quantity",
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"1/2/06 15:04",
	"1/2/06",
}

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseIndents reads the first sheet of a workbook. The first non-empty row
// is the header; unknown columns are ignored. It fails with
// domain.ErrInvalidImport when the workbook is unreadable or a required column
// is missing. Bad rows are reported in ImportResult.Errors.
func ParseIndents(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImport, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w: sheet is empty", domain.ErrInvalidImport)
	}

	columns := make(map[field]int)
	for i, h := range rows[headerIdx] {
		if fld, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, seen := columns[fld]; !seen {
				columns[fld] = i
			}
		}
	}
	for fld, name := range requiredFields {
		if _, ok := columns[fld]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrInvalidImport, name)
		}
	}

	result := &ImportResult{}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		indent, err := parseRow(row, columns)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		result.Rows = append(result.Rows, ImportRow{Row: i + 1, Indent: indent})
	}
	return result, nil
}

func parseRow(row []string, columns map[field]int) (domain.Indent, error) {
	get := func(fld field) string {
		idx, ok := columns[fld]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	in := domain.Indent{
		IndentNumber:    strings.ToUpper(get(fieldIndentNumber)),
		FirmName:        get(fieldFirmName),
		IndenterName:    get(fieldIndenterName),
		Department:      get(fieldDepartment),
		AreaOfUse:       get(fieldAreaOfUse),
		GroupHead:       get(fieldGroupHead),
		ProductName:     get(fieldProductName),
		Specifications:  get(fieldSpecifications),
		UOM:             get(fieldUOM),
		ApprovalRemarks: get(fieldApprovalRemarks),
		VendorName:      get(fieldVendorName),
		PaymentTerm:     get(fieldPaymentTerm),
		PONumber:        strings.ToUpper(get(fieldPONumber)),
		IndentType:      domain.IndentTypePurchase,
		VendorType:      domain.VendorTypePending,
	}
	if in.FirmName == "" {
		return in, fmt.Errorf("firm name is required")
	}
	if in.ProductName == "" {
		return in, fmt.Errorf("product name is required")
	}

	qty, err := decimal.NewFromString(get(fieldQuantity))
	if err != nil || !qty.IsPositive() {
		return in, fmt.Errorf("quantity %q must be a positive number", get(fieldQuantity))
	}
	in.Quantity = qty

	if v := get(fieldIndentType); v != "" {
		switch normalizeHeader(v) {
		case "purchase":
			in.IndentType = domain.IndentTypePurchase
		case "storeout":
			in.IndentType = domain.IndentTypeStoreOut
		default:
			return in, fmt.Errorf("unknown indent type %q", v)
		}
	}
	if v := get(fieldVendorType); v != "" {
		vt, ok := parseVendorType(v)
		if !ok {
			return in, fmt.Errorf("unknown vendor type %q", v)
		}
		in.VendorType = vt
	}
	if in.ApprovedQuantity, err = parseNullDecimal(get(fieldApprovedQuantity)); err != nil {
		return in, fmt.Errorf("approved quantity: %w", err)
	}
	if in.Rate, err = parseNullDecimal(get(fieldRate)); err != nil {
		return in, fmt.Errorf("rate: %w", err)
	}

	times := []struct {
		fld field
		dst **time.Time
	}{
		{fieldPlannedApproval, &in.PlannedApproval}, {fieldActualApproval, &in.ActualApproval},
		{fieldPlannedRate, &in.PlannedRate}, {fieldActualRate, &in.ActualRate},
		{fieldPlannedThreeParty, &in.PlannedThreeParty}, {fieldActualThreeParty, &in.ActualThreeParty},
		{fieldPlannedPO, &in.PlannedPO}, {fieldActualPO, &in.ActualPO},
		{fieldPlannedReceipt, &in.PlannedReceipt}, {fieldActualReceipt, &in.ActualReceipt},
		{fieldPlannedStoreIssue, &in.PlannedStoreIssue}, {fieldActualStoreIssue, &in.ActualStoreIssue},
	}
	for _, t := range times {
		raw := get(t.fld)
		if raw == "" {
			continue
		}
		ts, err := parseTime(raw)
		if err != nil {
			return in, err
		}
		*t.dst = &ts
	}
	return in, nil
}

func parseVendorType(v string) (domain.VendorType, bool) {
	for _, vt := range []domain.VendorType{
		domain.VendorTypePending, domain.VendorTypeRegular, domain.VendorTypeNewVendor,
		domain.VendorTypeReject, domain.VendorTypeThreeParty,
	} {
		if normalizeHeader(string(vt)) == normalizeHeader(v) {
			return vt, true
		}
	}
	return "", false
}

func parseNullDecimal(raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%q is not a number", raw)
	}
	return decimal.NewNullDecimal(d), nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	// Unformatted date cells come through as serial numbers.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
