package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant represents an isolated organization.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a tenant.
// FirmNameMatch is either a firm name or FirmMatchAll.
type User struct {
	ID            uuid.UUID `db:"id" json:"id"`
	TenantID      uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	FullName      string    `db:"full_name" json:"full_name"`
	Role          UserRole  `db:"role" json:"role"`
	FirmNameMatch string    `db:"firm_name_match" json:"firm_name_match"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// FirmScope is the caller's firm restriction applied to every query.
type FirmScope string

// AllowsFirm reports whether a record of the given firm is visible under the scope.
func (s FirmScope) AllowsFirm(firm string) bool {
	if s.IsAll() {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(string(s)), strings.TrimSpace(firm))
}

// IsAll reports whether the scope is unrestricted.
func (s FirmScope) IsAll() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), FirmMatchAll)
}

// FileMeta stores metadata about an uploaded file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TenantID     uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Quote is one vendor offer collected during three party sourcing.
type Quote struct {
	VendorName      string          `json:"vendor_name"`
	Rate            decimal.Decimal `json:"rate"`
	PaymentTerm     string          `json:"payment_term"`
	QuotationFileID *uuid.UUID      `json:"quotation_file_id,omitempty"`
}

// Quotes is stored as a JSONB array.
type Quotes []Quote

// Value implements driver.Valuer.
func (q Quotes) Value() (driver.Value, error) {
	if q == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q)
}

// Scan implements sql.Scanner.
func (q *Quotes) Scan(src interface{}) error {
	return scanJSON(src, q)
}

// StringList is stored as a JSONB array of strings.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported JSON column type")
	}
}

// Indent is an internal purchase request and carries the planned/actual pair
// of every indent stage.
type Indent struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	TenantID         uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	IndentNumber     string          `db:"indent_number" json:"indent_number"`
	FirmName         string          `db:"firm_name" json:"firm_name"`
	IndenterName     string          `db:"indenter_name" json:"indenter_name"`
	Department       string          `db:"department" json:"department"`
	AreaOfUse        string          `db:"area_of_use" json:"area_of_use"`
	GroupHead        string          `db:"group_head" json:"group_head"`
	ProductName      string          `db:"product_name" json:"product_name"`
	Specifications   string          `db:"specifications" json:"specifications"`
	Quantity         decimal.Decimal `db:"quantity" json:"quantity"`
	UOM              string          `db:"uom" json:"uom"`
	IndentType       IndentType      `db:"indent_type" json:"indent_type"`
	AttachmentFileID *uuid.UUID      `db:"attachment_file_id" json:"attachment_file_id"`

	VendorType       VendorType          `db:"vendor_type" json:"vendor_type"`
	ApprovedQuantity decimal.NullDecimal `db:"approved_quantity" json:"approved_quantity"`
	ApprovedBy       *uuid.UUID          `db:"approved_by" json:"approved_by"`
	ApprovalRemarks  string              `db:"approval_remarks" json:"approval_remarks"`
	PlannedApproval  *time.Time          `db:"planned_approval" json:"planned_approval"`
	ActualApproval   *time.Time          `db:"actual_approval" json:"actual_approval"`

	VendorID        *uuid.UUID          `db:"vendor_id" json:"vendor_id"`
	VendorName      string              `db:"vendor_name" json:"vendor_name"`
	Rate            decimal.NullDecimal `db:"rate" json:"rate"`
	PaymentTerm     string              `db:"payment_term" json:"payment_term"`
	QuotationFileID *uuid.UUID          `db:"quotation_file_id" json:"quotation_file_id"`
	Quotes          Quotes              `db:"quotes" json:"quotes"`
	PlannedRate     *time.Time          `db:"planned_rate" json:"planned_rate"`
	ActualRate      *time.Time          `db:"actual_rate" json:"actual_rate"`

	ApprovedQuoteIndex *int       `db:"approved_quote_index" json:"approved_quote_index"`
	PlannedThreeParty  *time.Time `db:"planned_three_party" json:"planned_three_party"`
	ActualThreeParty   *time.Time `db:"actual_three_party" json:"actual_three_party"`

	POID      *uuid.UUID `db:"po_id" json:"po_id"`
	PONumber  string     `db:"po_number" json:"po_number"`
	PlannedPO *time.Time `db:"planned_po" json:"planned_po"`
	ActualPO  *time.Time `db:"actual_po" json:"actual_po"`

	ReceivedQuantity decimal.Decimal `db:"received_quantity" json:"received_quantity"`
	PlannedReceipt   *time.Time      `db:"planned_receipt" json:"planned_receipt"`
	ActualReceipt    *time.Time      `db:"actual_receipt" json:"actual_receipt"`

	IssuedQuantity    decimal.NullDecimal `db:"issued_quantity" json:"issued_quantity"`
	IssuedBy          *uuid.UUID          `db:"issued_by" json:"issued_by"`
	PlannedStoreIssue *time.Time          `db:"planned_store_issue" json:"planned_store_issue"`
	ActualStoreIssue  *time.Time          `db:"actual_store_issue" json:"actual_store_issue"`

	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Version   int       `db:"version" json:"version"`

	// CurrentStage is derived from the stage pairs and never stored.
	CurrentStage Stage `db:"-" json:"current_stage,omitempty"`
}

// EffectiveQuantity is the approved quantity when set, else the requested one.
func (i *Indent) EffectiveQuantity() decimal.Decimal {
	if i.ApprovedQuantity.Valid {
		return i.ApprovedQuantity.Decimal
	}
	return i.Quantity
}

// Lift is a goods receipt event against a purchase ordered indent.
type Lift struct {
	ID               uuid.UUID           `db:"id" json:"id"`
	TenantID         uuid.UUID           `db:"tenant_id" json:"tenant_id"`
	LiftNumber       string              `db:"lift_number" json:"lift_number"`
	IndentID         uuid.UUID           `db:"indent_id" json:"indent_id"`
	IndentNumber     string              `db:"indent_number" json:"indent_number"`
	POID             *uuid.UUID          `db:"po_id" json:"po_id"`
	PONumber         string              `db:"po_number" json:"po_number"`
	FirmName         string              `db:"firm_name" json:"firm_name"`
	VendorName       string              `db:"vendor_name" json:"vendor_name"`
	ProductName      string              `db:"product_name" json:"product_name"`
	LiftedQuantity   decimal.Decimal     `db:"lifted_quantity" json:"lifted_quantity"`
	ReceivedQuantity decimal.NullDecimal `db:"received_quantity" json:"received_quantity"`
	TransporterName  string              `db:"transporter_name" json:"transporter_name"`
	VehicleNumber    string              `db:"vehicle_number" json:"vehicle_number"`
	LRNumber         string              `db:"lr_number" json:"lr_number"`
	BillNumber       string              `db:"bill_number" json:"bill_number"`
	BillDate         *time.Time          `db:"bill_date" json:"bill_date"`
	BillAmount       decimal.NullDecimal `db:"bill_amount" json:"bill_amount"`
	BillFileID       *uuid.UUID          `db:"bill_file_id" json:"bill_file_id"`

	QualityOK      *bool      `db:"quality_ok" json:"quality_ok"`
	StoreRemarks   string     `db:"store_remarks" json:"store_remarks"`
	PlannedStoreIn *time.Time `db:"planned_store_in" json:"planned_store_in"`
	ActualStoreIn  *time.Time `db:"actual_store_in" json:"actual_store_in"`

	ReconcileStatus  ReconcileStatus `db:"reconcile_status" json:"reconcile_status"`
	ReconcileResults json.RawMessage `db:"reconcile_results" json:"reconcile_results"`
	PlannedBillCheck *time.Time      `db:"planned_bill_check" json:"planned_bill_check"`
	ActualBillCheck  *time.Time      `db:"actual_bill_check" json:"actual_bill_check"`

	TallyStatus  TallyStatus `db:"tally_status" json:"tally_status"`
	TallyVoucher string      `db:"tally_voucher" json:"tally_voucher"`
	TallyRemarks string      `db:"tally_remarks" json:"tally_remarks"`
	PlannedTally *time.Time  `db:"planned_tally" json:"planned_tally"`
	ActualTally  *time.Time  `db:"actual_tally" json:"actual_tally"`

	CorrectionRemarks string     `db:"correction_remarks" json:"correction_remarks"`
	PlannedCorrection *time.Time `db:"planned_correction" json:"planned_correction"`
	ActualCorrection  *time.Time `db:"actual_correction" json:"actual_correction"`

	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Version   int       `db:"version" json:"version"`

	// CurrentStage is derived from the stage pairs and never stored.
	CurrentStage Stage `db:"-" json:"current_stage,omitempty"`
}

// PurchaseOrder groups indents of one firm and vendor into a single order.
type PurchaseOrder struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	TenantID        uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	PONumber        string          `db:"po_number" json:"po_number"`
	FirmName        string          `db:"firm_name" json:"firm_name"`
	VendorID        *uuid.UUID      `db:"vendor_id" json:"vendor_id"`
	VendorName      string          `db:"vendor_name" json:"vendor_name"`
	VendorEmail     string          `db:"vendor_email" json:"vendor_email"`
	VendorAddress   string          `db:"vendor_address" json:"vendor_address"`
	VendorGSTIN     string          `db:"vendor_gstin" json:"vendor_gstin"`
	QuotationNumber string          `db:"quotation_number" json:"quotation_number"`
	QuotationDate   *time.Time      `db:"quotation_date" json:"quotation_date"`
	DeliveryDate    *time.Time      `db:"delivery_date" json:"delivery_date"`
	PaymentTerms    string          `db:"payment_terms" json:"payment_terms"`
	Terms           StringList      `db:"terms" json:"terms"`
	GSTPercent      decimal.Decimal `db:"gst_percent" json:"gst_percent"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	GSTAmount       decimal.Decimal `db:"gst_amount" json:"gst_amount"`
	Total           decimal.Decimal `db:"total" json:"total"`
	PDFFileID       *uuid.UUID      `db:"pdf_file_id" json:"pdf_file_id"`
	CreatedBy       uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`

	Lines []POLine `db:"-" json:"lines,omitempty"`
}

// POLine is one indent rendered as a purchase order row.
type POLine struct {
	IndentID       uuid.UUID       `json:"indent_id"`
	IndentNumber   string          `json:"indent_number"`
	ProductName    string          `json:"product_name"`
	Specifications string          `json:"specifications"`
	Quantity       decimal.Decimal `json:"quantity"`
	UOM            string          `json:"uom"`
	Rate           decimal.Decimal `json:"rate"`
	Amount         decimal.Decimal `json:"amount"`
}

// Vendor is a supplier master record.
type Vendor struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TenantID    uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	Address     string    `db:"address" json:"address"`
	GSTIN       string    `db:"gstin" json:"gstin"`
	PaymentTerm string    `db:"payment_term" json:"payment_term"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// MasterOption is a single dropdown value of a kind.
type MasterOption struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	TenantID  uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Kind      MasterKind `db:"kind" json:"kind"`
	Value     string     `db:"value" json:"value"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// AuditEntry records a single mutation of a workflow record.
type AuditEntry struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	TenantID   uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	EntityType EntityType      `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID       `db:"entity_id" json:"entity_id"`
	UserID     *uuid.UUID      `db:"user_id" json:"user_id"`
	Action     string          `db:"action" json:"action"`
	Changes    json.RawMessage `db:"changes" json:"changes"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// StageFilter selects one side of one stage for a listing.
type StageFilter struct {
	Stage  Stage
	View   View
	Firm   string
	Search string
	Scope  FirmScope
	Offset int
	Limit  int
}

// StageCount is a pending counter for a single stage.
type StageCount struct {
	Stage   Stage `db:"stage" json:"stage"`
	Pending int   `db:"pending" json:"pending"`
}

// DashboardStats aggregates the pending work visible to a caller.
type DashboardStats struct {
	Indents      []StageCount    `json:"indents"`
	Lifts        []StageCount    `json:"lifts"`
	OpenPOCount  int             `json:"open_po_count"`
	OpenPOValue  decimal.Decimal `json:"open_po_value"`
	TotalIndents int             `json:"total_indents"`
}

// OverdueItem is a stage pending longer than the escalation threshold.
type OverdueItem struct {
	EntityType EntityType `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID  `db:"entity_id" json:"entity_id"`
	TenantID   uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Number     string     `db:"number" json:"number"`
	FirmName   string     `db:"firm_name" json:"firm_name"`
	Stage      Stage      `db:"stage" json:"stage"`
	PlannedAt  time.Time  `db:"planned_at" json:"planned_at"`
}

// Actor identifies the caller of a service operation.
type Actor struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     UserRole
	Scope    FirmScope
}

// Event is a realtime notification about a changed record.
type Event struct {
	Type     EntityType `json:"type"`
	ID       uuid.UUID  `json:"id"`
	Number   string     `json:"number,omitempty"`
	Action   string     `json:"action"`
	FirmName string     `json:"firm_name"`
	Stage    Stage      `json:"stage,omitempty"`
}

// EventStageOverdue is the action of events raised by the overdue monitor.
const EventStageOverdue = "stage_overdue"
