package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"indentflow/internal/domain"
	"indentflow/internal/numbering"
	"indentflow/internal/port"
	"indentflow/internal/workflow"
	"indentflow/internal/xlsx"
)

// CreateIndentInput is the DTO for raising an indent.
type CreateIndentInput struct {
	FirmName         string            `json:"firm_name" binding:"required"`
	IndenterName     string            `json:"indenter_name" binding:"required"`
	Department       string            `json:"department"`
	AreaOfUse        string            `json:"area_of_use"`
	GroupHead        string            `json:"group_head"`
	ProductName      string            `json:"product_name" binding:"required"`
	Specifications   string            `json:"specifications"`
	Quantity         decimal.Decimal   `json:"quantity"`
	UOM              string            `json:"uom" binding:"required"`
	IndentType       domain.IndentType `json:"indent_type"`
	AttachmentFileID *uuid.UUID        `json:"attachment_file_id"`
}

// ApproveIndentInput is the DTO for the approval stage.
type ApproveIndentInput struct {
	VendorType       domain.VendorType `json:"vendor_type"`
	ApprovedQuantity decimal.Decimal   `json:"approved_quantity"`
	Remarks          string            `json:"remarks"`
	Version          int               `json:"version"`
}

// UpdateRateInput is the DTO for the vendor rate stage. Three party indents
// send Quotes; all others send a single vendor and rate.
type UpdateRateInput struct {
	VendorID        *uuid.UUID      `json:"vendor_id"`
	VendorName      string          `json:"vendor_name"`
	Rate            decimal.Decimal `json:"rate"`
	PaymentTerm     string          `json:"payment_term"`
	QuotationFileID *uuid.UUID      `json:"quotation_file_id"`
	Quotes          []domain.Quote  `json:"quotes"`
	Version         int             `json:"version"`
}

// ThreePartyInput selects the winning quote of a three party indent.
type ThreePartyInput struct {
	QuoteIndex int    `json:"quote_index"`
	Remarks    string `json:"remarks"`
	Version    int    `json:"version"`
}

// StoreIssueInput is the DTO for issuing a Store Out indent from stock.
type StoreIssueInput struct {
	IssuedQuantity decimal.Decimal `json:"issued_quantity"`
	Version        int             `json:"version"`
}

// IndentAnomaly pairs an indent with the inconsistencies found on it.
type IndentAnomaly struct {
	IndentID     uuid.UUID          `json:"indent_id"`
	IndentNumber string             `json:"indent_number"`
	FirmName     string             `json:"firm_name"`
	Anomalies    []workflow.Anomaly `json:"anomalies"`
}

// ImportReport summarizes a bulk indent import.
type ImportReport struct {
	Imported  int             `json:"imported"`
	Numbers   []string        `json:"numbers"`
	Errors    []xlsx.RowError `json:"errors"`
	Anomalies []IndentAnomaly `json:"anomalies"`
}

// IndentService defines the indent workflow contract. Every method is scoped
// to the actor's tenant and firm match.
type IndentService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateIndentInput) (*domain.Indent, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Indent, error)
	ListByStage(ctx context.Context, actor domain.Actor, filter domain.StageFilter) ([]domain.Indent, int, error)
	Approve(ctx context.Context, actor domain.Actor, id uuid.UUID, input ApproveIndentInput) (*domain.Indent, error)
	UpdateRate(ctx context.Context, actor domain.Actor, id uuid.UUID, input UpdateRateInput) (*domain.Indent, error)
	ApproveThreeParty(ctx context.Context, actor domain.Actor, id uuid.UUID, input ThreePartyInput) (*domain.Indent, error)
	IssueFromStore(ctx context.Context, actor domain.Actor, id uuid.UUID, input StoreIssueInput) (*domain.Indent, error)
	History(ctx context.Context, actor domain.Actor, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error)
	Anomalies(ctx context.Context, actor domain.Actor) ([]IndentAnomaly, error)
	Import(ctx context.Context, actor domain.Actor, r io.Reader) (*ImportReport, error)
}

type indentService struct {
	indentRepo port.IndentRepository
	vendorRepo port.VendorRepository
	auditRepo  port.AuditRepository
	sequences  SequenceService
	activity   *activity
	logger     *zap.Logger
	now        func() time.Time
}

// NewIndentService creates a new IndentService implementation.
func NewIndentService(
	indentRepo port.IndentRepository,
	vendorRepo port.VendorRepository,
	auditRepo port.AuditRepository,
	sequences SequenceService,
	events port.EventPublisher,
	logger *zap.Logger,
) IndentService {
	return &indentService{
		indentRepo: indentRepo,
		vendorRepo: vendorRepo,
		auditRepo:  auditRepo,
		sequences:  sequences,
		activity:   newActivity(auditRepo, events, logger),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *indentService) Create(ctx context.Context, actor domain.Actor, input CreateIndentInput) (*domain.Indent, error) {
	firm := strings.TrimSpace(input.FirmName)
	if firm == "" || strings.TrimSpace(input.ProductName) == "" {
		return nil, fmt.Errorf("%w: firm name and product name are required", domain.ErrValidation)
	}
	if !actor.Scope.AllowsFirm(firm) {
		return nil, domain.ErrFirmForbidden
	}
	if !input.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidQuantity)
	}
	indentType := input.IndentType
	if indentType == "" {
		indentType = domain.IndentTypePurchase
	}
	if indentType != domain.IndentTypePurchase && indentType != domain.IndentTypeStoreOut {
		return nil, fmt.Errorf("%w: unknown indent type %q", domain.ErrValidation, indentType)
	}

	number, err := s.sequences.Next(ctx, actor.TenantID, numbering.PrefixIndent)
	if err != nil {
		return nil, err
	}

	indent := &domain.Indent{
		TenantID:         actor.TenantID,
		IndentNumber:     number,
		FirmName:         firm,
		IndenterName:     strings.TrimSpace(input.IndenterName),
		Department:       input.Department,
		AreaOfUse:        input.AreaOfUse,
		GroupHead:        input.GroupHead,
		ProductName:      strings.TrimSpace(input.ProductName),
		Specifications:   input.Specifications,
		Quantity:         input.Quantity,
		UOM:              input.UOM,
		IndentType:       indentType,
		AttachmentFileID: input.AttachmentFileID,
		VendorType:       domain.VendorTypePending,
		CreatedBy:        actor.UserID,
	}
	workflow.PlanIndent(indent, s.now())

	if err := s.indentRepo.Create(ctx, indent); err != nil {
		return nil, err
	}
	s.logger.Info("indent created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("indent_number", indent.IndentNumber),
		zap.String("firm", indent.FirmName),
	)
	s.activity.record(ctx, actor, indentChange(indent, domain.AuditIndentCreated, domain.StageApproval, map[string]interface{}{
		"quantity":    indent.Quantity,
		"indent_type": indent.IndentType,
	}))
	return workflow.AnnotateIndent(indent), nil
}

func (s *indentService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Indent, error) {
	indent, err := s.indentRepo.GetByID(ctx, actor.TenantID, id, actor.Scope)
	if err != nil {
		return nil, err
	}
	return workflow.AnnotateIndent(indent), nil
}

func (s *indentService) ListByStage(ctx context.Context, actor domain.Actor, filter domain.StageFilter) ([]domain.Indent, int, error) {
	if !filter.Stage.IsIndentStage() {
		return nil, 0, domain.ErrInvalidStage
	}
	if filter.View != domain.ViewPending && filter.View != domain.ViewHistory {
		return nil, 0, domain.ErrInvalidStage
	}
	filter.Scope = actor.Scope
	indents, total, err := s.indentRepo.ListByStage(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range indents {
		workflow.AnnotateIndent(&indents[i])
	}
	return indents, total, nil
}

// load fetches an indent the actor may act on at stage and checks the
// client supplied version.
func (s *indentService) load(ctx context.Context, actor domain.Actor, id uuid.UUID, stage domain.Stage, version int) (*domain.Indent, error) {
	if err := workflow.Authorize(actor.Role, stage); err != nil {
		return nil, err
	}
	indent, err := s.indentRepo.GetByID(ctx, actor.TenantID, id, actor.Scope)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(version, indent.Version); err != nil {
		return nil, err
	}
	if err := workflow.RequirePending(workflow.IndentPair(indent, stage), stage); err != nil {
		return nil, err
	}
	return indent, nil
}

func (s *indentService) Approve(ctx context.Context, actor domain.Actor, id uuid.UUID, input ApproveIndentInput) (*domain.Indent, error) {
	indent, err := s.load(ctx, actor, id, domain.StageApproval, input.Version)
	if err != nil {
		return nil, err
	}

	vendorType := input.VendorType
	if vendorType == "" && indent.IndentType == domain.IndentTypeStoreOut {
		vendorType = domain.VendorTypePending
	} else if !domain.ValidApprovalVendorTypes[vendorType] {
		return nil, domain.ErrInvalidVendorType
	}

	approved := input.ApprovedQuantity
	if vendorType == domain.VendorTypeReject {
		if approved.IsNegative() {
			return nil, fmt.Errorf("%w: approved quantity cannot be negative", domain.ErrInvalidQuantity)
		}
	} else {
		if !approved.IsPositive() {
			return nil, fmt.Errorf("%w: approved quantity must be positive", domain.ErrInvalidQuantity)
		}
		if approved.GreaterThan(indent.Quantity) {
			return nil, fmt.Errorf("%w: approved quantity %s exceeds requested %s",
				domain.ErrInvalidQuantity, approved, indent.Quantity)
		}
	}

	approver := actor.UserID
	indent.VendorType = vendorType
	indent.ApprovedQuantity = decimal.NewNullDecimal(approved)
	indent.ApprovedBy = &approver
	indent.ApprovalRemarks = strings.TrimSpace(input.Remarks)
	if err := workflow.CompleteIndentStage(indent, domain.StageApproval, s.now()); err != nil {
		return nil, err
	}
	if err := s.indentRepo.Update(ctx, indent); err != nil {
		return nil, err
	}

	s.activity.record(ctx, actor, indentChange(indent, domain.AuditIndentApproved, domain.StageApproval, map[string]interface{}{
		"vendor_type":       vendorType,
		"approved_quantity": approved,
		"remarks":           indent.ApprovalRemarks,
	}))
	return workflow.AnnotateIndent(indent), nil
}

func (s *indentService) UpdateRate(ctx context.Context, actor domain.Actor, id uuid.UUID, input UpdateRateInput) (*domain.Indent, error) {
	indent, err := s.load(ctx, actor, id, domain.StageVendorRate, input.Version)
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{}
	if indent.VendorType == domain.VendorTypeThreeParty {
		if len(input.Quotes) != 3 {
			return nil, domain.ErrInvalidQuotes
		}
		quotes := make(domain.Quotes, len(input.Quotes))
		for i, q := range input.Quotes {
			q.VendorName = strings.TrimSpace(q.VendorName)
			if q.VendorName == "" || !q.Rate.IsPositive() {
				return nil, fmt.Errorf("%w: quote %d needs a vendor and a positive rate", domain.ErrInvalidQuotes, i+1)
			}
			quotes[i] = q
		}
		indent.Quotes = quotes
		details["quotes"] = quotes
	} else {
		vendorName, vendorID, paymentTerm, err := s.resolveVendor(ctx, actor.TenantID, input)
		if err != nil {
			return nil, err
		}
		if !input.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: rate must be positive", domain.ErrValidation)
		}
		indent.VendorID = vendorID
		indent.VendorName = vendorName
		indent.Rate = decimal.NewNullDecimal(input.Rate)
		indent.PaymentTerm = paymentTerm
		indent.QuotationFileID = input.QuotationFileID
		details["vendor_name"] = vendorName
		details["rate"] = input.Rate
		details["payment_term"] = paymentTerm
	}

	if err := workflow.CompleteIndentStage(indent, domain.StageVendorRate, s.now()); err != nil {
		return nil, err
	}
	if err := s.indentRepo.Update(ctx, indent); err != nil {
		return nil, err
	}
	s.activity.record(ctx, actor, indentChange(indent, domain.AuditIndentRated, domain.StageVendorRate, details))
	return workflow.AnnotateIndent(indent), nil
}

// resolveVendor links the rate to a vendor master record when one matches.
// A free text vendor name without a master record is accepted.
func (s *indentService) resolveVendor(ctx context.Context, tenantID uuid.UUID, input UpdateRateInput) (string, *uuid.UUID, string, error) {
	paymentTerm := strings.TrimSpace(input.PaymentTerm)
	if input.VendorID != nil {
		v, err := s.vendorRepo.GetByID(ctx, tenantID, *input.VendorID)
		if err != nil {
			return "", nil, "", err
		}
		if paymentTerm == "" {
			paymentTerm = v.PaymentTerm
		}
		id := v.ID
		return v.Name, &id, paymentTerm, nil
	}

	name := strings.TrimSpace(input.VendorName)
	if name == "" {
		return "", nil, "", fmt.Errorf("%w: vendor is required", domain.ErrValidation)
	}
	v, err := s.vendorRepo.GetByName(ctx, tenantID, name)
	switch {
	case err == nil:
		if paymentTerm == "" {
			paymentTerm = v.PaymentTerm
		}
		id := v.ID
		return v.Name, &id, paymentTerm, nil
	case errors.Is(err, domain.ErrVendorNotFound):
		return name, nil, paymentTerm, nil
	default:
		return "", nil, "", err
	}
}

func (s *indentService) ApproveThreeParty(ctx context.Context, actor domain.Actor, id uuid.UUID, input ThreePartyInput) (*domain.Indent, error) {
	indent, err := s.load(ctx, actor, id, domain.StageThreeParty, input.Version)
	if err != nil {
		return nil, err
	}
	if input.QuoteIndex < 0 || input.QuoteIndex >= len(indent.Quotes) {
		return nil, domain.ErrInvalidQuoteIndex
	}

	q := indent.Quotes[input.QuoteIndex]
	idx := input.QuoteIndex
	indent.ApprovedQuoteIndex = &idx
	indent.VendorName = q.VendorName
	indent.Rate = decimal.NewNullDecimal(q.Rate)
	indent.PaymentTerm = q.PaymentTerm
	indent.QuotationFileID = q.QuotationFileID
	indent.VendorID = nil
	if v, err := s.vendorRepo.GetByName(ctx, actor.TenantID, q.VendorName); err == nil {
		vid := v.ID
		indent.VendorID = &vid
	} else if !errors.Is(err, domain.ErrVendorNotFound) {
		return nil, err
	}

	if err := workflow.CompleteIndentStage(indent, domain.StageThreeParty, s.now()); err != nil {
		return nil, err
	}
	if err := s.indentRepo.Update(ctx, indent); err != nil {
		return nil, err
	}
	s.activity.record(ctx, actor, indentChange(indent, domain.AuditIndentThreeParty, domain.StageThreeParty, map[string]interface{}{
		"quote_index": idx,
		"vendor_name": q.VendorName,
		"rate":        q.Rate,
		"remarks":     strings.TrimSpace(input.Remarks),
	}))
	return workflow.AnnotateIndent(indent), nil
}

func (s *indentService) IssueFromStore(ctx context.Context, actor domain.Actor, id uuid.UUID, input StoreIssueInput) (*domain.Indent, error) {
	indent, err := s.load(ctx, actor, id, domain.StageStoreIssue, input.Version)
	if err != nil {
		return nil, err
	}
	if !input.IssuedQuantity.IsPositive() {
		return nil, fmt.Errorf("%w: issued quantity must be positive", domain.ErrInvalidQuantity)
	}
	if input.IssuedQuantity.GreaterThan(indent.EffectiveQuantity()) {
		return nil, fmt.Errorf("%w: issued quantity %s exceeds approved %s",
			domain.ErrInvalidQuantity, input.IssuedQuantity, indent.EffectiveQuantity())
	}

	issuer := actor.UserID
	indent.IssuedQuantity = decimal.NewNullDecimal(input.IssuedQuantity)
	indent.IssuedBy = &issuer
	if err := workflow.CompleteIndentStage(indent, domain.StageStoreIssue, s.now()); err != nil {
		return nil, err
	}
	if err := s.indentRepo.Update(ctx, indent); err != nil {
		return nil, err
	}
	s.activity.record(ctx, actor, indentChange(indent, domain.AuditIndentStoreIssued, domain.StageStoreIssue, map[string]interface{}{
		"issued_quantity": input.IssuedQuantity,
	}))
	return workflow.AnnotateIndent(indent), nil
}

func (s *indentService) History(ctx context.Context, actor domain.Actor, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error) {
	// Resolve through the scoped read so foreign firms stay invisible.
	if _, err := s.indentRepo.GetByID(ctx, actor.TenantID, id, actor.Scope); err != nil {
		return nil, 0, err
	}
	return s.auditRepo.ListByEntity(ctx, actor.TenantID, domain.EntityIndent, id, offset, limit)
}

const scanPageSize = 500

func (s *indentService) Anomalies(ctx context.Context, actor domain.Actor) ([]IndentAnomaly, error) {
	var out []IndentAnomaly
	for offset := 0; ; offset += scanPageSize {
		page, total, err := s.indentRepo.ListAll(ctx, actor.TenantID, actor.Scope, offset, scanPageSize)
		if err != nil {
			return nil, err
		}
		for i := range page {
			if found := workflow.IndentAnomalies(&page[i]); len(found) > 0 {
				out = append(out, IndentAnomaly{
					IndentID:     page[i].ID,
					IndentNumber: page[i].IndentNumber,
					FirmName:     page[i].FirmName,
					Anomalies:    found,
				})
			}
		}
		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}
	return out, nil
}

// Import loads legacy indents from a workbook. Rows with a number keep it and
// the counter is advanced past the highest one; rows without a number get a
// fresh one. The batch is inserted in one transaction, so a duplicate number
// aborts the whole import.
func (s *indentService) Import(ctx context.Context, actor domain.Actor, r io.Reader) (*ImportReport, error) {
	parsed, err := xlsx.ParseIndents(r)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Errors: parsed.Errors}
	now := s.now()
	var (
		indents  []*domain.Indent
		existing []string
		seen     = make(map[string]int)
	)
	for _, row := range parsed.Rows {
		in := row.Indent
		if !actor.Scope.AllowsFirm(in.FirmName) {
			report.Errors = append(report.Errors, xlsx.RowError{Row: row.Row, Message: "firm is outside your access"})
			continue
		}
		if in.IndentNumber != "" {
			prefix, seq, err := numbering.Parse(in.IndentNumber)
			if err != nil || prefix != numbering.PrefixIndent {
				report.Errors = append(report.Errors, xlsx.RowError{Row: row.Row, Message: fmt.Sprintf("invalid indent number %q", in.IndentNumber)})
				continue
			}
			// Legacy sheets mix cases and padding; store the canonical form.
			in.IndentNumber = numbering.Format(prefix, seq)
			if first, dup := seen[in.IndentNumber]; dup {
				report.Errors = append(report.Errors, xlsx.RowError{Row: row.Row, Message: fmt.Sprintf("indent number %s repeats row %d", in.IndentNumber, first)})
				continue
			}
			seen[in.IndentNumber] = row.Row
			existing = append(existing, in.IndentNumber)
		}
		in.TenantID = actor.TenantID
		in.CreatedBy = actor.UserID
		if in.PlannedApproval == nil && in.ActualApproval == nil {
			workflow.PlanIndent(&in, now)
		}
		indents = append(indents, &in)
	}
	if len(indents) == 0 {
		return report, nil
	}

	if err := s.sequences.AdvanceTo(ctx, actor.TenantID, numbering.PrefixIndent,
		numbering.MaxSequence(numbering.PrefixIndent, existing)); err != nil {
		return nil, err
	}
	for _, in := range indents {
		if in.IndentNumber != "" {
			continue
		}
		if in.IndentNumber, err = s.sequences.Next(ctx, actor.TenantID, numbering.PrefixIndent); err != nil {
			return nil, err
		}
	}

	if err := s.indentRepo.CreateBatch(ctx, indents); err != nil {
		return nil, err
	}

	for _, in := range indents {
		report.Numbers = append(report.Numbers, in.IndentNumber)
		if found := workflow.IndentAnomalies(in); len(found) > 0 {
			report.Anomalies = append(report.Anomalies, IndentAnomaly{
				IndentID: in.ID, IndentNumber: in.IndentNumber, FirmName: in.FirmName, Anomalies: found,
			})
		}
		s.activity.record(ctx, actor, indentChange(in, domain.AuditIndentImported, workflow.CurrentIndentStage(in), nil))
	}
	report.Imported = len(indents)
	s.logger.Info("indents imported",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.Int("imported", report.Imported),
		zap.Int("errors", len(report.Errors)),
		zap.Int("anomalies", len(report.Anomalies)),
	)
	return report, nil
}
