package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"indentflow/internal/domain"
	"indentflow/internal/numbering"
	"indentflow/internal/port"
	"indentflow/internal/reconcile"
	"indentflow/internal/workflow"
)

// CreateLiftInput is the DTO for recording goods lifted against an indent.
type CreateLiftInput struct {
	IndentID        uuid.UUID        `json:"indent_id" binding:"required"`
	LiftedQuantity  decimal.Decimal  `json:"lifted_quantity"`
	TransporterName string           `json:"transporter_name"`
	VehicleNumber   string           `json:"vehicle_number"`
	LRNumber        string           `json:"lr_number"`
	BillNumber      string           `json:"bill_number"`
	BillDate        *time.Time       `json:"bill_date"`
	BillAmount      *decimal.Decimal `json:"bill_amount"`
	BillFileID      *uuid.UUID       `json:"bill_file_id"`
	IndentVersion   int              `json:"indent_version"`
}

// StoreInInput is the DTO for the store-in stage.
type StoreInInput struct {
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	QualityOK        *bool           `json:"quality_ok" binding:"required"`
	Remarks          string          `json:"remarks"`
	Version          int             `json:"version"`
}

// BillCheckInput is the DTO for the bill check stage. Bill fields left empty
// keep the values captured at lift time.
type BillCheckInput struct {
	BillNumber string           `json:"bill_number"`
	BillDate   *time.Time       `json:"bill_date"`
	BillAmount *decimal.Decimal `json:"bill_amount"`
	BillFileID *uuid.UUID       `json:"bill_file_id"`
	Version    int              `json:"version"`
}

// TallyInput is the DTO for the tally entry stage.
type TallyInput struct {
	Status  domain.TallyStatus `json:"status" binding:"required"`
	Voucher string             `json:"voucher"`
	Remarks string             `json:"remarks"`
	Version int                `json:"version"`
}

// CorrectionInput is the DTO for correcting a failed tally entry.
type CorrectionInput struct {
	Voucher string `json:"voucher" binding:"required"`
	Remarks string `json:"remarks"`
	Version int    `json:"version"`
}

// LiftService defines the receipt and accounting contract for lifts.
type LiftService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateLiftInput) (*domain.Lift, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Lift, error)
	ListByStage(ctx context.Context, actor domain.Actor, filter domain.StageFilter) ([]domain.Lift, int, error)
	ListByIndent(ctx context.Context, actor domain.Actor, indentID uuid.UUID) ([]domain.Lift, error)
	StoreIn(ctx context.Context, actor domain.Actor, id uuid.UUID, input StoreInInput) (*domain.Lift, error)
	CheckBill(ctx context.Context, actor domain.Actor, id uuid.UUID, input BillCheckInput) (*domain.Lift, error)
	EnterTally(ctx context.Context, actor domain.Actor, id uuid.UUID, input TallyInput) (*domain.Lift, error)
	CorrectTally(ctx context.Context, actor domain.Actor, id uuid.UUID, input CorrectionInput) (*domain.Lift, error)
	History(ctx context.Context, actor domain.Actor, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error)
	Anomalies(ctx context.Context, actor domain.Actor) ([]LiftAnomaly, error)
}

// LiftAnomaly pairs a lift with the inconsistencies found on it.
type LiftAnomaly struct {
	LiftID       uuid.UUID          `json:"lift_id"`
	LiftNumber   string             `json:"lift_number"`
	IndentNumber string             `json:"indent_number"`
	FirmName     string             `json:"firm_name"`
	Anomalies    []workflow.Anomaly `json:"anomalies"`
}

type liftService struct {
	liftRepo   port.LiftRepository
	indentRepo port.IndentRepository
	poRepo     port.PurchaseOrderRepository
	auditRepo  port.AuditRepository
	sequences  SequenceService
	engine     *reconcile.Engine
	activity   *activity
	logger     *zap.Logger
	now        func() time.Time
}

// NewLiftService creates a new LiftService implementation.
func NewLiftService(
	liftRepo port.LiftRepository,
	indentRepo port.IndentRepository,
	poRepo port.PurchaseOrderRepository,
	auditRepo port.AuditRepository,
	sequences SequenceService,
	engine *reconcile.Engine,
	events port.EventPublisher,
	logger *zap.Logger,
) LiftService {
	return &liftService{
		liftRepo:   liftRepo,
		indentRepo: indentRepo,
		poRepo:     poRepo,
		auditRepo:  auditRepo,
		sequences:  sequences,
		engine:     engine,
		activity:   newActivity(auditRepo, events, logger),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create records a lift. The cumulative lifted quantity may not exceed the
// approved quantity; receipt completes on the indent once it is reached.
func (s *liftService) Create(ctx context.Context, actor domain.Actor, input CreateLiftInput) (*domain.Lift, error) {
	if err := workflow.Authorize(actor.Role, domain.StageReceipt); err != nil {
		return nil, err
	}
	indent, err := s.indentRepo.GetByID(ctx, actor.TenantID, input.IndentID, actor.Scope)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(input.IndentVersion, indent.Version); err != nil {
		return nil, err
	}
	if err := workflow.RequirePending(workflow.IndentPair(indent, domain.StageReceipt), domain.StageReceipt); err != nil {
		return nil, err
	}
	if !input.LiftedQuantity.IsPositive() {
		return nil, fmt.Errorf("%w: lifted quantity must be positive", domain.ErrInvalidQuantity)
	}

	lifted, err := s.liftRepo.SumLifted(ctx, actor.TenantID, indent.ID)
	if err != nil {
		return nil, err
	}
	cumulative := lifted.Add(input.LiftedQuantity)
	approved := indent.EffectiveQuantity()
	if cumulative.GreaterThan(approved) {
		return nil, fmt.Errorf("%w: %s already lifted, %s more exceeds approved %s",
			domain.ErrInvalidQuantity, lifted, input.LiftedQuantity, approved)
	}

	number, err := s.sequences.Next(ctx, actor.TenantID, numbering.PrefixLift)
	if err != nil {
		return nil, err
	}

	now := s.now()
	lift := &domain.Lift{
		ID:              uuid.New(),
		TenantID:        actor.TenantID,
		LiftNumber:      number,
		IndentID:        indent.ID,
		IndentNumber:    indent.IndentNumber,
		POID:            indent.POID,
		PONumber:        indent.PONumber,
		FirmName:        indent.FirmName,
		VendorName:      indent.VendorName,
		ProductName:     indent.ProductName,
		LiftedQuantity:  input.LiftedQuantity,
		TransporterName: strings.TrimSpace(input.TransporterName),
		VehicleNumber:   strings.ToUpper(strings.TrimSpace(input.VehicleNumber)),
		LRNumber:        strings.TrimSpace(input.LRNumber),
		BillNumber:      strings.TrimSpace(input.BillNumber),
		BillDate:        input.BillDate,
		BillFileID:      input.BillFileID,
		ReconcileStatus: domain.ReconcilePending,
		TallyStatus:     domain.TallyPending,
		CreatedBy:       actor.UserID,
	}
	if input.BillAmount != nil {
		lift.BillAmount = decimal.NewNullDecimal(*input.BillAmount)
	}
	workflow.PlanLift(lift, now)

	indent.ReceivedQuantity = cumulative
	receiptDone := cumulative.Equal(approved)
	if receiptDone {
		if err := workflow.CompleteIndentStage(indent, domain.StageReceipt, now); err != nil {
			return nil, err
		}
	}

	if err := s.liftRepo.CreateWithIndent(ctx, lift, indent); err != nil {
		return nil, err
	}
	s.logger.Info("lift created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("lift_number", lift.LiftNumber),
		zap.String("indent_number", indent.IndentNumber),
		zap.String("cumulative", cumulative.String()),
		zap.Bool("receipt_done", receiptDone),
	)

	s.activity.record(ctx, actor, liftChange(lift, domain.AuditLiftCreated, domain.StageStoreIn, map[string]interface{}{
		"lifted_quantity": lift.LiftedQuantity,
	}))
	if receiptDone {
		s.activity.record(ctx, actor, indentChange(indent, domain.AuditIndentReceived, domain.StageReceipt, map[string]interface{}{
			"received_quantity": cumulative,
		}))
	}
	return workflow.AnnotateLift(lift), nil
}

func (s *liftService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Lift, error) {
	lift, err := s.liftRepo.GetByID(ctx, actor.TenantID, id, actor.Scope)
	if err != nil {
		return nil, err
	}
	return workflow.AnnotateLift(lift), nil
}

func (s *liftService) ListByStage(ctx context.Context, actor domain.Actor, filter domain.StageFilter) ([]domain.Lift, int, error) {
	if !filter.Stage.IsLiftStage() {
		return nil, 0, domain.ErrInvalidStage
	}
	if filter.View != domain.ViewPending && filter.View != domain.ViewHistory {
		return nil, 0, domain.ErrInvalidStage
	}
	filter.Scope = actor.Scope
	lifts, total, err := s.liftRepo.ListByStage(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	annotateLifts(lifts)
	return lifts, total, nil
}

func (s *liftService) ListByIndent(ctx context.Context, actor domain.Actor, indentID uuid.UUID) ([]domain.Lift, error) {
	if _, err := s.indentRepo.GetByID(ctx, actor.TenantID, indentID, actor.Scope); err != nil {
		return nil, err
	}
	lifts, err := s.liftRepo.ListByIndent(ctx, actor.TenantID, indentID)
	if err != nil {
		return nil, err
	}
	annotateLifts(lifts)
	return lifts, nil
}

func annotateLifts(lifts []domain.Lift) {
	for i := range lifts {
		workflow.AnnotateLift(&lifts[i])
	}
}

// Anomalies lists lifts whose stage history is out of order.
func (s *liftService) Anomalies(ctx context.Context, actor domain.Actor) ([]LiftAnomaly, error) {
	var out []LiftAnomaly
	for offset := 0; ; offset += scanPageSize {
		page, total, err := s.liftRepo.ListAll(ctx, actor.TenantID, actor.Scope, offset, scanPageSize)
		if err != nil {
			return nil, err
		}
		for i := range page {
			if found := workflow.LiftAnomalies(&page[i]); len(found) > 0 {
				out = append(out, LiftAnomaly{
					LiftID:       page[i].ID,
					LiftNumber:   page[i].LiftNumber,
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

func (s *liftService) load(ctx context.Context, actor domain.Actor, id uuid.UUID, stage domain.Stage, version int) (*domain.Lift, error) {
	if err := workflow.Authorize(actor.Role, stage); err != nil {
		return nil, err
	}
	lift, err := s.liftRepo.GetByID(ctx, actor.TenantID, id, actor.Scope)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(version, lift.Version); err != nil {
		return nil, err
	}
	if err := workflow.RequirePending(workflow.LiftPair(lift, stage), stage); err != nil {
		return nil, err
	}
	return lift, nil
}

func (s *liftService) StoreIn(ctx context.Context, actor domain.Actor, id uuid.UUID, input StoreInInput) (*domain.Lift, error) {
	lift, err := s.load(ctx, actor, id, domain.StageStoreIn, input.Version)
	if err != nil {
		return nil, err
	}
	if input.QualityOK == nil {
		return nil, fmt.Errorf("%w: quality_ok is required", domain.ErrValidation)
	}
	if input.ReceivedQuantity.IsNegative() || input.ReceivedQuantity.GreaterThan(lift.LiftedQuantity) {
		return nil, fmt.Errorf("%w: received quantity must be between 0 and %s",
			domain.ErrInvalidQuantity, lift.LiftedQuantity)
	}

	ok := *input.QualityOK
	lift.ReceivedQuantity = decimal.NewNullDecimal(input.ReceivedQuantity)
	lift.QualityOK = &ok
	lift.StoreRemarks = strings.TrimSpace(input.Remarks)
	if err := workflow.CompleteLiftStage(lift, domain.StageStoreIn, s.now()); err != nil {
		return nil, err
	}
	if err := s.liftRepo.Update(ctx, lift); err != nil {
		return nil, err
	}
	s.activity.record(ctx, actor, liftChange(lift, domain.AuditLiftStoredIn, domain.StageStoreIn, map[string]interface{}{
		"received_quantity": input.ReceivedQuantity,
		"quality_ok":        ok,
		"remarks":           lift.StoreRemarks,
	}))
	return workflow.AnnotateLift(lift), nil
}

// CheckBill reconciles the bill against the indent and purchase order. The
// stage completes whether the bill matches or not; the outcome is stored.
func (s *liftService) CheckBill(ctx context.Context, actor domain.Actor, id uuid.UUID, input BillCheckInput) (*domain.Lift, error) {
	lift, err := s.load(ctx, actor, id, domain.StageBillCheck, input.Version)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(input.BillNumber); n != "" {
		lift.BillNumber = n
	}
	if input.BillDate != nil {
		lift.BillDate = input.BillDate
	}
	if input.BillAmount != nil {
		lift.BillAmount = decimal.NewNullDecimal(*input.BillAmount)
	}
	if input.BillFileID != nil {
		lift.BillFileID = input.BillFileID
	}

	indent, err := s.indentRepo.GetByID(ctx, actor.TenantID, lift.IndentID, domain.FirmScope(domain.FirmMatchAll))
	if err != nil {
		return nil, err
	}
	var po *domain.PurchaseOrder
	if lift.POID != nil {
		po, err = s.poRepo.GetByID(ctx, actor.TenantID, *lift.POID, domain.FirmScope(domain.FirmMatchAll))
		if err != nil && !errors.Is(err, domain.ErrPONotFound) {
			return nil, err
		}
	}

	now := s.now()
	outcome := s.engine.Evaluate(&reconcile.Bill{Lift: lift, Indent: indent, PO: po, Now: now})
	results, err := outcome.JSON()
	if err != nil {
		return nil, err
	}
	lift.ReconcileStatus = outcome.Status
	lift.ReconcileResults = results

	if err := workflow.CompleteLiftStage(lift, domain.StageBillCheck, now); err != nil {
		return nil, err
	}
	if err := s.liftRepo.Update(ctx, lift); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range outcome.Results {
		if !r.Passed {
			failed++
		}
	}
	s.logger.Info("bill checked",
		zap.String("lift_number", lift.LiftNumber),
		zap.String("status", string(outcome.Status)),
		zap.Int("failed_rules", failed),
	)
	s.activity.record(ctx, actor, liftChange(lift, domain.AuditLiftBillChecked, domain.StageBillCheck, map[string]interface{}{
		"reconcile_status": outcome.Status,
		"failed_rules":     failed,
	}))
	return workflow.AnnotateLift(lift), nil
}

func (s *liftService) EnterTally(ctx context.Context, actor domain.Actor, id uuid.UUID, input TallyInput) (*domain.Lift, error) {
	lift, err := s.load(ctx, actor, id, domain.StageTally, input.Version)
	if err != nil {
		return nil, err
	}

	voucher := strings.TrimSpace(input.Voucher)
	remarks := strings.TrimSpace(input.Remarks)
	switch input.Status {
	case domain.TallyDone:
		if voucher == "" {
			return nil, fmt.Errorf("%w: voucher is required when tally is done", domain.ErrValidation)
		}
	case domain.TallyNotDone:
		if remarks == "" {
			return nil, fmt.Errorf("%w: remarks are required when tally is not done", domain.ErrValidation)
		}
	default:
		return nil, domain.ErrInvalidTallyStatus
	}

	lift.TallyStatus = input.Status
	lift.TallyVoucher = voucher
	lift.TallyRemarks = remarks
	if err := workflow.CompleteLiftStage(lift, domain.StageTally, s.now()); err != nil {
		return nil, err
	}
	if err := s.liftRepo.Update(ctx, lift); err != nil {
		return nil, err
	}
	s.activity.record(ctx, actor, liftChange(lift, domain.AuditLiftTallied, domain.StageTally, map[string]interface{}{
		"status":  input.Status,
		"voucher": voucher,
		"remarks": remarks,
	}))
	return workflow.AnnotateLift(lift), nil
}

func (s *liftService) CorrectTally(ctx context.Context, actor domain.Actor, id uuid.UUID, input CorrectionInput) (*domain.Lift, error) {
	lift, err := s.load(ctx, actor, id, domain.StageCorrection, input.Version)
	if err != nil {
		return nil, err
	}
	voucher := strings.TrimSpace(input.Voucher)
	if voucher == "" {
		return nil, fmt.Errorf("%w: voucher is required", domain.ErrValidation)
	}

	lift.TallyStatus = domain.TallyDone
	lift.TallyVoucher = voucher
	lift.CorrectionRemarks = strings.TrimSpace(input.Remarks)
	if err := workflow.CompleteLiftStage(lift, domain.StageCorrection, s.now()); err != nil {
		return nil, err
	}
	if err := s.liftRepo.Update(ctx, lift); err != nil {
		return nil, err
	}
	s.activity.record(ctx, actor, liftChange(lift, domain.AuditLiftTallyCorrected, domain.StageCorrection, map[string]interface{}{
		"voucher": voucher,
		"remarks": lift.CorrectionRemarks,
	}))
	return workflow.AnnotateLift(lift), nil
}

func (s *liftService) History(ctx context.Context, actor domain.Actor, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error) {
	if _, err := s.liftRepo.GetByID(ctx, actor.TenantID, id, actor.Scope); err != nil {
		return nil, 0, err
	}
	return s.auditRepo.ListByEntity(ctx, actor.TenantID, domain.EntityLift, id, offset, limit)
}
