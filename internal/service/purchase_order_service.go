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

	"indentflow/internal/config"
	"indentflow/internal/domain"
	"indentflow/internal/numbering"
	"indentflow/internal/port"
	"indentflow/internal/workflow"
)

var hundred = decimal.NewFromInt(100)

// CreatePOInput is the DTO for raising a purchase order over indents.
type CreatePOInput struct {
	IndentIDs       []uuid.UUID      `json:"indent_ids" binding:"required,min=1"`
	QuotationNumber string           `json:"quotation_number"`
	QuotationDate   *time.Time       `json:"quotation_date"`
	DeliveryDate    *time.Time       `json:"delivery_date"`
	PaymentTerms    string           `json:"payment_terms"`
	Terms           []string         `json:"terms"`
	GSTPercent      *decimal.Decimal `json:"gst_percent"`
}

// PurchaseOrderService defines the purchase order contract.
type PurchaseOrderService interface {
	Create(ctx context.Context, actor domain.Actor, input CreatePOInput) (*domain.PurchaseOrder, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.PurchaseOrder, error)
	List(ctx context.Context, actor domain.Actor, offset, limit int) ([]domain.PurchaseOrder, int, error)
	GetDownloadURL(ctx context.Context, actor domain.Actor, id uuid.UUID) (string, error)
	RegeneratePDF(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.PurchaseOrder, error)
}

type purchaseOrderService struct {
	poRepo     port.PurchaseOrderRepository
	indentRepo port.IndentRepository
	vendorRepo port.VendorRepository
	sequences  SequenceService
	files      FileService
	renderer   port.PurchaseOrderRenderer
	email      port.EmailSender
	activity   *activity
	cfg        *config.POConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewPurchaseOrderService creates a new PurchaseOrderService implementation.
func NewPurchaseOrderService(
	poRepo port.PurchaseOrderRepository,
	indentRepo port.IndentRepository,
	vendorRepo port.VendorRepository,
	auditRepo port.AuditRepository,
	sequences SequenceService,
	files FileService,
	renderer port.PurchaseOrderRenderer,
	email port.EmailSender,
	events port.EventPublisher,
	cfg *config.POConfig,
	logger *zap.Logger,
) PurchaseOrderService {
	return &purchaseOrderService{
		poRepo:     poRepo,
		indentRepo: indentRepo,
		vendorRepo: vendorRepo,
		sequences:  sequences,
		files:      files,
		renderer:   renderer,
		email:      email,
		activity:   newActivity(auditRepo, events, logger),
		cfg:        cfg,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *purchaseOrderService) Create(ctx context.Context, actor domain.Actor, input CreatePOInput) (*domain.PurchaseOrder, error) {
	if err := workflow.Authorize(actor.Role, domain.StagePO); err != nil {
		return nil, err
	}
	ids := dedupeIDs(input.IndentIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one indent is required", domain.ErrValidation)
	}

	indents, err := s.indentRepo.GetByIDs(ctx, actor.TenantID, ids, actor.Scope)
	if err != nil {
		return nil, err
	}
	if len(indents) != len(ids) {
		return nil, domain.ErrIndentNotFound
	}

	gst, err := s.gstPercent(input.GSTPercent)
	if err != nil {
		return nil, err
	}

	first := &indents[0]
	po := &domain.PurchaseOrder{
		ID:              uuid.New(),
		TenantID:        actor.TenantID,
		FirmName:        first.FirmName,
		VendorName:      first.VendorName,
		QuotationNumber: strings.TrimSpace(input.QuotationNumber),
		QuotationDate:   input.QuotationDate,
		DeliveryDate:    input.DeliveryDate,
		PaymentTerms:    strings.TrimSpace(input.PaymentTerms),
		Terms:           domain.StringList(input.Terms),
		GSTPercent:      gst,
		CreatedBy:       actor.UserID,
	}
	if po.PaymentTerms == "" {
		po.PaymentTerms = first.PaymentTerm
	}
	if len(po.Terms) == 0 {
		po.Terms = domain.StringList(s.cfg.DefaultTerms)
	}

	for i := range indents {
		in := &indents[i]
		if err := workflow.RequirePending(workflow.IndentPair(in, domain.StagePO), domain.StagePO); err != nil {
			return nil, fmt.Errorf("%s: %w", in.IndentNumber, err)
		}
		if !strings.EqualFold(in.FirmName, po.FirmName) || !strings.EqualFold(strings.TrimSpace(in.VendorName), strings.TrimSpace(po.VendorName)) {
			return nil, domain.ErrMixedPurchaseOrder
		}
		if !in.Rate.Valid || !in.Rate.Decimal.IsPositive() {
			return nil, fmt.Errorf("%s: %w", in.IndentNumber, domain.ErrMissingRate)
		}
	}

	if err := s.attachVendor(ctx, po, first); err != nil {
		return nil, err
	}
	po.Lines = BuildPOLines(indents)
	po.Subtotal, po.GSTAmount, po.Total = POTotals(po.Lines, po.GSTPercent)

	if po.PONumber, err = s.sequences.Next(ctx, actor.TenantID, numbering.PrefixPurchaseOrder); err != nil {
		return nil, err
	}

	now := s.now()
	poID := po.ID
	updated := make([]*domain.Indent, len(indents))
	for i := range indents {
		in := &indents[i]
		in.POID = &poID
		in.PONumber = po.PONumber
		if err := workflow.CompleteIndentStage(in, domain.StagePO, now); err != nil {
			return nil, err
		}
		updated[i] = in
	}

	if err := s.poRepo.CreateWithIndents(ctx, po, updated); err != nil {
		return nil, err
	}
	s.logger.Info("purchase order created",
		zap.String("tenant_id", actor.TenantID.String()),
		zap.String("po_number", po.PONumber),
		zap.Int("lines", len(po.Lines)),
		zap.String("total", po.Total.StringFixed(2)),
	)

	s.activity.record(ctx, actor, change{
		entity: domain.EntityPurchaseOrder, id: po.ID, number: po.PONumber, firm: po.FirmName,
		action: domain.AuditPOCreated, stage: domain.StagePO,
		details: map[string]interface{}{"indents": ids, "total": po.Total},
	})
	for _, in := range updated {
		s.activity.record(ctx, actor, indentChange(in, domain.AuditIndentOrdered, domain.StagePO, map[string]interface{}{
			"po_number": po.PONumber,
		}))
	}

	if err := s.renderAndStore(ctx, actor, po); err != nil {
		s.logger.Warn("purchase order pdf failed", zap.String("po_number", po.PONumber), zap.Error(err))
		return po, nil
	}
	s.notifyVendor(ctx, po)
	return po, nil
}

func (s *purchaseOrderService) gstPercent(in *decimal.Decimal) (decimal.Decimal, error) {
	if in != nil {
		if in.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: gst percent cannot be negative", domain.ErrValidation)
		}
		return *in, nil
	}
	if s.cfg.GSTPercent == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s.cfg.GSTPercent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid configured gst percent %q: %w", s.cfg.GSTPercent, err)
	}
	return d, nil
}

// attachVendor copies contact details from the vendor master when the
// indent's vendor has a record.
func (s *purchaseOrderService) attachVendor(ctx context.Context, po *domain.PurchaseOrder, indent *domain.Indent) error {
	var (
		v   *domain.Vendor
		err error
	)
	if indent.VendorID != nil {
		v, err = s.vendorRepo.GetByID(ctx, po.TenantID, *indent.VendorID)
	} else {
		v, err = s.vendorRepo.GetByName(ctx, po.TenantID, indent.VendorName)
	}
	if errors.Is(err, domain.ErrVendorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	id := v.ID
	po.VendorID = &id
	po.VendorEmail = v.Email
	po.VendorAddress = v.Address
	po.VendorGSTIN = v.GSTIN
	if po.PaymentTerms == "" {
		po.PaymentTerms = v.PaymentTerm
	}
	return nil
}

// BuildPOLines renders indents as purchase order lines. Amounts are rounded
// to two places.
func BuildPOLines(indents []domain.Indent) []domain.POLine {
	lines := make([]domain.POLine, len(indents))
	for i := range indents {
		in := &indents[i]
		qty := in.EffectiveQuantity()
		lines[i] = domain.POLine{
			IndentID:       in.ID,
			IndentNumber:   in.IndentNumber,
			ProductName:    in.ProductName,
			Specifications: in.Specifications,
			Quantity:       qty,
			UOM:            in.UOM,
			Rate:           in.Rate.Decimal,
			Amount:         qty.Mul(in.Rate.Decimal).Round(2),
		}
	}
	return lines
}

// POTotals returns subtotal, gst and total of lines at gstPercent.
func POTotals(lines []domain.POLine, gstPercent decimal.Decimal) (subtotal, gst, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount)
	}
	subtotal = subtotal.Round(2)
	gst = subtotal.Mul(gstPercent).Div(hundred).Round(2)
	return subtotal, gst, subtotal.Add(gst)
}

func (s *purchaseOrderService) renderAndStore(ctx context.Context, actor domain.Actor, po *domain.PurchaseOrder) error {
	data, err := s.renderer.Render(po)
	if err != nil {
		return err
	}
	meta, err := s.files.StoreGenerated(ctx, GeneratedFileInput{
		TenantID:   po.TenantID,
		UploadedBy: actor.UserID,
		Name:       po.PONumber + ".pdf",
		FileType:   domain.FileTypePDF,
		Data:       data,
	})
	if err != nil {
		return err
	}
	if err := s.poRepo.SetPDF(ctx, po.TenantID, po.ID, meta.ID); err != nil {
		return err
	}
	id := meta.ID
	po.PDFFileID = &id
	return nil
}

func (s *purchaseOrderService) notifyVendor(ctx context.Context, po *domain.PurchaseOrder) {
	if po.VendorEmail == "" || po.PDFFileID == nil {
		return
	}
	url, err := s.files.GetDownloadURL(ctx, po.TenantID, *po.PDFFileID)
	if err != nil {
		s.logger.Warn("purchase order link failed", zap.String("po_number", po.PONumber), zap.Error(err))
		return
	}
	if err := s.email.SendPurchaseOrderEmail(ctx, po.VendorEmail, po.VendorName, po, url); err != nil {
		s.logger.Warn("purchase order email failed",
			zap.String("po_number", po.PONumber),
			zap.String("to", po.VendorEmail),
			zap.Error(err),
		)
	}
}

func (s *purchaseOrderService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.PurchaseOrder, error) {
	po, err := s.poRepo.GetByID(ctx, actor.TenantID, id, actor.Scope)
	if err != nil {
		return nil, err
	}
	indents, err := s.indentRepo.ListByPO(ctx, actor.TenantID, po.ID)
	if err != nil {
		return nil, err
	}
	po.Lines = BuildPOLines(indents)
	return po, nil
}

func (s *purchaseOrderService) List(ctx context.Context, actor domain.Actor, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	return s.poRepo.List(ctx, actor.TenantID, actor.Scope, offset, limit)
}

func (s *purchaseOrderService) GetDownloadURL(ctx context.Context, actor domain.Actor, id uuid.UUID) (string, error) {
	po, err := s.poRepo.GetByID(ctx, actor.TenantID, id, actor.Scope)
	if err != nil {
		return "", err
	}
	if po.PDFFileID == nil {
		return "", domain.ErrNotFound
	}
	return s.files.GetDownloadURL(ctx, actor.TenantID, *po.PDFFileID)
}

// RegeneratePDF renders the document again, for orders whose first render
// failed or whose vendor details changed.
func (s *purchaseOrderService) RegeneratePDF(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.PurchaseOrder, error) {
	if err := workflow.Authorize(actor.Role, domain.StagePO); err != nil {
		return nil, err
	}
	po, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.renderAndStore(ctx, actor, po); err != nil {
		return nil, err
	}
	return po, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
