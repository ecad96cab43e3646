package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"indentflow/internal/domain"
	"indentflow/internal/numbering"
	"indentflow/internal/reconcile"
	"indentflow/internal/service"
	"indentflow/internal/workflow"
	"indentflow/mocks"
)

type liftFixture struct {
	svc        service.LiftService
	liftRepo   *mocks.MockLiftRepo
	indentRepo *mocks.MockIndentRepo
	poRepo     *mocks.MockPurchaseOrderRepo
	auditRepo  *mocks.MockAuditRepo
	sequences  *mocks.MockSequenceService
	events     *mocks.RecordingPublisher
	tenantID   uuid.UUID
}

func newLiftFixture() *liftFixture {
	f := &liftFixture{
		liftRepo:   new(mocks.MockLiftRepo),
		indentRepo: new(mocks.MockIndentRepo),
		poRepo:     new(mocks.MockPurchaseOrderRepo),
		auditRepo:  new(mocks.MockAuditRepo),
		sequences:  new(mocks.MockSequenceService),
		events:     &mocks.RecordingPublisher{},
		tenantID:   uuid.New(),
	}
	f.auditRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.AuditEntry")).Return(nil).Maybe()
	engine := reconcile.NewEngine(reconcile.DefaultRegistry())
	f.svc = service.NewLiftService(f.liftRepo, f.indentRepo, f.poRepo, f.auditRepo, f.sequences, engine, f.events, zap.NewNop())
	return f
}

func (f *liftFixture) actor(role domain.UserRole) domain.Actor {
	return domain.Actor{TenantID: f.tenantID, UserID: uuid.New(), Role: role, Scope: domain.FirmScope(domain.FirmMatchAll)}
}

// awaitingReceipt returns an indent with a raised PO for 10 units at 5.00.
func (f *liftFixture) awaitingReceipt() *domain.Indent {
	poID := uuid.New()
	return &domain.Indent{
		ID:               uuid.New(),
		TenantID:         f.tenantID,
		IndentNumber:     "SI-0031",
		FirmName:         "Acme Spinning",
		ProductName:      "Bearing 6204",
		VendorName:       "Kiran Traders",
		Quantity:         qty("12"),
		ApprovedQuantity: decimal.NewNullDecimal(qty("10")),
		Rate:             decimal.NewNullDecimal(qty("5")),
		POID:             &poID,
		PONumber:         "PO-0004",
		PlannedReceipt:   ago(2 * time.Hour),
		Version:          6,
	}
}

func (f *liftFixture) lift(indent *domain.Indent) *domain.Lift {
	return &domain.Lift{
		ID:              uuid.New(),
		TenantID:        f.tenantID,
		LiftNumber:      "LF-0009",
		IndentID:        indent.ID,
		IndentNumber:    indent.IndentNumber,
		POID:            indent.POID,
		FirmName:        indent.FirmName,
		LiftedQuantity:  qty("10"),
		BillNumber:      "INV-77",
		ReconcileStatus: domain.ReconcilePending,
		TallyStatus:     domain.TallyPending,
		PlannedStoreIn:  ago(time.Hour),
		Version:         1,
	}
}

func (f *liftFixture) expectLift(l *domain.Lift) {
	f.liftRepo.On("GetByID", mock.Anything, f.tenantID, l.ID, domain.FirmScope(domain.FirmMatchAll)).Return(l, nil)
}

func storedIn(l *domain.Lift, received string) {
	ok := true
	l.ReceivedQuantity = decimal.NewNullDecimal(qty(received))
	l.QualityOK = &ok
	l.ActualStoreIn = ago(30 * time.Minute)
	l.PlannedBillCheck = ago(30 * time.Minute)
}

func TestLiftService_Create_PartialLiftKeepsReceiptOpen(t *testing.T) {
	f := newLiftFixture()
	indent := f.awaitingReceipt()
	f.indentRepo.On("GetByID", mock.Anything, f.tenantID, indent.ID, domain.FirmScope(domain.FirmMatchAll)).Return(indent, nil)
	f.liftRepo.On("SumLifted", mock.Anything, f.tenantID, indent.ID).Return(qty("4"), nil)
	f.sequences.On("Next", mock.Anything, f.tenantID, numbering.PrefixLift).Return("LF-0012", nil)
	f.liftRepo.On("CreateWithIndent", mock.Anything, mock.AnythingOfType("*domain.Lift"), indent).Return(nil)

	lift, err := f.svc.Create(context.Background(), f.actor(domain.RoleStore), service.CreateLiftInput{
		IndentID:       indent.ID,
		LiftedQuantity: qty("3"),
		VehicleNumber:  " gj05ab1234 ",
		BillNumber:     "INV-12",
		IndentVersion:  6,
	})
	require.NoError(t, err)

	assert.Equal(t, "LF-0012", lift.LiftNumber)
	assert.Equal(t, "GJ05AB1234", lift.VehicleNumber)
	assert.Equal(t, indent.POID, lift.POID)
	assert.NotNil(t, lift.PlannedStoreIn)
	assert.True(t, indent.ReceivedQuantity.Equal(qty("7")))
	assert.Nil(t, indent.ActualReceipt)
	assert.Equal(t, []string{string(domain.AuditLiftCreated)}, f.events.Actions())
}

func TestLiftService_Create_FinalLiftCompletesReceipt(t *testing.T) {
	f := newLiftFixture()
	indent := f.awaitingReceipt()
	f.indentRepo.On("GetByID", mock.Anything, f.tenantID, indent.ID, domain.FirmScope(domain.FirmMatchAll)).Return(indent, nil)
	f.liftRepo.On("SumLifted", mock.Anything, f.tenantID, indent.ID).Return(qty("7"), nil)
	f.sequences.On("Next", mock.Anything, f.tenantID, numbering.PrefixLift).Return("LF-0013", nil)
	f.liftRepo.On("CreateWithIndent", mock.Anything, mock.AnythingOfType("*domain.Lift"), indent).Return(nil)

	_, err := f.svc.Create(context.Background(), f.actor(domain.RoleStore), service.CreateLiftInput{
		IndentID:       indent.ID,
		LiftedQuantity: qty("3"),
	})
	require.NoError(t, err)

	assert.NotNil(t, indent.ActualReceipt)
	assert.True(t, indent.ReceivedQuantity.Equal(qty("10")))
	assert.Equal(t, []string{string(domain.AuditLiftCreated), string(domain.AuditIndentReceived)}, f.events.Actions())
}

func TestLiftService_Create_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.UserRole
		lifted  string
		already string
		version int
		mutate  func(in *domain.Indent)
		wantErr error
	}{
		{name: "exceeds approved quantity", role: domain.RoleStore, lifted: "4", already: "7", wantErr: domain.ErrInvalidQuantity},
		{name: "zero quantity", role: domain.RoleStore, lifted: "0", wantErr: domain.ErrInvalidQuantity},
		{name: "purchaser may not receive", role: domain.RolePurchaser, lifted: "1", wantErr: domain.ErrStageForbidden},
		{name: "stale indent version", role: domain.RoleStore, lifted: "1", version: 2, wantErr: domain.ErrVersionConflict},
		{
			name: "receipt already complete", role: domain.RoleStore, lifted: "1",
			mutate:  func(in *domain.Indent) { in.ActualReceipt = ago(time.Minute) },
			wantErr: domain.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLiftFixture()
			indent := f.awaitingReceipt()
			if tt.mutate != nil {
				tt.mutate(indent)
			}
			already := tt.already
			if already == "" {
				already = "0"
			}
			f.indentRepo.On("GetByID", mock.Anything, f.tenantID, indent.ID, mock.Anything).Return(indent, nil).Maybe()
			f.liftRepo.On("SumLifted", mock.Anything, f.tenantID, indent.ID).Return(qty(already), nil).Maybe()

			_, err := f.svc.Create(context.Background(), f.actor(tt.role), service.CreateLiftInput{
				IndentID:       indent.ID,
				LiftedQuantity: qty(tt.lifted),
				IndentVersion:  tt.version,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			f.liftRepo.AssertNotCalled(t, "CreateWithIndent", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLiftService_StoreIn_PlansBillCheck(t *testing.T) {
	f := newLiftFixture()
	lift := f.lift(f.awaitingReceipt())
	f.expectLift(lift)
	f.liftRepo.On("Update", mock.Anything, lift).Return(nil)

	ok := false
	got, err := f.svc.StoreIn(context.Background(), f.actor(domain.RoleStore), lift.ID, service.StoreInInput{
		ReceivedQuantity: qty("9.5"),
		QualityOK:        &ok,
		Remarks:          " two cartons damp ",
		Version:          1,
	})
	require.NoError(t, err)

	assert.True(t, got.ReceivedQuantity.Decimal.Equal(qty("9.5")))
	require.NotNil(t, got.QualityOK)
	assert.False(t, *got.QualityOK)
	assert.Equal(t, "two cartons damp", got.StoreRemarks)
	assert.NotNil(t, got.ActualStoreIn)
	assert.NotNil(t, got.PlannedBillCheck)
}

func TestLiftService_StoreIn_Rejections(t *testing.T) {
	yes := true
	tests := []struct {
		name    string
		input   service.StoreInInput
		wantErr error
	}{
		{name: "quality missing", input: service.StoreInInput{ReceivedQuantity: qty("10")}, wantErr: domain.ErrValidation},
		{name: "more than lifted", input: service.StoreInInput{ReceivedQuantity: qty("10.01"), QualityOK: &yes}, wantErr: domain.ErrInvalidQuantity},
		{name: "negative", input: service.StoreInInput{ReceivedQuantity: qty("-1"), QualityOK: &yes}, wantErr: domain.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLiftFixture()
			lift := f.lift(f.awaitingReceipt())
			f.expectLift(lift)

			_, err := f.svc.StoreIn(context.Background(), f.actor(domain.RoleStore), lift.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			f.liftRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestLiftService_CheckBill_Matched(t *testing.T) {
	f := newLiftFixture()
	indent := f.awaitingReceipt()
	lift := f.lift(indent)
	storedIn(lift, "10")
	f.expectLift(lift)
	f.indentRepo.On("GetByID", mock.Anything, f.tenantID, indent.ID, domain.FirmScope(domain.FirmMatchAll)).Return(indent, nil)
	f.poRepo.On("GetByID", mock.Anything, f.tenantID, *indent.POID, domain.FirmScope(domain.FirmMatchAll)).
		Return(&domain.PurchaseOrder{ID: *indent.POID, GSTPercent: qty("18"), CreatedAt: *ago(72 * time.Hour)}, nil)
	f.liftRepo.On("Update", mock.Anything, lift).Return(nil)

	// 10 x 5.00 x 1.18 = 59.00, billed within tolerance.
	amount := qty("59.60")
	got, err := f.svc.CheckBill(context.Background(), f.actor(domain.RoleAccounts), lift.ID, service.BillCheckInput{
		BillDate:   ago(24 * time.Hour),
		BillAmount: &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReconcileMatched, got.ReconcileStatus)
	assert.NotNil(t, got.ActualBillCheck)
	assert.NotNil(t, got.PlannedTally)

	var results []reconcile.Result
	require.NoError(t, json.Unmarshal(got.ReconcileResults, &results))
	assert.NotEmpty(t, results)
	for _, r := range results {
		assert.True(t, r.Passed, r.RuleKey)
	}
}

func TestLiftService_CheckBill_MismatchStillCompletes(t *testing.T) {
	f := newLiftFixture()
	indent := f.awaitingReceipt()
	lift := f.lift(indent)
	storedIn(lift, "10")
	f.expectLift(lift)
	f.indentRepo.On("GetByID", mock.Anything, f.tenantID, indent.ID, domain.FirmScope(domain.FirmMatchAll)).Return(indent, nil)
	f.poRepo.On("GetByID", mock.Anything, f.tenantID, *indent.POID, domain.FirmScope(domain.FirmMatchAll)).
		Return(nil, domain.ErrPONotFound)
	f.liftRepo.On("Update", mock.Anything, lift).Return(nil)

	// Without a PO no GST applies, so 59.00 is 9.00 over the expected 50.00.
	amount := qty("59")
	got, err := f.svc.CheckBill(context.Background(), f.actor(domain.RoleAccounts), lift.ID, service.BillCheckInput{
		BillDate:   ago(24 * time.Hour),
		BillAmount: &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReconcileMismatch, got.ReconcileStatus)
	assert.NotNil(t, got.PlannedTally)

	var results []reconcile.Result
	require.NoError(t, json.Unmarshal(got.ReconcileResults, &results))
	failed := map[string]bool{}
	for _, r := range results {
		if !r.Passed {
			failed[r.RuleKey] = true
		}
	}
	assert.Equal(t, map[string]bool{"amount.matches_expected": true}, failed)
}

func TestLiftService_CheckBill_StoreInPending(t *testing.T) {
	f := newLiftFixture()
	lift := f.lift(f.awaitingReceipt())
	f.expectLift(lift)

	_, err := f.svc.CheckBill(context.Background(), f.actor(domain.RoleAccounts), lift.ID, service.BillCheckInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func (f *liftFixture) awaitingTally() *domain.Lift {
	lift := f.lift(f.awaitingReceipt())
	storedIn(lift, "10")
	lift.ActualBillCheck = ago(10 * time.Minute)
	lift.ReconcileStatus = domain.ReconcileMatched
	lift.PlannedTally = ago(10 * time.Minute)
	return lift
}

func TestLiftService_EnterTally(t *testing.T) {
	tests := []struct {
		name           string
		input          service.TallyInput
		wantErr        error
		wantCorrection bool
	}{
		{name: "done", input: service.TallyInput{Status: domain.TallyDone, Voucher: "PV-118"}},
		{name: "not done plans correction", input: service.TallyInput{Status: domain.TallyNotDone, Remarks: "ledger missing"}, wantCorrection: true},
		{name: "done without voucher", input: service.TallyInput{Status: domain.TallyDone}, wantErr: domain.ErrValidation},
		{name: "not done without remarks", input: service.TallyInput{Status: domain.TallyNotDone}, wantErr: domain.ErrValidation},
		{name: "unknown status", input: service.TallyInput{Status: "maybe"}, wantErr: domain.ErrInvalidTallyStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLiftFixture()
			lift := f.awaitingTally()
			f.expectLift(lift)
			f.liftRepo.On("Update", mock.Anything, lift).Return(nil).Maybe()

			got, err := f.svc.EnterTally(context.Background(), f.actor(domain.RoleAccounts), lift.ID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.liftRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Status, got.TallyStatus)
			assert.NotNil(t, got.ActualTally)
			assert.Equal(t, tt.wantCorrection, got.PlannedCorrection != nil)
		})
	}
}

func TestLiftService_CorrectTally(t *testing.T) {
	f := newLiftFixture()
	lift := f.awaitingTally()
	lift.TallyStatus = domain.TallyNotDone
	lift.TallyRemarks = "ledger missing"
	lift.ActualTally = ago(5 * time.Minute)
	lift.PlannedCorrection = ago(5 * time.Minute)
	f.expectLift(lift)
	f.liftRepo.On("Update", mock.Anything, lift).Return(nil)

	got, err := f.svc.CorrectTally(context.Background(), f.actor(domain.RoleAccounts), lift.ID, service.CorrectionInput{
		Voucher: " PV-121 ",
		Remarks: "ledger created",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TallyDone, got.TallyStatus)
	assert.Equal(t, "PV-121", got.TallyVoucher)
	assert.NotNil(t, got.ActualCorrection)
	assert.Equal(t, []string{string(domain.AuditLiftTallyCorrected)}, f.events.Actions())
}

func TestLiftService_CorrectTally_NotPlanned(t *testing.T) {
	f := newLiftFixture()
	lift := f.awaitingTally()
	f.expectLift(lift)

	_, err := f.svc.CorrectTally(context.Background(), f.actor(domain.RoleAccounts), lift.ID, service.CorrectionInput{Voucher: "PV-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLiftService_ListByStage(t *testing.T) {
	f := newLiftFixture()
	actor := domain.Actor{TenantID: f.tenantID, Role: domain.RoleStore, Scope: "Acme Spinning"}
	want := []domain.Lift{{LiftNumber: "LF-0001", PlannedStoreIn: ago(time.Hour)}}
	f.liftRepo.On("ListByStage", mock.Anything, f.tenantID, mock.MatchedBy(func(filter domain.StageFilter) bool {
		return filter.Stage == domain.StageStoreIn && filter.Scope == actor.Scope
	})).Return(want, 1, nil)

	got, total, err := f.svc.ListByStage(context.Background(), actor, domain.StageFilter{
		Stage: domain.StageStoreIn, View: domain.ViewPending, Limit: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "LF-0001", got[0].LiftNumber)
	assert.Equal(t, domain.StageStoreIn, got[0].CurrentStage)

	_, _, err = f.svc.ListByStage(context.Background(), actor, domain.StageFilter{Stage: domain.StageApproval, View: domain.ViewPending})
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}

func TestLiftService_GetByID_DerivesCurrentStage(t *testing.T) {
	f := newLiftFixture()
	actor := domain.Actor{TenantID: f.tenantID, Role: domain.RoleAccounts, Scope: domain.FirmMatchAll}
	stored := &domain.Lift{
		ID:               uuid.New(),
		LiftNumber:       "LF-0003",
		PlannedStoreIn:   ago(3 * time.Hour),
		ActualStoreIn:    ago(2 * time.Hour),
		PlannedBillCheck: ago(2 * time.Hour),
	}
	f.liftRepo.On("GetByID", mock.Anything, f.tenantID, stored.ID, actor.Scope).Return(stored, nil)

	got, err := f.svc.GetByID(context.Background(), actor, stored.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StageBillCheck, got.CurrentStage)
}

func TestLiftService_Anomalies(t *testing.T) {
	f := newLiftFixture()
	actor := domain.Actor{TenantID: f.tenantID, Role: domain.RoleAdmin, Scope: "Acme Spinning"}
	clean := domain.Lift{ID: uuid.New(), LiftNumber: "LF-0001", PlannedStoreIn: ago(time.Hour)}
	broken := domain.Lift{
		ID:               uuid.New(),
		LiftNumber:       "LF-0002",
		IndentNumber:     "SI-0007",
		FirmName:         "Acme Spinning",
		PlannedStoreIn:   ago(5 * time.Hour),
		PlannedBillCheck: ago(4 * time.Hour),
		ActualBillCheck:  ago(3 * time.Hour),
	}
	f.liftRepo.On("ListAll", mock.Anything, f.tenantID, actor.Scope, 0, 500).
		Return([]domain.Lift{clean, broken}, 2, nil)

	found, err := f.svc.Anomalies(context.Background(), actor)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "LF-0002", found[0].LiftNumber)
	assert.Equal(t, "SI-0007", found[0].IndentNumber)
	require.Len(t, found[0].Anomalies, 1)
	assert.Equal(t, workflow.AnomalyOutOfOrder, found[0].Anomalies[0].Kind)
	assert.Equal(t, domain.StageBillCheck, found[0].Anomalies[0].Stage)
	assert.Equal(t, domain.StageStoreIn, found[0].Anomalies[0].Blocker)
}

func TestLiftService_Anomalies_RepoError(t *testing.T) {
	f := newLiftFixture()
	actor := domain.Actor{TenantID: f.tenantID, Role: domain.RoleAdmin, Scope: domain.FirmMatchAll}
	boom := errors.New("db down")
	f.liftRepo.On("ListAll", mock.Anything, f.tenantID, actor.Scope, 0, 500).Return(nil, 0, boom)

	_, err := f.svc.Anomalies(context.Background(), actor)
	assert.ErrorIs(t, err, boom)
}
