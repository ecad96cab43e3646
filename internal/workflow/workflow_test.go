package workflow_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indentflow/internal/domain"
	"indentflow/internal/workflow"
)

func ts(offsetHours int) *time.Time {
	t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(offsetHours) * time.Hour)
	return &t
}

func TestPair_State(t *testing.T) {
	tests := []struct {
		name string
		pair workflow.Pair
		want domain.StageState
	}{
		{"none", workflow.Pair{}, domain.StateNone},
		{"pending", workflow.Pair{Planned: ts(0)}, domain.StatePending},
		{"done", workflow.Pair{Planned: ts(0), Actual: ts(1)}, domain.StateDone},
		{"actual only", workflow.Pair{Actual: ts(1)}, domain.StateDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pair.State())
		})
	}
}

func TestPair_InView(t *testing.T) {
	pending := workflow.Pair{Planned: ts(0)}
	done := workflow.Pair{Planned: ts(0), Actual: ts(1)}

	assert.True(t, pending.InView(domain.ViewPending))
	assert.False(t, pending.InView(domain.ViewHistory))
	assert.True(t, done.InView(domain.ViewHistory))
	assert.False(t, done.InView(domain.ViewPending))
	assert.False(t, workflow.Pair{}.InView(domain.ViewPending))
	assert.False(t, workflow.Pair{}.InView(domain.ViewHistory))
}

func TestCompleteIndentStage_PlansNext(t *testing.T) {
	tests := []struct {
		name       string
		indentType domain.IndentType
		vendorType domain.VendorType
		stage      domain.Stage
		wantNext   domain.Stage
	}{
		{"regular approval", domain.IndentTypePurchase, domain.VendorTypeRegular, domain.StageApproval, domain.StageVendorRate},
		{"new vendor approval", domain.IndentTypePurchase, domain.VendorTypeNewVendor, domain.StageApproval, domain.StageVendorRate},
		{"three party approval", domain.IndentTypePurchase, domain.VendorTypeThreeParty, domain.StageApproval, domain.StageVendorRate},
		{"store out approval", domain.IndentTypeStoreOut, domain.VendorTypeRegular, domain.StageApproval, domain.StageStoreIssue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &domain.Indent{IndentType: tt.indentType, VendorType: tt.vendorType}
			workflow.PlanIndent(in, *ts(0))

			require.NoError(t, workflow.CompleteIndentStage(in, tt.stage, *ts(1)))

			assert.Equal(t, domain.StateDone, workflow.IndentPair(in, tt.stage).State())
			assert.Equal(t, domain.StatePending, workflow.IndentPair(in, tt.wantNext).State())
			assert.Equal(t, tt.wantNext, workflow.CurrentIndentStage(in))
		})
	}
}

func TestCompleteIndentStage_RejectPlansNothing(t *testing.T) {
	in := &domain.Indent{IndentType: domain.IndentTypePurchase, VendorType: domain.VendorTypeReject}
	workflow.PlanIndent(in, *ts(0))

	require.NoError(t, workflow.CompleteIndentStage(in, domain.StageApproval, *ts(1)))

	assert.Nil(t, in.PlannedRate)
	assert.Nil(t, in.PlannedStoreIssue)
	assert.Equal(t, domain.StageRejected, workflow.CurrentIndentStage(in))
}

func TestCompleteIndentStage_FullPurchasePath(t *testing.T) {
	in := &domain.Indent{IndentType: domain.IndentTypePurchase, VendorType: domain.VendorTypeThreeParty}
	workflow.PlanIndent(in, *ts(0))

	for i, stage := range []domain.Stage{
		domain.StageApproval, domain.StageVendorRate, domain.StageThreeParty, domain.StagePO, domain.StageReceipt,
	} {
		require.Equal(t, stage, workflow.CurrentIndentStage(in))
		require.NoError(t, workflow.CompleteIndentStage(in, stage, *ts(i+1)))
	}

	assert.Equal(t, domain.StageClosed, workflow.CurrentIndentStage(in))
	assert.Empty(t, workflow.IndentAnomalies(in))
}

func TestCompleteIndentStage_RegularSkipsThreeParty(t *testing.T) {
	in := &domain.Indent{IndentType: domain.IndentTypePurchase, VendorType: domain.VendorTypeRegular}
	workflow.PlanIndent(in, *ts(0))
	require.NoError(t, workflow.CompleteIndentStage(in, domain.StageApproval, *ts(1)))
	require.NoError(t, workflow.CompleteIndentStage(in, domain.StageVendorRate, *ts(2)))

	assert.Nil(t, in.PlannedThreeParty)
	assert.Equal(t, domain.StagePO, workflow.CurrentIndentStage(in))
}

func TestCompleteIndentStage_NotPending(t *testing.T) {
	in := &domain.Indent{IndentType: domain.IndentTypePurchase, VendorType: domain.VendorTypeRegular}

	err := workflow.CompleteIndentStage(in, domain.StageApproval, *ts(1))
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	workflow.PlanIndent(in, *ts(0))
	require.NoError(t, workflow.CompleteIndentStage(in, domain.StageApproval, *ts(1)))

	err = workflow.CompleteIndentStage(in, domain.StageApproval, *ts(2))
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	err = workflow.CompleteIndentStage(in, domain.StageTally, *ts(2))
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestCompleteLiftStage(t *testing.T) {
	l := &domain.Lift{TallyStatus: domain.TallyPending}
	workflow.PlanLift(l, *ts(0))

	require.NoError(t, workflow.CompleteLiftStage(l, domain.StageStoreIn, *ts(1)))
	assert.Equal(t, domain.StageBillCheck, workflow.CurrentLiftStage(l))

	require.NoError(t, workflow.CompleteLiftStage(l, domain.StageBillCheck, *ts(2)))
	assert.Equal(t, domain.StageTally, workflow.CurrentLiftStage(l))

	l.TallyStatus = domain.TallyNotDone
	require.NoError(t, workflow.CompleteLiftStage(l, domain.StageTally, *ts(3)))
	assert.Equal(t, domain.StageCorrection, workflow.CurrentLiftStage(l))

	require.NoError(t, workflow.CompleteLiftStage(l, domain.StageCorrection, *ts(4)))
	assert.Equal(t, domain.StageClosed, workflow.CurrentLiftStage(l))
}

func TestCompleteLiftStage_TallyDoneCloses(t *testing.T) {
	l := &domain.Lift{TallyStatus: domain.TallyPending}
	workflow.PlanLift(l, *ts(0))
	require.NoError(t, workflow.CompleteLiftStage(l, domain.StageStoreIn, *ts(1)))
	require.NoError(t, workflow.CompleteLiftStage(l, domain.StageBillCheck, *ts(2)))

	l.TallyStatus = domain.TallyDone
	require.NoError(t, workflow.CompleteLiftStage(l, domain.StageTally, *ts(3)))

	assert.Nil(t, l.PlannedCorrection)
	assert.Equal(t, domain.StageClosed, workflow.CurrentLiftStage(l))
}

func TestIndentAnomalies(t *testing.T) {
	t.Run("done without earlier stage", func(t *testing.T) {
		in := &domain.Indent{
			IndentType:      domain.IndentTypePurchase,
			VendorType:      domain.VendorTypeRegular,
			PlannedApproval: ts(0),
			PlannedPO:       ts(1),
			ActualPO:        ts(2),
		}
		got := workflow.IndentAnomalies(in)
		require.Len(t, got, 1)
		assert.Equal(t, domain.StagePO, got[0].Stage)
		assert.Equal(t, workflow.AnomalyOutOfOrder, got[0].Kind)
		assert.Equal(t, domain.StageApproval, got[0].Blocker)
	})

	t.Run("actual without planned", func(t *testing.T) {
		in := &domain.Indent{
			IndentType:     domain.IndentTypePurchase,
			VendorType:     domain.VendorTypeRegular,
			ActualApproval: ts(1),
			PlannedRate:    ts(1),
		}
		got := workflow.IndentAnomalies(in)
		require.Len(t, got, 1)
		assert.Equal(t, workflow.AnomalyActualWithoutPlanned, got[0].Kind)
	})

	t.Run("clean", func(t *testing.T) {
		in := &domain.Indent{
			IndentType:      domain.IndentTypePurchase,
			VendorType:      domain.VendorTypeRegular,
			PlannedApproval: ts(0),
			ActualApproval:  ts(1),
			PlannedRate:     ts(1),
		}
		assert.Empty(t, workflow.IndentAnomalies(in))
	})
}

func TestLiftAnomalies(t *testing.T) {
	t.Run("tally before bill check", func(t *testing.T) {
		l := &domain.Lift{
			TallyStatus:      domain.TallyDone,
			PlannedStoreIn:   ts(0),
			ActualStoreIn:    ts(1),
			PlannedBillCheck: ts(1),
			PlannedTally:     ts(2),
			ActualTally:      ts(3),
		}
		got := workflow.LiftAnomalies(l)
		require.Len(t, got, 1)
		assert.Equal(t, domain.StageTally, got[0].Stage)
		assert.Equal(t, workflow.AnomalyOutOfOrder, got[0].Kind)
		assert.Equal(t, domain.StageBillCheck, got[0].Blocker)
	})

	t.Run("correction actual without planned", func(t *testing.T) {
		l := &domain.Lift{
			TallyStatus:      domain.TallyNotDone,
			PlannedStoreIn:   ts(0),
			ActualStoreIn:    ts(1),
			PlannedBillCheck: ts(1),
			ActualBillCheck:  ts(2),
			PlannedTally:     ts(2),
			ActualTally:      ts(3),
			ActualCorrection: ts(4),
		}
		got := workflow.LiftAnomalies(l)
		require.Len(t, got, 1)
		assert.Equal(t, domain.StageCorrection, got[0].Stage)
		assert.Equal(t, workflow.AnomalyActualWithoutPlanned, got[0].Kind)
	})

	t.Run("clean", func(t *testing.T) {
		l := &domain.Lift{TallyStatus: domain.TallyPending}
		workflow.PlanLift(l, *ts(0))
		require.NoError(t, workflow.CompleteLiftStage(l, domain.StageStoreIn, *ts(1)))
		assert.Empty(t, workflow.LiftAnomalies(l))
	})
}

func TestCompleteLiftStage_NotPending(t *testing.T) {
	l := &domain.Lift{TallyStatus: domain.TallyPending}
	workflow.PlanLift(l, *ts(0))

	err := workflow.CompleteLiftStage(l, domain.StageBillCheck, *ts(1))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Nil(t, l.ActualBillCheck)
}

func TestAnnotate(t *testing.T) {
	in := &domain.Indent{
		IndentType:      domain.IndentTypePurchase,
		VendorType:      domain.VendorTypeRegular,
		PlannedApproval: ts(0),
		ActualApproval:  ts(1),
		PlannedRate:     ts(1),
	}
	assert.Equal(t, domain.StageVendorRate, workflow.AnnotateIndent(in).CurrentStage)

	l := &domain.Lift{TallyStatus: domain.TallyPending}
	workflow.PlanLift(l, *ts(0))
	assert.Equal(t, domain.StageStoreIn, workflow.AnnotateLift(l).CurrentStage)

	assert.Nil(t, workflow.AnnotateIndent(nil))
	assert.Nil(t, workflow.AnnotateLift(nil))
}

func TestCanAct(t *testing.T) {
	tests := []struct {
		role  domain.UserRole
		stage domain.Stage
		want  bool
	}{
		{domain.RoleAdmin, domain.StageApproval, true},
		{domain.RoleAdmin, domain.StageCorrection, true},
		{domain.RoleAdmin, domain.StageClosed, false},
		{domain.RoleApprover, domain.StageApproval, true},
		{domain.RoleApprover, domain.StageThreeParty, true},
		{domain.RoleApprover, domain.StagePO, false},
		{domain.RolePurchaser, domain.StageVendorRate, true},
		{domain.RolePurchaser, domain.StagePO, true},
		{domain.RolePurchaser, domain.StageApproval, false},
		{domain.RoleStore, domain.StageReceipt, true},
		{domain.RoleStore, domain.StageStoreIn, true},
		{domain.RoleStore, domain.StageStoreIssue, true},
		{domain.RoleStore, domain.StageBillCheck, false},
		{domain.RoleAccounts, domain.StageBillCheck, true},
		{domain.RoleAccounts, domain.StageTally, true},
		{domain.RoleAccounts, domain.StageCorrection, true},
		{domain.RoleViewer, domain.StageApproval, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.stage), func(t *testing.T) {
			assert.Equal(t, tt.want, workflow.CanAct(tt.role, tt.stage))
		})
	}
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, workflow.Authorize(domain.RoleAccounts, domain.StageTally))
	err := workflow.Authorize(domain.RoleViewer, domain.StageTally)
	assert.True(t, errors.Is(err, domain.ErrStageForbidden))
}

func TestViewCondition(t *testing.T) {
	cond, ok := workflow.ViewCondition(domain.StageApproval, domain.ViewPending)
	require.True(t, ok)
	assert.Equal(t, "planned_approval IS NOT NULL AND actual_approval IS NULL", cond)

	cond, ok = workflow.ViewCondition(domain.StageTally, domain.ViewHistory)
	require.True(t, ok)
	assert.Equal(t, "actual_tally IS NOT NULL", cond)

	_, ok = workflow.ViewCondition(domain.Stage("drop table"), domain.ViewPending)
	assert.False(t, ok)

	_, ok = workflow.ViewCondition(domain.StageTally, domain.View("all"))
	assert.False(t, ok)
}
