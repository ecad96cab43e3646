package workflow

import (
	"fmt"
	"time"

	"indentflow/internal/domain"
)

func indentFields(in *domain.Indent, stage domain.Stage) (planned, actual **time.Time) {
	switch stage {
	case domain.StageApproval:
		return &in.PlannedApproval, &in.ActualApproval
	case domain.StageVendorRate:
		return &in.PlannedRate, &in.ActualRate
	case domain.StageThreeParty:
		return &in.PlannedThreeParty, &in.ActualThreeParty
	case domain.StagePO:
		return &in.PlannedPO, &in.ActualPO
	case domain.StageReceipt:
		return &in.PlannedReceipt, &in.ActualReceipt
	case domain.StageStoreIssue:
		return &in.PlannedStoreIssue, &in.ActualStoreIssue
	}
	return nil, nil
}

func liftFields(l *domain.Lift, stage domain.Stage) (planned, actual **time.Time) {
	switch stage {
	case domain.StageStoreIn:
		return &l.PlannedStoreIn, &l.ActualStoreIn
	case domain.StageBillCheck:
		return &l.PlannedBillCheck, &l.ActualBillCheck
	case domain.StageTally:
		return &l.PlannedTally, &l.ActualTally
	case domain.StageCorrection:
		return &l.PlannedCorrection, &l.ActualCorrection
	}
	return nil, nil
}

// NextIndentStages returns the stages planned when stage completes on in.
// The vendor and indent type must already carry the values set by the
// completing action.
func NextIndentStages(in *domain.Indent, stage domain.Stage) []domain.Stage {
	switch stage {
	case domain.StageApproval:
		if in.VendorType == domain.VendorTypeReject {
			return nil
		}
		if in.IndentType == domain.IndentTypeStoreOut {
			return []domain.Stage{domain.StageStoreIssue}
		}
		return []domain.Stage{domain.StageVendorRate}
	case domain.StageVendorRate:
		if in.VendorType == domain.VendorTypeThreeParty {
			return []domain.Stage{domain.StageThreeParty}
		}
		return []domain.Stage{domain.StagePO}
	case domain.StageThreeParty:
		return []domain.Stage{domain.StagePO}
	case domain.StagePO:
		return []domain.Stage{domain.StageReceipt}
	}
	return nil
}

// NextLiftStages returns the stages planned when stage completes on l.
func NextLiftStages(l *domain.Lift, stage domain.Stage) []domain.Stage {
	switch stage {
	case domain.StageStoreIn:
		return []domain.Stage{domain.StageBillCheck}
	case domain.StageBillCheck:
		return []domain.Stage{domain.StageTally}
	case domain.StageTally:
		if l.TallyStatus == domain.TallyNotDone {
			return []domain.Stage{domain.StageCorrection}
		}
	}
	return nil
}

// PlanIndent plans the first stage of a newly created indent.
func PlanIndent(in *domain.Indent, now time.Time) {
	t := now
	in.PlannedApproval = &t
}

// PlanLift plans the first stage of a newly created lift.
func PlanLift(l *domain.Lift, now time.Time) {
	t := now
	l.PlannedStoreIn = &t
}

// CompleteIndentStage marks stage done on in and plans its successors. It
// fails with ErrInvalidTransition unless the stage is pending.
func CompleteIndentStage(in *domain.Indent, stage domain.Stage, now time.Time) error {
	planned, actual := indentFields(in, stage)
	if planned == nil {
		return fmt.Errorf("%w: %s is not an indent stage", domain.ErrInvalidTransition, stage)
	}
	if err := complete(planned, actual, stage, now); err != nil {
		return err
	}
	for _, next := range NextIndentStages(in, stage) {
		p, _ := indentFields(in, next)
		if *p == nil {
			t := now
			*p = &t
		}
	}
	return nil
}

// CompleteLiftStage marks stage done on l and plans its successors.
func CompleteLiftStage(l *domain.Lift, stage domain.Stage, now time.Time) error {
	planned, actual := liftFields(l, stage)
	if planned == nil {
		return fmt.Errorf("%w: %s is not a lift stage", domain.ErrInvalidTransition, stage)
	}
	if err := complete(planned, actual, stage, now); err != nil {
		return err
	}
	for _, next := range NextLiftStages(l, stage) {
		p, _ := liftFields(l, next)
		if *p == nil {
			t := now
			*p = &t
		}
	}
	return nil
}

func complete(planned, actual **time.Time, stage domain.Stage, now time.Time) error {
	if (Pair{*planned, *actual}).State() != domain.StatePending {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, stage)
	}
	t := now
	*actual = &t
	return nil
}

// RequirePending returns ErrInvalidTransition unless the stage is pending.
func RequirePending(p Pair, stage domain.Stage) error {
	if p.State() != domain.StatePending {
		return fmt.Errorf("%w: %s", domain.ErrInvalidTransition, stage)
	}
	return nil
}
