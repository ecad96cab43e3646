// Package workflow derives stage state from planned/actual timestamp pairs and
// validates stage transitions of indents and lifts.
package workflow

import (
	"time"

	"indentflow/internal/domain"
)

// Pair is a stage's planned/actual timestamp pair.
type Pair struct {
	Planned *time.Time
	Actual  *time.Time
}

// State derives the stage state of a pair. An actual without a planned
// timestamp counts as done; Anomalies reports it separately.
func (p Pair) State() domain.StageState {
	switch {
	case p.Actual != nil:
		return domain.StateDone
	case p.Planned != nil:
		return domain.StatePending
	default:
		return domain.StateNone
	}
}

// InView reports whether a pair belongs to the given view.
func (p Pair) InView(view domain.View) bool {
	switch view {
	case domain.ViewPending:
		return p.State() == domain.StatePending
	case domain.ViewHistory:
		return p.State() == domain.StateDone
	}
	return false
}

// IndentPair returns the timestamp pair backing an indent stage.
func IndentPair(in *domain.Indent, stage domain.Stage) Pair {
	switch stage {
	case domain.StageApproval:
		return Pair{in.PlannedApproval, in.ActualApproval}
	case domain.StageVendorRate:
		return Pair{in.PlannedRate, in.ActualRate}
	case domain.StageThreeParty:
		return Pair{in.PlannedThreeParty, in.ActualThreeParty}
	case domain.StagePO:
		return Pair{in.PlannedPO, in.ActualPO}
	case domain.StageReceipt:
		return Pair{in.PlannedReceipt, in.ActualReceipt}
	case domain.StageStoreIssue:
		return Pair{in.PlannedStoreIssue, in.ActualStoreIssue}
	}
	return Pair{}
}

// LiftPair returns the timestamp pair backing a lift stage.
func LiftPair(l *domain.Lift, stage domain.Stage) Pair {
	switch stage {
	case domain.StageStoreIn:
		return Pair{l.PlannedStoreIn, l.ActualStoreIn}
	case domain.StageBillCheck:
		return Pair{l.PlannedBillCheck, l.ActualBillCheck}
	case domain.StageTally:
		return Pair{l.PlannedTally, l.ActualTally}
	case domain.StageCorrection:
		return Pair{l.PlannedCorrection, l.ActualCorrection}
	}
	return Pair{}
}

// IndentPath lists the stages an indent passes through given its vendor and
// indent type, in order.
func IndentPath(in *domain.Indent) []domain.Stage {
	if in.VendorType == domain.VendorTypeReject {
		return []domain.Stage{domain.StageApproval}
	}
	if in.IndentType == domain.IndentTypeStoreOut {
		return []domain.Stage{domain.StageApproval, domain.StageStoreIssue}
	}
	switch in.VendorType {
	case domain.VendorTypeThreeParty:
		return []domain.Stage{
			domain.StageApproval, domain.StageVendorRate, domain.StageThreeParty,
			domain.StagePO, domain.StageReceipt,
		}
	}
	return []domain.Stage{
		domain.StageApproval, domain.StageVendorRate, domain.StagePO, domain.StageReceipt,
	}
}

// LiftPath lists the stages a lift passes through, in order.
func LiftPath(l *domain.Lift) []domain.Stage {
	if l.TallyStatus == domain.TallyNotDone || l.PlannedCorrection != nil || l.ActualCorrection != nil {
		return domain.LiftStages
	}
	return domain.LiftStages[:3]
}

// CurrentIndentStage returns the first pending stage of an indent. It returns
// StageRejected for a rejected approval and StageClosed once the final stage
// is done.
func CurrentIndentStage(in *domain.Indent) domain.Stage {
	path := IndentPath(in)
	if in.VendorType == domain.VendorTypeReject &&
		IndentPair(in, domain.StageApproval).State() == domain.StateDone {
		return domain.StageRejected
	}
	return current(path, func(s domain.Stage) Pair { return IndentPair(in, s) })
}

// AnnotateIndent sets the derived current stage on in and returns it.
func AnnotateIndent(in *domain.Indent) *domain.Indent {
	if in != nil {
		in.CurrentStage = CurrentIndentStage(in)
	}
	return in
}

// AnnotateLift sets the derived current stage on l and returns it.
func AnnotateLift(l *domain.Lift) *domain.Lift {
	if l != nil {
		l.CurrentStage = CurrentLiftStage(l)
	}
	return l
}

// CurrentLiftStage returns the first pending stage of a lift.
func CurrentLiftStage(l *domain.Lift) domain.Stage {
	return current(LiftPath(l), func(s domain.Stage) Pair { return LiftPair(l, s) })
}

func current(path []domain.Stage, pair func(domain.Stage) Pair) domain.Stage {
	for _, s := range path {
		if pair(s).State() == domain.StatePending {
			return s
		}
	}
	if pair(path[len(path)-1]).State() == domain.StateDone {
		return domain.StageClosed
	}
	// Nothing pending and the final stage is not done: the record is stuck
	// behind a gap, which Anomalies reports.
	for _, s := range path {
		if pair(s).State() == domain.StateNone {
			return s
		}
	}
	return domain.StageClosed
}
