package domain

// Stage names a step of the procurement workflow. Every stage is backed by a
// planned/actual timestamp pair on either the indent or the lift record.
type Stage string

const (
	StageApproval   Stage = "approval"
	StageVendorRate Stage = "vendor_rate"
	StageThreeParty Stage = "three_party"
	StagePO         Stage = "purchase_order"
	StageReceipt    Stage = "receipt"
	StageStoreIssue Stage = "store_issue"

	StageStoreIn    Stage = "store_in"
	StageBillCheck  Stage = "bill_check"
	StageTally      Stage = "tally"
	StageCorrection Stage = "correction"

	// Pseudo stages reported by workflow.CurrentIndentStage and CurrentLiftStage.
	StageRejected Stage = "rejected"
	StageClosed   Stage = "closed"
)

// IndentStages lists indent stages in workflow order.
var IndentStages = []Stage{
	StageApproval, StageVendorRate, StageThreeParty, StagePO, StageReceipt, StageStoreIssue,
}

// LiftStages lists lift stages in workflow order.
var LiftStages = []Stage{
	StageStoreIn, StageBillCheck, StageTally, StageCorrection,
}

// IsIndentStage reports whether s is stored on the indent record.
func (s Stage) IsIndentStage() bool {
	for _, st := range IndentStages {
		if st == s {
			return true
		}
	}
	return false
}

// IsLiftStage reports whether s is stored on the lift record.
func (s Stage) IsLiftStage() bool {
	for _, st := range LiftStages {
		if st == s {
			return true
		}
	}
	return false
}

// View selects which side of a stage a listing shows.
type View string

const (
	ViewPending View = "pending"
	ViewHistory View = "history"
)

// StageState is the derived state of a single planned/actual pair.
type StageState string

const (
	StateNone    StageState = "none"
	StatePending StageState = "pending"
	StateDone    StageState = "done"
)
