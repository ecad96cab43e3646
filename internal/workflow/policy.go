package workflow

import (
	"fmt"

	"indentflow/internal/domain"
)

var stageRoles = map[domain.Stage][]domain.UserRole{
	domain.StageApproval:   {domain.RoleApprover},
	domain.StageThreeParty: {domain.RoleApprover},
	domain.StageVendorRate: {domain.RolePurchaser},
	domain.StagePO:         {domain.RolePurchaser},
	domain.StageReceipt:    {domain.RoleStore},
	domain.StageStoreIn:    {domain.RoleStore},
	domain.StageStoreIssue: {domain.RoleStore},
	domain.StageBillCheck:  {domain.RoleAccounts},
	domain.StageTally:      {domain.RoleAccounts},
	domain.StageCorrection: {domain.RoleAccounts},
}

// CanAct reports whether role may complete stage. Admins may act on every stage.
func CanAct(role domain.UserRole, stage domain.Stage) bool {
	if role == domain.RoleAdmin {
		return stage.IsIndentStage() || stage.IsLiftStage()
	}
	for _, r := range stageRoles[stage] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns ErrStageForbidden unless role may complete stage.
func Authorize(role domain.UserRole, stage domain.Stage) error {
	if !CanAct(role, stage) {
		return fmt.Errorf("%w: %s cannot act on %s", domain.ErrStageForbidden, role, stage)
	}
	return nil
}

// Columns names the planned/actual columns of a stage.
type Columns struct {
	Table   string
	Planned string
	Actual  string
}

var stageColumns = map[domain.Stage]Columns{
	domain.StageApproval:   {"indents", "planned_approval", "actual_approval"},
	domain.StageVendorRate: {"indents", "planned_rate", "actual_rate"},
	domain.StageThreeParty: {"indents", "planned_three_party", "actual_three_party"},
	domain.StagePO:         {"indents", "planned_po", "actual_po"},
	domain.StageReceipt:    {"indents", "planned_receipt", "actual_receipt"},
	domain.StageStoreIssue: {"indents", "planned_store_issue", "actual_store_issue"},
	domain.StageStoreIn:    {"lifts", "planned_store_in", "actual_store_in"},
	domain.StageBillCheck:  {"lifts", "planned_bill_check", "actual_bill_check"},
	domain.StageTally:      {"lifts", "planned_tally", "actual_tally"},
	domain.StageCorrection: {"lifts", "planned_correction", "actual_correction"},
}

// StageColumns returns the whitelisted columns for stage. Column names are
// only ever taken from this table when building SQL.
func StageColumns(stage domain.Stage) (Columns, bool) {
	c, ok := stageColumns[stage]
	return c, ok
}

// ViewCondition returns the SQL predicate selecting rows in view for stage.
func ViewCondition(stage domain.Stage, view domain.View) (string, bool) {
	c, ok := stageColumns[stage]
	if !ok {
		return "", false
	}
	switch view {
	case domain.ViewPending:
		return c.Planned + " IS NOT NULL AND " + c.Actual + " IS NULL", true
	case domain.ViewHistory:
		return c.Actual + " IS NOT NULL", true
	}
	return "", false
}
