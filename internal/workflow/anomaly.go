package workflow

import "indentflow/internal/domain"

// AnomalyKind classifies an inconsistent stage history.
type AnomalyKind string

const (
	// AnomalyActualWithoutPlanned is an actual timestamp with no planned one.
	AnomalyActualWithoutPlanned AnomalyKind = "actual_without_planned"
	// AnomalyOutOfOrder is a stage marked done while an earlier stage on the
	// record's path is not.
	AnomalyOutOfOrder AnomalyKind = "out_of_order"
)

// Anomaly describes one inconsistency found on a record.
type Anomaly struct {
	Stage   domain.Stage `json:"stage"`
	Kind    AnomalyKind  `json:"kind"`
	Blocker domain.Stage `json:"blocker,omitempty"`
}

// IndentAnomalies lists the inconsistencies of an indent's stage history.
func IndentAnomalies(in *domain.Indent) []Anomaly {
	return anomalies(IndentPath(in), func(s domain.Stage) Pair { return IndentPair(in, s) })
}

// LiftAnomalies lists the inconsistencies of a lift's stage history.
func LiftAnomalies(l *domain.Lift) []Anomaly {
	return anomalies(LiftPath(l), func(s domain.Stage) Pair { return LiftPair(l, s) })
}

func anomalies(path []domain.Stage, pair func(domain.Stage) Pair) []Anomaly {
	var out []Anomaly
	for i, s := range path {
		p := pair(s)
		if p.Actual != nil && p.Planned == nil {
			out = append(out, Anomaly{Stage: s, Kind: AnomalyActualWithoutPlanned})
		}
		if p.State() != domain.StateDone {
			continue
		}
		for _, earlier := range path[:i] {
			if pair(earlier).State() != domain.StateDone {
				out = append(out, Anomaly{Stage: s, Kind: AnomalyOutOfOrder, Blocker: earlier})
				break
			}
		}
	}
	return out
}
