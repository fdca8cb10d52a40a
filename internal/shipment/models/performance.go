package models

// PerformanceStage names one of the fixed control milestones.
type PerformanceStage string

const (
	StageFormMApproval      PerformanceStage = "FORM_M_APPROVAL"
	StagePAARReceived       PerformanceStage = "PAAR_RECEIVED"
	StageDutyPaid           PerformanceStage = "DUTY_PAID"
	StageVesselArrival      PerformanceStage = "VESSEL_ARRIVAL"
	StageTDOReceived        PerformanceStage = "TDO_RECEIVED"
	StageCustomsExamination PerformanceStage = "CUSTOMS_EXAMINATION"
	StageCustomsRelease     PerformanceStage = "CUSTOMS_RELEASE"
	StageGateOut            PerformanceStage = "GATE_OUT"
	StageDelivery           PerformanceStage = "DELIVERY"
	StageEmptyReturn        PerformanceStage = "EMPTY_RETURN"
	StageEIRReceived        PerformanceStage = "EIR_RECEIVED"
	StageRefundApplication  PerformanceStage = "REFUND_APPLICATION"
	StageDocsToInvoicing    PerformanceStage = "DOCS_TO_INVOICING"
	StageFileClosure        PerformanceStage = "FILE_CLOSURE"
)

// PerformanceStageOrder is the fixed row order.
var PerformanceStageOrder = [14]PerformanceStage{
	StageFormMApproval,
	StagePAARReceived,
	StageDutyPaid,
	StageVesselArrival,
	StageTDOReceived,
	StageCustomsExamination,
	StageCustomsRelease,
	StageGateOut,
	StageDelivery,
	StageEmptyReturn,
	StageEIRReceived,
	StageRefundApplication,
	StageDocsToInvoicing,
	StageFileClosure,
}

type PerformanceRow struct {
	Stage   PerformanceStage `json:"stage"`
	Planned Timestamp        `json:"planned"`
	Actual  Timestamp        `json:"actual"`
	Remarks string           `json:"remarks,omitempty"`
}

// Variance is actual minus planned in calendar days; ok is false until both
// dates exist.
func (r PerformanceRow) Variance() (days int, ok bool) {
	return DaysBetween(r.Planned, r.Actual)
}

// Lagging is true when the planned date has passed without an actual.
func (r PerformanceRow) Lagging(now Timestamp) bool {
	return !r.Actual.IsSet() && r.Planned.Midnight().Before(now.Midnight())
}

// PerformanceControlStages is tracked independently of the lifecycle engine.
type PerformanceControlStages struct {
	Rows [14]PerformanceRow `json:"rows"`
}

// NewPerformanceControlStages returns the fixed rows with no dates.
func NewPerformanceControlStages() PerformanceControlStages {
	var p PerformanceControlStages
	for i, stage := range PerformanceStageOrder {
		p.Rows[i].Stage = stage
	}
	return p
}

// Row returns the row for stage.
func (p *PerformanceControlStages) Row(stage PerformanceStage) (PerformanceRow, bool) {
	for _, r := range p.Rows {
		if r.Stage == stage {
			return r, true
		}
	}
	return PerformanceRow{}, false
}

// LaggingStages lists stages that are overdue at now.
func (p *PerformanceControlStages) LaggingStages(now Timestamp) []PerformanceStage {
	var out []PerformanceStage
	for _, r := range p.Rows {
		if r.Lagging(now) {
			out = append(out, r.Stage)
		}
	}
	return out
}
