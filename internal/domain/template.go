package domain

// PlanTemplate is read-only reference data describing one kind of recovery
// plan. Templates are loaded once at startup and never mutated.
type PlanTemplate struct {
	Key                   string   `json:"key" yaml:"key"`
	Name                  string   `json:"name" yaml:"name"`
	SuggestedDurationDays int      `json:"suggestedDurationDays" yaml:"suggested_duration_days"`
	RiskNotes             []string `json:"riskNotes" yaml:"risk_notes"`
	Guidelines            []string `json:"guidelines" yaml:"guidelines"`
}
