package domain

// ProgressSnapshot is derived from a plan and its check-in ledger on every
// query. It is never persisted, so it can never go stale independently of
// the ledger.
type ProgressSnapshot struct {
	ElapsedDays      int `json:"elapsedDays"`
	CompletedDays    int `json:"completedDays"`
	AdherencePercent int `json:"adherencePercent"`
	CurrentStreak    int `json:"currentStreak"`
}

// SummaryReport is the closing aggregate for a plan. Meaningful once the
// plan is completed; computed earlier it reflects partial progress.
type SummaryReport struct {
	SuccessRatePercent int      `json:"successRatePercent"`
	LongestStreak      int      `json:"longestStreak"`
	CompletedDays      int      `json:"completedDays"`
	TotalDays          int      `json:"totalDays"`
	Suggestions        []string `json:"suggestions"`
}
