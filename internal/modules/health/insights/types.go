package insights

import "github.com/sakhi-app/core/internal/analytics"

const (
	// historyWindow is how many recent periods feed the analysis.
	historyWindow = 12

	// promptWindow is how many of those are shown to the model.
	promptWindow = 6

	minLogs       = 2
	normalMaxDays = 7.0
)

type RegularityNote struct {
	Status      string `json:"status"`
	Explanation string `json:"explanation"`
}

type Prediction struct {
	EstimatedDate string `json:"estimated_date"`
	Confidence    string `json:"confidence"`
	Reasoning     string `json:"reasoning"`
}

// Report is the period insights payload.
type Report struct {
	CycleRegularity      *RegularityNote       `json:"cycle_regularity,omitempty"`
	NextPeriodPrediction *Prediction           `json:"next_period_prediction"`
	Insights             []string              `json:"insights"`
	Recommendations      []string              `json:"recommendations"`
	HealthFlags          []string              `json:"health_flags"`
	LifestyleTips        []string              `json:"lifestyle_tips"`
	CycleStats           *analytics.CycleStats `json:"cycle_stats"`
	AIPowered            bool                  `json:"ai_powered"`
}

type HealthSummary struct {
	TotalCyclesTracked int64   `json:"total_cycles_tracked"`
	LastPeriodDate     *string `json:"last_period_date"`
	TrackingActive     bool    `json:"tracking_active"`
	SymptomLogs        int64   `json:"symptom_logs"`
	ActiveTreatments   int64   `json:"active_treatments"`
}

type promptLog struct {
	Cycle     int    `json:"cycle"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	FlowLevel string `json:"flow_level"`
	Symptoms  string `json:"symptoms"`
}
