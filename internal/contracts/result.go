package contracts

import "time"

// Classification is the human-facing bucket for a company.
type Classification string

const (
	ClassAvoid       Classification = "Avoid-for-now"
	ClassInvestigate Classification = "Investigate Further"
	ClassWatch       Classification = "Watch"
)

// Confidence expresses how much of the signal tree was evaluable.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Verdict is the classifier's output: a bucket, a confidence level, and
// the evidence lines that justify them.
type Verdict struct {
	Classification Classification `json:"classification"`
	Confidence     Confidence     `json:"confidence"`
	PositiveRatio  float64        `json:"positive_ratio"`
	Coverage       float64        `json:"coverage"`
	Reasons        []string       `json:"reasons"`
}

// AnalysisResult is the complete output for one company: the reduced
// metrics, the insider report, the signal tree, and the verdict.
type AnalysisResult struct {
	Ticker      string         `json:"ticker"`
	CIK         string         `json:"cik,omitempty"`
	AsOf        string         `json:"as_of"` // YYYY-MM-DD reference date
	Metrics     *MetricsReport `json:"metrics"`
	Insiders    *InsiderReport `json:"insiders,omitempty"`
	Signals     SignalSet      `json:"signals"`
	Verdict     Verdict        `json:"verdict"`
	GeneratedAt time.Time      `json:"generated_at"`
}
