package analysis

import "time"

// ID identifier type, generated client-side (never by the AI).
type ID string

// RiskLevel enum for assumptions
type RiskLevel string

const (
	RiskSafe      RiskLevel = "safe"
	RiskRisky     RiskLevel = "risky"
	RiskDangerous RiskLevel = "dangerous"
)

// Severity enum for major risks
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Assumption is one entry of the assumption detector.
type Assumption struct {
	Assumption  string    `json:"assumption"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Explanation string    `json:"explanation"`
}

// Risk is one entry of the risk radar.
type Risk struct {
	Risk       string   `json:"risk"`
	Severity   Severity `json:"severity"`
	Mitigation string   `json:"mitigation"`
}

// Result is a scored idea analysis. The id, idea name and creation time are
// stamped locally; the rest comes from the AI after normalization. Once
// constructed a Result is immutable: it is stored and deleted by id, never
// updated in place.
type Result struct {
	ID                     ID                 `json:"id"`
	IdeaName               string             `json:"ideaName"`
	CreatedAt              time.Time          `json:"createdAt"`
	SanityScore            float64            `json:"sanity_score"`
	CategoryScores         map[string]float64 `json:"category_scores"`
	KeyAssumptions         []Assumption       `json:"key_assumptions"`
	MajorRisks             []Risk             `json:"major_risks"`
	ImprovementSuggestions []string           `json:"improvement_suggestions"`
	OverallFeedback        string             `json:"overall_feedback"`
}
