package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks an AI response that cannot be salvaged into a Result.
var ErrMalformed = errors.New("analysis: malformed ai response")

// payload mirrors the schema the AI is asked to produce. sanity_score is a
// pointer so a missing score is distinguishable from an honest zero.
type payload struct {
	SanityScore            *float64           `json:"sanity_score"`
	CategoryScores         map[string]float64 `json:"category_scores"`
	KeyAssumptions         []Assumption       `json:"key_assumptions"`
	MajorRisks             []Risk             `json:"major_risks"`
	ImprovementSuggestions []string           `json:"improvement_suggestions"`
	OverallFeedback        string             `json:"overall_feedback"`
}

// Parse decodes a raw AI reply and normalizes it into the body of a Result:
// scores clamped to [0,10], unknown enum words coerced to the middle value,
// missing sequences defaulted to empty. The envelope fields (id, idea name,
// created-at) are left zero for the caller to stamp. Irrecoverable shapes
// (non-JSON, wrong types, missing sanity_score) return ErrMalformed so the
// caller can fall back instead of persisting garbage.
func Parse(raw string) (Result, error) {
	var p payload
	if err := json.Unmarshal([]byte(stripFences(raw)), &p); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.SanityScore == nil {
		return Result{}, fmt.Errorf("%w: sanity_score missing", ErrMalformed)
	}

	r := Result{
		SanityScore:            clampScore(*p.SanityScore),
		CategoryScores:         make(map[string]float64, len(p.CategoryScores)),
		KeyAssumptions:         p.KeyAssumptions,
		MajorRisks:             p.MajorRisks,
		ImprovementSuggestions: p.ImprovementSuggestions,
		OverallFeedback:        p.OverallFeedback,
	}
	for k, v := range p.CategoryScores {
		r.CategoryScores[k] = clampScore(v)
	}
	for i := range r.KeyAssumptions {
		r.KeyAssumptions[i].RiskLevel = normalizeRiskLevel(r.KeyAssumptions[i].RiskLevel)
	}
	for i := range r.MajorRisks {
		r.MajorRisks[i].Severity = normalizeSeverity(r.MajorRisks[i].Severity)
	}
	if r.KeyAssumptions == nil {
		r.KeyAssumptions = []Assumption{}
	}
	if r.MajorRisks == nil {
		r.MajorRisks = []Risk{}
	}
	if r.ImprovementSuggestions == nil {
		r.ImprovementSuggestions = []string{}
	}
	return r, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func normalizeRiskLevel(l RiskLevel) RiskLevel {
	switch RiskLevel(strings.ToLower(string(l))) {
	case RiskSafe:
		return RiskSafe
	case RiskDangerous:
		return RiskDangerous
	default:
		return RiskRisky
	}
}

func normalizeSeverity(s Severity) Severity {
	switch Severity(strings.ToLower(string(s))) {
	case SeverityLow:
		return SeverityLow
	case SeverityHigh:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// stripFences tolerates models that wrap the JSON in a markdown code fence
// despite being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
