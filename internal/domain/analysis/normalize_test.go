package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WellFormed(t *testing.T) {
	raw := `{"sanity_score":7.2,"category_scores":{"market_size":7.5},"key_assumptions":[],"major_risks":[],"improvement_suggestions":[],"overall_feedback":"## Summary\ngood"}`

	r, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 7.2, r.SanityScore)
	assert.Equal(t, 7.5, r.CategoryScores["market_size"])
	assert.Empty(t, r.KeyAssumptions)
	assert.Empty(t, r.MajorRisks)
	assert.Equal(t, "## Summary\ngood", r.OverallFeedback)
}

func TestParse_Clamping(t *testing.T) {
	raw := `{"sanity_score":14,"category_scores":{"market_size":-3,"feasibility":22,"team_fit":5.5}}`

	r, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 10.0, r.SanityScore)
	assert.Equal(t, 0.0, r.CategoryScores["market_size"])
	assert.Equal(t, 10.0, r.CategoryScores["feasibility"])
	assert.Equal(t, 5.5, r.CategoryScores["team_fit"])
}

func TestParse_EnumCoercion(t *testing.T) {
	raw := `{
		"sanity_score": 5,
		"key_assumptions": [
			{"assumption":"a","risk_level":"SAFE","explanation":"x"},
			{"assumption":"b","risk_level":"catastrophic","explanation":"y"}
		],
		"major_risks": [
			{"risk":"r","severity":"HIGH","mitigation":"m"},
			{"risk":"s","severity":"whatever","mitigation":"n"}
		]
	}`

	r, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, RiskSafe, r.KeyAssumptions[0].RiskLevel)
	assert.Equal(t, RiskRisky, r.KeyAssumptions[1].RiskLevel, "unknown risk level coerces to risky")
	assert.Equal(t, SeverityHigh, r.MajorRisks[0].Severity)
	assert.Equal(t, SeverityMedium, r.MajorRisks[1].Severity, "unknown severity coerces to medium")
}

func TestParse_MissingSequencesDefaultEmpty(t *testing.T) {
	r, err := Parse(`{"sanity_score":3}`)
	require.NoError(t, err)
	assert.NotNil(t, r.KeyAssumptions)
	assert.NotNil(t, r.MajorRisks)
	assert.NotNil(t, r.ImprovementSuggestions)
	assert.NotNil(t, r.CategoryScores)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "here is your analysis!"},
		{name: "missing sanity_score", raw: `{"category_scores":{"a":1}}`},
		{name: "wrong type for score", raw: `{"sanity_score":"seven"}`},
		{name: "empty string", raw: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParse_ToleratesCodeFences(t *testing.T) {
	raw := "```json\n{\"sanity_score\": 6.1}\n```"
	r, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 6.1, r.SanityScore)
}

func TestFallback(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	r := Fallback("abc-123", "TaskFlow", now)

	assert.Equal(t, ID("abc-123"), r.ID)
	assert.Equal(t, "TaskFlow", r.IdeaName)
	assert.Equal(t, now, r.CreatedAt)
	assert.Equal(t, FallbackScore, r.SanityScore)
	assert.Len(t, r.CategoryScores, 6)
	assert.Len(t, r.KeyAssumptions, 3)
	assert.Len(t, r.MajorRisks, 3)
	assert.Len(t, r.ImprovementSuggestions, 4)
	assert.Contains(t, r.OverallFeedback, "TaskFlow")
	assert.Contains(t, r.OverallFeedback, "## Executive Summary")
}
