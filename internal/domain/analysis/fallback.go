package analysis

import (
	"fmt"
	"time"
)

// FallbackScore is the fixed sanity score of the sample analysis.
const FallbackScore = 7.2

// Fallback builds the sample analysis shown when the AI backend is
// unreachable. The flow must never dead-end on an AI outage, so callers
// substitute this result and carry on.
func Fallback(id ID, ideaName string, createdAt time.Time) Result {
	return Result{
		ID:          id,
		IdeaName:    ideaName,
		CreatedAt:   createdAt,
		SanityScore: FallbackScore,
		CategoryScores: map[string]float64{
			"market_size":       7.5,
			"competition":       6.8,
			"feasibility":       8.0,
			"scalability":       7.0,
			"revenue_potential": 6.5,
			"team_fit":          7.8,
		},
		KeyAssumptions: []Assumption{
			{
				Assumption:  "Target market is willing to pay for this solution",
				RiskLevel:   RiskRisky,
				Explanation: "Market validation needed through customer interviews and landing page tests.",
			},
			{
				Assumption:  "Technical implementation is feasible with current resources",
				RiskLevel:   RiskSafe,
				Explanation: "Core technology is well-established and documented.",
			},
			{
				Assumption:  "Competitors won't respond aggressively",
				RiskLevel:   RiskDangerous,
				Explanation: "Large incumbents may have resources to quickly replicate features.",
			},
		},
		MajorRisks: []Risk{
			{
				Risk:       "Market adoption may be slower than expected",
				Severity:   SeverityMedium,
				Mitigation: "Start with a focused niche market and expand gradually.",
			},
			{
				Risk:       "Funding may be required before profitability",
				Severity:   SeverityHigh,
				Mitigation: "Plan for 18-24 month runway and identify key milestones for fundraising.",
			},
			{
				Risk:       "Key talent acquisition could be challenging",
				Severity:   SeverityLow,
				Mitigation: "Consider remote work options and equity compensation packages.",
			},
		},
		ImprovementSuggestions: []string{
			"Conduct 50+ customer discovery interviews before building",
			"Create a landing page to test market interest and collect emails",
			"Identify 3-5 early adopters willing to be design partners",
			"Map out competitive differentiation more clearly",
		},
		OverallFeedback: fmt.Sprintf(`## Executive Summary

Your idea for %s shows promising potential with a clear problem-solution fit. The market opportunity appears significant, though competition analysis suggests you'll need strong differentiation.

## Strengths
- Clear problem identification
- Feasible technical approach
- Reasonable revenue model

## Areas for Improvement
- More detailed competitive analysis needed
- Customer validation should be prioritized
- Consider unit economics more carefully

## Recommended Next Steps
1. Validate core assumptions with target users
2. Build an MVP focusing on the core value proposition
3. Establish key metrics for success`, ideaName),
	}
}
