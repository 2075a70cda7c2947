package prompt

import (
	"fmt"
	"strings"

	"github.com/ideavalidator/sanity-api/internal/domain/idea"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a seasoned startup advisor evaluating early-stage ideas. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- sanity_score and every category_scores value are numbers between 0 and 10.
- key_assumptions[].risk_level must be one of: safe, risky, dangerous.
- major_risks[].severity must be one of: low, medium, high.
- overall_feedback is plain text using only these line conventions: "## " headings, "- " bullets, "N. " numbered items, plain paragraphs.
- Score honestly; do not inflate weak ideas.

Schema (example with empty values):
{
  "sanity_score": 0,
  "category_scores": {"market_size": 0, "competition": 0, "feasibility": 0, "scalability": 0, "revenue_potential": 0, "team_fit": 0},
  "key_assumptions": [
    {"assumption": "<string>", "risk_level": "<safe|risky|dangerous>", "explanation": "<string>"}
  ],
  "major_risks": [
    {"risk": "<string>", "severity": "<low|medium|high>", "mitigation": "<string>"}
  ],
  "improvement_suggestions": ["<string>"],
  "overall_feedback": "<string>"
}`
}

// GetUserPrompt embeds the whole questionnaire so the model has full
// context, not just the name and pitch.
func GetUserPrompt(f idea.FormData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this startup idea and respond with the JSON per schema.\n\n")
	fmt.Fprintf(&b, "Idea name: %s\n", f.IdeaName)
	fmt.Fprintf(&b, "One-line pitch: %s\n", f.OneLinePitch)
	fmt.Fprintf(&b, "Problem statement: %s\n", f.ProblemStatement)
	fmt.Fprintf(&b, "Target audience: %s\n", f.TargetAudience)
	fmt.Fprintf(&b, "Proposed solution: %s\n", f.ProposedSolution)
	fmt.Fprintf(&b, "Revenue model: %s\n", f.RevenueModel)
	fmt.Fprintf(&b, "Current stage: %s\n", stageLabel(f.CurrentStage))
	if f.BrutallyHonest {
		b.WriteString("Feedback style: brutally honest. Give no-holds-barred feedback like a tough VC would; call out fatal flaws directly.\n")
	} else {
		b.WriteString("Feedback style: constructive. Be direct but encouraging.\n")
	}
	return b.String()
}

func stageLabel(s idea.Stage) string {
	switch s {
	case idea.StageMVP:
		return "building an MVP"
	case idea.StageStartup:
		return "active startup"
	default:
		return "student / idea stage"
	}
}
