// Package report renders a stored analysis into a displayable report.
// Rendering is a pure function of the result; nothing here mutates or
// persists anything.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ideavalidator/sanity-api/internal/domain/analysis"
)

// CategoryBar is one horizontal score bar.
type CategoryBar struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Percent int     `json:"percent"`
}

// Report is the presenter output for one analysis.
type Report struct {
	ID          analysis.ID           `json:"id"`
	IdeaName    string                `json:"ideaName"`
	AnalyzedAt  time.Time             `json:"analyzedAt"`
	SanityScore float64               `json:"sanity_score"`
	ScoreLabel  string                `json:"score_label"`
	Categories  []CategoryBar         `json:"categories"`
	Assumptions []analysis.Assumption `json:"assumptions"`
	Risks       []analysis.Risk       `json:"risks"`
	Suggestions []string              `json:"suggestions"`
	Feedback    []Block               `json:"feedback"`
}

// Build assembles a report: gauge label, category bars sorted high to low,
// cards passed through verbatim, feedback parsed into blocks.
func Build(r analysis.Result) Report {
	bars := make([]CategoryBar, 0, len(r.CategoryScores))
	for k, v := range r.CategoryScores {
		bars = append(bars, CategoryBar{
			Key:     k,
			Label:   FormatLabel(k),
			Score:   v,
			Percent: int(math.Round(v * 10)),
		})
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Score != bars[j].Score {
			return bars[i].Score > bars[j].Score
		}
		return bars[i].Key < bars[j].Key
	})

	return Report{
		ID:          r.ID,
		IdeaName:    r.IdeaName,
		AnalyzedAt:  r.CreatedAt,
		SanityScore: r.SanityScore,
		ScoreLabel:  ScoreLabel(r.SanityScore),
		Categories:  bars,
		Assumptions: r.KeyAssumptions,
		Risks:       r.MajorRisks,
		Suggestions: r.ImprovementSuggestions,
		Feedback:    ParseFeedback(r.OverallFeedback),
	}
}

// ScoreLabel maps the gauge score onto its verdict band.
func ScoreLabel(score float64) string {
	switch {
	case score >= 8:
		return "Excellent"
	case score >= 6:
		return "Promising"
	case score >= 4:
		return "Needs Work"
	default:
		return "High Risk"
	}
}

// FormatLabel turns a snake_case category key into a display label.
func FormatLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Text renders the report as plain text, used as the export payload body.
func (rep Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rep.IdeaName)
	fmt.Fprintf(&b, "Analyzed on %s\n\n", rep.AnalyzedAt.Format("January 2, 2006"))
	fmt.Fprintf(&b, "Sanity Score: %.1f/10 (%s)\n\n", rep.SanityScore, rep.ScoreLabel)

	if len(rep.Categories) > 0 {
		b.WriteString("Category Scores\n")
		for _, c := range rep.Categories {
			fmt.Fprintf(&b, "  %-20s %4.1f/10\n", c.Label, c.Score)
		}
		b.WriteString("\n")
	}
	if len(rep.Assumptions) > 0 {
		b.WriteString("Assumption Detector\n")
		for _, a := range rep.Assumptions {
			fmt.Fprintf(&b, "  [%s] %s\n      %s\n", a.RiskLevel, a.Assumption, a.Explanation)
		}
		b.WriteString("\n")
	}
	if len(rep.Risks) > 0 {
		b.WriteString("Risk Radar\n")
		for _, r := range rep.Risks {
			fmt.Fprintf(&b, "  [%s] %s\n      Mitigation: %s\n", r.Severity, r.Risk, r.Mitigation)
		}
		b.WriteString("\n")
	}
	if len(rep.Suggestions) > 0 {
		b.WriteString("Improvement Suggestions\n")
		for i, s := range rep.Suggestions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
		}
		b.WriteString("\n")
	}
	if len(rep.Feedback) > 0 {
		b.WriteString("Overall Verdict\n")
		for _, blk := range rep.Feedback {
			switch blk.Kind {
			case BlockHeading:
				fmt.Fprintf(&b, "\n%s\n", blk.Text)
			case BlockBullet:
				fmt.Fprintf(&b, "  - %s\n", blk.Text)
			case BlockNumbered:
				fmt.Fprintf(&b, "  %d. %s\n", blk.Number, blk.Text)
			default:
				fmt.Fprintf(&b, "%s\n", blk.Text)
			}
		}
	}
	return b.String()
}
