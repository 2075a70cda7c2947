package idea

import "strings"

// Stage enum
type Stage string

const (
	StageStudent Stage = "student"
	StageMVP     Stage = "mvp"
	StageStartup Stage = "startup"
)

// IsValid reports whether s is one of the known stages.
func (s Stage) IsValid() bool {
	switch s {
	case StageStudent, StageMVP, StageStartup:
		return true
	}
	return false
}

// FormData is the questionnaire draft. It lives only for the duration of a
// wizard session and is consumed on submission; it is never persisted.
type FormData struct {
	IdeaName         string `json:"ideaName"`
	OneLinePitch     string `json:"oneLinePitch"`
	ProblemStatement string `json:"problemStatement"`
	TargetAudience   string `json:"targetAudience"`
	ProposedSolution string `json:"proposedSolution"`
	RevenueModel     string `json:"revenueModel"`
	CurrentStage     Stage  `json:"currentStage"`
	BrutallyHonest   bool   `json:"brutallyHonest"`
}

// NewFormData returns a draft with defaults applied.
func NewFormData() FormData {
	return FormData{CurrentStage: StageStudent}
}

// Complete reports whether every free-text field is non-blank and the stage
// is a known value.
func (f FormData) Complete() bool {
	for _, v := range []string{
		f.IdeaName,
		f.OneLinePitch,
		f.ProblemStatement,
		f.TargetAudience,
		f.ProposedSolution,
		f.RevenueModel,
	} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return f.CurrentStage.IsValid()
}

// Patch is a partial update to a draft; nil fields are left untouched.
type Patch struct {
	IdeaName         *string `json:"ideaName"`
	OneLinePitch     *string `json:"oneLinePitch"`
	ProblemStatement *string `json:"problemStatement"`
	TargetAudience   *string `json:"targetAudience"`
	ProposedSolution *string `json:"proposedSolution"`
	RevenueModel     *string `json:"revenueModel"`
	CurrentStage     *Stage  `json:"currentStage"`
	BrutallyHonest   *bool   `json:"brutallyHonest"`
}
