package idea

import (
	"errors"
	"strings"
)

// StepCount is the number of wizard steps: basics, problem & users,
// solution, settings.
const StepCount = 4

var (
	ErrStepIncomplete = errors.New("idea: current step has blank required fields")
	ErrLastStep       = errors.New("idea: already at the final step")
	ErrFormIncomplete = errors.New("idea: form is not complete")
	ErrUnknownStage   = errors.New("idea: unknown stage")
)

// Form holds a wizard session: the accumulated draft plus the step index.
// Forward navigation is gated on the current step being valid; no skipping.
type Form struct {
	Data FormData
	step int
}

func NewForm() *Form {
	return &Form{Data: NewFormData()}
}

// Step returns the current step index in [0, StepCount).
func (f *Form) Step() int { return f.step }

// StepValid reports whether the current step's required fields are filled.
// Step 3 is pure settings and always valid.
func (f *Form) StepValid() bool {
	switch f.step {
	case 0:
		return filled(f.Data.IdeaName) && filled(f.Data.OneLinePitch)
	case 1:
		return filled(f.Data.ProblemStatement) && filled(f.Data.TargetAudience)
	case 2:
		return filled(f.Data.ProposedSolution) && filled(f.Data.RevenueModel)
	case 3:
		return true
	}
	return false
}

// Advance moves to the next step. It fails when already on the last step or
// when the current step is invalid.
func (f *Form) Advance() error {
	if f.step >= StepCount-1 {
		return ErrLastStep
	}
	if !f.StepValid() {
		return ErrStepIncomplete
	}
	f.step++
	return nil
}

// Retreat moves back one step; at step 0 it is a no-op.
func (f *Form) Retreat() {
	if f.step > 0 {
		f.step--
	}
}

// Apply merges a partial update into the draft. Setting an unknown stage is
// rejected so a draft can never become unsubmittable by enum drift.
func (f *Form) Apply(p Patch) error {
	if p.CurrentStage != nil && !p.CurrentStage.IsValid() {
		return ErrUnknownStage
	}
	if p.IdeaName != nil {
		f.Data.IdeaName = *p.IdeaName
	}
	if p.OneLinePitch != nil {
		f.Data.OneLinePitch = *p.OneLinePitch
	}
	if p.ProblemStatement != nil {
		f.Data.ProblemStatement = *p.ProblemStatement
	}
	if p.TargetAudience != nil {
		f.Data.TargetAudience = *p.TargetAudience
	}
	if p.ProposedSolution != nil {
		f.Data.ProposedSolution = *p.ProposedSolution
	}
	if p.RevenueModel != nil {
		f.Data.RevenueModel = *p.RevenueModel
	}
	if p.CurrentStage != nil {
		f.Data.CurrentStage = *p.CurrentStage
	}
	if p.BrutallyHonest != nil {
		f.Data.BrutallyHonest = *p.BrutallyHonest
	}
	return nil
}

// Submit hands out the accumulated draft. The whole questionnaire must be
// complete; the step index does not matter beyond that.
func (f *Form) Submit() (FormData, error) {
	if !f.Data.Complete() {
		return FormData{}, ErrFormIncomplete
	}
	return f.Data, nil
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }
