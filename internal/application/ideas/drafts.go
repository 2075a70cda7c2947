package ideas

import (
	"context"

	"github.com/google/uuid"

	"github.com/ideavalidator/sanity-api/internal/domain/idea"
)

// DraftView is the wizard state handed back to clients. Forms themselves
// never leave the service, so all mutation goes through the step gates.
type DraftView struct {
	ID        string        `json:"id"`
	Step      int           `json:"step"`
	StepCount int           `json:"stepCount"`
	StepValid bool          `json:"stepValid"`
	Data      idea.FormData `json:"data"`
}

func view(id string, f *idea.Form) DraftView {
	return DraftView{
		ID:        id,
		Step:      f.Step(),
		StepCount: idea.StepCount,
		StepValid: f.StepValid(),
		Data:      f.Data,
	}
}

// CreateDraft starts a wizard session with defaults.
func (s *Service) CreateDraft() DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drafts == nil {
		s.drafts = make(map[string]*idea.Form)
	}
	id := uuid.New().String()
	f := idea.NewForm()
	s.drafts[id] = f
	return view(id, f)
}

// Draft returns the current state of a wizard session.
func (s *Service) Draft(id string) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.drafts[id]
	if !ok {
		return DraftView{}, ErrDraftNotFound
	}
	return view(id, f), nil
}

// PatchDraft merges a partial field update into the draft.
func (s *Service) PatchDraft(id string, p idea.Patch) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.drafts[id]
	if !ok {
		return DraftView{}, ErrDraftNotFound
	}
	if err := f.Apply(p); err != nil {
		return DraftView{}, err
	}
	return view(id, f), nil
}

// AdvanceDraft moves the wizard forward; it fails while the current step
// has blank required fields or the last step is already reached.
func (s *Service) AdvanceDraft(id string) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.drafts[id]
	if !ok {
		return DraftView{}, ErrDraftNotFound
	}
	if err := f.Advance(); err != nil {
		return DraftView{}, err
	}
	return view(id, f), nil
}

// RetreatDraft moves the wizard back one step (no-op at step 0).
func (s *Service) RetreatDraft(id string) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.drafts[id]
	if !ok {
		return DraftView{}, ErrDraftNotFound
	}
	f.Retreat()
	return view(id, f), nil
}

// SubmitDraft consumes the draft and runs the analysis. The draft is
// discarded on every completed submission, degraded fallback included; it
// survives only a rejected (incomplete) submit.
func (s *Service) SubmitDraft(ctx context.Context, userID, id string) (AnalyzeOutcome, error) {
	s.mu.Lock()
	f, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return AnalyzeOutcome{}, ErrDraftNotFound
	}
	form, err := f.Submit()
	s.mu.Unlock()
	if err != nil {
		return AnalyzeOutcome{}, err
	}

	out, err := s.Analyze(ctx, userID, form)
	if err != nil {
		return AnalyzeOutcome{}, err
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return out, nil
}
