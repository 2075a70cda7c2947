package ideas

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ideavalidator/sanity-api/internal/application"
	"github.com/ideavalidator/sanity-api/internal/domain/ai"
	"github.com/ideavalidator/sanity-api/internal/domain/analysis"
	"github.com/ideavalidator/sanity-api/internal/domain/idea"
)

var (
	ErrDraftNotFound  = errors.New("ideas: draft not found")
	ErrResultNotFound = errors.New("ideas: analysis not found")
	ErrRemoteDisabled = errors.New("ideas: remote collection not configured")
)

// FallbackNotice is the user-facing notice attached to demo results.
const FallbackNotice = "Backend not connected. Showing sample results."

// Service implements the idea-analysis use cases. Safe for concurrent use.
//
// Persistence is local-first: the bounded history file is authoritative for
// the current session and written unconditionally; the remote collection is
// best-effort and only reached when a repository is configured. The two
// writes are independent and never rolled back against each other.
type Service struct {
	Repo      analysis.Repository // nil in demo mode
	History   analysis.History
	AI        ai.Client // nil when no credential is configured
	Clock     application.Clock
	AITimeout time.Duration

	mu     sync.Mutex
	drafts map[string]*idea.Form
}

// AnalyzeOutcome is what a submission produces: the stored result plus a
// demo flag when the AI backend was unreachable and the fixed sample
// analysis was substituted.
type AnalyzeOutcome struct {
	Result analysis.Result `json:"result"`
	Demo   bool            `json:"demo"`
	Notice string          `json:"notice,omitempty"`
}

// DeleteOutcome carries the refreshed local history and, when the remote
// deletion failed, the reason so the UI can offer a retry.
type DeleteOutcome struct {
	History     []analysis.Result `json:"history"`
	RemoteError string            `json:"remote_error,omitempty"`
}

// Analyze runs a completed questionnaire through the AI, normalizes the
// reply into a Result and persists it. Every AI-side failure (network,
// auth, quota, timeout, malformed JSON, schema violation) degrades to the
// sample fallback instead of erroring: the flow never dead-ends on an AI
// outage. The only hard error is a local-history write failure, since in
// demo mode that file is the sole durable record.
func (s *Service) Analyze(ctx context.Context, userID string, form idea.FormData) (AnalyzeOutcome, error) {
	if !form.Complete() {
		return AnalyzeOutcome{}, idea.ErrFormIncomplete
	}

	now := s.Clock.Now()
	id := analysis.ID(uuid.New().String())

	result, aiErr := s.callAI(ctx, form)
	out := AnalyzeOutcome{}
	if aiErr != nil {
		log.Printf("ai analyze failed, serving sample result: %v", aiErr)
		out.Result = analysis.Fallback(id, form.IdeaName, now)
		out.Demo = true
		out.Notice = FallbackNotice
	} else {
		result.ID = id
		result.IdeaName = form.IdeaName
		result.CreatedAt = now
		out.Result = result
	}

	if _, err := s.History.Append(userID, out.Result); err != nil {
		return AnalyzeOutcome{}, err
	}

	// Remote write only for real analyses; sample results stay local.
	// Detached context so an abandoned request cannot cancel the write.
	if s.Repo != nil && userID != "" && !out.Demo {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Repo.Save(saveCtx, userID, &out.Result); err != nil {
			log.Printf("remote save failed for user=%s id=%s: %v", userID, out.Result.ID, err)
		}
	}

	return out, nil
}

func (s *Service) callAI(ctx context.Context, form idea.FormData) (analysis.Result, error) {
	if s.AI == nil {
		return analysis.Result{}, ai.ErrNoCredential
	}
	timeout := s.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := s.AI.Analyze(ctx, form)
	if err != nil {
		return analysis.Result{}, err
	}
	return analysis.Parse(raw)
}

// HistoryList returns the user's local bounded history, newest-first. No
// remote fetch: the remote collection is write-mostly from this client.
func (s *Service) HistoryList(userID string) ([]analysis.Result, error) {
	return s.History.List(userID)
}

// RemoteHistory pages through the user's remote collection, newest-first.
// Unlike the local history it is unbounded, so analyses evicted locally
// are still reachable here.
func (s *Service) RemoteHistory(ctx context.Context, userID string, page, pageSize int) ([]*analysis.Result, error) {
	if s.Repo == nil {
		return nil, ErrRemoteDisabled
	}
	return s.Repo.Paginate(ctx, userID, page, pageSize)
}

// Get looks up a stored result by id from the user's local history.
func (s *Service) Get(userID string, id analysis.ID) (analysis.Result, error) {
	list, err := s.History.List(userID)
	if err != nil {
		return analysis.Result{}, err
	}
	for _, r := range list {
		if r.ID == id {
			return r, nil
		}
	}
	return analysis.Result{}, ErrResultNotFound
}

// Delete removes an analysis from both stores. The local removal always
// takes effect; a remote failure is reported in the outcome rather than
// undoing it. Removing an unknown id is a no-op on the unchanged list.
func (s *Service) Delete(ctx context.Context, userID string, id analysis.ID) (DeleteOutcome, error) {
	list, err := s.History.Remove(userID, id)
	if err != nil {
		return DeleteOutcome{}, err
	}
	out := DeleteOutcome{History: list}

	if s.Repo != nil && userID != "" {
		n, err := s.Repo.DeleteByUserAndID(ctx, userID, id)
		if err != nil {
			log.Printf("remote delete failed for user=%s id=%s: %v", userID, id, err)
			out.RemoteError = err.Error()
		} else if n > 1 {
			log.Printf("remote delete matched %d documents for id=%s", n, id)
		}
	}
	return out, nil
}
