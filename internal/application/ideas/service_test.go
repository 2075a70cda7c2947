package ideas

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideavalidator/sanity-api/internal/domain/analysis"
	"github.com/ideavalidator/sanity-api/internal/domain/idea"
	"github.com/ideavalidator/sanity-api/internal/infra/history"
)

// mockAI implements ai.Client for testing
type mockAI struct {
	analyzeFunc func(ctx context.Context, form idea.FormData) (string, error)
}

func (m *mockAI) Analyze(ctx context.Context, form idea.FormData) (string, error) {
	return m.analyzeFunc(ctx, form)
}

// mockRepo implements analysis.Repository for testing
type mockRepo struct {
	saved         []*analysis.Result
	savedUsers    []string
	saveErr       error
	deleted       []analysis.ID
	deleteErr     error
	deleteN       int64
	page          []*analysis.Result
	paginatedUser string
	paginatedArgs [2]int
}

func (m *mockRepo) Save(ctx context.Context, userID string, r *analysis.Result) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, r)
	m.savedUsers = append(m.savedUsers, userID)
	return nil
}

func (m *mockRepo) Paginate(ctx context.Context, userID string, page, pageSize int) ([]*analysis.Result, error) {
	m.paginatedUser = userID
	m.paginatedArgs = [2]int{page, pageSize}
	return m.page, nil
}

func (m *mockRepo) DeleteByUserAndID(ctx context.Context, userID string, id analysis.ID) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return m.deleteN, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

const aiReply = `{"sanity_score":7.2,"category_scores":{"market_size":7.5},"key_assumptions":[],"major_risks":[],"improvement_suggestions":[],"overall_feedback":"## Summary\ngood"}`

func taskFlowForm() idea.FormData {
	f := idea.NewFormData()
	f.IdeaName = "TaskFlow"
	f.OneLinePitch = "helps teams track tasks"
	f.ProblemStatement = "teams lose track of work"
	f.TargetAudience = "small software teams"
	f.ProposedSolution = "shared kanban with automation"
	f.RevenueModel = "subscription"
	return f
}

func newService(t *testing.T, aiClient *mockAI, repo *mockRepo) *Service {
	t.Helper()
	svc := &Service{
		History:   history.New(filepath.Join(t.TempDir(), "history.json"), 20),
		Clock:     fixedClock{t: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)},
		AITimeout: time.Second,
	}
	if aiClient != nil {
		svc.AI = aiClient
	}
	if repo != nil {
		svc.Repo = repo
	}
	return svc
}

func TestAnalyze_Success(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(t, &mockAI{
		analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
			return aiReply, nil
		},
	}, repo)

	out, err := svc.Analyze(context.Background(), "user1", taskFlowForm())
	require.NoError(t, err)
	assert.False(t, out.Demo)
	assert.Empty(t, out.Notice)

	// envelope is stamped locally, never by the AI
	assert.Equal(t, "TaskFlow", out.Result.IdeaName)
	assert.NotEmpty(t, out.Result.ID)
	assert.Equal(t, svc.Clock.Now(), out.Result.CreatedAt)
	assert.Equal(t, 7.2, out.Result.SanityScore)
	assert.Equal(t, 7.5, out.Result.CategoryScores["market_size"])

	// persisted to both stores, same id
	require.Len(t, repo.saved, 1)
	assert.Equal(t, out.Result.ID, repo.saved[0].ID)
	assert.Equal(t, []string{"user1"}, repo.savedUsers)

	list, err := svc.HistoryList("user1")
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, out.Result.ID, list[0].ID)
}

func TestHistoryList_IsPerUser(t *testing.T) {
	svc := newService(t, &mockAI{
		analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
			return aiReply, nil
		},
	}, nil)

	out, err := svc.Analyze(context.Background(), "alice", taskFlowForm())
	require.NoError(t, err)

	// another user's history stays empty
	bobList, err := svc.HistoryList("bob")
	require.NoError(t, err)
	assert.Empty(t, bobList)

	// and their delete cannot touch alice's entry
	_, err = svc.Delete(context.Background(), "bob", out.Result.ID)
	require.NoError(t, err)
	aliceList, err := svc.HistoryList("alice")
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	assert.Equal(t, out.Result.ID, aliceList[0].ID)

	// lookups are scoped the same way
	_, err = svc.Get("bob", out.Result.ID)
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestAnalyze_IncompleteFormRejected(t *testing.T) {
	svc := newService(t, nil, nil)
	form := taskFlowForm()
	form.RevenueModel = "  "

	_, err := svc.Analyze(context.Background(), "user1", form)
	assert.ErrorIs(t, err, idea.ErrFormIncomplete)
}

func TestAnalyze_AIFailureFallsBack(t *testing.T) {
	tests := []struct {
		name string
		ai   *mockAI
	}{
		{
			name: "transport error",
			ai: &mockAI{analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
				return "", errors.New("connection refused")
			}},
		},
		{
			name: "malformed reply",
			ai: &mockAI{analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
				return "sure! here is the analysis you asked for", nil
			}},
		},
		{
			name: "no client configured",
			ai:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := newService(t, tt.ai, repo)

			out, err := svc.Analyze(context.Background(), "user1", taskFlowForm())
			require.NoError(t, err, "AI failures must never surface as errors")
			assert.True(t, out.Demo)
			assert.Equal(t, FallbackNotice, out.Notice)
			assert.Equal(t, analysis.FallbackScore, out.Result.SanityScore)
			assert.Equal(t, "TaskFlow", out.Result.IdeaName)
			assert.NotEmpty(t, out.Result.ID)

			// fallback lands in local history but never in the remote store
			list, err := svc.HistoryList("user1")
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, out.Result.ID, list[0].ID)
			assert.Empty(t, repo.saved)
		})
	}
}

func TestAnalyze_RemoteFailureIsTolerated(t *testing.T) {
	repo := &mockRepo{saveErr: errors.New("connection reset")}
	svc := newService(t, &mockAI{
		analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
			return aiReply, nil
		},
	}, repo)

	out, err := svc.Analyze(context.Background(), "user1", taskFlowForm())
	require.NoError(t, err)
	assert.False(t, out.Demo)

	// local copy is still there and authoritative
	list, err := svc.HistoryList("user1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAnalyze_NoRepoSkipsRemote(t *testing.T) {
	svc := newService(t, &mockAI{
		analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
			return aiReply, nil
		},
	}, nil)

	out, err := svc.Analyze(context.Background(), "user1", taskFlowForm())
	require.NoError(t, err)
	assert.False(t, out.Demo)
}

func TestAnalyze_TwoPersistsNewestFirst(t *testing.T) {
	svc := newService(t, &mockAI{
		analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
			return aiReply, nil
		},
	}, nil)

	form := taskFlowForm()
	first, err := svc.Analyze(context.Background(), "user1", form)
	require.NoError(t, err)
	form.IdeaName = "FoodieConnect"
	second, err := svc.Analyze(context.Background(), "user1", form)
	require.NoError(t, err)

	list, err := svc.HistoryList("user1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.Result.ID, list[0].ID)
	assert.Equal(t, first.Result.ID, list[1].ID)
}

func TestDelete(t *testing.T) {
	repo := &mockRepo{deleteN: 1}
	svc := newService(t, &mockAI{
		analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
			return aiReply, nil
		},
	}, repo)

	out, err := svc.Analyze(context.Background(), "user1", taskFlowForm())
	require.NoError(t, err)
	id := out.Result.ID

	del, err := svc.Delete(context.Background(), "user1", id)
	require.NoError(t, err)
	assert.Empty(t, del.History)
	assert.Empty(t, del.RemoteError)
	assert.Equal(t, []analysis.ID{id}, repo.deleted)

	// idempotent: second delete yields the same local state
	del2, err := svc.Delete(context.Background(), "user1", id)
	require.NoError(t, err)
	assert.Equal(t, del.History, del2.History)
}

func TestDelete_RemoteFailureReported(t *testing.T) {
	repo := &mockRepo{deleteErr: errors.New("permission denied")}
	svc := newService(t, &mockAI{
		analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
			return aiReply, nil
		},
	}, repo)

	out, err := svc.Analyze(context.Background(), "user1", taskFlowForm())
	require.NoError(t, err)

	del, err := svc.Delete(context.Background(), "user1", out.Result.ID)
	require.NoError(t, err, "local delete stands even when the remote fails")
	assert.Contains(t, del.RemoteError, "permission denied")

	// local deletion took effect
	list, err := svc.HistoryList("user1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGet(t *testing.T) {
	svc := newService(t, &mockAI{
		analyzeFunc: func(ctx context.Context, form idea.FormData) (string, error) {
			return aiReply, nil
		},
	}, nil)

	out, err := svc.Analyze(context.Background(), "user1", taskFlowForm())
	require.NoError(t, err)

	got, err := svc.Get("user1", out.Result.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Result.ID, got.ID)

	_, err = svc.Get("user1", "missing")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestRemoteHistory(t *testing.T) {
	repo := &mockRepo{page: []*analysis.Result{{ID: "r1"}, {ID: "r2"}}}
	svc := newService(t, nil, repo)

	list, err := svc.RemoteHistory(context.Background(), "user1", 2, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "user1", repo.paginatedUser)
	assert.Equal(t, [2]int{2, 10}, repo.paginatedArgs)
}

func TestRemoteHistory_NoRepo(t *testing.T) {
	svc := newService(t, nil, nil)
	_, err := svc.RemoteHistory(context.Background(), "user1", 1, 20)
	assert.ErrorIs(t, err, ErrRemoteDisabled)
}
