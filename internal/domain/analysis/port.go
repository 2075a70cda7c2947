package analysis

import "context"

// Repository port for the remote per-user collection. Writes are
// idempotent-by-id upserts; delete is defensively plural since id
// uniqueness is not enforced by a constraint on the remote side.
type Repository interface {
	Save(ctx context.Context, userID string, r *Result) error
	Paginate(ctx context.Context, userID string, page, pageSize int) ([]*Result, error)
	DeleteByUserAndID(ctx context.Context, userID string, id ID) (int64, error)
}

// History port for the local bounded store, keyed by user so one user's
// session never surfaces another's analyses. Every operation returns that
// user's updated list, newest-first, so callers can refresh displayed state.
type History interface {
	Append(userID string, r Result) ([]Result, error)
	Remove(userID string, id ID) ([]Result, error)
	List(userID string) ([]Result, error)
}
