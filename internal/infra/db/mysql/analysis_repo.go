package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/ideavalidator/sanity-api/internal/domain/analysis"
)

// AnalysisRepository persists analysis documents per owning user. The full
// result envelope is kept as a JSON blob beside the columns used for
// filtering, with a server-assigned stored_at on every write.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save upserts an analysis document keyed by (user_id, id).
func (r *AnalysisRepository) Save(ctx context.Context, userID string, a *domain.Result) error {
	const q = `
INSERT INTO idea_analyses
  (id, user_id, idea_name, result_json, created_at, stored_at)
VALUES (?,?,?,?,?,NOW())
ON DUPLICATE KEY UPDATE
  idea_name=VALUES(idea_name), result_json=VALUES(result_json), stored_at=NOW();
`
	blob, err := json.Marshal(a)
	if err != nil {
		return err
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q, string(a.ID), userID, a.IdeaName, blob, createdAt)
	return err
}

// Paginate returns a page of a user's analyses ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, userID string, page, pageSize int) ([]*domain.Result, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT result_json
FROM idea_analyses
WHERE user_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, userID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Result
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var a domain.Result
		if err := json.Unmarshal(blob, &a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// DeleteByUserAndID removes every document matching (user_id, id). The id
// is expected unique but not constrained, so the delete is plural and the
// match count is reported back.
func (r *AnalysisRepository) DeleteByUserAndID(ctx context.Context, userID string, id domain.ID) (int64, error) {
	const q = `DELETE FROM idea_analyses WHERE user_id=? AND id=?;`
	res, err := r.db.ExecContext(ctx, q, userID, string(id))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
