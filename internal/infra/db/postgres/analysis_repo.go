package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/ideavalidator/sanity-api/internal/domain/analysis"
)

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
VALUES ($1,$2,$3,$4,$5,NOW())
ON CONFLICT (user_id, id) DO UPDATE SET
  idea_name=EXCLUDED.idea_name,
  result_json=EXCLUDED.result_json,
  stored_at=NOW();
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
WHERE user_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
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

// DeleteByUserAndID removes every document matching (user_id, id).
func (r *AnalysisRepository) DeleteByUserAndID(ctx context.Context, userID string, id domain.ID) (int64, error) {
	const q = `DELETE FROM idea_analyses WHERE user_id=$1 AND id=$2;`
	res, err := r.db.ExecContext(ctx, q, userID, string(id))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
