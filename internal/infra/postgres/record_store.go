package postgres

import (
	"context"
	"fmt"

	"jfk-emergence-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RecordStore persists saved scores to the score_records table.
type RecordStore struct {
	pool *pgxpool.Pool
}

func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

func (s *RecordStore) SaveRecord(ctx context.Context, record domain.ScoreRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO score_records (id, session_id, scale_name, score, interpretation, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.SessionID, record.ScaleName, record.Score, record.Interpretation, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert score record: %w", err)
	}
	return nil
}

// ListRecords returns the saved scores of a session, newest first.
func (s *RecordStore) ListRecords(ctx context.Context, sessionID string) ([]domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, session_id, scale_name, score, interpretation, created_at
		 FROM score_records WHERE session_id=$1 ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list score records: %w", err)
	}
	defer rows.Close()

	var out []domain.ScoreRecord
	for rows.Next() {
		var r domain.ScoreRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.ScaleName, &r.Score, &r.Interpretation, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
