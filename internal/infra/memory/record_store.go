package memory

import (
	"context"
	"sync"

	"jfk-emergence-service/internal/domain"
)

// RecordStore keeps saved scores in memory. Used when no database is configured.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.ScoreRecord
}

func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

func (s *RecordStore) SaveRecord(_ context.Context, record domain.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Records returns saved scores in insertion order.
func (s *RecordStore) Records() []domain.ScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ScoreRecord(nil), s.records...)
}

// ListRecords returns the saved scores of a session, newest first.
func (s *RecordStore) ListRecords(_ context.Context, sessionID string) ([]domain.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ScoreRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].SessionID == sessionID {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}
