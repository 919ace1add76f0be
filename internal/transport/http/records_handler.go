package http

import (
	"context"
	"encoding/json"
	"net/http"

	"jfk-emergence-service/internal/domain"

	"go.uber.org/zap"
)

// RecordLister reads back saved scores.
type RecordLister interface {
	ListRecords(ctx context.Context, sessionID string) ([]domain.ScoreRecord, error)
}

type RecordsHandler struct {
	records RecordLister
	log     *zap.Logger
}

func NewRecordsHandler(records RecordLister, log *zap.Logger) *RecordsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecordsHandler{records: records, log: log}
}

// ServeHTTP answers GET /records?sessionId=... with the session's saved scores.
func (h *RecordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}
	records, err := h.records.ListRecords(r.Context(), sessionID)
	if err != nil {
		h.log.Error("list records failed", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, "could not list records", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []domain.ScoreRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}
