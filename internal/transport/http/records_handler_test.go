package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"jfk-emergence-service/internal/domain"
	"jfk-emergence-service/internal/infra/memory"
)

func TestRecordsHandler(t *testing.T) {
	records := memory.NewRecordStore()
	_ = records.SaveRecord(context.Background(), domain.ScoreRecord{ID: "r1", SessionID: "s1", Score: 8})
	handler := NewRecordsHandler(records, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records?sessionId=s1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []domain.ScoreRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Score != 8 {
		t.Fatalf("unexpected records %+v", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without sessionId, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/records?sessionId=none", nil))
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty list, got %q", rec.Body.String())
	}
}
