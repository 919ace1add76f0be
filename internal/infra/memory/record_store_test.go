package memory

import (
	"context"
	"testing"

	"jfk-emergence-service/internal/domain"
)

func TestRecordStoreKeepsOrder(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	_ = store.SaveRecord(ctx, domain.ScoreRecord{ID: "r1", Score: 20})
	_ = store.SaveRecord(ctx, domain.ScoreRecord{ID: "r2", Score: 8})

	records := store.Records()
	if len(records) != 2 || records[0].ID != "r1" || records[1].ID != "r2" {
		t.Fatalf("unexpected records %+v", records)
	}
	records[0].Score = 0
	if store.Records()[0].Score != 20 {
		t.Fatalf("expected Records to return a copy")
	}
}

func TestRecordStoreListsBySessionNewestFirst(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()
	_ = store.SaveRecord(ctx, domain.ScoreRecord{ID: "r1", SessionID: "s1"})
	_ = store.SaveRecord(ctx, domain.ScoreRecord{ID: "r2", SessionID: "s2"})
	_ = store.SaveRecord(ctx, domain.ScoreRecord{ID: "r3", SessionID: "s1"})

	got, err := store.ListRecords(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r3" || got[1].ID != "r1" {
		t.Fatalf("unexpected records %+v", got)
	}
}
