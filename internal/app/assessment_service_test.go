package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jfk-emergence-service/internal/app"
	"jfk-emergence-service/internal/domain"
	"jfk-emergence-service/internal/infra/memory"
	"jfk-emergence-service/internal/scale"
)

func TestServiceEndToEnd(t *testing.T) {
	ctx := context.Background()
	service, records := newTestService()

	view, err := service.Open(ctx, "s1", scale.JFKID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if view.Screen != app.ScreenList || view.Last != nil || view.MaxScore != 20 {
		t.Fatalf("unexpected initial view %+v", view)
	}

	view, err = service.Start(ctx, "s1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.Screen != app.ScreenForm || len(view.Items) != 5 || view.Items[0].Number != 1 {
		t.Fatalf("unexpected form view %+v", view)
	}

	answers := []struct {
		id    string
		value int
	}{{"arousal", 0}, {"audicao", 0}, {"visao", 1}, {"comunicacao", 0}}
	for _, a := range answers {
		if _, _, err := service.Select(ctx, "s1", a.id, intp(a.value)); err != nil {
			t.Fatalf("select %s: %v", a.id, err)
		}
	}

	view, err = service.Submit(ctx, "s1")
	if !errors.Is(err, domain.ErrIncomplete) {
		t.Fatalf("expected incomplete, got %v", err)
	}
	if view.Screen != app.ScreenForm || view.Error == "" || view.Total != 1 {
		t.Fatalf("expected form with banner, got %+v", view)
	}

	view, intent, err := service.Select(ctx, "s1", "motricidade", intp(0))
	if err != nil || intent != nil {
		t.Fatalf("select last item: intent=%+v err=%v", intent, err)
	}
	if sel := view.Items[4].Selected; sel == nil || *sel != 0 {
		t.Fatalf("expected motricidade selected as 0, got %v", sel)
	}

	view, err = service.Submit(ctx, "s1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if view.Screen != app.ScreenResult || view.Result == nil || view.Result.Total != 1 {
		t.Fatalf("unexpected result view %+v", view)
	}
	if view.Result.Band.Level != domain.BandNoneOrComa || len(view.Legend) != 3 {
		t.Fatalf("unexpected band/legend %+v %+v", view.Result.Band, view.Legend)
	}

	view, err = service.Save(ctx, "s1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if view.Screen != app.ScreenList || view.Last == nil || view.Last.Total != 1 {
		t.Fatalf("expected list with last result, got %+v", view)
	}
	if got := records.Records(); len(got) != 1 || got[0].Score != 1 || got[0].SessionID != "s1" {
		t.Fatalf("unexpected records %+v", got)
	}
}

func TestServiceUnknownSession(t *testing.T) {
	service, _ := newTestService()
	if _, err := service.Start(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.Open(context.Background(), "s1", "unknown-scale"); !errors.Is(err, domain.ErrScaleNotFound) {
		t.Fatalf("expected scale error, got %v", err)
	}
}

func TestServiceSaveSurvivesSinkFailure(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{err: errors.New("insert failed")}
	service := app.NewAssessmentService(
		memory.NewSessionStore(),
		memory.NewScaleRepository(memory.NewStaticScaleLoader(scale.Catalog()), time.Minute),
		sink, 0, nil)

	_, _ = service.Open(ctx, "s1", scale.JFKID)
	_, _ = service.Start(ctx, "s1")
	for _, item := range scale.JFK().Items {
		_, _, _ = service.Select(ctx, "s1", item.ID, intp(4))
	}
	_, _ = service.Submit(ctx, "s1")

	view, err := service.Save(ctx, "s1")
	if err != nil {
		t.Fatalf("expected sink failure swallowed, got %v", err)
	}
	if view.Screen != app.ScreenList || len(sink.records) != 1 {
		t.Fatalf("expected list after one save attempt, got %s / %d", view.Screen, len(sink.records))
	}
}

func TestServiceOpenRejectsAttachedSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	if _, err := service.Open(ctx, "s1", scale.JFKID); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := service.Start(ctx, "s1"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := service.Open(ctx, "s1", scale.JFKID); !errors.Is(err, domain.ErrSessionInUse) {
		t.Fatalf("expected session in use, got %v", err)
	}
	view, _, err := service.Select(ctx, "s1", "arousal", intp(4))
	if err != nil || view.Screen != app.ScreenForm {
		t.Fatalf("expected original session untouched, got %s %v", view.Screen, err)
	}

	service.Close(ctx, "s1")
	if view, err := service.Open(ctx, "s1", scale.JFKID); err != nil || view.Screen != app.ScreenList {
		t.Fatalf("expected reopen after close, got %+v %v", view, err)
	}
}

func TestServiceCloseDropsSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()
	_, _ = service.Open(ctx, "s1", scale.JFKID)
	service.Close(ctx, "s1")
	if _, err := service.Start(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session removed, got %v", err)
	}
}

func newTestService() (*app.AssessmentService, *memory.RecordStore) {
	records := memory.NewRecordStore()
	scales := memory.NewScaleRepository(memory.NewStaticScaleLoader(scale.Catalog()), 5*time.Minute)
	return app.NewAssessmentService(memory.NewSessionStore(), scales, records, app.DefaultAutoAdvanceDelay, nil), records
}
