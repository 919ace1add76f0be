package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"jfk-emergence-service/internal/domain"
	"jfk-emergence-service/internal/scale"
)

func TestScaleRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		ScaleLoader: NewStaticScaleLoader(scale.Catalog()),
	}
	repo := NewScaleRepository(loader, time.Minute)

	def, err := repo.GetScale(context.Background(), scale.JFKID)
	if err != nil {
		t.Fatalf("get scale: %v", err)
	}
	if def.Title != "JFK Emergence Scale" {
		t.Fatalf("unexpected title %q", def.Title)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetScale(context.Background(), scale.JFKID); err != nil {
		t.Fatalf("get scale 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestScaleRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{ScaleLoader: NewStaticScaleLoader(scale.Catalog())}
	repo := NewScaleRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetScale(context.Background(), scale.JFKID)
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetScale(context.Background(), scale.JFKID)
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestScaleRepositoryRejectsInvalidDefinitions(t *testing.T) {
	broken := scale.JFK()
	broken.Bands = nil
	repo := NewScaleRepository(NewStaticScaleLoader(map[string]domain.ScaleDefinition{"broken": broken}), time.Minute)

	if _, err := repo.GetScale(context.Background(), "broken"); !errors.Is(err, domain.ErrInvalidDefinition) {
		t.Fatalf("expected invalid definition, got %v", err)
	}
	if _, err := repo.GetScale(context.Background(), "missing"); !errors.Is(err, domain.ErrScaleNotFound) {
		t.Fatalf("expected scale not found, got %v", err)
	}
}

func TestScaleRepositoryConcurrentScales(t *testing.T) {
	catalog := map[string]domain.ScaleDefinition{}
	for i := 0; i < 8; i++ {
		def := scale.JFK()
		def.ID = fmt.Sprintf("jfk-%d", i)
		catalog[def.ID] = def
	}
	repo := NewScaleRepository(NewStaticScaleLoader(catalog), time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, len(catalog)*4)
	for id := range catalog {
		for n := 0; n < 4; n++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				def, err := repo.GetScale(context.Background(), id)
				if err != nil {
					errs <- fmt.Errorf("%s: %w", id, err)
					return
				}
				if def.ID != id {
					errs <- fmt.Errorf("asked for %s, got %s", id, def.ID)
				}
			}(id)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("get scale: %v", err)
	}

	for id := range catalog {
		if _, ok := repo.cached(id); !ok {
			t.Fatalf("expected %s cached", id)
		}
	}
}

type countingLoader struct {
	ScaleLoader
	calls int
}

func (l *countingLoader) LoadScale(ctx context.Context, scaleID string) (domain.ScaleDefinition, error) {
	l.calls++
	return l.ScaleLoader.LoadScale(ctx, scaleID)
}
