package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"jfk-emergence-service/internal/domain"
	"jfk-emergence-service/internal/scale"

	"golang.org/x/sync/singleflight"
)

// ScaleLoader fetches scale definitions from a backing store (static catalog, Postgres).
type ScaleLoader interface {
	LoadScale(ctx context.Context, scaleID string) (domain.ScaleDefinition, error)
}

// ScaleRepository caches validated definitions with TTL to avoid repeated loads.
type ScaleRepository struct {
	loader ScaleLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedScale
}

type cachedScale struct {
	def       domain.ScaleDefinition
	expiresAt time.Time
}

func NewScaleRepository(loader ScaleLoader, ttl time.Duration) *ScaleRepository {
	return &ScaleRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedScale),
	}
}

func (r *ScaleRepository) GetScale(ctx context.Context, scaleID string) (domain.ScaleDefinition, error) {
	if def, ok := r.cached(scaleID); ok {
		return def, nil
	}

	result, err, _ := r.sf.Do(scaleID, func() (interface{}, error) {
		if def, ok := r.cached(scaleID); ok {
			return def, nil
		}

		def, err := r.loader.LoadScale(ctx, scaleID)
		if err != nil {
			return domain.ScaleDefinition{}, err
		}
		if err := scale.Validate(def); err != nil {
			return domain.ScaleDefinition{}, fmt.Errorf("load scale %s: %w", scaleID, err)
		}

		r.mu.Lock()
		r.cache[scaleID] = cachedScale{
			def:       def,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return def, nil
	})
	if err != nil {
		return domain.ScaleDefinition{}, err
	}
	return result.(domain.ScaleDefinition), nil
}

func (r *ScaleRepository) cached(scaleID string) (domain.ScaleDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[scaleID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.ScaleDefinition{}, false
	}
	return entry.def, true
}

func (r *ScaleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticScaleLoader serves definitions from an in-memory map (built-in catalog, tests).
type StaticScaleLoader struct {
	scales map[string]domain.ScaleDefinition
}

func NewStaticScaleLoader(scales map[string]domain.ScaleDefinition) *StaticScaleLoader {
	return &StaticScaleLoader{scales: scales}
}

func (l *StaticScaleLoader) LoadScale(_ context.Context, scaleID string) (domain.ScaleDefinition, error) {
	if def, ok := l.scales[scaleID]; ok {
		return def, nil
	}
	return domain.ScaleDefinition{}, domain.ErrScaleNotFound
}
