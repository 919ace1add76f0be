package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"jfk-emergence-service/internal/domain"
	"jfk-emergence-service/internal/scale"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ScaleLoader fetches scale definitions from a backing store.
type ScaleLoader interface {
	LoadScale(ctx context.Context, scaleID string) (domain.ScaleDefinition, error)
}

// ScaleRepository caches definitions in Redis as JSON and falls back to a loader on miss.
// Stored as: SET scale:{scaleID}:definition {json} EX ttl
type ScaleRepository struct {
	client *redis.Client
	loader ScaleLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewScaleRepository(client *redis.Client, loader ScaleLoader, ttl time.Duration) *ScaleRepository {
	return &ScaleRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ScaleRepository) GetScale(ctx context.Context, scaleID string) (domain.ScaleDefinition, error) {
	if def, ok := r.fromCache(ctx, scaleID); ok {
		return def, nil
	}

	result, err, _ := r.sf.Do(scaleID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if def, ok := r.fromCache(ctx, scaleID); ok {
			return def, nil
		}

		def, err := r.loader.LoadScale(ctx, scaleID)
		if err != nil {
			return domain.ScaleDefinition{}, err
		}
		if err := scale.Validate(def); err != nil {
			return domain.ScaleDefinition{}, fmt.Errorf("load scale %s: %w", scaleID, err)
		}

		raw, err := json.Marshal(def)
		if err != nil {
			return domain.ScaleDefinition{}, fmt.Errorf("marshal scale: %w", err)
		}
		// best-effort: a failed write only costs a reload next time
		_ = r.client.Set(ctx, r.key(scaleID), raw, r.ttlWithJitter()).Err()
		return def, nil
	})
	if err != nil {
		return domain.ScaleDefinition{}, err
	}
	return result.(domain.ScaleDefinition), nil
}

func (r *ScaleRepository) fromCache(ctx context.Context, scaleID string) (domain.ScaleDefinition, bool) {
	raw, err := r.client.Get(ctx, r.key(scaleID)).Bytes()
	if err != nil {
		return domain.ScaleDefinition{}, false
	}
	var def domain.ScaleDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return domain.ScaleDefinition{}, false
	}
	// a stale or foreign entry is treated as a miss and overwritten by the reload
	if err := scale.Validate(def); err != nil {
		return domain.ScaleDefinition{}, false
	}
	return def, true
}

func (r *ScaleRepository) key(scaleID string) string {
	return "scale:" + scaleID + ":definition"
}

func (r *ScaleRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
