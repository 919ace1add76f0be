package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"jfk-emergence-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ScaleLoader loads scale definitions stored as JSONB.
type ScaleLoader struct {
	pool *pgxpool.Pool
}

func NewScaleLoader(pool *pgxpool.Pool) *ScaleLoader {
	return &ScaleLoader{pool: pool}
}

func (l *ScaleLoader) LoadScale(ctx context.Context, scaleID string) (domain.ScaleDefinition, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM scales WHERE id=$1`, scaleID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ScaleDefinition{}, domain.ErrScaleNotFound
	}
	if err != nil {
		return domain.ScaleDefinition{}, fmt.Errorf("load scale: %w", err)
	}
	var def domain.ScaleDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return domain.ScaleDefinition{}, fmt.Errorf("unmarshal scale: %w", err)
	}
	return def, nil
}

// UpsertScale stores def, replacing any previous version with the same ID.
func (l *ScaleLoader) UpsertScale(ctx context.Context, def domain.ScaleDefinition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal scale: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO scales (id, data, updated_at) VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		def.ID, string(data))
	if err != nil {
		return fmt.Errorf("upsert scale %s: %w", def.ID, err)
	}
	return nil
}
