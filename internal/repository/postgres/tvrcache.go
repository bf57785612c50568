package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/domain"
)

// TVRCacheRepo implements tvr.Store against PostgreSQL. It is the
// persistent tier of the two-tier TVR cache: entries are superseded by
// newer computations rather than deleted, and expired rows are removed in
// bulk by CleanExpired.
type TVRCacheRepo struct{ db *sql.DB }

// NewTVRCacheRepo creates a Postgres-backed TVR cache store.
func NewTVRCacheRepo(db *sql.DB) *TVRCacheRepo { return &TVRCacheRepo{db: db} }

// Get returns the cached result for key if it was computed within maxAge.
// A stale or absent row is a miss, not an error.
func (r *TVRCacheRepo) Get(ctx context.Context, key string, maxAge time.Duration) (*domain.TVRResult, error) {
	cutoff := time.Now().Add(-maxAge)

	res := &domain.TVRResult{}
	err := r.db.QueryRowContext(ctx, `
		SELECT tvr, impacts, spot_count, total_duration
		FROM tvr_cache
		WHERE cache_key = $1 AND computed_at > $2
	`, key, cutoff).Scan(&res.TVR, &res.Impacts, &res.SpotCount, &res.TotalDuration)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached tvr: %w", err)
	}
	return res, nil
}

// Put stores a computed result, superseding any previous row for the key.
func (r *TVRCacheRepo) Put(ctx context.Context, key string, result domain.TVRResult) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tvr_cache (cache_key, tvr, impacts, spot_count, total_duration, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cache_key) DO UPDATE SET
			tvr = EXCLUDED.tvr,
			impacts = EXCLUDED.impacts,
			spot_count = EXCLUDED.spot_count,
			total_duration = EXCLUDED.total_duration,
			computed_at = EXCLUDED.computed_at
	`, key, result.TVR, result.Impacts, result.SpotCount, result.TotalDuration, time.Now())
	if err != nil {
		return fmt.Errorf("store tvr result: %w", err)
	}
	return nil
}

// Clear removes all cached results.
func (r *TVRCacheRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tvr_cache`); err != nil {
		return fmt.Errorf("clear tvr cache: %w", err)
	}
	return nil
}

// CleanExpired removes rows older than maxAge and returns how many went.
func (r *TVRCacheRepo) CleanExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tvr_cache WHERE computed_at < $1`, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("clean expired tvr cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Count returns the number of cached rows.
func (r *TVRCacheRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tvr_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tvr cache: %w", err)
	}
	return n, nil
}
