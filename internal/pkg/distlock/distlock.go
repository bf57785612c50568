// Package distlock provides a cross-replica mutex for periodic maintenance
// work such as the cache sweep. Only one replica should run a sweep at a
// time; the others skip the cycle.
package distlock

import (
	"context"
	"database/sql"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a non-blocking distributed lock. A Lock value is for use from a
// single goroutine; concurrent holders need separate instances.
type Lock interface {
	// TryAcquire attempts to take the lock without blocking and reports
	// whether it succeeded.
	TryAcquire(ctx context.Context) (bool, error)
	// Release gives the lock back if this instance still owns it.
	Release(ctx context.Context) error
}

// New picks a backend for the lock: Redis when a client is available,
// otherwise PostgreSQL advisory locks on the given database.
func New(rdb *redis.Client, db *sql.DB, name string, ttl time.Duration) Lock {
	if rdb != nil {
		return newRedisLock(rdb, name, ttl)
	}
	return newAdvisoryLock(db, name)
}

// advisoryLock holds a PostgreSQL session-scoped advisory lock. The lock
// drops automatically if the session dies, so a crashed sweeper cannot
// wedge the others.
type advisoryLock struct {
	db     *sql.DB
	lockID int64
}

func newAdvisoryLock(db *sql.DB, name string) *advisoryLock {
	h := fnv.New64a()
	h.Write([]byte(name))
	return &advisoryLock{db: db, lockID: int64(h.Sum64())}
}

func (l *advisoryLock) TryAcquire(ctx context.Context) (bool, error) {
	var ok bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (l *advisoryLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID)
	return err
}
