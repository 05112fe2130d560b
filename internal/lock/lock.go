// Package lock provides a redis advisory lock used to serialize
// check-then-insert sequences per scheduling key. The database constraints
// remain authoritative; the lock only narrows the window in which two
// writers race to a commit-time conflict.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// ErrContended is returned when the key stays held through every acquire
// attempt. Callers surface it as a conflict rather than blocking.
var ErrContended = errors.New("lock_contended")

const (
	acquireAttempts = 3
	acquireBackoff  = 50 * time.Millisecond
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type Locker struct {
	client *redis.Client
	script *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
	}
}

// Acquire takes the key for at most ttl, retrying with a short backoff while
// another holder has it. It returns the release token, or ErrContended when
// the key never frees up.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if l == nil || l.client == nil {
		return "", errors.New("lock client not configured")
	}
	if key == "" {
		return "", errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return "", errors.New("lock ttl must be positive")
	}

	for attempt := 0; attempt < acquireAttempts; attempt++ {
		token := uuid.NewString()
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(acquireBackoff):
		}
	}
	return "", ErrContended
}

// Release deletes the key only while it still holds token, so an expired
// lock taken over by another writer is never released from under them.
func (l *Locker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if key == "" || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{key}, token).Err()
}
