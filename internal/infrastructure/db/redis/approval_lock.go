package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// lockTTL bounds how long an approval can hold its lock. A crashed approver
// frees the registration for retry after this window.
const lockTTL = 30 * time.Second

// ApprovalLock serializes concurrent approvals of the same registration
// across processes. Key format: approval:<registration_id>.
type ApprovalLock struct {
	client *redis.Client
}

// NewApprovalLock creates an ApprovalLock wrapping the given Redis client.
func NewApprovalLock(client *redis.Client) *ApprovalLock {
	return &ApprovalLock{client: client}
}

// Acquire attempts to take the lock. Returns false when another request
// already holds it.
func (l *ApprovalLock) Acquire(ctx context.Context, registrationID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(registrationID), "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("approval lock acquire: %w", err)
	}
	return ok, nil
}

// Release frees the lock so the registration id can be approved again
// (relevant only when the approval itself failed).
func (l *ApprovalLock) Release(ctx context.Context, registrationID string) error {
	return l.client.Del(ctx, l.key(registrationID)).Err()
}

func (l *ApprovalLock) key(registrationID string) string {
	return "approval:" + registrationID
}
