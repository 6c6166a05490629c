package services

import (
	"CogniCare/database"
	"context"
	"time"
)

// DraftLocker serializes draft saves for one (patient, submitter) pair so
// concurrent saves cannot interleave the find-then-write sequence.
type DraftLocker interface {
	Acquire(ctx context.Context, key, value string) (bool, error)
	Release(ctx context.Context, key, value string) error
}

// redisDraftLocker guards draft saves with the shared redis lock, retrying
// the same way the repository creation paths do before giving up.
type redisDraftLocker struct{}

func NewRedisDraftLocker() DraftLocker {
	return redisDraftLocker{}
}

func (redisDraftLocker) Acquire(ctx context.Context, key, value string) (bool, error) {
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, key, value, 10*time.Second)
		if err == nil && locked {
			return true, nil
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return locked, err
}

func (redisDraftLocker) Release(ctx context.Context, key, value string) error {
	return database.ReleaseLock(ctx, key, value)
}
