package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// NewBreakerStore wraps a remote backend with a circuit breaker so a failing
// store stops blocking page handlers. An open circuit surfaces as a store
// error; readers degrade that to the schema's empty default.
func NewBreakerStore(name string, inner Store) *BreakerStore {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A missing key is a normal outcome, not a backend failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrKeyNotFound)
		},
	}
	return &BreakerStore{
		inner:  inner,
		reads:  gobreaker.NewCircuitBreaker[string](settings),
		writes: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

type BreakerStore struct {
	inner  Store
	reads  *gobreaker.CircuitBreaker[string]
	writes *gobreaker.CircuitBreaker[struct{}]
}

func (b *BreakerStore) Get(ctx context.Context, key string) (string, error) {
	value, err := b.reads.Execute(func() (string, error) {
		return b.inner.Get(ctx, key)
	})
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("store read failed: %w", err)
	}
	return value, nil
}

func (b *BreakerStore) Set(ctx context.Context, key, value string) error {
	_, err := b.writes.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.Set(ctx, key, value)
	})
	if err != nil {
		return fmt.Errorf("store write failed: %w", err)
	}
	return nil
}

func (b *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := b.writes.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.Delete(ctx, key)
	})
	if err != nil {
		return fmt.Errorf("store delete failed: %w", err)
	}
	return nil
}
