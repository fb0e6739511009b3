package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// Order is a frozen record of a completed checkout. Contents are a copy of
// the cart at checkout time and never change afterwards; Total is recomputed
// from Items at construction.
type Order struct {
	ID    string  `json:"id"`
	TS    int64   `json:"ts"` // creation instant, unix milliseconds
	Total float64 `json:"total"`
	Items Cart    `json:"items"`

	// AttemptKey ties the order to a single checkout attempt so a retried
	// finalize cannot record it twice
	AttemptKey string `json:"attempt_key,omitempty"`
}

// OrderHistory maps identity email to that user's orders, most recent first
type OrderHistory map[string][]Order

// NewOrder freezes items into an immutable order with a fresh time+random id
func NewOrder(items Cart, attemptKey string) Order {
	now := time.Now()
	frozen := items.Clone()
	return Order{
		ID:         fmt.Sprintf("ORD-%d-%03d", now.UnixMilli(), rand.Intn(1000)),
		TS:         now.UnixMilli(),
		Total:      frozen.Total(),
		Items:      frozen,
		AttemptKey: attemptKey,
	}
}

// Placed returns the order creation time
func (o Order) Placed() time.Time {
	return time.UnixMilli(o.TS)
}
