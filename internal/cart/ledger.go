package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dhruvi0420/bakery-website/internal/bus"
	"github.com/Dhruvi0420/bakery-website/internal/domain"
	"github.com/Dhruvi0420/bakery-website/internal/kv"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Notifier receives the ledger's side effects: badge refreshes and the
// add-to-cart toast
type Notifier interface {
	Publish(bus.Event)
}

// Ledger owns the canonical cart; all mutation goes through it. Views hold
// only transient snapshots re-fetched on each render.
type Ledger struct {
	store  kv.Store
	notify Notifier
	log    *zap.Logger
	sfg    singleflight.Group // collapses concurrent store reads
}

func NewLedger(store kv.Store, notify Notifier, log *zap.Logger) *Ledger {
	return &Ledger{
		store:  store,
		notify: notify,
		log:    log,
	}
}

// Items returns the current cart. Absent or malformed stored state degrades
// to an empty cart rather than blocking the page. Callers that joined the
// same flight share one decode, so each gets its own copy to mutate.
func (l *Ledger) Items(ctx context.Context) domain.Cart {
	v, _, _ := l.sfg.Do(kv.KeyCart, func() (interface{}, error) {
		raw, err := l.store.Get(ctx, kv.KeyCart)
		if err != nil {
			if !errors.Is(err, kv.ErrKeyNotFound) {
				l.log.Warn("cart read failed, using empty cart", zap.Error(err))
			}
			return domain.Cart{}, nil
		}

		var items domain.Cart
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			l.log.Warn("stored cart is malformed, using empty cart", zap.Error(err))
			return domain.Cart{}, nil
		}
		return items, nil
	})
	return v.(domain.Cart).Clone()
}

// Save writes the full cart snapshot; total replacement, no merge
func (l *Ledger) Save(ctx context.Context, items domain.Cart) error {
	if items == nil {
		items = domain.Cart{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := l.store.Set(ctx, kv.KeyCart, string(raw)); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Add accumulates qty onto the existing item with the same id, or appends a
// new row. An empty id is derived from name and price; qty below 1 adds a
// single unit.
func (l *Ledger) Add(ctx context.Context, item domain.CartItem) (domain.Cart, error) {
	if item.ID == "" {
		item.ID = domain.ItemID(item.Name, item.Price)
	}
	if item.Qty < 1 {
		item.Qty = 1
	}

	items := l.Items(ctx)
	found := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Qty += item.Qty
			found = true
			break
		}
	}
	if !found {
		items = append(items, item)
	}

	if err := l.Save(ctx, items); err != nil {
		return nil, err
	}

	l.notify.Publish(bus.Event{Topic: bus.TopicToast, Message: item.Name + " added to cart"})
	l.notify.Publish(bus.Event{Topic: bus.TopicCartUpdated})
	return items, nil
}

// SetQty replaces the quantity for id; zero or negative removes the item
// entirely. A missing id is a no-op.
func (l *Ledger) SetQty(ctx context.Context, id string, qty int) (domain.Cart, error) {
	items := l.Items(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return items, nil
	}

	if qty <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Qty = qty
	}

	if err := l.Save(ctx, items); err != nil {
		return nil, err
	}

	l.notify.Publish(bus.Event{Topic: bus.TopicCartUpdated})
	return items, nil
}

// Remove deletes the item regardless of quantity
func (l *Ledger) Remove(ctx context.Context, id string) (domain.Cart, error) {
	items := l.Items(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return items, nil
	}

	items = append(items[:idx], items[idx+1:]...)
	if err := l.Save(ctx, items); err != nil {
		return nil, err
	}

	l.notify.Publish(bus.Event{Topic: bus.TopicCartUpdated})
	return items, nil
}

// Clear atomically empties the cart
func (l *Ledger) Clear(ctx context.Context) error {
	if err := l.Save(ctx, domain.Cart{}); err != nil {
		return err
	}
	l.notify.Publish(bus.Event{Topic: bus.TopicCartUpdated})
	return nil
}

func indexOf(items domain.Cart, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
