package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Dhruvi0420/bakery-website/internal/bus"
	"github.com/Dhruvi0420/bakery-website/internal/domain"
	"github.com/Dhruvi0420/bakery-website/internal/kv"
	"go.uber.org/zap"
)

var (
	// ErrMissingFields is returned when sign-up lacks a name or email
	ErrMissingFields = errors.New("name and email are required")
)

// Notifier receives identity and order-history change notifications
type Notifier interface {
	Publish(bus.Event)
}

// Registry owns the current signed-in identity and the per-email order
// history. Authentication is simulated: no credential is ever verified.
type Registry struct {
	store  kv.Store
	notify Notifier
	log    *zap.Logger
}

func NewRegistry(store kv.Store, notify Notifier, log *zap.Logger) *Registry {
	return &Registry{
		store:  store,
		notify: notify,
		log:    log,
	}
}

// Current returns the signed-in identity, or nil when nobody is signed in.
// Malformed stored state reads as signed out.
func (r *Registry) Current(ctx context.Context) *domain.User {
	raw, err := r.store.Get(ctx, kv.KeyAuthUser)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			r.log.Warn("identity read failed, treating as signed out", zap.Error(err))
		}
		return nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		r.log.Warn("stored identity is malformed, treating as signed out", zap.Error(err))
		return nil
	}
	if user.Email == "" {
		return nil
	}
	return &user
}

// SignIn makes email the current identity. The password is accepted and
// ignored. When the stored identity already has this email and its name is
// a placeholder ("Guest" or empty), the name is replaced with one derived
// from the email's local part; a real custom name is preserved.
func (r *Registry) SignIn(ctx context.Context, email, _ string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingFields
	}

	user := domain.User{Name: domain.DeriveName(email), Email: email}
	if existing := r.Current(ctx); existing != nil && existing.Email == email {
		if !domain.IsPlaceholderName(existing.Name) {
			user.Name = existing.Name
		}
	}

	if err := r.setCurrent(ctx, &user); err != nil {
		return nil, err
	}
	r.notify.Publish(bus.Event{Topic: bus.TopicAuthChanged})
	return &user, nil
}

// SignUp creates or overwrites the current identity verbatim. Both fields
// are required; a blank name or email aborts with no state change.
func (r *Registry) SignUp(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrMissingFields
	}

	user := domain.User{Name: name, Email: email}
	if err := r.setCurrent(ctx, &user); err != nil {
		return nil, err
	}
	r.notify.Publish(bus.Event{Topic: bus.TopicAuthChanged})
	return &user, nil
}

// SignOut clears the current identity only; order history keyed by email is
// retained so signing back in recovers it
func (r *Registry) SignOut(ctx context.Context) error {
	if err := r.store.Delete(ctx, kv.KeyAuthUser); err != nil {
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	r.notify.Publish(bus.Event{Topic: bus.TopicAuthChanged})
	return nil
}

// RecordOrder freezes items into a new order at the head of user's history.
// It is a no-op for a missing identity or empty items, and idempotent on
// attemptKey: an order already recorded for that attempt is returned
// unchanged instead of being duplicated.
func (r *Registry) RecordOrder(ctx context.Context, user *domain.User, items domain.Cart, attemptKey string) (*domain.Order, error) {
	if user == nil || user.Email == "" || len(items) == 0 {
		return nil, nil
	}

	history := r.ordersMap(ctx)
	list := history[user.Email]

	if attemptKey != "" {
		for i := range list {
			if list[i].AttemptKey == attemptKey {
				r.log.Info("duplicate checkout attempt, order already recorded",
					zap.String("attempt_key", attemptKey),
					zap.String("order_id", list[i].ID))
				return &list[i], nil
			}
		}
	}

	order := domain.NewOrder(items, attemptKey)
	history[user.Email] = append([]domain.Order{order}, list...)

	if err := r.saveOrdersMap(ctx, history); err != nil {
		return nil, err
	}
	r.notify.Publish(bus.Event{Topic: bus.TopicOrdersUpdated})
	return &order, nil
}

// OrdersFor returns email's orders, most recent first; empty when the user
// has no history or the stored record is malformed
func (r *Registry) OrdersFor(ctx context.Context, email string) []domain.Order {
	if email == "" {
		return nil
	}
	return r.ordersMap(ctx)[email]
}

// ClearHistory empties exactly email's order list, leaving every other
// identity's history untouched. The view layer gates this behind an
// explicit confirmation.
func (r *Registry) ClearHistory(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}

	history := r.ordersMap(ctx)
	history[email] = []domain.Order{}
	if err := r.saveOrdersMap(ctx, history); err != nil {
		return err
	}
	r.notify.Publish(bus.Event{Topic: bus.TopicOrdersUpdated})
	return nil
}

func (r *Registry) setCurrent(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := r.store.Set(ctx, kv.KeyAuthUser, string(raw)); err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}
	return nil
}

func (r *Registry) ordersMap(ctx context.Context) domain.OrderHistory {
	raw, err := r.store.Get(ctx, kv.KeyOrders)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			r.log.Warn("order history read failed, using empty history", zap.Error(err))
		}
		return domain.OrderHistory{}
	}

	var history domain.OrderHistory
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		r.log.Warn("stored order history is malformed, using empty history", zap.Error(err))
		return domain.OrderHistory{}
	}
	if history == nil {
		history = domain.OrderHistory{}
	}
	return history
}

func (r *Registry) saveOrdersMap(ctx context.Context, history domain.OrderHistory) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal order history: %w", err)
	}
	if err := r.store.Set(ctx, kv.KeyOrders, string(raw)); err != nil {
		return fmt.Errorf("failed to save order history: %w", err)
	}
	return nil
}
