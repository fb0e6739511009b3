package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/Dhruvi0420/bakery-website/internal/cart"
	"github.com/Dhruvi0420/bakery-website/internal/domain"
	"github.com/Dhruvi0420/bakery-website/internal/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checkout sources, i.e. which surface initiated the attempt. The result
// carries the source back so that surface can refresh itself (the drawer
// closes, the page re-renders its emptied list).
const (
	SourceDrawer = "drawer"
	SourcePage   = "page"
)

// attempt is the parked continuation of a checkout suspended on sign-in.
// Key ties the eventual order to this one attempt.
type attempt struct {
	Key    string
	Source string
}

// Result reports where a checkout call ended up
type Result struct {
	State  domain.CheckoutState `json:"state"`
	Source string               `json:"source,omitempty"`
	Order  *domain.Order        `json:"order,omitempty"`
}

// Coordinator drives the Idle -> Validating -> (AwaitingIdentity | Finalizing)
// -> Done state machine. At most one attempt is ever parked; a new Begin
// replaces it and Cancel discards it.
type Coordinator struct {
	mu       sync.Mutex
	ledger   *cart.Ledger
	registry *identity.Registry
	log      *zap.Logger

	state   domain.CheckoutState
	pending *attempt
}

func NewCoordinator(ledger *cart.Ledger, registry *identity.Registry, log *zap.Logger) *Coordinator {
	return &Coordinator{
		ledger:   ledger,
		registry: registry,
		log:      log,
		state:    domain.CheckoutStateIdle,
	}
}

// Begin starts a checkout attempt from the given surface. An empty cart
// aborts with ErrEmptyCart and no state change. A missing identity parks the
// attempt and reports AwaitingIdentity; the caller presents the sign-in
// surface and later calls Resume or Cancel.
func (c *Coordinator) Begin(ctx context.Context, source string) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A fresh Begin supersedes any attempt still parked, but only once it
	// validates; an aborted Begin leaves the parked attempt untouched
	prior, priorState := c.pending, c.state
	c.pending = nil
	c.state = domain.CheckoutStateIdle

	if err := c.advance(domain.CheckoutStateValidating); err != nil {
		return Result{State: c.state}, err
	}

	items := c.ledger.Items(ctx)
	if len(items) == 0 {
		c.pending, c.state = prior, priorState
		return Result{State: c.state}, ErrEmptyCart
	}

	user := c.registry.Current(ctx)
	if user == nil {
		if err := c.advance(domain.CheckoutStateAwaitingIdentity); err != nil {
			return Result{State: c.state}, err
		}
		c.pending = &attempt{Key: uuid.NewString(), Source: source}
		c.log.Info("checkout suspended awaiting identity", zap.String("source", source))
		return Result{State: c.state, Source: source}, nil
	}

	return c.finalize(ctx, attempt{Key: uuid.NewString(), Source: source}, user, items)
}

// Resume finalizes the parked attempt with the now-current identity. It
// fails with ErrNoPendingCheckout when nothing is parked and with
// ErrIdentityRequired when the user is still signed out; in the latter case
// the attempt stays parked.
func (c *Coordinator) Resume(ctx context.Context) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return Result{State: c.state}, ErrNoPendingCheckout
	}

	user := c.registry.Current(ctx)
	if user == nil {
		return Result{State: c.state}, ErrIdentityRequired
	}

	items := c.ledger.Items(ctx)
	if len(items) == 0 {
		// The cart was emptied while the attempt was parked
		c.pending = nil
		c.state = domain.CheckoutStateIdle
		return Result{State: c.state}, ErrEmptyCart
	}

	att := *c.pending
	return c.finalize(ctx, att, user, items)
}

// Cancel discards the parked attempt: no order is recorded and the cart
// keeps its pre-checkout contents
func (c *Coordinator) Cancel() Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.log.Info("checkout abandoned", zap.String("source", c.pending.Source))
	}
	c.pending = nil
	c.state = domain.CheckoutStateIdle
	return Result{State: c.state}
}

// State returns the machine's current state
func (c *Coordinator) State() domain.CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// AwaitingIdentity reports whether an attempt is parked on sign-in
func (c *Coordinator) AwaitingIdentity() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

func (c *Coordinator) finalize(ctx context.Context, att attempt, user *domain.User, items domain.Cart) (Result, error) {
	if err := c.advance(domain.CheckoutStateFinalizing); err != nil {
		return Result{State: c.state}, err
	}

	order, err := c.registry.RecordOrder(ctx, user, items, att.Key)
	if err != nil {
		// Nothing was recorded; park the attempt so a Resume retries it
		// under the same key
		c.pending = &att
		c.state = domain.CheckoutStateAwaitingIdentity
		return Result{State: c.state}, fmt.Errorf("failed to record order: %w", err)
	}

	if err := c.ledger.Clear(ctx); err != nil {
		// The order is recorded but the cart survived. Keep the attempt
		// parked: a retried finalize reuses the same key, and RecordOrder
		// will not append the order twice.
		c.pending = &att
		c.state = domain.CheckoutStateAwaitingIdentity
		return Result{State: c.state}, fmt.Errorf("failed to clear cart after checkout: %w", err)
	}

	if err := c.advance(domain.CheckoutStateDone); err != nil {
		return Result{State: c.state}, err
	}

	c.log.Info("checkout completed",
		zap.String("source", att.Source),
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total))

	result := Result{State: c.state, Source: att.Source, Order: order}

	// Per-attempt machine settles back to Idle once done
	c.pending = nil
	c.state = domain.CheckoutStateIdle
	return result, nil
}

func (c *Coordinator) advance(to domain.CheckoutState) error {
	if !domain.CanTransitionTo(c.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.state, to)
	}
	c.state = to
	return nil
}
