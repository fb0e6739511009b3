package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dhruvi0420/bakery-website/internal/bus"
	"github.com/Dhruvi0420/bakery-website/internal/domain"
	"github.com/Dhruvi0420/bakery-website/internal/kv"
)

type captureNotifier struct {
	events []bus.Event
}

func (c *captureNotifier) Publish(ev bus.Event) {
	c.events = append(c.events, ev)
}

func setupRegistry(t *testing.T) (*Registry, *captureNotifier, kv.Store) {
	t.Helper()
	store := kv.NewMemoryStore()
	notify := &captureNotifier{}
	return NewRegistry(store, notify, zap.NewNop()), notify, store
}

func TestRegistry_CurrentSignedOutByDefault(t *testing.T) {
	registry, _, _ := setupRegistry(t)
	assert.Nil(t, registry.Current(context.Background()))
}

func TestRegistry_CurrentMalformedReadsAsSignedOut(t *testing.T) {
	registry, _, store := setupRegistry(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, kv.KeyAuthUser, "{broken"))
	assert.Nil(t, registry.Current(ctx))
}

func TestRegistry_SignInDerivesNameFromEmail(t *testing.T) {
	registry, notify, _ := setupRegistry(t)
	ctx := context.Background()

	user, err := registry.SignIn(ctx, "jane.doe@example.com", "whatever")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jane.doe@example.com", user.Email)
	require.Len(t, notify.events, 1)
	assert.Equal(t, bus.TopicAuthChanged, notify.events[0].Topic)

	current := registry.Current(ctx)
	require.NotNil(t, current)
	assert.Equal(t, "Jane Doe", current.Name)
}

func TestRegistry_SignInPreservesCustomName(t *testing.T) {
	registry, _, _ := setupRegistry(t)
	ctx := context.Background()

	_, err := registry.SignUp(ctx, "Janey", "jane@example.com")
	require.NoError(t, err)

	user, err := registry.SignIn(ctx, "jane@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Janey", user.Name)
}

func TestRegistry_SignInReplacesPlaceholderName(t *testing.T) {
	registry, _, store := setupRegistry(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, kv.KeyAuthUser, `{"name":"Guest","email":"jane@example.com"}`))

	user, err := registry.SignIn(ctx, "jane@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)
}

func TestRegistry_SignInEmptyEmail(t *testing.T) {
	registry, _, _ := setupRegistry(t)

	_, err := registry.SignIn(context.Background(), "   ", "pw")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRegistry_SignUpRequiresBothFields(t *testing.T) {
	registry, _, _ := setupRegistry(t)
	ctx := context.Background()

	_, err := registry.SignUp(ctx, "", "jane@example.com")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = registry.SignUp(ctx, "Jane", "  ")
	assert.ErrorIs(t, err, ErrMissingFields)

	assert.Nil(t, registry.Current(ctx))
}

func TestRegistry_SignOutRetainsOrderHistory(t *testing.T) {
	registry, _, _ := setupRegistry(t)
	ctx := context.Background()

	user, err := registry.SignIn(ctx, "jane@example.com", "pw")
	require.NoError(t, err)

	_, err = registry.RecordOrder(ctx, user, domain.Cart{{ID: "croissant-60", Name: "Croissant", Price: 60, Qty: 1}}, "attempt-1")
	require.NoError(t, err)

	require.NoError(t, registry.SignOut(ctx))
	assert.Nil(t, registry.Current(ctx))

	// History survives the sign-out and is back after signing in again
	assert.Len(t, registry.OrdersFor(ctx, "jane@example.com"), 1)
}

func TestRegistry_RecordOrderPrependsMostRecent(t *testing.T) {
	registry, _, _ := setupRegistry(t)
	ctx := context.Background()

	user := &domain.User{Name: "Jane", Email: "jane@example.com"}

	first, err := registry.RecordOrder(ctx, user, domain.Cart{{ID: "a", Name: "A", Price: 10, Qty: 1}}, "k1")
	require.NoError(t, err)
	second, err := registry.RecordOrder(ctx, user, domain.Cart{{ID: "b", Name: "B", Price: 20, Qty: 1}}, "k2")
	require.NoError(t, err)

	orders := registry.OrdersFor(ctx, "jane@example.com")
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestRegistry_RecordOrderIdempotentOnAttemptKey(t *testing.T) {
	registry, _, _ := setupRegistry(t)
	ctx := context.Background()

	user := &domain.User{Name: "Jane", Email: "jane@example.com"}
	items := domain.Cart{{ID: "a", Name: "A", Price: 10, Qty: 1}}

	first, err := registry.RecordOrder(ctx, user, items, "same-key")
	require.NoError(t, err)
	second, err := registry.RecordOrder(ctx, user, items, "same-key")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, registry.OrdersFor(ctx, "jane@example.com"), 1)
}

func TestRegistry_RecordOrderNoOpCases(t *testing.T) {
	registry, notify, _ := setupRegistry(t)
	ctx := context.Background()

	order, err := registry.RecordOrder(ctx, nil, domain.Cart{{ID: "a", Qty: 1}}, "k")
	require.NoError(t, err)
	assert.Nil(t, order)

	order, err = registry.RecordOrder(ctx, &domain.User{Name: "Jane", Email: "jane@example.com"}, domain.Cart{}, "k")
	require.NoError(t, err)
	assert.Nil(t, order)

	assert.Empty(t, notify.events)
}

func TestRegistry_OrdersScopedPerEmail(t *testing.T) {
	registry, _, _ := setupRegistry(t)
	ctx := context.Background()

	jane := &domain.User{Name: "Jane", Email: "jane@example.com"}
	bob := &domain.User{Name: "Bob", Email: "bob@example.com"}

	_, err := registry.RecordOrder(ctx, jane, domain.Cart{{ID: "a", Name: "A", Price: 10, Qty: 1}}, "k1")
	require.NoError(t, err)
	_, err = registry.RecordOrder(ctx, bob, domain.Cart{{ID: "b", Name: "B", Price: 20, Qty: 1}}, "k2")
	require.NoError(t, err)

	assert.Len(t, registry.OrdersFor(ctx, "jane@example.com"), 1)
	assert.Len(t, registry.OrdersFor(ctx, "bob@example.com"), 1)
}

func TestRegistry_ClearHistoryScopedToOneEmail(t *testing.T) {
	registry, _, _ := setupRegistry(t)
	ctx := context.Background()

	jane := &domain.User{Name: "Jane", Email: "jane@example.com"}
	bob := &domain.User{Name: "Bob", Email: "bob@example.com"}

	_, err := registry.RecordOrder(ctx, jane, domain.Cart{{ID: "a", Name: "A", Price: 10, Qty: 1}}, "k1")
	require.NoError(t, err)
	_, err = registry.RecordOrder(ctx, bob, domain.Cart{{ID: "b", Name: "B", Price: 20, Qty: 1}}, "k2")
	require.NoError(t, err)

	require.NoError(t, registry.ClearHistory(ctx, "jane@example.com"))

	assert.Empty(t, registry.OrdersFor(ctx, "jane@example.com"))
	assert.Len(t, registry.OrdersFor(ctx, "bob@example.com"), 1)
}

func TestRegistry_OrdersForMalformedHistory(t *testing.T) {
	registry, _, store := setupRegistry(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, kv.KeyOrders, "not a map"))
	assert.Empty(t, registry.OrdersFor(ctx, "jane@example.com"))
}
