package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, CanTransitionTo(CheckoutStateIdle, CheckoutStateValidating))
	assert.True(t, CanTransitionTo(CheckoutStateValidating, CheckoutStateAwaitingIdentity))
	assert.True(t, CanTransitionTo(CheckoutStateValidating, CheckoutStateFinalizing))
	assert.True(t, CanTransitionTo(CheckoutStateValidating, CheckoutStateIdle))
	assert.True(t, CanTransitionTo(CheckoutStateAwaitingIdentity, CheckoutStateFinalizing))
	assert.True(t, CanTransitionTo(CheckoutStateAwaitingIdentity, CheckoutStateIdle))
	assert.True(t, CanTransitionTo(CheckoutStateFinalizing, CheckoutStateDone))
	assert.True(t, CanTransitionTo(CheckoutStateDone, CheckoutStateIdle))

	assert.False(t, CanTransitionTo(CheckoutStateIdle, CheckoutStateFinalizing))
	assert.False(t, CanTransitionTo(CheckoutStateIdle, CheckoutStateDone))
	assert.False(t, CanTransitionTo(CheckoutStateAwaitingIdentity, CheckoutStateDone))
	assert.False(t, CanTransitionTo(CheckoutStateDone, CheckoutStateFinalizing))
}

func TestCheckoutState_IsTerminal(t *testing.T) {
	assert.True(t, CheckoutStateDone.IsTerminal())
	assert.False(t, CheckoutStateIdle.IsTerminal())
	assert.False(t, CheckoutStateAwaitingIdentity.IsTerminal())
}
