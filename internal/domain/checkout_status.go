package domain

type CheckoutState string

const (
	CheckoutStateIdle             CheckoutState = "IDLE"
	CheckoutStateValidating       CheckoutState = "VALIDATING"
	CheckoutStateAwaitingIdentity CheckoutState = "AWAITING_IDENTITY"
	CheckoutStateFinalizing       CheckoutState = "FINALIZING"
	CheckoutStateDone             CheckoutState = "DONE"
)

// validTransitions holds the legal edges of the checkout state machine.
// AwaitingIdentity can fall back to Idle (dismissed) or proceed to
// Finalizing (authenticated); Done always settles back to Idle.
var validTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateIdle:             {CheckoutStateValidating},
	CheckoutStateValidating:       {CheckoutStateAwaitingIdentity, CheckoutStateFinalizing, CheckoutStateIdle},
	CheckoutStateAwaitingIdentity: {CheckoutStateFinalizing, CheckoutStateIdle},
	CheckoutStateFinalizing:       {CheckoutStateDone},
	CheckoutStateDone:             {CheckoutStateIdle},
}

func CanTransitionTo(from, to CheckoutState) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateDone
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}
