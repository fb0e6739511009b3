package checkout

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrNoPendingCheckout = errors.New("no checkout is awaiting identity")
	ErrIdentityRequired  = errors.New("an identity is required to finalize checkout")
	ErrIllegalTransition = errors.New("illegal transition of checkout state")
)
