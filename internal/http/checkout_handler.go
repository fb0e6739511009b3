package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Dhruvi0420/bakery-website/internal/checkout"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	coordinator *checkout.Coordinator
	timeout     time.Duration
	log         *zap.Logger
}

func NewCheckoutHandler(coordinator *checkout.Coordinator, timeout time.Duration, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		coordinator: coordinator,
		timeout:     timeout,
		log:         log,
	}
}

type BeginCheckoutRequestDTO struct {
	Source string `json:"source"`
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req BeginCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Source != checkout.SourceDrawer && req.Source != checkout.SourcePage {
		respondError(w, http.StatusBadRequest, "invalid_source", "source must be drawer or page")
		return
	}

	result, err := h.coordinator.Begin(ctx, req.Source)
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusConflict, "empty_cart", "Your cart is empty.")
		return
	}
	if err != nil {
		h.log.Error("checkout begin failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *CheckoutHandler) Resume(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.coordinator.Resume(ctx)
	switch {
	case errors.Is(err, checkout.ErrNoPendingCheckout):
		respondError(w, http.StatusConflict, "no_pending_checkout", "no checkout is awaiting sign-in")
		return
	case errors.Is(err, checkout.ErrIdentityRequired):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to finish checkout")
		return
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "Your cart is empty.")
		return
	case err != nil:
		h.log.Error("checkout resume failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.coordinator.Cancel())
}

func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"state":             h.coordinator.State(),
		"awaiting_identity": h.coordinator.AwaitingIdentity(),
	})
}
