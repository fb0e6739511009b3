package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Dhruvi0420/bakery-website/internal/domain"
	"github.com/Dhruvi0420/bakery-website/internal/identity"
	"go.uber.org/zap"
)

type OrdersHandler struct {
	registry *identity.Registry
	timeout  time.Duration
	log      *zap.Logger
}

func NewOrdersHandler(registry *identity.Registry, timeout time.Duration, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		registry: registry,
		timeout:  timeout,
		log:      log,
	}
}

type OrdersResponse struct {
	Email  string         `json:"email"`
	Orders []domain.Order `json:"orders"`
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := h.registry.Current(ctx)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to view your orders")
		return
	}

	orders := h.registry.OrdersFor(ctx, user.Email)
	if orders == nil {
		orders = []domain.Order{}
	}

	respondJSON(w, http.StatusOK, OrdersResponse{Email: user.Email, Orders: orders})
}

// ClearHistory wipes the current identity's order list. The irreversible
// action is gated on an explicit confirm=true from the view layer's
// confirmation dialog.
func (h *OrdersHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := h.registry.Current(ctx)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "sign in to manage your orders")
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		respondError(w, http.StatusBadRequest, "confirmation_required", "clearing order history requires confirm=true")
		return
	}

	if err := h.registry.ClearHistory(ctx, user.Email); err != nil {
		h.log.Error("clear history failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear order history")
		return
	}

	respondJSON(w, http.StatusOK, OrdersResponse{Email: user.Email, Orders: []domain.Order{}})
}
