package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dhruvi0420/bakery-website/internal/cart"
	"github.com/Dhruvi0420/bakery-website/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	ledger  *cart.Ledger
	timeout time.Duration
	log     *zap.Logger
}

func NewCartHandler(ledger *cart.Ledger, timeout time.Duration, log *zap.Logger) *CartHandler {
	return &CartHandler{
		ledger:  ledger,
		timeout: timeout,
		log:     log,
	}
}

type AddItemRequestDTO struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Qty   int     `json:"qty"`
}

type UpdateQuantityRequestDTO struct {
	Qty int `json:"qty"`
}

// CartResponse is the snapshot every cart surface renders from
type CartResponse struct {
	Items domain.Cart `json:"items"`
	Total float64     `json:"total"`
	Count int         `json:"count"`
}

func cartResponse(items domain.Cart) CartResponse {
	if items == nil {
		items = domain.Cart{}
	}
	return CartResponse{
		Items: items,
		Total: items.Total(),
		Count: items.Count(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, cartResponse(h.ledger.Items(ctx)))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}
	if req.Qty <= 0 || req.Qty > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "qty must be between 1 and 99")
		return
	}

	items, err := h.ledger.Add(ctx, domain.CartItem{
		Name:  req.Name,
		Price: req.Price,
		Image: req.Image,
		Qty:   req.Qty,
	})
	if err != nil {
		h.log.Error("add item failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(items))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// qty <= 0 is a removal, by contract
	items, err := h.ledger.SetQty(ctx, itemID, req.Qty)
	if err != nil {
		h.log.Error("update quantity failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(items))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item_id is required")
		return
	}

	items, err := h.ledger.Remove(ctx, itemID)
	if err != nil {
		h.log.Error("remove item failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(items))
}
