package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Dhruvi0420/bakery-website/internal/checkout"
	"github.com/Dhruvi0420/bakery-website/internal/identity"
	"go.uber.org/zap"
)

type AuthHandler struct {
	registry    *identity.Registry
	coordinator *checkout.Coordinator
	timeout     time.Duration
	log         *zap.Logger
}

func NewAuthHandler(registry *identity.Registry, coordinator *checkout.Coordinator, timeout time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		registry:    registry,
		coordinator: coordinator,
		timeout:     timeout,
		log:         log,
	}
}

type SignInRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"` // collected but never verified
}

type SignUpRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse describes the signed-in identity and, when a checkout was
// suspended on this sign-in, the result of resuming it
type AuthResponse struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	DisplayName string           `json:"display_name"`
	Checkout    *checkout.Result `json:"checkout,omitempty"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignInRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.registry.SignIn(ctx, req.Email, req.Password)
	if errors.Is(err, identity.ErrMissingFields) {
		respondError(w, http.StatusBadRequest, "missing_fields", "email is required")
		return
	}
	if err != nil {
		h.log.Error("sign in failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to sign in")
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Name:        user.Name,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
		Checkout:    h.resumePending(ctx),
	})
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignUpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.registry.SignUp(ctx, req.Name, req.Email)
	if errors.Is(err, identity.ErrMissingFields) {
		respondError(w, http.StatusBadRequest, "missing_fields", "name and email are required")
		return
	}
	if err != nil {
		h.log.Error("sign up failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to sign up")
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponse{
		Name:        user.Name,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
		Checkout:    h.resumePending(ctx),
	})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.registry.SignOut(ctx); err != nil {
		h.log.Error("sign out failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to sign out")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := h.registry.Current(ctx)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "not signed in")
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{
		Name:        user.Name,
		Email:       user.Email,
		DisplayName: user.DisplayName(),
	})
}

// resumePending completes a checkout that was suspended on sign-in. A sign-in
// with nothing parked is an ordinary sign-in, not an error.
func (h *AuthHandler) resumePending(ctx context.Context) *checkout.Result {
	if !h.coordinator.AwaitingIdentity() {
		return nil
	}

	result, err := h.coordinator.Resume(ctx)
	if err != nil {
		h.log.Error("resuming suspended checkout failed", zap.Error(err))
		return nil
	}
	return &result
}
