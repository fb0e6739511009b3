package http

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/Dhruvi0420/bakery-website/internal/cart"
	"github.com/Dhruvi0420/bakery-website/internal/domain"
	"github.com/Dhruvi0420/bakery-website/internal/identity"
	"go.uber.org/zap"
)

// MenuLink is one navigable entry of the slide-in menu
type MenuLink struct {
	Label string
	Href  string
}

// MenuSection groups menu links under a category heading. The taxonomy is
// plain data handed in at construction; the core does not interpret it.
type MenuSection struct {
	Title string
	Links []MenuLink
}

// DefaultMenu is the storefront's category taxonomy
func DefaultMenu() []MenuSection {
	return []MenuSection{
		{Title: "Cakes", Links: []MenuLink{
			{Label: "All Cakes", Href: "cakess.html"},
			{Label: "Trending Cakes", Href: "Trending Cakes.html"},
			{Label: "Theme Cakes", Href: "Theme Cakes.html"},
			{Label: "Classic Cakes", Href: "Classic Cakes.html"},
			{Label: "Birthday Cakes", Href: "birthday cakes.html"},
			{Label: "Occasion Cakes", Href: "Occassion Cakes.html"},
			{Label: "Tea Cakes", Href: "Tea cakes.html"},
		}},
		{Title: "Cupcakes", Links: []MenuLink{
			{Label: "All Cupcakes", Href: "cupcakes.html"},
			{Label: "Vanilla Coffee Cupcakes", Href: "cupcakes.html"},
			{Label: "Chocolate Cupcakes", Href: "cupcakes.html"},
			{Label: "Red Velvet Cupcakes", Href: "cupcakes.html"},
			{Label: "Oreo Cream Cupcakes", Href: "cupcakes.html"},
		}},
		{Title: "Brownies", Links: []MenuLink{
			{Label: "All Brownies", Href: "Brownies.html"},
			{Label: "Assorted Brownies", Href: "Brownies.html"},
			{Label: "Chocolate Brownies", Href: "Brownies.html"},
		}},
		{Title: "Cookies", Links: []MenuLink{
			{Label: "Chocolate Chip Cookies", Href: "cookies.html"},
			{Label: "Sugar Cookies", Href: "cookies.html"},
			{Label: "Oatmeal Cookies", Href: "cookies.html"},
		}},
		{Title: "Pastries", Links: []MenuLink{
			{Label: "Croissants", Href: "pastries.html"},
			{Label: "Danish Pastries", Href: "pastries.html"},
			{Label: "Eclairs", Href: "pastries.html"},
		}},
		{Title: "Desserts", Links: []MenuLink{
			{Label: "All Desserts", Href: "Desserts.html"},
			{Label: "Chocolate Desserts", Href: "Desserts.html"},
			{Label: "Seasonal Specials", Href: "Desserts.html"},
		}},
	}
}

// FragmentsHandler renders HTML fragments for each surface from a fresh
// core snapshot; nothing is cached across mutations
type FragmentsHandler struct {
	ledger   *cart.Ledger
	registry *identity.Registry
	menu     []MenuSection
	timeout  time.Duration
	log      *zap.Logger
}

func NewFragmentsHandler(ledger *cart.Ledger, registry *identity.Registry, menu []MenuSection, timeout time.Duration, log *zap.Logger) *FragmentsHandler {
	return &FragmentsHandler{
		ledger:   ledger,
		registry: registry,
		menu:     menu,
		timeout:  timeout,
		log:      log,
	}
}

type cartViewData struct {
	Items domain.Cart
	Total float64
	Count int
}

func (h *FragmentsHandler) CartDrawer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items := h.ledger.Items(ctx)
	h.render(w, "cart-drawer", cartViewData{Items: items, Total: items.Total(), Count: items.Count()})
}

func (h *FragmentsHandler) CartPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items := h.ledger.Items(ctx)
	h.render(w, "cart-page", cartViewData{Items: items, Total: items.Total(), Count: items.Count()})
}

func (h *FragmentsHandler) MenuDrawer(w http.ResponseWriter, r *http.Request) {
	h.render(w, "menu-drawer", struct{ Sections []MenuSection }{h.menu})
}

func (h *FragmentsHandler) NavChip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.render(w, "nav-chip", struct{ User *domain.User }{h.registry.Current(ctx)})
}

func (h *FragmentsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user := h.registry.Current(ctx)
	data := struct {
		User   *domain.User
		Orders []domain.Order
	}{User: user}
	if user != nil {
		data.Orders = h.registry.OrdersFor(ctx, user.Email)
	}
	h.render(w, "profile", data)
}

func (h *FragmentsHandler) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := viewTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("failed to render fragment", zap.String("fragment", name), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "render_failed", "failed to render fragment")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
