package http

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Dhruvi0420/bakery-website/internal/domain"
)

func formatINR(n float64) string {
	return fmt.Sprintf("₹%.2f", n)
}

// orderLines summarizes an order's first three items, "Name × qty" style
func orderLines(items domain.Cart) string {
	lines := make([]string, 0, 3)
	for i, it := range items {
		if i == 3 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s × %d", it.Name, it.Qty))
	}
	summary := strings.Join(lines, ", ")
	if len(items) > 3 {
		summary += ", …"
	}
	return summary
}

func initialOf(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "U"
	}
	first, _ := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToUpper(first))
}

var viewFuncs = template.FuncMap{
	"inr":        formatINR,
	"orderLines": orderLines,
	"initial":    initialOf,
	"placed": func(o domain.Order) string {
		return o.Placed().Format(time.DateTime)
	},
}

// viewTemplates holds the markup for every surface the core renders into:
// the cart drawer, the full cart page list, the slide-in menu, the profile
// order history and the nav auth chip. Views hold no state of their own;
// each render works from a fresh snapshot.
var viewTemplates = template.Must(template.New("views").Funcs(viewFuncs).Parse(`
{{define "nav-chip"}}
{{if .User}}
<a class="profile-chip" href="profile.html" aria-label="Your Profile">
  <span class="profile-avatar" aria-hidden="true">{{initial .User.DisplayName}}</span>
  <span class="profile-name">{{.User.DisplayName}}</span>
</a>
{{else}}
<button id="navSignInBtn" type="button" class="btn btn-signin">Sign In</button>
{{end}}
{{end}}

{{define "cart-item"}}
<li class="cart-item" data-id="{{.ID}}">
  <img src="{{.Image}}" alt="{{.Name}}">
  <div>
    <p class="cart-item-title">{{.Name}}</p>
    <p class="cart-item-price">{{inr .Price}}</p>
    <button type="button" class="remove-btn">Remove</button>
  </div>
  <div class="qty-controls">
    <button class="qty-btn" data-action="dec">-</button>
    <span class="qty">{{.Qty}}</span>
    <button class="qty-btn" data-action="inc">+</button>
  </div>
</li>
{{end}}

{{define "cart-drawer"}}
<div class="cart-header">
  <h3 class="cart-title">Your Cart</h3>
  <button class="cart-close" aria-label="Close">✕</button>
</div>
<div class="cart-body">
  <ul class="cart-items" id="drawerCartItems">
    {{range .Items}}{{template "cart-item" .}}{{end}}
  </ul>
</div>
<div class="cart-footer">
  <div class="cart-total-row">
    <span>Total</span>
    <span id="drawerCartTotal">{{inr .Total}}</span>
  </div>
  <button class="btn-checkout" id="drawerCheckoutBtn">Checkout</button>
</div>
{{end}}

{{define "cart-page"}}
{{if .Items}}
<ul class="cart-items" id="cartItems">
  {{range .Items}}{{template "cart-item" .}}{{end}}
</ul>
{{else}}
<div id="cartEmpty" class="cart-empty">Your cart is empty.</div>
{{end}}
<div class="cart-footer">
  <div class="cart-total-row">
    <span>Total</span>
    <span id="cartTotal">{{inr .Total}}</span>
  </div>
  <button class="btn-checkout" id="checkoutBtn">Checkout</button>
</div>
{{end}}

{{define "menu-drawer"}}
<div class="menu-header">
  <h3 class="menu-title">Menu</h3>
  <button class="menu-close" aria-label="Close">✕</button>
</div>
<div class="menu-body">
  {{range .Sections}}
  <section class="menu-section">
    <h4 class="menu-section-title">{{.Title}}</h4>
    <ul class="menu-list">
      {{range .Links}}
      <li><a href="{{.Href}}">{{.Label}} <span class="menu-arrow">›</span></a></li>
      {{end}}
    </ul>
  </section>
  {{end}}
</div>
{{end}}

{{define "order-item"}}
<li class="cart-item order-item" data-order-id="{{.ID}}">
  <div>
    <p class="cart-item-title">Order {{.ID}}</p>
    <p class="cart-item-price">{{inr .Total}}</p>
    <div class="order-lines">{{orderLines .Items}}</div>
    <div class="order-meta">{{placed .}}</div>
  </div>
  <div class="qty-controls">
    <span class="qty">{{len .Items}} items</span>
  </div>
</li>
{{end}}

{{define "profile"}}
{{if .User}}
<div class="profile-card-header">
  <div>
    <h3>Welcome, <span id="profileUserName">{{.User.DisplayName}}</span></h3>
    <p class="hint">Email: <span id="profileUserEmail">{{.User.Email}}</span></p>
  </div>
  <div>
    <button id="signOutBtn" class="btn" type="button">Sign Out</button>
  </div>
</div>
<hr>
<h3>Previous Orders</h3>
{{if .Orders}}
<ul id="ordersList" class="cart-items">
  {{range .Orders}}{{template "order-item" .}}{{end}}
</ul>
<div class="cart-footer">
  <button id="clearOrdersBtn" class="btn-checkout" type="button">Clear Order History</button>
</div>
{{else}}
<div id="ordersEmpty">You have no orders yet.</div>
{{end}}
{{else}}
<h3>Sign in to view your orders</h3>
<p class="hint">Please sign in so we can show you your order history.</p>
<div class="profile-actions">
  <button id="profileSignInBtn" class="btn btn-search" type="button">Sign In</button>
</div>
{{end}}
{{end}}
`))
