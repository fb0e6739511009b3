package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// CartItem is one logical product in the cart. ID is a stable slug derived
// from name and price, so repeated adds of the same product accumulate
// quantity instead of duplicating rows.
type CartItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Qty   int     `json:"qty"`
}

// Cart is an ordered sequence of items, insertion order = add order
type Cart []CartItem

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// ItemID derives the stable cart key for a product: a lowercase slug of the
// name joined with the shortest decimal rendering of the price, e.g.
// ("Chocolate Cake", 500) -> "chocolate-cake-500".
func ItemID(name string, price float64) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	return slug + "-" + strconv.FormatFloat(price, 'f', -1, 64)
}

// UnmarshalJSON decodes tolerantly: a stored item whose price or qty is not a
// number (or is missing) decodes with that field zeroed instead of failing,
// so one corrupt entry cannot take the whole cart down.
func (it *CartItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Price json.RawMessage `json:"price"`
		Image string          `json:"image"`
		Qty   json.RawMessage `json:"qty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	it.ID = raw.ID
	it.Name = raw.Name
	it.Image = raw.Image
	it.Price = coerceNumber(raw.Price)
	it.Qty = int(coerceNumber(raw.Qty))
	return nil
}

func coerceNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return 0
}

// Total is the sum of price*qty over all items, treating negative or
// unparseable values as 0 rather than failing
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c {
		price := it.Price
		if price < 0 {
			price = 0
		}
		qty := it.Qty
		if qty < 0 {
			qty = 0
		}
		total += price * float64(qty)
	}
	return total
}

// Count is the sum of quantities over all items, with the same clamping
// as Total
func (c Cart) Count() int {
	var count int
	for _, it := range c {
		if it.Qty > 0 {
			count += it.Qty
		}
	}
	return count
}

// Clone returns a deep copy, used to freeze cart contents into an order
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	frozen := make(Cart, len(c))
	copy(frozen, c)
	return frozen
}
