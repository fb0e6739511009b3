package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_TotalByConstruction(t *testing.T) {
	items := Cart{
		{ID: "a", Name: "A", Price: 500, Qty: 3},
		{ID: "b", Name: "B", Price: 100, Qty: 1},
	}
	order := NewOrder(items, "attempt-1")

	assert.Equal(t, 1600.0, order.Total)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "attempt-1", order.AttemptKey)
	assert.NotZero(t, order.TS)

	// The frozen copy is independent of later cart mutation
	items[0].Qty = 99
	assert.Equal(t, 3, order.Items[0].Qty)
}

func TestNewOrder_IDFormat(t *testing.T) {
	order := NewOrder(Cart{{ID: "a", Price: 1, Qty: 1}}, "")
	require.Regexp(t, regexp.MustCompile(`^ORD-\d+-\d{3}$`), order.ID)
	assert.Equal(t, order.TS, order.Placed().UnixMilli())
}
