package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id, price string, qty int) Item {
	return Item{
		ProductID: id,
		Name:      "P" + id,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestCart_AddMergesSameProduct(t *testing.T) {
	var c Cart
	c.Add(item("1", "10.00", 2))
	c.Add(item("1", "10.00", 3))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("50.00").Equal(c.Total))
}

func TestCart_AddDefaultsQuantity(t *testing.T) {
	var c Cart
	c.Add(item("1", "4.50", 0))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestCart_TotalIsSumOfLineTotals(t *testing.T) {
	var c Cart
	c.Add(item("1", "19.99", 2))
	c.Add(item("2", "0.01", 3))

	assert.True(t, decimal.RequireFromString("40.01").Equal(c.Total))
	assert.Equal(t, 5, c.ItemCount())
}

func TestCart_SetQuantity(t *testing.T) {
	var c Cart
	c.Add(item("1", "10.00", 2))
	c.Add(item("2", "5.00", 1))

	c.SetQuantity("1", 4)
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("45.00").Equal(c.Total))

	// zero removes the line
	c.SetQuantity("1", 0)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "2", c.Items[0].ProductID)

	// unknown product is a no-op
	c.SetQuantity("99", 7)
	assert.Len(t, c.Items, 1)
}

func TestCart_Remove(t *testing.T) {
	var c Cart
	c.Add(item("1", "10.00", 1))
	c.Remove("1")
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestCart_RecalculateAfterUnmarshal(t *testing.T) {
	// a tampered snapshot total is corrected by recomputing
	c := Cart{
		Items: []Item{item("1", "10.00", 2)},
		Total: decimal.RequireFromString("999.99"),
	}
	c.Recalculate()
	assert.True(t, decimal.RequireFromString("20.00").Equal(c.Total))
}
