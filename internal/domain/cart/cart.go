// Package cart models the shopping cart. For authenticated users the
// server-side cart is authoritative and fetched, not computed; the
// local total recompute below backs the guest flow.
package cart

import "github.com/shopspring/decimal"

// Item is one cart line: a product reference plus the name/price/image
// snapshot taken when the item was added
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImagePath string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is price times quantity for this line
func (i *Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the locally persisted guest cart snapshot
type Cart struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// New returns an empty cart
func New() *Cart {
	return &Cart{Total: decimal.Zero}
}

// ItemCount is the summed quantity across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Recalculate recomputes Total as the sum of line totals
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	c.Total = total
}

// Add merges an item into the cart: an existing line for the same
// product gains quantity, otherwise a new line is appended. The total
// is recomputed.
func (c *Cart) Add(item Item) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			c.Recalculate()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.Recalculate()
}

// SetQuantity sets the quantity of a line; zero or less removes it.
// The total is recomputed.
func (c *Cart) SetQuantity(productID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			c.Recalculate()
			return
		}
	}
}

// Remove drops the line for productID and recomputes the total
func (c *Cart) Remove(productID string) {
	c.SetQuantity(productID, 0)
}
