package domain

// CartItem is one pending line the client holds before checkout. The cart
// lives outside the store (browser local storage in the web client); the
// server only ever sees a snapshot of it at checkout time.
type CartItem struct {
	ProductID      uint64  `json:"productId"`
	Title          string  `json:"title"`
	UnitPrice      float64 `json:"unitPrice"`
	OptionSelected string  `json:"optionSelected,omitempty"`
	Quantity       int     `json:"quantity"`
	ImageURL       string  `json:"imageUrl,omitempty"`
}

// Cart is an ordered list of line items keyed by (productID, option) for
// merge purposes.
type Cart []CartItem

// Add merges the item into the cart: an existing (productID, option) pair
// has its quantity incremented, anything else is appended.
func (c *Cart) Add(item CartItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range *c {
		line := &(*c)[i]
		if line.ProductID == item.ProductID && line.OptionSelected == item.OptionSelected {
			line.Quantity += item.Quantity
			return
		}
	}
	*c = append(*c, item)
}

// Remove drops the line at index. Out-of-range indexes are ignored.
func (c *Cart) Remove(index int) {
	if index < 0 || index >= len(*c) {
		return
	}
	*c = append((*c)[:index], (*c)[index+1:]...)
}

// SetQuantity replaces the quantity of the line at index. Quantities below
// one are ignored, matching the client-side cart behavior.
func (c Cart) SetQuantity(index, quantity int) {
	if index < 0 || index >= len(c) || quantity < 1 {
		return
	}
	c[index].Quantity = quantity
}

// Subtotal is the sum of unit price times quantity over all lines.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, line := range c {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// ItemCount is the total number of units across all lines.
func (c Cart) ItemCount() int {
	var count int
	for _, line := range c {
		count += line.Quantity
	}
	return count
}

// Validate rejects carts that cannot be turned into an order.
func (c Cart) Validate() error {
	if len(c) == 0 {
		return &ValidationError{Field: "cart", Message: "cart is empty"}
	}
	for _, line := range c {
		if line.ProductID == 0 {
			return &ValidationError{Field: "cart", Message: "cart item is missing a product id"}
		}
		if line.Title == "" {
			return &ValidationError{Field: "cart", Message: "cart item is missing a title"}
		}
		if line.UnitPrice < 0 {
			return &ValidationError{Field: "cart", Message: "cart item has a negative price"}
		}
		if line.Quantity < 1 {
			return &ValidationError{Field: "cart", Message: "cart item quantity must be at least 1"}
		}
	}
	return nil
}
