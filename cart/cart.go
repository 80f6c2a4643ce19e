// Package cart holds the per-session shopping cart of the public menu.
//
// Lines are keyed by product id. The product name is kept only for display,
// so two products sharing a name never merge into one line.
package cart

import (
	"errors"
	"fmt"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// InsufficientStockError is returned when the requested total for a product
// would exceed what is in stock.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Não há quantidade suficiente em estoque. Disponível: %d unidades", e.Available)
}

// Item is one cart line. Subtotal is always Quantity * UnitPrice.
type Item struct {
	ProductID string  `json:"produto_id"`
	Name      string  `json:"nome"`
	UnitPrice float64 `json:"valor"`
	Quantity  int     `json:"quantidade"`
	Subtotal  float64 `json:"subtotal"`
}

type Cart struct {
	Lines []Item `json:"itens"`
}

func New() *Cart {
	return &Cart{Lines: []Item{}}
}

// AddItem puts quantity units of a product in the cart. It returns false and
// leaves the cart untouched when the resulting quantity for that product
// would exceed stockLimit.
func (c *Cart) AddItem(productID, name string, unitPrice float64, quantity, stockLimit int) bool {
	if quantity < 1 {
		return false
	}

	idx := c.indexOf(productID)
	current := 0
	if idx >= 0 {
		current = c.Lines[idx].Quantity
	}
	if current+quantity > stockLimit {
		return false
	}

	if idx >= 0 {
		line := &c.Lines[idx]
		line.Quantity += quantity
		line.Subtotal = float64(line.Quantity) * line.UnitPrice
		return true
	}

	c.Lines = append(c.Lines, Item{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Subtotal:  float64(quantity) * unitPrice,
	})
	return true
}

// Add is AddItem with a descriptive error instead of a bool.
func (c *Cart) Add(productID, name string, unitPrice float64, quantity, stockLimit int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if !c.AddItem(productID, name, unitPrice, quantity, stockLimit) {
		return &InsufficientStockError{
			ProductName: name,
			Requested:   c.Quantity(productID) + quantity,
			Available:   stockLimit,
		}
	}
	return nil
}

// RemoveItem deletes the line for productID. Missing lines are ignored.
func (c *Cart) RemoveItem(productID string) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
}

func (c *Cart) Clear() {
	c.Lines = []Item{}
}

// Total is recomputed from every line on each call.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}

// Quantity returns how many units of productID are in the cart.
func (c *Cart) Quantity(productID string) int {
	if idx := c.indexOf(productID); idx >= 0 {
		return c.Lines[idx].Quantity
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Items returns a copy of the lines, safe to keep after the cart changes.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.Lines))
	copy(out, c.Lines)
	return out
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	return &Cart{Lines: c.Items()}
}

func (c *Cart) indexOf(productID string) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
