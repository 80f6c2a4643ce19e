package cart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemToEmptyCart(t *testing.T) {
	c := New()

	ok := c.AddItem("p1", "Brigadeiro Gourmet", 3.50, 2, 50)

	require.True(t, ok)
	require.Len(t, c.Items(), 1)
	line := c.Items()[0]
	assert.Equal(t, 2, line.Quantity)
	assert.InDelta(t, 7.00, line.Subtotal, 1e-9)
	assert.InDelta(t, 7.00, c.Total(), 1e-9)
}

func TestAddItemOverStockLeavesCartUnchanged(t *testing.T) {
	c := New()
	require.True(t, c.AddItem("p1", "Brigadeiro Gourmet", 3.50, 2, 4))
	before := c.Items()

	ok := c.AddItem("p1", "Brigadeiro Gourmet", 3.50, 3, 4)

	assert.False(t, ok)
	assert.Equal(t, before, c.Items())
	assert.Equal(t, 2, c.Quantity("p1"))
	assert.InDelta(t, 7.00, c.Items()[0].Subtotal, 1e-9)
}

func TestAddItemFirstAddOverStock(t *testing.T) {
	c := New()

	assert.False(t, c.AddItem("p1", "Torta de Morango", 45, 6, 5))
	assert.True(t, c.IsEmpty())
}

func TestAddItemMergesRepeatedAdds(t *testing.T) {
	quantities := []int{1, 4, 2, 3}
	c := New()
	sum := 0
	for _, q := range quantities {
		require.True(t, c.AddItem("p1", "Beijinho Premium", 3.00, q, 10))
		sum += q
	}

	require.Len(t, c.Items(), 1)
	assert.Equal(t, sum, c.Items()[0].Quantity)
	assert.InDelta(t, float64(sum)*3.00, c.Items()[0].Subtotal, 1e-9)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := New()

	assert.False(t, c.AddItem("p1", "Brigadeiro Gourmet", 3.50, 0, 50))
	assert.False(t, c.AddItem("p1", "Brigadeiro Gourmet", 3.50, -2, 50))
	assert.True(t, c.IsEmpty())
}

func TestSameNameDifferentProductsStayApart(t *testing.T) {
	c := New()
	require.True(t, c.AddItem("p1", "Bolo", 30, 1, 5))
	require.True(t, c.AddItem("p2", "Bolo", 45, 1, 5))

	require.Len(t, c.Items(), 2)
	assert.InDelta(t, 75.0, c.Total(), 1e-9)
}

func TestTotalAfterAddAndRemove(t *testing.T) {
	c := New()
	c.AddItem("p1", "Brigadeiro Gourmet", 3.50, 4, 50)
	c.AddItem("p2", "Beijinho Premium", 3.00, 2, 40)
	c.AddItem("p3", "Torta de Morango", 45.00, 1, 5)
	c.RemoveItem("p2")
	c.AddItem("p1", "Brigadeiro Gourmet", 3.50, 1, 50)
	c.RemoveItem("missing")

	var expected float64
	for _, line := range c.Items() {
		expected += float64(line.Quantity) * line.UnitPrice
	}
	assert.InDelta(t, expected, c.Total(), 1e-9)
	assert.InDelta(t, 5*3.50+45.00, c.Total(), 1e-9)
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem("p1", "Brigadeiro Gourmet", 3.50, 1, 50)

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Total())
}

func TestAddReturnsStockError(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("p1", "Torta de Morango", 45, 3, 5))

	err := c.Add("p1", "Torta de Morango", 45, 3, 5)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Contains(t, err.Error(), "Disponível: 5 unidades")
	assert.ErrorIs(t, c.Add("p1", "Torta de Morango", 45, 0, 5), ErrInvalidQuantity)
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New()
	c.AddItem("p1", "Brigadeiro Gourmet", 3.50, 1, 50)

	items := c.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, c.Quantity("p1"))
}
