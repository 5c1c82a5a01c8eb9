package basket

import (
	"testing"

	"meo-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuItem(id int64, name string, price int64) models.MenuItem {
	return models.MenuItem{ID: id, Name: name, Price: price}
}

func TestBasketAdd(t *testing.T) {
	coffee := menuItem(1, "Cà phê sữa", 20000)
	tea := menuItem(2, "Trà đào", 25000)

	t.Run("AppendsInFirstSeenOrder", func(t *testing.T) {
		b := New(models.DefaultTaxRateBps)
		b.Add(coffee)
		b.Add(tea)
		b.Add(coffee)
		b.Add(coffee)

		lines := b.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, int64(1), lines[0].Item.ID)
		assert.Equal(t, int64(3), lines[0].Qty)
		assert.Equal(t, int64(2), lines[1].Item.ID)
		assert.Equal(t, int64(1), lines[1].Qty)
	})

	t.Run("RepeatAddKeepsPosition", func(t *testing.T) {
		b := New(models.DefaultTaxRateBps)
		b.Add(coffee)
		b.Add(tea)
		b.Add(tea)

		lines := b.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, "Cà phê sữa", lines[0].Item.Name)
		assert.Equal(t, "Trà đào", lines[1].Item.Name)
	})
}

func TestBasketIncrementDecrement(t *testing.T) {
	coffee := menuItem(1, "Cà phê sữa", 20000)
	tea := menuItem(2, "Trà đào", 25000)

	t.Run("DecrementToZeroRemovesLine", func(t *testing.T) {
		b := New(models.DefaultTaxRateBps)
		b.Add(coffee)
		b.Add(tea)

		b.Decrement(1)
		lines := b.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, int64(2), lines[0].Item.ID)
		assert.Equal(t, int64(1), lines[0].Qty)
	})

	t.Run("IncrementUnknownIDIsNoop", func(t *testing.T) {
		b := New(models.DefaultTaxRateBps)
		b.Add(coffee)
		b.Increment(99)
		b.Decrement(99)

		require.Equal(t, 1, b.Len())
		assert.Equal(t, int64(1), b.Lines()[0].Qty)
	})

	t.Run("Increment", func(t *testing.T) {
		b := New(models.DefaultTaxRateBps)
		b.Add(coffee)
		b.Increment(1)
		b.Increment(1)
		assert.Equal(t, int64(3), b.Lines()[0].Qty)
	})
}

func TestBasketRemoveAndClear(t *testing.T) {
	b := New(models.DefaultTaxRateBps)
	b.Add(menuItem(1, "A", 100))
	b.Add(menuItem(2, "B", 200))
	b.Add(menuItem(2, "B", 200))

	b.Remove(2)
	require.Equal(t, 1, b.Len())

	// Removing an absent id must not panic or change anything.
	b.Remove(42)
	require.Equal(t, 1, b.Len())

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, int64(0), b.Subtotal())
}

func TestBasketTotals(t *testing.T) {
	t.Run("EmptySubtotalIsZero", func(t *testing.T) {
		b := New(models.DefaultTaxRateBps)
		assert.Equal(t, int64(0), b.Subtotal())
		assert.Equal(t, int64(0), b.Tax())
		assert.Equal(t, int64(0), b.Total())
	})

	t.Run("SubtotalTaxTotal", func(t *testing.T) {
		// [(A,15000,qty=2),(B,30000,qty=1)] -> 60000, 8% -> 4800, 64800
		b := New(800)
		a := menuItem(1, "A", 15000)
		b.Add(a)
		b.Add(a)
		b.Add(menuItem(2, "B", 30000))

		assert.Equal(t, int64(60000), b.Subtotal())
		assert.Equal(t, int64(4800), b.Tax())
		assert.Equal(t, int64(64800), b.Total())
	})

	t.Run("Units", func(t *testing.T) {
		b := New(800)
		a := menuItem(1, "A", 15000)
		b.Add(a)
		b.Add(a)
		b.Add(menuItem(2, "B", 30000))
		assert.Equal(t, int64(3), b.Units())
	})
}

func TestTaxRounding(t *testing.T) {
	// Half-unit boundaries round away from zero; anything below the half
	// rounds down.
	cases := []struct {
		name     string
		subtotal int64
		bps      int64
		want     int64
	}{
		{"ExactHalfRoundsUp", 50, 100, 1},       // 0.50 -> 1
		{"JustBelowHalfRoundsDown", 49, 100, 0}, // 0.49 -> 0
		{"JustAboveHalfRoundsUp", 51, 100, 1},   // 0.51 -> 1
		{"WholeUnit", 60000, 800, 4800},
		{"OddRemainder", 12345, 800, 988}, // 987.6 -> 988
		{"ZeroRate", 60000, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := New(tc.bps)
			b.Add(menuItem(1, "X", tc.subtotal))
			assert.Equal(t, tc.want, b.Tax())
		})
	}
}

func TestOrderRequest(t *testing.T) {
	t.Run("EmptyBasket", func(t *testing.T) {
		b := New(800)
		_, err := b.OrderRequest(nil)
		require.ErrorIs(t, err, ErrEmptyBasket)
	})

	t.Run("PreservesOrderAndQuantities", func(t *testing.T) {
		b := New(800)
		b.Add(menuItem(7, "A", 100))
		b.Add(menuItem(3, "B", 200))
		b.Add(menuItem(7, "A", 100))

		req, err := b.OrderRequest(map[string]string{"source": models.OrderSource})
		require.NoError(t, err)
		require.Len(t, req.Items, 2)
		assert.Equal(t, models.OrderLine{MenuItemID: 7, Quantity: 2}, req.Items[0])
		assert.Equal(t, models.OrderLine{MenuItemID: 3, Quantity: 1}, req.Items[1])
		assert.Equal(t, "pos", req.Meta["source"])
	})

	t.Run("NilMetaAllowed", func(t *testing.T) {
		b := New(800)
		b.Add(menuItem(1, "A", 100))
		req, err := b.OrderRequest(nil)
		require.NoError(t, err)
		assert.Nil(t, req.Meta)
	})
}
