package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haomeng346/Second-hand-Marketplace/internal/models"
)

func sampleTables() *Tables {
	t := NewTables()
	t.Users.Put("100001", &models.User{ID: "100001", Username: "Bob", Password: "pw1"})
	t.Users.Put("100002", &models.User{ID: "100002", Username: "Carol, Jr", Password: `p"w`})
	t.Items.Put("200001", &models.Item{
		ID:          "200001",
		Name:        "Iphone 8",
		Category:    "Electronics",
		Brand:       "Apple",
		Condition:   "GOOD",
		Description: "Small Scratch, Works Fine",
	})
	t.Listings.Put("300001", &models.Listing{
		ID:       "300001",
		ItemID:   "200001",
		SellerID: "100001",
		Price:    models.Money(249.99),
		Quantity: 1,
		Active:   true,
	})
	t.Listings.Put("300002", &models.Listing{
		ID:       "300002",
		ItemID:   "200001",
		SellerID: "100001",
		Price:    models.Money(10),
		Quantity: 0,
		Deleted:  true,
	})
	unit := models.Money(249.99)
	t.Orders.Put("400001", &models.Order{
		ID:         "400001",
		BuyerID:    "100002",
		SellerID:   "100001",
		ListingID:  "300001",
		UnitPrice:  unit,
		Quantity:   1,
		TotalPrice: models.LineTotal(unit, 1),
		Status:     models.OrderStatusCompleted,
	})
	return t
}

// assertSameTables compares two states field by field, in table order.
func assertSameTables(t *testing.T, want, got *Tables) {
	t.Helper()

	require.Equal(t, want.Users.Keys(), got.Users.Keys())
	for i, u := range want.Users.Values() {
		assert.Equal(t, *u, *got.Users.Values()[i])
	}

	require.Equal(t, want.Items.Keys(), got.Items.Keys())
	for i, it := range want.Items.Values() {
		assert.Equal(t, *it, *got.Items.Values()[i])
	}

	require.Equal(t, want.Listings.Keys(), got.Listings.Keys())
	for i, l := range want.Listings.Values() {
		assert.Equal(t, l.Row(), got.Listings.Values()[i].Row())
		assert.True(t, l.Price.Equal(got.Listings.Values()[i].Price))
	}

	require.Equal(t, want.Orders.Keys(), got.Orders.Keys())
	for i, o := range want.Orders.Values() {
		g := got.Orders.Values()[i]
		assert.Equal(t, o.Row(), g.Row())
		assert.True(t, o.UnitPrice.Equal(g.UnitPrice))
		assert.True(t, o.TotalPrice.Equal(g.TotalPrice))
	}
}
