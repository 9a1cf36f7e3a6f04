package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingRowEncoding(t *testing.T) {
	t.Parallel()

	l := Listing{
		ID:       "123456",
		ItemID:   "654321",
		SellerID: "111111",
		Price:    Money(250),
		Quantity: 2,
		Active:   true,
	}
	assert.Equal(t, []string{"123456", "654321", "111111", "250.00", "2", "True", "False"}, l.Row())
}

func TestOrderRowEncoding(t *testing.T) {
	t.Parallel()

	unit := Money(19.999)
	o := Order{
		ID:         "1",
		BuyerID:    "2",
		SellerID:   "3",
		ListingID:  "4",
		UnitPrice:  unit,
		Quantity:   3,
		TotalPrice: LineTotal(unit, 3),
		Status:     OrderStatusCompleted,
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "20.00", "3", "60.00", "COMPLETED"}, o.Row())
}

func TestListingFromRow_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		row         Row
		wantPrice   string
		wantQty     int
		wantActive  bool
		wantDeleted bool
	}{
		{
			name:       "columns missing from header",
			row:        Row{"listing_id": "1"},
			wantPrice:  "0.00",
			wantActive: true,
		},
		{
			name:      "blank values",
			row:       Row{"listing_id": "1", "price": "", "quantity": "", "active": "", "deleted": ""},
			wantPrice: "0.00",
		},
		{
			name:        "stored values",
			row:         Row{"listing_id": "1", "price": "12.5", "quantity": " 7 ", "active": "yes", "deleted": "1"},
			wantPrice:   "12.50",
			wantQty:     7,
			wantActive:  true,
			wantDeleted: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := ListingFromRow(tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, l.Price.StringFixed(2))
			assert.Equal(t, tt.wantQty, l.Quantity)
			assert.Equal(t, tt.wantActive, l.Active)
			assert.Equal(t, tt.wantDeleted, l.Deleted)
		})
	}
}

func TestListingFromRow_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ListingFromRow(Row{"listing_id": "1", "price": "cheap"})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = ListingFromRow(Row{"listing_id": "1", "quantity": "2.5"})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestOrderFromRow_StatusDefault(t *testing.T) {
	t.Parallel()

	o, err := OrderFromRow(Row{"order_id": "9", "unit_price": "3", "quantity": "2", "total_price": "6"})
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, o.Status)
	assert.True(t, o.TotalPrice.Equal(decimal.NewFromInt(6)))

	o, err = OrderFromRow(Row{"order_id": "9", "status": ""})
	require.NoError(t, err)
	assert.Equal(t, "", o.Status)
}

func TestLineTotal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "500.00", LineTotal(Money(250), 2).StringFixed(2))
	assert.Equal(t, "0.30", LineTotal(Money(0.1), 3).StringFixed(2))
}

func TestListingStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		l    Listing
		want ListingStatus
	}{
		{name: "active", l: Listing{Quantity: 1, Active: true}, want: StatusActive},
		{name: "sold out", l: Listing{Quantity: 0, Active: false}, want: StatusSoldOut},
		{name: "inactive with stock", l: Listing{Quantity: 3, Active: false}, want: StatusInactive},
		{name: "deleted wins", l: Listing{Quantity: 0, Deleted: true}, want: StatusDeleted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.l.Status(), tt.name)
	}
}

func TestListingTakeAndDelete(t *testing.T) {
	t.Parallel()

	l := Listing{Quantity: 2, Active: true}
	l.Take(1)
	assert.Equal(t, 1, l.Quantity)
	assert.True(t, l.Active)

	l.Take(1)
	assert.Equal(t, 0, l.Quantity)
	assert.False(t, l.Active)
	assert.False(t, l.Deleted)
	assert.False(t, l.Available())

	assert.True(t, l.SoftDelete())
	assert.True(t, l.Deleted)
	assert.False(t, l.SoftDelete())
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	assert.True(t, CanTransition(StatusActive, StatusSoldOut))
	assert.True(t, CanTransition(StatusActive, StatusDeleted))
	assert.True(t, CanTransition(StatusSoldOut, StatusDeleted))
	assert.True(t, CanTransition(StatusDeleted, StatusDeleted))
	assert.False(t, CanTransition(StatusDeleted, StatusActive))
	assert.False(t, CanTransition(StatusSoldOut, StatusActive))
}

func TestEnumerations(t *testing.T) {
	t.Parallel()

	assert.Len(t, Categories, 8)
	assert.Len(t, Conditions, 5)
	assert.True(t, IsCategory("Electronics"))
	assert.False(t, IsCategory("electronics"))
	assert.True(t, IsCondition("LIKE_NEW"))
	assert.False(t, IsCondition("BROKEN"))
}
