package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/haomeng346/Second-hand-Marketplace/internal/domain"
)

var ErrInvalidField = errors.New("invalid field")

var (
	UserHeaders    = []string{"user_id", "username", "password"}
	ItemHeaders    = []string{"item_id", "name", "category", "brand", "condition", "description"}
	ListingHeaders = []string{"listing_id", "item_id", "seller_id", "price", "quantity", "active", "deleted"}
	OrderHeaders   = []string{"order_id", "buyer_id", "seller_id", "listing_id", "unit_price", "quantity", "total_price", "status"}
)

// Row is one stored record keyed by column name. A column absent from the
// stored header is absent from the map; a short record maps to "".
type Row map[string]string

func (r Row) get(col, def string) string {
	if v, ok := r[col]; ok {
		return v
	}
	return def
}

func (u User) Row() []string {
	return []string{u.ID, u.Username, u.Password}
}

func (it Item) Row() []string {
	return []string{it.ID, it.Name, it.Category, it.Brand, it.Condition, it.Description}
}

func (l Listing) Row() []string {
	return []string{
		l.ID,
		l.ItemID,
		l.SellerID,
		l.Price.StringFixed(2),
		strconv.Itoa(l.Quantity),
		domain.BoolString(l.Active),
		domain.BoolString(l.Deleted),
	}
}

func (o Order) Row() []string {
	return []string{
		o.ID,
		o.BuyerID,
		o.SellerID,
		o.ListingID,
		o.UnitPrice.StringFixed(2),
		strconv.Itoa(o.Quantity),
		o.TotalPrice.StringFixed(2),
		o.Status,
	}
}

func UserFromRow(r Row) (User, error) {
	return User{
		ID:       r.get("user_id", ""),
		Username: r.get("username", ""),
		Password: r.get("password", ""),
	}, nil
}

func ItemFromRow(r Row) (Item, error) {
	return Item{
		ID:          r.get("item_id", ""),
		Name:        r.get("name", ""),
		Category:    r.get("category", ""),
		Brand:       r.get("brand", ""),
		Condition:   r.get("condition", ""),
		Description: r.get("description", ""),
	}, nil
}

func ListingFromRow(r Row) (Listing, error) {
	price, err := parseMoney("price", r.get("price", ""))
	if err != nil {
		return Listing{}, err
	}
	qty, err := parseQuantity(r.get("quantity", ""))
	if err != nil {
		return Listing{}, err
	}
	return Listing{
		ID:       r.get("listing_id", ""),
		ItemID:   r.get("item_id", ""),
		SellerID: r.get("seller_id", ""),
		Price:    price,
		Quantity: qty,
		Active:   domain.ParseBool(r.get("active", "True")),
		Deleted:  domain.ParseBool(r.get("deleted", "False")),
	}, nil
}

func OrderFromRow(r Row) (Order, error) {
	unit, err := parseMoney("unit_price", r.get("unit_price", ""))
	if err != nil {
		return Order{}, err
	}
	total, err := parseMoney("total_price", r.get("total_price", ""))
	if err != nil {
		return Order{}, err
	}
	qty, err := parseQuantity(r.get("quantity", ""))
	if err != nil {
		return Order{}, err
	}
	return Order{
		ID:         r.get("order_id", ""),
		BuyerID:    r.get("buyer_id", ""),
		SellerID:   r.get("seller_id", ""),
		ListingID:  r.get("listing_id", ""),
		UnitPrice:  unit,
		Quantity:   qty,
		TotalPrice: total,
		Status:     r.get("status", OrderStatusCompleted),
	}, nil
}

// empty means zero, anything else must parse
func parseMoney(col, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero.Round(2), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q", ErrInvalidField, col, s)
	}
	return d.Round(2), nil
}

func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q", ErrInvalidField, s)
	}
	return n, nil
}
