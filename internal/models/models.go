package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

const OrderStatusCompleted = "COMPLETED"

// Categories is the fixed set of listing categories, title-cased.
var Categories = []string{
	"Electronics",
	"Books",
	"Furniture",
	"Fashion",
	"Sports",
	"Home",
	"Toys",
	"Others",
}

// Conditions is the fixed set of item conditions, upper-cased.
var Conditions = []string{
	"NEW",
	"LIKE_NEW",
	"VERY_GOOD",
	"GOOD",
	"ACCEPTABLE",
}

func IsCategory(s string) bool  { return slices.Contains(Categories, s) }
func IsCondition(s string) bool { return slices.Contains(Conditions, s) }

type User struct {
	ID       string `gorm:"column:user_id;primaryKey"  json:"id"`
	Username string `gorm:"column:username;not null"   json:"username"`
	Password string `gorm:"column:password;not null"   json:"-"`
}

type Item struct {
	ID          string `gorm:"column:item_id;primaryKey"  json:"id"`
	Name        string `gorm:"column:name;not null"       json:"name"`
	Category    string `gorm:"column:category;not null"   json:"category"`
	Brand       string `gorm:"column:brand"               json:"brand"`
	Condition   string `gorm:"column:condition;not null"  json:"condition"`
	Description string `gorm:"column:description"         json:"description"`
}

type Listing struct {
	ID       string          `gorm:"column:listing_id;primaryKey"      json:"id"`
	ItemID   string          `gorm:"column:item_id;index;not null"     json:"item_id"`
	SellerID string          `gorm:"column:seller_id;index;not null"   json:"seller_id"`
	Price    decimal.Decimal `gorm:"column:price;type:decimal(12,2)"   json:"price"`
	Quantity int             `gorm:"column:quantity"                   json:"quantity"`
	Active   bool            `gorm:"column:active"                     json:"active"`
	Deleted  bool            `gorm:"column:deleted"                    json:"deleted"`
}

// Order is a ledger entry. It is never changed after creation.
type Order struct {
	ID         string          `gorm:"column:order_id;primaryKey"          json:"id"`
	BuyerID    string          `gorm:"column:buyer_id;index;not null"      json:"buyer_id"`
	SellerID   string          `gorm:"column:seller_id;index;not null"     json:"seller_id"`
	ListingID  string          `gorm:"column:listing_id;not null"          json:"listing_id"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"  json:"unit_price"`
	Quantity   int             `gorm:"column:quantity"                     json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:decimal(12,2)" json:"total_price"`
	Status     string          `gorm:"column:status"                       json:"status"`
}

// Money rounds a float amount to cents.
func Money(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

// LineTotal is round(unit * quantity, 2).
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
