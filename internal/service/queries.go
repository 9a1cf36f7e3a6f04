package service

import (
	"context"
	"fmt"

	"github.com/haomeng346/Second-hand-Marketplace/internal/models"
)

const unknownUser = "unknown"

// ListingView is a listing joined with its item and seller for display.
type ListingView struct {
	Listing    models.Listing
	Item       models.Item
	SellerName string
	Status     models.ListingStatus
}

// OrderView is an order joined with the names shown next to it.
type OrderView struct {
	Order      models.Order
	ItemName   string
	ItemBrand  string
	BuyerName  string
	SellerName string
}

func Categories() []string { return append([]string(nil), models.Categories...) }
func Conditions() []string { return append([]string(nil), models.Conditions...) }

// ActiveListings returns every listing that search could return.
func (m *Marketplace) ActiveListings(ctx context.Context) []models.Listing {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tables == nil {
		return nil
	}

	var out []models.Listing
	for _, l := range m.tables.Listings.Values() {
		if l.Available() {
			out = append(out, *l)
		}
	}
	return out
}

// ListingsBySeller returns all of a seller's listings in any state.
func (m *Marketplace) ListingsBySeller(ctx context.Context, sellerID string) []ListingView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tables == nil {
		return nil
	}

	var out []ListingView
	for _, l := range m.tables.Listings.Values() {
		if l.SellerID == sellerID {
			out = append(out, m.viewLocked(l))
		}
	}
	return out
}

func (m *Marketplace) OrdersByBuyer(ctx context.Context, buyerID string) []models.Order {
	return m.orders(func(o *models.Order) bool { return o.BuyerID == buyerID })
}

func (m *Marketplace) OrdersBySeller(ctx context.Context, sellerID string) []models.Order {
	return m.orders(func(o *models.Order) bool { return o.SellerID == sellerID })
}

func (m *Marketplace) orders(match func(*models.Order) bool) []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tables == nil {
		return nil
	}

	var out []models.Order
	for _, o := range m.tables.Orders.Values() {
		if match(o) {
			out = append(out, *o)
		}
	}
	return out
}

func (m *Marketplace) ListingDetail(ctx context.Context, listingID string) (ListingView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tables == nil {
		return ListingView{}, ErrNotLoaded
	}

	l, ok := m.tables.Listings.Get(listingID)
	if !ok {
		return ListingView{}, fmt.Errorf("%w: listing %q", ErrNotFound, listingID)
	}
	return m.viewLocked(l), nil
}

// ViewListings joins listings with their items and sellers.
func (m *Marketplace) ViewListings(ctx context.Context, listings []models.Listing) []ListingView {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ListingView, 0, len(listings))
	for i := range listings {
		out = append(out, m.viewLocked(&listings[i]))
	}
	return out
}

func (m *Marketplace) viewLocked(l *models.Listing) ListingView {
	v := ListingView{Listing: *l, SellerName: unknownUser, Status: l.Status()}
	if m.tables == nil {
		return v
	}
	if it, ok := m.tables.Items.Get(l.ItemID); ok {
		v.Item = *it
	}
	if u, ok := m.tables.Users.Get(l.SellerID); ok {
		v.SellerName = u.Username
	}
	return v
}

// ViewOrders joins orders with item and user names. Missing references
// render as placeholders.
func (m *Marketplace) ViewOrders(ctx context.Context, orders []models.Order) []OrderView {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		v := OrderView{
			Order:      o,
			ItemName:   "(listing missing)",
			ItemBrand:  "-",
			BuyerName:  unknownUser,
			SellerName: unknownUser,
		}
		if m.tables != nil {
			if l, ok := m.tables.Listings.Get(o.ListingID); ok {
				if it, ok := m.tables.Items.Get(l.ItemID); ok {
					v.ItemName, v.ItemBrand = it.Name, it.Brand
				}
			}
			if u, ok := m.tables.Users.Get(o.BuyerID); ok {
				v.BuyerName = u.Username
			}
			if u, ok := m.tables.Users.Get(o.SellerID); ok {
				v.SellerName = u.Username
			}
		}
		out = append(out, v)
	}
	return out
}
