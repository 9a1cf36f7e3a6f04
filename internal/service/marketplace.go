package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/haomeng346/Second-hand-Marketplace/internal/domain"
	"github.com/haomeng346/Second-hand-Marketplace/internal/idgen"
	"github.com/haomeng346/Second-hand-Marketplace/internal/logging"
	"github.com/haomeng346/Second-hand-Marketplace/internal/models"
	"github.com/haomeng346/Second-hand-Marketplace/internal/pricing"
	"github.com/haomeng346/Second-hand-Marketplace/internal/repo"
	"github.com/haomeng346/Second-hand-Marketplace/internal/transport"
)

// Marketplace owns the in-memory tables and writes a full snapshot through
// Store after every successful mutation. One mutex guards the whole table
// set, so validate, mutate and save run as one step.
type Marketplace struct {
	Store  repo.Store
	Events Publisher
	Topic  string
	IDs    *idgen.Generator

	mu     sync.RWMutex
	tables *repo.Tables
}

// Load replaces the in-memory state with the stored one. It must run before
// the first mutating operation.
func (m *Marketplace) Load(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "marketplace.load")

	tables, err := m.Store.Load(ctx)
	if err != nil {
		l.Error("load_failed", "error", err)
		return fmt.Errorf("load marketplace: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = tables
	if m.IDs == nil {
		m.IDs = idgen.New()
	}
	l.Info("load_success",
		"users", tables.Users.Len(),
		"items", tables.Items.Len(),
		"listings", tables.Listings.Len(),
		"orders", tables.Orders.Len(),
	)
	return nil
}

// save must be called with mu held for writing.
func (m *Marketplace) save(ctx context.Context) error {
	if err := m.Store.Save(ctx, m.tables); err != nil {
		return fmt.Errorf("autosave: %w", err)
	}
	return nil
}

func (m *Marketplace) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "marketplace.register")

	name := domain.TitleCase(username)
	if name == "" || password == "" {
		err := fmt.Errorf("%w: username and password cannot be empty", ErrValidation)
		l.Warn("register_failed", "reason", "empty credentials", "error", err)
		return nil, err
	}

	m.mu.Lock()
	user, err := m.register(ctx, name, password)
	m.mu.Unlock()
	if err != nil {
		l.Warn("register_failed", "username", name, "error", err)
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID, "username", user.Username)
	m.publish(ctx, EventUserRegistered, user.ID, map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (m *Marketplace) register(ctx context.Context, name, password string) (*models.User, error) {
	if m.tables == nil {
		return nil, ErrNotLoaded
	}
	for _, u := range m.tables.Users.Values() {
		if strings.EqualFold(u.Username, name) {
			return nil, fmt.Errorf("%w: username %q already exists", ErrConflict, name)
		}
	}

	id, err := m.IDs.Next(m.tables.Users)
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	user := &models.User{ID: id, Username: name, Password: password}
	m.tables.Users.Put(id, user)
	if err := m.save(ctx); err != nil {
		return nil, err
	}
	out := *user
	return &out, nil
}

// Login returns the user whose normalised name and exact password match.
// A miss is reported through ok, not as an error.
func (m *Marketplace) Login(ctx context.Context, username, password string) (*models.User, bool) {
	l := logging.FromContext(ctx).With("svc", "marketplace.login")
	name := domain.TitleCase(username)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tables == nil {
		return nil, false
	}
	for _, u := range m.tables.Users.Values() {
		if u.Username == name && u.Password == password {
			l.Info("login_success", "user_id", u.ID)
			out := *u
			return &out, true
		}
	}
	l.Info("login_no_match", "username", name)
	return nil, false
}

func (m *Marketplace) PostListing(ctx context.Context, seller models.User, req transport.PostListingRequest) (*models.Listing, error) {
	l := logging.FromContext(ctx).With("svc", "marketplace.post_listing", "seller_id", seller.ID)

	item, listing, err := normalizeListing(seller, req)
	if err != nil {
		l.Warn("post_listing_failed", "error", err)
		return nil, err
	}

	m.mu.Lock()
	err = m.postListing(ctx, item, listing)
	m.mu.Unlock()
	if err != nil {
		l.Warn("post_listing_failed", "error", err)
		return nil, err
	}

	l.Info("post_listing_success", "listing_id", listing.ID, "item_id", item.ID)
	m.publish(ctx, EventListingPosted, listing.ID, map[string]any{
		"listing_id": listing.ID,
		"item_id":    item.ID,
		"seller_id":  seller.ID,
		"category":   item.Category,
		"price":      listing.Price.StringFixed(2),
		"quantity":   listing.Quantity,
	})
	return listing, nil
}

func normalizeListing(seller models.User, req transport.PostListingRequest) (*models.Item, *models.Listing, error) {
	category := domain.TitleCase(req.Category)
	if !models.IsCategory(category) {
		return nil, nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}
	condition := domain.UpperToken(req.Condition)
	if !models.IsCondition(condition) {
		return nil, nil, fmt.Errorf("%w: unknown condition %q", ErrValidation, req.Condition)
	}
	name := domain.TitleCase(req.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: item name cannot be empty", ErrValidation)
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return nil, nil, fmt.Errorf("%w: price must be a number", ErrValidation)
	}
	price := models.Money(req.Price)
	if !price.IsPositive() || req.Quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: price and quantity must be positive", ErrValidation)
	}

	item := &models.Item{
		Name:        name,
		Category:    category,
		Brand:       domain.TitleCase(req.Brand),
		Condition:   condition,
		Description: domain.TitleCase(req.Description),
	}
	listing := &models.Listing{
		SellerID: seller.ID,
		Price:    price,
		Quantity: req.Quantity,
		Active:   true,
		Deleted:  false,
	}
	return item, listing, nil
}

// postListing fills in the ids of item and listing and stores both.
func (m *Marketplace) postListing(ctx context.Context, item *models.Item, listing *models.Listing) error {
	if m.tables == nil {
		return ErrNotLoaded
	}
	if !m.tables.Users.Has(listing.SellerID) {
		return fmt.Errorf("%w: seller %q", ErrNotFound, listing.SellerID)
	}

	itemID, err := m.IDs.Next(m.tables.Items)
	if err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	listingID, err := m.IDs.Next(m.tables.Listings)
	if err != nil {
		return fmt.Errorf("listing id: %w", err)
	}

	item.ID = itemID
	listing.ID = listingID
	listing.ItemID = itemID

	storedItem, storedListing := *item, *listing
	m.tables.Items.Put(itemID, &storedItem)
	m.tables.Listings.Put(listingID, &storedListing)
	return m.save(ctx)
}

// DeleteListing soft-deletes a listing owned by seller. Deleting an already
// deleted listing succeeds without writing anything.
func (m *Marketplace) DeleteListing(ctx context.Context, seller models.User, listingID string) error {
	l := logging.FromContext(ctx).With("svc", "marketplace.delete_listing", "seller_id", seller.ID, "listing_id", listingID)

	m.mu.Lock()
	changed, err := m.deleteListing(ctx, seller, listingID)
	m.mu.Unlock()
	if err != nil {
		l.Warn("delete_listing_failed", "error", err)
		return err
	}
	if !changed {
		l.Info("delete_listing_noop", "reason", "already deleted")
		return nil
	}

	l.Info("delete_listing_success")
	m.publish(ctx, EventListingDeleted, listingID, map[string]any{
		"listing_id": listingID,
		"seller_id":  seller.ID,
	})
	return nil
}

func (m *Marketplace) deleteListing(ctx context.Context, seller models.User, listingID string) (bool, error) {
	if m.tables == nil {
		return false, ErrNotLoaded
	}
	listing, ok := m.tables.Listings.Get(listingID)
	if !ok {
		return false, fmt.Errorf("%w: listing %q", ErrNotFound, listingID)
	}
	if listing.SellerID != seller.ID {
		return false, fmt.Errorf("%w: you can only delete your own listings", ErrForbidden)
	}
	if !listing.SoftDelete() {
		return false, nil
	}
	return true, m.save(ctx)
}

func (m *Marketplace) SearchByCategory(ctx context.Context, category string) []models.Listing {
	target := domain.TitleCase(category)
	return m.search(func(it *models.Item) bool { return it.Category == target })
}

func (m *Marketplace) SearchByFullName(ctx context.Context, name string) []models.Listing {
	target := domain.TitleCase(name)
	return m.search(func(it *models.Item) bool { return it.Name == target })
}

// search returns available listings whose item matches. Inactive listings
// are left out even when they are not deleted.
func (m *Marketplace) search(match func(*models.Item) bool) []models.Listing {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tables == nil {
		return nil
	}

	var out []models.Listing
	for _, l := range m.tables.Listings.Values() {
		if !l.Available() {
			continue
		}
		item, ok := m.tables.Items.Get(l.ItemID)
		if !ok || !match(item) {
			continue
		}
		out = append(out, *l)
	}
	return out
}

func (m *Marketplace) PriceSuggestion(category, condition string) pricing.Suggestion {
	return pricing.Suggest(category, condition)
}

// BuyListing buys quantity units of a listing in full or not at all.
func (m *Marketplace) BuyListing(ctx context.Context, buyer models.User, listingID string, quantity int) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "marketplace.buy_listing", "buyer_id", buyer.ID, "listing_id", listingID)

	m.mu.Lock()
	order, err := m.buyListing(ctx, buyer, listingID, quantity)
	m.mu.Unlock()
	if err != nil {
		l.Warn("buy_listing_failed", "quantity", quantity, "error", err)
		return nil, err
	}

	l.Info("buy_listing_success", "order_id", order.ID, "quantity", order.Quantity, "total_price", order.TotalPrice.StringFixed(2))
	m.publish(ctx, EventListingPurchased, order.ID, map[string]any{
		"order_id":    order.ID,
		"listing_id":  order.ListingID,
		"buyer_id":    order.BuyerID,
		"seller_id":   order.SellerID,
		"quantity":    order.Quantity,
		"total_price": order.TotalPrice.StringFixed(2),
	})
	return order, nil
}

func (m *Marketplace) buyListing(ctx context.Context, buyer models.User, listingID string, quantity int) (*models.Order, error) {
	if m.tables == nil {
		return nil, ErrNotLoaded
	}
	listing, ok := m.tables.Listings.Get(listingID)
	if !ok {
		return nil, fmt.Errorf("%w: listing %q", ErrNotFound, listingID)
	}
	if !listing.Available() {
		return nil, fmt.Errorf("%w: listing %q is not available", ErrUnavailable, listingID)
	}
	if quantity <= 0 || quantity > listing.Quantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrValidation, listing.Quantity)
	}
	if !m.tables.Users.Has(buyer.ID) {
		return nil, fmt.Errorf("%w: buyer %q", ErrNotFound, buyer.ID)
	}

	id, err := m.IDs.Next(m.tables.Orders)
	if err != nil {
		return nil, fmt.Errorf("order id: %w", err)
	}
	order := &models.Order{
		ID:         id,
		BuyerID:    buyer.ID,
		SellerID:   listing.SellerID,
		ListingID:  listing.ID,
		UnitPrice:  listing.Price,
		Quantity:   quantity,
		TotalPrice: models.LineTotal(listing.Price, quantity),
		Status:     models.OrderStatusCompleted,
	}

	listing.Take(quantity)
	m.tables.Orders.Put(id, order)
	if err := m.save(ctx); err != nil {
		return nil, err
	}
	out := *order
	return &out, nil
}
