package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haomeng346/Second-hand-Marketplace/internal/idgen"
	"github.com/haomeng346/Second-hand-Marketplace/internal/models"
	"github.com/haomeng346/Second-hand-Marketplace/internal/output"
	"github.com/haomeng346/Second-hand-Marketplace/internal/repo"
	"github.com/haomeng346/Second-hand-Marketplace/internal/service"
	"github.com/haomeng346/Second-hand-Marketplace/internal/transport"
)

func newShellMarket(t *testing.T) *service.Marketplace {
	t.Helper()

	m := &service.Marketplace{Store: repo.NewCSVStore(t.TempDir()), IDs: idgen.NewSeeded(7)}
	require.NoError(t, m.Load(context.Background()))
	return m
}

func runScript(t *testing.T, m *service.Marketplace, lines ...string) string {
	t.Helper()

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, NewShell(m, in, output.New(&out)).Run(context.Background()))
	return out.String()
}

func TestShell_RegisterLoginPost(t *testing.T) {
	t.Parallel()

	m := newShellMarket(t)
	out := runScript(t, m,
		"1", "bob", "pw1",
		"2", "Bob", "pw1",
		"1", "cars", "electronics", "iPhone 8", "broken", "good", "Apple", "", "", "2",
		"0",
		"0",
	)

	assert.Contains(t, out, "Registered: Bob")
	assert.Contains(t, out, "Logged in as Bob")
	assert.Contains(t, out, "Unknown category")
	assert.Contains(t, out, "Unknown condition")
	assert.Contains(t, out, "Suggested price: $195.00 (range $175.50 - $214.50)")
	assert.Contains(t, out, "Posted listing")
	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, "Goodbye")

	active := m.ActiveListings(context.Background())
	require.Len(t, active, 1)
	assert.Equal(t, "195.00", active[0].Price.StringFixed(2))
	assert.Equal(t, 2, active[0].Quantity)
}

func TestShell_BuyOutListing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newShellMarket(t)
	bob, err := m.Register(ctx, "Bob", "pw1")
	require.NoError(t, err)
	_, err = m.Register(ctx, "Carol", "pw2")
	require.NoError(t, err)
	l, err := m.PostListing(ctx, *bob, transport.PostListingRequest{
		Name: "iPhone 8", Category: "Electronics", Brand: "Apple",
		Condition: "GOOD", Description: "desc", Price: 250, Quantity: 2,
	})
	require.NoError(t, err)

	out := runScript(t, m,
		"2", "carol", "pw2",
		"3", l.ID, "3",
		"3", l.ID, "abc", "2",
		"6",
		"0",
	)

	assert.Contains(t, out, "Error: validation")
	assert.Contains(t, out, "Please enter a valid integer.")
	assert.Contains(t, out, "$500.00 for 2 unit(s)")
	assert.Contains(t, out, "Iphone 8")

	assert.Empty(t, m.ActiveListings(ctx))
	view, err := m.ListingDetail(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSoldOut, view.Status)
	assert.False(t, view.Listing.Deleted)
}

func TestShell_DeleteOwnListing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newShellMarket(t)
	bob, err := m.Register(ctx, "Bob", "pw1")
	require.NoError(t, err)
	l, err := m.PostListing(ctx, *bob, transport.PostListingRequest{
		Name: "Dune", Category: "Books", Condition: "NEW", Price: 12, Quantity: 1,
	})
	require.NoError(t, err)

	out := runScript(t, m,
		"2", "Bob", "pw1",
		"4", l.ID,
		"2",
		"4",
	)

	assert.Contains(t, out, "Listing deleted (soft).")
	assert.Contains(t, out, "DELETED")
	assert.Contains(t, out, "You have no active listings to delete.")
	assert.Empty(t, m.SearchByCategory(ctx, "Books"))
}

func TestShell_BackCancelsPrompt(t *testing.T) {
	t.Parallel()

	m := newShellMarket(t)
	out := runScript(t, m,
		"1", "Alice", "CD ..",
		"4", "cd ..",
		"9",
		"0",
	)

	assert.NotContains(t, out, "Registered")
	assert.Contains(t, out, "Invalid command.")
	_, ok := m.Login(context.Background(), "Alice", "")
	assert.False(t, ok)
}

func TestShell_SearchAndLoginFailure(t *testing.T) {
	t.Parallel()

	m := newShellMarket(t)
	out := runScript(t, m,
		"2", "Nobody", "pw",
		"4", "toys",
		"5", "Lamp",
		"3",
	)

	assert.Contains(t, out, "Unmatched username and password.")
	assert.Contains(t, out, "No listings in this category.")
	assert.Contains(t, out, "No listings of Lamp found.")
	assert.Contains(t, out, "No active listings.")
}

func TestShell_EOFEndsSession(t *testing.T) {
	t.Parallel()

	m := newShellMarket(t)
	var out bytes.Buffer
	err := NewShell(m, strings.NewReader("1\nbob\n"), output.New(&out)).Run(context.Background())
	assert.NoError(t, err)
	assert.NotContains(t, out.String(), "Registered")
}
