package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/haomeng346/Second-hand-Marketplace/internal/domain"
	"github.com/haomeng346/Second-hand-Marketplace/internal/models"
	"github.com/haomeng346/Second-hand-Marketplace/internal/output"
	"github.com/haomeng346/Second-hand-Marketplace/internal/service"
	"github.com/haomeng346/Second-hand-Marketplace/internal/transport"
)

const backToken = "cd .."

// errBack cancels the current prompt and returns to the menu.
var errBack = errors.New("back")

// Shell is the interactive menu. It only talks to the Marketplace through
// its exported operations.
type Shell struct {
	Market *service.Marketplace
	Out    *output.Printer

	in   *bufio.Scanner
	user *models.User
}

func NewShell(m *service.Marketplace, in io.Reader, out *output.Printer) *Shell {
	return &Shell{Market: m, Out: out, in: bufio.NewScanner(in)}
}

// Run serves menus until the user quits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	for {
		var (
			quit bool
			err  error
		)
		if s.user == nil {
			quit, err = s.mainMenu(ctx)
		} else {
			err = s.userMenu(ctx)
		}
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, errBack):
		case err != nil:
			return err
		}
		if quit {
			return nil
		}
	}
}

func (s *Shell) mainMenu(ctx context.Context) (bool, error) {
	s.Out.Section("=== Second-hand Marketplace ===")
	fmt.Fprintln(s.Out.Writer(), "1) Register")
	fmt.Fprintln(s.Out.Writer(), "2) Login")
	fmt.Fprintln(s.Out.Writer(), "3) View all active listings")
	fmt.Fprintln(s.Out.Writer(), "4) Search by category")
	fmt.Fprintln(s.Out.Writer(), "5) Search by full name")
	fmt.Fprintln(s.Out.Writer(), "0) Quit")

	choice, err := s.readLine("Choose: ")
	if err != nil {
		return false, err
	}
	switch choice {
	case "1":
		return false, s.register(ctx)
	case "2":
		return false, s.login(ctx)
	case "3":
		s.showActive(ctx)
		return false, nil
	case "4":
		return false, s.searchCategory(ctx)
	case "5":
		return false, s.searchName(ctx)
	case "0":
		s.Out.Primary("Goodbye ~ See you later!")
		return true, nil
	default:
		s.Out.Warning("Invalid command.")
		return false, nil
	}
}

func (s *Shell) userMenu(ctx context.Context) error {
	s.Out.Section(fmt.Sprintf("=== Welcome, %s ===", s.user.Username))
	fmt.Fprintln(s.Out.Writer(), "1) Post a new listing")
	fmt.Fprintln(s.Out.Writer(), "2) All my listings")
	fmt.Fprintln(s.Out.Writer(), "3) Buy a listing")
	fmt.Fprintln(s.Out.Writer(), "4) Delete my listing")
	fmt.Fprintln(s.Out.Writer(), "5) View all active listings")
	fmt.Fprintln(s.Out.Writer(), "6) My orders (as buyer)")
	fmt.Fprintln(s.Out.Writer(), "7) Orders for my listings (as seller)")
	fmt.Fprintln(s.Out.Writer(), "0) Logout")

	choice, err := s.readLine("Choose: ")
	if err != nil {
		return err
	}
	switch choice {
	case "1":
		return s.postListing(ctx)
	case "2":
		printListingsWithStatus(s.Out, s.Market.ListingsBySeller(ctx, s.user.ID), "You have no listings yet.")
	case "3":
		return s.buy(ctx)
	case "4":
		return s.deleteListing(ctx)
	case "5":
		s.showActive(ctx)
	case "6":
		orders := s.Market.OrdersByBuyer(ctx, s.user.ID)
		printOrders(s.Out, s.Market.ViewOrders(ctx, orders), "You have no orders as buyer.")
	case "7":
		orders := s.Market.OrdersBySeller(ctx, s.user.ID)
		printOrders(s.Out, s.Market.ViewOrders(ctx, orders), "No orders for your listings yet.")
	case "0":
		s.user = nil
		s.Out.Info("Logged out.")
	default:
		s.Out.Warning("Invalid command.")
	}
	return nil
}

func (s *Shell) register(ctx context.Context) error {
	name, err := s.promptText("Username", false)
	if err != nil {
		return err
	}
	password, err := s.promptText("Password", false)
	if err != nil {
		return err
	}
	u, err := s.Market.Register(ctx, name, password)
	if err != nil {
		s.Out.Error("Error: %v", err)
		return nil
	}
	s.Out.Success("Registered: %s (User ID: %s)", u.Username, u.ID)
	return nil
}

func (s *Shell) login(ctx context.Context) error {
	name, err := s.promptText("Username", false)
	if err != nil {
		return err
	}
	password, err := s.promptText("Password", false)
	if err != nil {
		return err
	}
	u, ok := s.Market.Login(ctx, name, password)
	if !ok {
		s.Out.Error("Unmatched username and password.")
		return nil
	}
	s.user = u
	s.Out.Success("Logged in as %s", u.Username)
	return nil
}

// showActive prints every available listing and reports whether any exist.
func (s *Shell) showActive(ctx context.Context) bool {
	active := s.Market.ViewListings(ctx, s.Market.ActiveListings(ctx))
	if len(active) > 0 {
		s.Out.Info("%d active listing(s):", len(active))
	}
	printListings(s.Out, active, "No active listings.")
	return len(active) > 0
}

func (s *Shell) searchCategory(ctx context.Context) error {
	s.Out.Muted("Available categories: %s", strings.Join(service.Categories(), ", "))
	category, err := s.promptChoice("Category", s.validCategory)
	if err != nil {
		return err
	}
	found := s.Market.ViewListings(ctx, s.Market.SearchByCategory(ctx, category))
	if len(found) > 0 {
		s.Out.Info("Found %d listing(s):", len(found))
	}
	printListings(s.Out, found, "No listings in this category.")
	return nil
}

func (s *Shell) searchName(ctx context.Context) error {
	name, err := s.promptText("Full item name (exactly)", false)
	if err != nil {
		return err
	}
	found := s.Market.ViewListings(ctx, s.Market.SearchByFullName(ctx, name))
	if len(found) > 0 {
		s.Out.Info("Found %d listing(s):", len(found))
	}
	printListings(s.Out, found, fmt.Sprintf("No listings of %s found.", name))
	return nil
}

func (s *Shell) postListing(ctx context.Context) error {
	var (
		req transport.PostListingRequest
		err error
	)
	if req.Category, err = s.promptChoice(fmt.Sprintf("Category %v", service.Categories()), s.validCategory); err != nil {
		return err
	}
	if req.Name, err = s.promptText("Item name (full)", false); err != nil {
		return err
	}
	if req.Condition, err = s.promptChoice(fmt.Sprintf("Condition %v", service.Conditions()), s.validCondition); err != nil {
		return err
	}
	if req.Brand, err = s.promptText("Brand", false); err != nil {
		return err
	}
	if req.Description, err = s.promptText("Description (optional, can be empty)", true); err != nil {
		return err
	}

	sug := s.Market.PriceSuggestion(req.Category, req.Condition)
	s.Out.Info("Suggested price: $%s (range $%s - $%s)",
		sug.Suggested.StringFixed(2), sug.Low.StringFixed(2), sug.High.StringFixed(2))
	if req.Price, err = s.promptFloat("Price", sug.Suggested.InexactFloat64(), 0.01); err != nil {
		return err
	}
	if req.Quantity, err = s.promptInt("Quantity", 1); err != nil {
		return err
	}

	l, err := s.Market.PostListing(ctx, *s.user, req)
	if err != nil {
		s.Out.Error("Error: %v", err)
		return nil
	}
	s.Out.Success("Posted listing %s for %s at $%s x%d",
		l.ID, domain.TitleCase(req.Name), l.Price.StringFixed(2), l.Quantity)
	return nil
}

func (s *Shell) buy(ctx context.Context) error {
	if !s.showActive(ctx) {
		return nil
	}
	id, err := s.promptText("Enter Listing ID to buy", false)
	if err != nil {
		return err
	}
	qty, err := s.promptInt("Quantity", 1)
	if err != nil {
		return err
	}
	o, err := s.Market.BuyListing(ctx, *s.user, id, qty)
	if err != nil {
		s.Out.Error("Error: %v", err)
		return nil
	}
	s.Out.Success("Order %s created: $%s for %d unit(s).", o.ID, o.TotalPrice.StringFixed(2), o.Quantity)
	s.Out.Muted("Arrange offline payment/delivery.")
	return nil
}

func (s *Shell) deleteListing(ctx context.Context) error {
	var candidates []service.ListingView
	for _, v := range s.Market.ListingsBySeller(ctx, s.user.ID) {
		if !v.Listing.Deleted && v.Listing.Active {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		s.Out.Muted("You have no active listings to delete.")
		return nil
	}
	s.Out.Info("Your active listings:")
	printListings(s.Out, candidates, "")

	id, err := s.promptText("Listing ID to delete", false)
	if err != nil {
		return err
	}
	if err := s.Market.DeleteListing(ctx, *s.user, id); err != nil {
		s.Out.Error("Error: %v", err)
		return nil
	}
	s.Out.Success("Listing deleted (soft).")
	return nil
}

func (s *Shell) validCategory(v string) (string, bool) {
	c := domain.TitleCase(v)
	if models.IsCategory(c) {
		return c, true
	}
	s.Out.Warning("Unknown category. Available categories are: %s", strings.Join(service.Categories(), ", "))
	return "", false
}

func (s *Shell) validCondition(v string) (string, bool) {
	c := domain.UpperToken(v)
	if models.IsCondition(c) {
		return c, true
	}
	s.Out.Warning("Unknown condition. Choose from: %s", strings.Join(service.Conditions(), ", "))
	return "", false
}

func (s *Shell) readLine(prompt string) (string, error) {
	s.Out.Prompt(prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(s.Out.Writer())
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func isBack(v string) bool {
	return strings.ToLower(strings.TrimSpace(v)) == backToken
}

func (s *Shell) promptText(label string, allowEmpty bool) (string, error) {
	for {
		v, err := s.readLine(label + " (type 'cd ..' to go back): ")
		if err != nil {
			return "", err
		}
		if isBack(v) {
			return "", errBack
		}
		if v != "" || allowEmpty {
			return v, nil
		}
		s.Out.Warning("Input cannot be empty.")
	}
}

func (s *Shell) promptChoice(label string, valid func(string) (string, bool)) (string, error) {
	for {
		v, err := s.readLine(label + " (type 'cd ..' to go back): ")
		if err != nil {
			return "", err
		}
		if isBack(v) {
			return "", errBack
		}
		if norm, ok := valid(v); ok {
			return norm, nil
		}
	}
}

// promptFloat accepts an empty line as def.
func (s *Shell) promptFloat(label string, def, lowest float64) (float64, error) {
	for {
		v, err := s.readLine(fmt.Sprintf("%s [default %.2f] (Enter=accept, 'cd ..'=back): ", label, def))
		if err != nil {
			return 0, err
		}
		if isBack(v) {
			return 0, errBack
		}
		if v == "" {
			return def, nil
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.Out.Warning("Please enter a valid number.")
			continue
		}
		if x < lowest {
			s.Out.Warning("Value must be >= %.2f", lowest)
			continue
		}
		return x, nil
	}
}

func (s *Shell) promptInt(label string, lowest int) (int, error) {
	for {
		v, err := s.readLine(label + " ('cd ..' to go back): ")
		if err != nil {
			return 0, err
		}
		if isBack(v) {
			return 0, errBack
		}
		x, err := strconv.Atoi(v)
		if err != nil {
			s.Out.Warning("Please enter a valid integer.")
			continue
		}
		if x < lowest {
			s.Out.Warning("Value must be >= %d", lowest)
			continue
		}
		return x, nil
	}
}
