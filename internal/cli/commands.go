package cli

import (
	"github.com/spf13/cobra"
)

func runShell(cmd *cobra.Command, a *app) error {
	return NewShell(a.market, cmd.InOrStdin(), a.out).Run(cmd.Context())
}

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, a)
		},
	}
}

func newSuggestCmd(a *app) *cobra.Command {
	var category, condition string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a price for a category and condition",
		Long: `Suggest a price from the category baseline and the condition multiplier.

Examples:
  marketplace suggest --category electronics --condition new
  marketplace suggest --category books --condition like_new`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.market.PriceSuggestion(category, condition)
			a.out.Info("Suggested price: $%s (range $%s - $%s)",
				s.Suggested.StringFixed(2), s.Low.StringFixed(2), s.High.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Item category")
	cmd.Flags().StringVar(&condition, "condition", "", "Item condition")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("condition")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var category, name string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search available listings by category or exact item name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("category") {
				found := a.market.SearchByCategory(ctx, category)
				printListings(a.out, a.market.ViewListings(ctx, found), "No listings in this category.")
				return nil
			}
			found := a.market.SearchByFullName(ctx, name)
			printListings(a.out, a.market.ViewListings(ctx, found), "No listings of "+name+" found.")
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Category to match")
	cmd.Flags().StringVar(&name, "name", "", "Full item name to match")
	cmd.MarkFlagsOneRequired("category", "name")
	cmd.MarkFlagsMutuallyExclusive("category", "name")
	return cmd
}

func newListingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "listings",
		Short: "Print every available listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			printListings(a.out, a.market.ViewListings(ctx, a.market.ActiveListings(ctx)), "No active listings.")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.market.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			a.out.Success("Registered: %s (User ID: %s)", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username, stored title-cased")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
