package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/matthieukhl/loyaltyctl/internal/query"
	"github.com/matthieukhl/loyaltyctl/internal/validate"
	"github.com/matthieukhl/loyaltyctl/internal/view"
	"github.com/spf13/cobra"
)

var loyaltiesCmd = &cobra.Command{
	Use:   "loyalties",
	Short: "Manage loyalty-point rules",
}

var (
	loyaltyPage          int
	loyaltySearch        string
	loyaltyActive        bool
	loyaltyProductFilter int64
	loyaltyPerPage       int

	loyaltyProductID string
	loyaltyPoints    string
	loyaltyIsActive  bool

	loyaltyDeleteYes bool
)

var loyaltiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loyalty rules",
	RunE:  runLoyaltiesList,
}

var loyaltiesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a loyalty rule",
	RunE:  runLoyaltiesCreate,
}

var loyaltiesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a loyalty rule (replaces every field)",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoyaltiesUpdate,
}

var loyaltiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a loyalty rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoyaltiesDelete,
}

func init() {
	loyaltiesListCmd.Flags().IntVar(&loyaltyPage, "page", 1, "page number")
	loyaltiesListCmd.Flags().StringVar(&loyaltySearch, "search", "", "search text")
	loyaltiesListCmd.Flags().BoolVar(&loyaltyActive, "active", true, "filter by active flag")
	loyaltiesListCmd.Flags().Int64Var(&loyaltyProductFilter, "product-id", 0, "filter by product")
	loyaltiesListCmd.Flags().IntVar(&loyaltyPerPage, "per-page", 0, "page size (default from config)")

	for _, c := range []*cobra.Command{loyaltiesCreateCmd, loyaltiesUpdateCmd} {
		c.Flags().StringVar(&loyaltyProductID, "product-id", "", "product the rule applies to")
		c.Flags().StringVar(&loyaltyPoints, "points", "", "points awarded per purchase")
		c.Flags().BoolVar(&loyaltyIsActive, "active", true, "active flag")
	}

	loyaltiesDeleteCmd.Flags().BoolVar(&loyaltyDeleteYes, "yes", false, "skip the confirmation prompt")

	loyaltiesCmd.AddCommand(loyaltiesListCmd)
	loyaltiesCmd.AddCommand(loyaltiesCreateCmd)
	loyaltiesCmd.AddCommand(loyaltiesUpdateCmd)
	loyaltiesCmd.AddCommand(loyaltiesDeleteCmd)
	rootCmd.AddCommand(loyaltiesCmd)
}

func newLoyaltyList(a *app, active *bool, productID int64, perPage int) *view.List[api.Loyalty] {
	fetch := func(ctx context.Context, page int, search string) (*api.Page[api.Loyalty], error) {
		extra := []string{}
		if active != nil {
			extra = append(extra, "active="+strconv.FormatBool(*active))
		}
		if productID > 0 {
			extra = append(extra, "product_id="+strconv.FormatInt(productID, 10))
		}
		if perPage > 0 {
			extra = append(extra, "per_page="+strconv.Itoa(perPage))
		}
		key := query.ListKey(query.ResourceLoyalties, page, search, extra...)
		return query.Lookup(ctx, a.cache, key, func(ctx context.Context) (*api.Page[api.Loyalty], error) {
			return a.api.ListLoyalties(ctx, api.LoyaltyListParams{
				Page:      page,
				Search:    search,
				IsActive:  active,
				ProductID: productID,
				PerPage:   perPage,
			})
		})
	}
	remove := func(ctx context.Context, id int64) error {
		return a.cache.Mutate(query.ResourceLoyalties, func() error {
			return a.api.DeleteLoyalty(ctx, id)
		})
	}
	return view.NewList(fetch, remove)
}

func runLoyaltiesList(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	var active *bool
	if cmd.Flags().Changed("active") {
		active = &loyaltyActive
	}

	list := newLoyaltyList(a, active, loyaltyProductFilter, loyaltyPerPage)
	if err := list.SetSearch(cmd.Context(), loyaltySearch); err != nil {
		return err
	}
	if err := list.SetPage(cmd.Context(), loyaltyPage); err != nil {
		return err
	}

	if list.Empty() {
		fmt.Println("No loyalty rules found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCT\tSKU\tPOINTS\tACTIVE")
	for _, l := range list.Rows() {
		name := strconv.FormatInt(l.ProductID, 10)
		sku := "-"
		if l.Product != nil {
			name = l.Product.Name
			sku = l.Product.SKU
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\n", l.ID, name, sku, l.Points, l.IsActive)
	}
	w.Flush()
	fmt.Printf("Page %d/%d (%d total)\n", list.Page(), list.LastPage(), list.Total())
	return nil
}

func loyaltyForm(cmd *cobra.Command) *view.Form[api.LoyaltyInput] {
	form := view.NewForm(validate.LoyaltyFromForm)
	form.Reset(validate.LoyaltyFormFields(nil), false)
	if cmd.Flags().Changed("product-id") {
		form.Set("product_id", loyaltyProductID)
	}
	if cmd.Flags().Changed("points") {
		form.Set("points", loyaltyPoints)
	}
	if cmd.Flags().Changed("active") {
		form.Set("is_active", strconv.FormatBool(loyaltyIsActive))
	}
	return form
}

func runLoyaltiesCreate(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	form := loyaltyForm(cmd)
	var created *api.Loyalty
	err = form.Submit(cmd.Context(), func(ctx context.Context, input api.LoyaltyInput) error {
		return a.cache.Mutate(query.ResourceLoyalties, func() error {
			loyalty, err := a.api.CreateLoyalty(ctx, input)
			if err != nil {
				return err
			}
			created = loyalty
			return nil
		})
	})
	if ferrs, ok := err.(validate.FieldErrors); ok {
		fmt.Fprintln(os.Stderr, "Invalid loyalty rule:")
		printFieldErrors(ferrs)
		return fmt.Errorf("validation failed")
	}
	if err != nil {
		return err
	}
	fmt.Printf("Created loyalty rule %d (product %d, %d points)\n", created.ID, created.ProductID, created.Points)
	return nil
}

func runLoyaltiesUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid loyalty rule id %q", args[0])
	}

	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	form := loyaltyForm(cmd)
	var updated *api.Loyalty
	err = form.Submit(cmd.Context(), func(ctx context.Context, input api.LoyaltyInput) error {
		return a.cache.Mutate(query.ResourceLoyalties, func() error {
			loyalty, err := a.api.UpdateLoyalty(ctx, id, input)
			if err != nil {
				return err
			}
			updated = loyalty
			return nil
		})
	})
	if ferrs, ok := err.(validate.FieldErrors); ok {
		fmt.Fprintln(os.Stderr, "Invalid loyalty rule:")
		printFieldErrors(ferrs)
		return fmt.Errorf("validation failed")
	}
	if err != nil {
		return err
	}
	fmt.Printf("Updated loyalty rule %d\n", updated.ID)
	return nil
}

func runLoyaltiesDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid loyalty rule id %q", args[0])
	}

	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	list := newLoyaltyList(a, nil, 0, 0)
	err = list.Delete(cmd.Context(), id, func() bool {
		return loyaltyDeleteYes || confirm(fmt.Sprintf("Delete loyalty rule %d?", id))
	})
	if err == view.ErrDeleteCanceled {
		fmt.Println("Aborted.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Deleted loyalty rule %d\n", id)
	return nil
}
