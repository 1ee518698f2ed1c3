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

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage products",
}

var (
	productPage    int
	productSearch  string
	productActive  bool
	productPerPage int

	productName     string
	productSKU      string
	productPrice    string
	productDiscount string
	productStock    string
	productIsActive bool

	productDeleteYes bool
)

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE:  runProductsList,
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	RunE:  runProductsCreate,
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product (replaces every field)",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsUpdate,
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsDelete,
}

func init() {
	productsListCmd.Flags().IntVar(&productPage, "page", 1, "page number")
	productsListCmd.Flags().StringVar(&productSearch, "search", "", "search text")
	productsListCmd.Flags().BoolVar(&productActive, "active", true, "filter by active flag")
	productsListCmd.Flags().IntVar(&productPerPage, "per-page", 0, "page size (default from config)")

	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		c.Flags().StringVar(&productName, "name", "", "product name")
		c.Flags().StringVar(&productSKU, "sku", "", "stock keeping unit")
		c.Flags().StringVar(&productPrice, "price", "", "price")
		c.Flags().StringVar(&productDiscount, "discount-price", "", "discount price")
		c.Flags().StringVar(&productStock, "stock", "", "stock count")
		c.Flags().BoolVar(&productIsActive, "active", true, "active flag")
	}

	productsDeleteCmd.Flags().BoolVar(&productDeleteYes, "yes", false, "skip the confirmation prompt")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsCreateCmd)
	productsCmd.AddCommand(productsUpdateCmd)
	productsCmd.AddCommand(productsDeleteCmd)
	rootCmd.AddCommand(productsCmd)
}

func newProductList(a *app, active *bool, perPage int) *view.List[api.Product] {
	fetch := func(ctx context.Context, page int, search string) (*api.Page[api.Product], error) {
		extra := []string{}
		if active != nil {
			extra = append(extra, "active="+strconv.FormatBool(*active))
		}
		if perPage > 0 {
			extra = append(extra, "per_page="+strconv.Itoa(perPage))
		}
		key := query.ListKey(query.ResourceProducts, page, search, extra...)
		return query.Lookup(ctx, a.cache, key, func(ctx context.Context) (*api.Page[api.Product], error) {
			return a.api.ListProducts(ctx, api.ProductListParams{
				Page:     page,
				Search:   search,
				IsActive: active,
				PerPage:  perPage,
			})
		})
	}
	remove := func(ctx context.Context, id int64) error {
		return a.cache.Mutate(query.ResourceProducts, func() error {
			return a.api.DeleteProduct(ctx, id)
		})
	}
	return view.NewList(fetch, remove)
}

func runProductsList(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	var active *bool
	if cmd.Flags().Changed("active") {
		active = &productActive
	}

	list := newProductList(a, active, productPerPage)
	if err := list.SetSearch(cmd.Context(), productSearch); err != nil {
		return err
	}
	if err := list.SetPage(cmd.Context(), productPage); err != nil {
		return err
	}

	if list.Empty() {
		fmt.Println("No products found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSKU\tPRICE\tDISCOUNT\tSTOCK\tACTIVE")
	for _, p := range list.Rows() {
		discount := "-"
		if p.DiscountPrice != nil {
			discount = p.DiscountPrice.StringFixed(2)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%t\n",
			p.ID, p.Name, p.SKU, p.Price.StringFixed(2), discount, p.Stock, p.IsActive)
	}
	w.Flush()
	fmt.Printf("Page %d/%d (%d total)\n", list.Page(), list.LastPage(), list.Total())
	return nil
}

func productForm(cmd *cobra.Command) *view.Form[api.ProductInput] {
	form := view.NewForm(validate.ProductFromForm)
	form.Reset(validate.ProductFormFields(nil), false)
	if cmd.Flags().Changed("name") {
		form.Set("name", productName)
	}
	if cmd.Flags().Changed("sku") {
		form.Set("sku", productSKU)
	}
	if cmd.Flags().Changed("price") {
		form.Set("price", productPrice)
	}
	if cmd.Flags().Changed("discount-price") {
		form.Set("discount_price", productDiscount)
	}
	if cmd.Flags().Changed("stock") {
		form.Set("stock", productStock)
	}
	if cmd.Flags().Changed("active") {
		form.Set("is_active", strconv.FormatBool(productIsActive))
	}
	return form
}

func runProductsCreate(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	form := productForm(cmd)
	var created *api.Product
	err = form.Submit(cmd.Context(), func(ctx context.Context, input api.ProductInput) error {
		return a.cache.Mutate(query.ResourceProducts, func() error {
			product, err := a.api.CreateProduct(ctx, input)
			if err != nil {
				return err
			}
			created = product
			return nil
		})
	})
	if ferrs, ok := err.(validate.FieldErrors); ok {
		fmt.Fprintln(os.Stderr, "Invalid product:")
		printFieldErrors(ferrs)
		return fmt.Errorf("validation failed")
	}
	if err != nil {
		return err
	}
	fmt.Printf("Created product %d (%s)\n", created.ID, created.Name)
	return nil
}

func runProductsUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	form := productForm(cmd)
	var updated *api.Product
	err = form.Submit(cmd.Context(), func(ctx context.Context, input api.ProductInput) error {
		return a.cache.Mutate(query.ResourceProducts, func() error {
			product, err := a.api.UpdateProduct(ctx, id, input)
			if err != nil {
				return err
			}
			updated = product
			return nil
		})
	})
	if ferrs, ok := err.(validate.FieldErrors); ok {
		fmt.Fprintln(os.Stderr, "Invalid product:")
		printFieldErrors(ferrs)
		return fmt.Errorf("validation failed")
	}
	if err != nil {
		return err
	}
	fmt.Printf("Updated product %d (%s)\n", updated.ID, updated.Name)
	return nil
}

func runProductsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	list := newProductList(a, nil, 0)
	err = list.Delete(cmd.Context(), id, func() bool {
		return productDeleteYes || confirm(fmt.Sprintf("Delete product %d?", id))
	})
	if err == view.ErrDeleteCanceled {
		fmt.Println("Aborted.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Deleted product %d\n", id)
	return nil
}
