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

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Manage customers",
}

var (
	customerPage    int
	customerSearch  string
	customerPerPage int

	customerName  string
	customerPhone string
	customerEmail string
)

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	RunE:  runCustomersList,
}

var customersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one customer with point balances",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomersGet,
}

var customersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a customer (an existing phone updates that customer)",
	RunE:  runCustomersCreate,
}

func init() {
	customersListCmd.Flags().IntVar(&customerPage, "page", 1, "page number")
	customersListCmd.Flags().StringVar(&customerSearch, "search", "", "search text")
	customersListCmd.Flags().IntVar(&customerPerPage, "per-page", 0, "page size (default from config)")

	customersCreateCmd.Flags().StringVar(&customerName, "name", "", "customer name")
	customersCreateCmd.Flags().StringVar(&customerPhone, "phone", "", "phone number (dedup key)")
	customersCreateCmd.Flags().StringVar(&customerEmail, "email", "", "email (optional)")

	customersCmd.AddCommand(customersListCmd)
	customersCmd.AddCommand(customersGetCmd)
	customersCmd.AddCommand(customersCreateCmd)
	rootCmd.AddCommand(customersCmd)
}

func newCustomerList(a *app, perPage int) *view.List[api.Customer] {
	fetch := func(ctx context.Context, page int, search string) (*api.Page[api.Customer], error) {
		extra := []string{}
		if perPage > 0 {
			extra = append(extra, "per_page="+strconv.Itoa(perPage))
		}
		key := query.ListKey(query.ResourceCustomers, page, search, extra...)
		return query.Lookup(ctx, a.cache, key, func(ctx context.Context) (*api.Page[api.Customer], error) {
			return a.api.ListCustomers(ctx, api.CustomerListParams{
				Page:    page,
				Search:  search,
				PerPage: perPage,
			})
		})
	}
	// Customers cannot be deleted from this console.
	return view.NewList[api.Customer](fetch, nil)
}

func runCustomersList(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	list := newCustomerList(a, customerPerPage)
	if err := list.SetSearch(cmd.Context(), customerSearch); err != nil {
		return err
	}
	if err := list.SetPage(cmd.Context(), customerPage); err != nil {
		return err
	}

	if list.Empty() {
		fmt.Println("No customers found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tEMAIL\tEARNED\tREFERRAL\tUSED\tAVAILABLE")
	for _, c := range list.Rows() {
		email := "-"
		if c.Email != nil && *c.Email != "" {
			email = *c.Email
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			c.ID, c.Name, c.Phone, email,
			c.TotalEarnedPoints, c.TotalReferralPoints, c.TotalUsedPoints, c.AvailablePoints())
	}
	w.Flush()
	fmt.Printf("Page %d/%d (%d total)\n", list.Page(), list.LastPage(), list.Total())
	return nil
}

func runCustomersGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid customer id %q", args[0])
	}

	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	customer, err := query.Lookup(cmd.Context(), a.cache, query.RecordKey(query.ResourceCustomers, id),
		func(ctx context.Context) (*api.Customer, error) {
			return a.api.GetCustomer(ctx, id)
		})
	if err != nil {
		return err
	}

	fmt.Printf("Customer %d\n", customer.ID)
	fmt.Printf("  Name:      %s\n", customer.Name)
	fmt.Printf("  Phone:     %s\n", customer.Phone)
	if customer.Email != nil && *customer.Email != "" {
		fmt.Printf("  Email:     %s\n", *customer.Email)
	}
	fmt.Printf("  Earned:    %d\n", customer.TotalEarnedPoints)
	fmt.Printf("  Referral:  %d\n", customer.TotalReferralPoints)
	fmt.Printf("  Used:      %d\n", customer.TotalUsedPoints)
	fmt.Printf("  Available: %d\n", customer.AvailablePoints())
	return nil
}

func runCustomersCreate(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	form := view.NewForm(validate.CustomerFromForm)
	form.Reset(validate.CustomerFormFields(nil), false)
	if cmd.Flags().Changed("name") {
		form.Set("name", customerName)
	}
	if cmd.Flags().Changed("phone") {
		form.Set("phone", customerPhone)
	}
	if cmd.Flags().Changed("email") {
		form.Set("email", customerEmail)
	}

	var created *api.Customer
	err = form.Submit(cmd.Context(), func(ctx context.Context, input api.CustomerInput) error {
		return a.cache.Mutate(query.ResourceCustomers, func() error {
			customer, err := a.api.CreateCustomer(ctx, input)
			if err != nil {
				return err
			}
			created = customer
			return nil
		})
	})
	if ferrs, ok := err.(validate.FieldErrors); ok {
		fmt.Fprintln(os.Stderr, "Invalid customer:")
		printFieldErrors(ferrs)
		return fmt.Errorf("validation failed")
	}
	if err != nil {
		return err
	}
	fmt.Printf("Saved customer %d (%s, %s)\n", created.ID, created.Name, created.Phone)
	return nil
}
