package cmd

import (
	"context"
	"fmt"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/matthieukhl/loyaltyctl/internal/query"
	"github.com/spf13/cobra"
)

var (
	salesProductID int64
	salesUserID    int64
	salesStartDate string
	salesEndDate   string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show dashboard metrics",
	RunE:  runDashboard,
}

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Show product sales aggregates",
	RunE:  runSales,
}

func init() {
	salesCmd.Flags().Int64Var(&salesProductID, "product-id", 0, "filter by product")
	salesCmd.Flags().Int64Var(&salesUserID, "user-id", 0, "filter by staff user")
	salesCmd.Flags().StringVar(&salesStartDate, "start-date", "", "start date (YYYY-MM-DD)")
	salesCmd.Flags().StringVar(&salesEndDate, "end-date", "", "end date (YYYY-MM-DD)")

	dashboardCmd.AddCommand(salesCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	metrics, err := query.Lookup(cmd.Context(), a.cache, query.NewKey(query.ResourceDashboard, "metrics"),
		a.api.DashboardMetrics)
	if err != nil {
		return err
	}

	fmt.Printf("Total amount:   %s\n", metrics.TotalAmount.StringFixed(2))
	fmt.Printf("Products:       %d\n", metrics.ProductCount)
	fmt.Printf("Customers:      %d\n", metrics.CustomerCount)
	return nil
}

func runSales(cmd *cobra.Command, args []string) error {
	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	params := api.ProductSalesParams{
		ProductID: salesProductID,
		UserID:    salesUserID,
		StartDate: salesStartDate,
		EndDate:   salesEndDate,
	}
	key := query.NewKey(query.ResourceDashboard, append([]string{"product-sales"}, params.CacheParams()...)...)
	stats, err := query.Lookup(cmd.Context(), a.cache, key,
		func(ctx context.Context) (*api.ProductSalesStats, error) {
			return a.api.ProductSales(ctx, params)
		})
	if err != nil {
		return err
	}

	fmt.Printf("Quantity sold:  %d\n", stats.TotalQuantitySold)
	fmt.Printf("Amount sold:    %s\n", stats.TotalAmountSold.StringFixed(2))
	fmt.Printf("Customers:      %d\n", stats.CustomersCount)
	return nil
}
