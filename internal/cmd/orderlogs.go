package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/matthieukhl/loyaltyctl/internal/query"
	"github.com/matthieukhl/loyaltyctl/internal/view"
	"github.com/spf13/cobra"
)

var (
	orderLogPage    int
	orderLogPerPage int
)

var orderLogsCmd = &cobra.Command{
	Use:   "order-logs <user-id>",
	Short: "Show a staff user's order history",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderLogs,
}

func init() {
	orderLogsCmd.Flags().IntVar(&orderLogPage, "page", 1, "page number")
	orderLogsCmd.Flags().IntVar(&orderLogPerPage, "per-page", 0, "page size (default from config)")
	rootCmd.AddCommand(orderLogsCmd)
}

func runOrderLogs(cmd *cobra.Command, args []string) error {
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	a, _, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}

	fetch := func(ctx context.Context, page int, search string) (*api.Page[api.OrderLog], error) {
		extra := []string{"user=" + strconv.FormatInt(userID, 10)}
		if orderLogPerPage > 0 {
			extra = append(extra, "per_page="+strconv.Itoa(orderLogPerPage))
		}
		key := query.ListKey(query.ResourceOrderLogs, page, search, extra...)
		return query.Lookup(ctx, a.cache, key, func(ctx context.Context) (*api.Page[api.OrderLog], error) {
			return a.api.ListUserOrderLogs(ctx, userID, api.OrderLogListParams{
				Page:    page,
				PerPage: orderLogPerPage,
			})
		})
	}

	// Order logs are read-only; there is nothing to delete.
	list := view.NewList[api.OrderLog](fetch, nil)
	if err := list.SetPage(cmd.Context(), orderLogPage); err != nil {
		return err
	}

	if list.Empty() {
		fmt.Println("No order history found for this user.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tORDER\tACTION\tAMOUNT\tDATE\tDESCRIPTION")
	for _, log := range list.Rows() {
		order := strconv.FormatInt(log.OrderID, 10)
		amount := "-"
		if log.Order != nil {
			order = log.Order.OrderNumber
			amount = log.Order.TotalAmount.StringFixed(2)
		}
		action := log.Action
		if action == "" {
			action = "created"
		}
		fmt.Fprintf(w, "%d\t#%s\t%s\t%s\t%s\t%s\n",
			log.ID, order, action, amount, log.CreatedAt.Format("2006-01-02 15:04"), log.Description)
	}
	w.Flush()
	fmt.Printf("Page %d/%d (%d total)\n", list.Page(), list.LastPage(), list.Total())
	return nil
}
