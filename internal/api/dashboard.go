package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

type DashboardMetrics struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ProductCount  int             `json:"product_count"`
	CustomerCount int             `json:"customer_count"`
}

type ProductSalesStats struct {
	ProductID         *int64          `json:"product_id"`
	UserID            *int64          `json:"user_id"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	TotalAmountSold   decimal.Decimal `json:"total_amount_sold"`
	CustomersCount    int             `json:"customers_count"`
}

// ProductSalesParams filter the sales aggregate. Dates are passed through
// verbatim (the backend expects YYYY-MM-DD).
type ProductSalesParams struct {
	ProductID int64
	UserID    int64
	StartDate string
	EndDate   string
}

func (p ProductSalesParams) query() url.Values {
	q := url.Values{}
	if p.ProductID > 0 {
		q.Set("product_id", strconv.FormatInt(p.ProductID, 10))
	}
	if p.UserID > 0 {
		q.Set("user_id", strconv.FormatInt(p.UserID, 10))
	}
	if p.StartDate != "" {
		q.Set("start_date", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("end_date", p.EndDate)
	}
	return q
}

// CacheParams flattens the filters into cache-key parameters.
func (p ProductSalesParams) CacheParams() []string {
	return []string{
		"product_id=" + strconv.FormatInt(p.ProductID, 10),
		"user_id=" + strconv.FormatInt(p.UserID, 10),
		"start_date=" + p.StartDate,
		"end_date=" + p.EndDate,
	}
}

func (c *Client) DashboardMetrics(ctx context.Context) (*DashboardMetrics, error) {
	var metrics DashboardMetrics
	if err := c.get(ctx, "/admin/dashboard", nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (c *Client) ProductSales(ctx context.Context, params ProductSalesParams) (*ProductSalesStats, error) {
	var stats ProductSalesStats
	if err := c.get(ctx, "/admin/dashboard/product-sales", params.query(), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
