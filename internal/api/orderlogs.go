package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLog is a read-only audit row of an order action performed by a
// staff user.
type OrderLog struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	OrderID     int64         `json:"order_id"`
	Order       *OrderSummary `json:"order,omitempty"`
	Description string        `json:"description"`
	Action      string        `json:"action"`
	CreatedAt   time.Time     `json:"created_at"`
}

type OrderSummary struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type OrderLogListParams struct {
	Page    int
	PerPage int
}

func (p OrderLogListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}

func (c *Client) ListUserOrderLogs(ctx context.Context, userID int64, params OrderLogListParams) (*Page[OrderLog], error) {
	path, err := idPath("/admin/users", userID)
	if err != nil {
		return nil, err
	}
	var page Page[OrderLog]
	if err := c.get(ctx, path+"/order-logs", c.withPerPage(params.query()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
