package api

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

type Customer struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Phone               string    `json:"phone"`
	Email               *string   `json:"email"`
	TotalEarnedPoints   int       `json:"total_earned_points"`
	TotalReferralPoints int       `json:"total_referral_points"`
	TotalUsedPoints     int       `json:"total_used_points"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// AvailablePoints is the spendable balance. The counters are backend-owned
// aggregates; a negative balance would be a backend inconsistency and is
// reported as-is.
func (c Customer) AvailablePoints() int {
	return c.TotalEarnedPoints + c.TotalReferralPoints - c.TotalUsedPoints
}

// CustomerInput creates or updates a customer. The backend dedups on phone:
// posting an existing phone updates that customer instead of creating a
// duplicate.
type CustomerInput struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,min=10"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type CustomerListParams struct {
	Page    int
	Search  string
	PerPage int
}

func (p CustomerListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}

func (c *Client) ListCustomers(ctx context.Context, params CustomerListParams) (*Page[Customer], error) {
	var page Page[Customer]
	if err := c.get(ctx, "/admin/customers", c.withPerPage(params.query()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	path, err := idPath("/admin/customers", id)
	if err != nil {
		return nil, err
	}
	// The detail endpoint wraps the record in a {"customer": ...} envelope.
	var resp struct {
		Customer Customer `json:"customer"`
	}
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Customer, nil
}

func (c *Client) CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error) {
	var customer Customer
	if err := c.post(ctx, "/admin/customers", input, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
