package api

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

type Loyalty struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Product   *LoyaltyProduct `json:"product,omitempty"`
	Points    int             `json:"points"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LoyaltyProduct is the product summary the backend embeds in loyalty rows.
type LoyaltyProduct struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

type LoyaltyInput struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Points    int   `json:"points" validate:"gt=0"`
	IsActive  bool  `json:"is_active"`
}

type LoyaltyListParams struct {
	Page      int
	Search    string
	IsActive  *bool
	ProductID int64
	PerPage   int
}

func (p LoyaltyListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*p.IsActive))
	}
	if p.ProductID > 0 {
		q.Set("product_id", strconv.FormatInt(p.ProductID, 10))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}

func (c *Client) ListLoyalties(ctx context.Context, params LoyaltyListParams) (*Page[Loyalty], error) {
	var page Page[Loyalty]
	if err := c.get(ctx, "/admin/loyalties", c.withPerPage(params.query()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateLoyalty(ctx context.Context, input LoyaltyInput) (*Loyalty, error) {
	var loyalty Loyalty
	if err := c.post(ctx, "/admin/loyalties", input, &loyalty); err != nil {
		return nil, err
	}
	return &loyalty, nil
}

func (c *Client) UpdateLoyalty(ctx context.Context, id int64, input LoyaltyInput) (*Loyalty, error) {
	path, err := idPath("/admin/loyalties", id)
	if err != nil {
		return nil, err
	}
	var loyalty Loyalty
	if err := c.put(ctx, path, input, &loyalty); err != nil {
		return nil, err
	}
	return &loyalty, nil
}

func (c *Client) DeleteLoyalty(ctx context.Context, id int64) error {
	path, err := idPath("/admin/loyalties", id)
	if err != nil {
		return err
	}
	return c.delete(ctx, path)
}
