package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Stock         int              `json:"stock"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     *time.Time       `json:"deleted_at"`
}

// ProductInput is the create/update payload. The backend treats PUT as a
// full replacement, so every field is always transmitted.
type ProductInput struct {
	Name          string   `json:"name" validate:"required"`
	SKU           string   `json:"sku" validate:"required"`
	Price         float64  `json:"price" validate:"gte=0"`
	DiscountPrice *float64 `json:"discount_price,omitempty" validate:"omitempty,gte=0"`
	Stock         int      `json:"stock" validate:"gte=0"`
	IsActive      bool     `json:"is_active"`
}

// ProductListParams are the optional list filters. Unset fields are omitted
// from the query string entirely; IsActive is a pointer so an explicit false
// is still transmitted. An unset PerPage falls back to the client's
// configured page size.
type ProductListParams struct {
	Page     int
	Search   string
	IsActive *bool
	PerPage  int
}

func (p ProductListParams) query() url.Values {
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
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}

func (c *Client) ListProducts(ctx context.Context, params ProductListParams) (*Page[Product], error) {
	var page Page[Product]
	if err := c.get(ctx, "/admin/products", c.withPerPage(params.query()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	var product Product
	if err := c.post(ctx, "/admin/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*Product, error) {
	path, err := idPath("/admin/products", id)
	if err != nil {
		return nil, err
	}
	var product Product
	if err := c.put(ctx, path, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	path, err := idPath("/admin/products", id)
	if err != nil {
		return err
	}
	return c.delete(ctx, path)
}
