package validate

import (
	"testing"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/shopspring/decimal"
)

func TestProductSchema(t *testing.T) {
	tests := []struct {
		name      string
		input     api.ProductInput
		wantField string
	}{
		{"valid", api.ProductInput{Name: "Gold Card", SKU: "SKU-001", Price: 99.99, Stock: 10, IsActive: true}, ""},
		{"missing name", api.ProductInput{SKU: "SKU-001"}, "name"},
		{"missing sku", api.ProductInput{Name: "Gold Card"}, "sku"},
		{"negative price", api.ProductInput{Name: "x", SKU: "y", Price: -1}, "price"},
		{"negative stock", api.ProductInput{Name: "x", SKU: "y", Stock: -5}, "stock"},
		{"negative discount", api.ProductInput{Name: "x", SKU: "y", DiscountPrice: floatPtr(-0.5)}, "discount_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Product(tt.input)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("no error for %s, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestDiscountAbovePriceIsAllowed(t *testing.T) {
	// Deliberately permissive: discount is a secondary price, not bounded
	// by the regular price.
	errs := Product(api.ProductInput{Name: "x", SKU: "y", Price: 10, DiscountPrice: floatPtr(20)})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestLoyaltySchema(t *testing.T) {
	errs := Loyalty(api.LoyaltyInput{ProductID: 0, Points: 0})
	if got := errs["product_id"]; got != "is required" {
		t.Errorf("product_id message = %q", got)
	}
	if got := errs["points"]; got != "must be positive" {
		t.Errorf("points message = %q", got)
	}

	if errs := Loyalty(api.LoyaltyInput{ProductID: 3, Points: 5, IsActive: true}); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestCustomerSchema(t *testing.T) {
	tests := []struct {
		name      string
		input     api.CustomerInput
		wantField string
		wantMsg   string
	}{
		{"valid", api.CustomerInput{Name: "Ravi", Phone: "9876543210"}, "", ""},
		{"valid with email", api.CustomerInput{Name: "Ravi", Phone: "9876543210", Email: "ravi@example.com"}, "", ""},
		{"empty email is absent", api.CustomerInput{Name: "Ravi", Phone: "9876543210", Email: ""}, "", ""},
		{"short phone", api.CustomerInput{Name: "Ravi", Phone: "12345"}, "phone", "must be at least 10 characters"},
		{"missing name", api.CustomerInput{Phone: "9876543210"}, "name", "is required"},
		{"bad email", api.CustomerInput{Name: "Ravi", Phone: "9876543210", Email: "not-an-email"}, "email", "must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Customer(tt.input)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if got := errs[tt.wantField]; got != tt.wantMsg {
				t.Fatalf("%s message = %q, want %q (all: %v)", tt.wantField, got, tt.wantMsg, errs)
			}
		})
	}
}

func TestProductFromFormCoercion(t *testing.T) {
	input, errs := ProductFromForm(map[string]string{
		"name":           "Gold Card",
		"sku":            "SKU-001",
		"price":          "99.99",
		"discount_price": "79.99",
		"stock":          "100",
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if input.Price != 99.99 || input.Stock != 100 {
		t.Fatalf("coerced input = %+v", input)
	}
	if input.DiscountPrice == nil || *input.DiscountPrice != 79.99 {
		t.Fatalf("discount = %v", input.DiscountPrice)
	}
	if !input.IsActive {
		t.Fatal("is_active did not default to true")
	}
}

func TestProductFromFormRejectsGarbageNumbers(t *testing.T) {
	_, errs := ProductFromForm(map[string]string{
		"name":  "x",
		"sku":   "y",
		"price": "not-a-number",
		"stock": "1.5",
	})
	if errs["price"] != "must be a number" {
		t.Errorf("price message = %q", errs["price"])
	}
	if errs["stock"] != "must be an integer" {
		t.Errorf("stock message = %q", errs["stock"])
	}
}

func TestLoyaltyFromFormZeroPointsRejectedLocally(t *testing.T) {
	_, errs := LoyaltyFromForm(map[string]string{
		"product_id": "3",
		"points":     "0",
	})
	if got := errs["points"]; got != "must be positive" {
		t.Fatalf("points message = %q, want must be positive", got)
	}
}

func TestProductFormFieldsPrefill(t *testing.T) {
	discount := decimal.NewFromFloat(79.99)
	record := &api.Product{
		ID:            4,
		Name:          "Gold Card",
		SKU:           "SKU-001",
		Price:         decimal.NewFromFloat(99.99),
		DiscountPrice: &discount,
		Stock:         100,
		IsActive:      false,
	}

	fields := ProductFormFields(record)
	if fields["name"] != "Gold Card" || fields["sku"] != "SKU-001" {
		t.Fatalf("fields = %v", fields)
	}
	if fields["price"] != "99.99" || fields["discount_price"] != "79.99" {
		t.Fatalf("price fields = %v", fields)
	}
	if fields["is_active"] != "false" {
		t.Fatalf("is_active = %q", fields["is_active"])
	}

	// Absent discount displays as 0.
	record.DiscountPrice = nil
	if got := ProductFormFields(record)["discount_price"]; got != "0" {
		t.Fatalf("nil discount displays as %q, want 0", got)
	}

	// Create-mode defaults.
	defaults := ProductFormFields(nil)
	if defaults["is_active"] != "true" || defaults["price"] != "0" {
		t.Fatalf("defaults = %v", defaults)
	}
}

func floatPtr(f float64) *float64 { return &f }
