package validate

import (
	"strconv"
	"strings"

	"github.com/matthieukhl/loyaltyctl/internal/api"
	"github.com/spf13/cast"
)

// Product checks a product payload against the schema: name and SKU
// required, price and stock non-negative, discount price non-negative when
// present. A discount above the price is deliberately allowed.
func Product(input api.ProductInput) FieldErrors {
	return check(input)
}

func Loyalty(input api.LoyaltyInput) FieldErrors {
	errs := check(input)
	if _, ok := errs["product_id"]; ok {
		errs["product_id"] = "is required"
	}
	return errs
}

func Customer(input api.CustomerInput) FieldErrors {
	return check(input)
}

func Setting(input api.SettingInput) FieldErrors {
	return check(input)
}

// ProductFromForm coerces raw form fields into a product payload. Numeric
// fields follow form semantics: empty means zero, garbage is a field error.
func ProductFromForm(fields map[string]string) (api.ProductInput, FieldErrors) {
	errs := FieldErrors{}
	input := api.ProductInput{
		Name:     strings.TrimSpace(fields["name"]),
		SKU:      strings.TrimSpace(fields["sku"]),
		IsActive: true,
	}

	input.Price = toFloat(fields["price"], "price", errs)
	input.Stock = toInt(fields["stock"], "stock", errs)
	if raw := strings.TrimSpace(fields["discount_price"]); raw != "" {
		d := toFloat(raw, "discount_price", errs)
		input.DiscountPrice = &d
	}
	if raw := strings.TrimSpace(fields["is_active"]); raw != "" {
		active, err := cast.ToBoolE(raw)
		if err != nil {
			errs["is_active"] = "must be true or false"
		} else {
			input.IsActive = active
		}
	}

	if len(errs) > 0 {
		return input, errs
	}
	return input, Product(input)
}

func LoyaltyFromForm(fields map[string]string) (api.LoyaltyInput, FieldErrors) {
	errs := FieldErrors{}
	input := api.LoyaltyInput{IsActive: true}

	input.ProductID = int64(toInt(fields["product_id"], "product_id", errs))
	input.Points = toInt(fields["points"], "points", errs)
	if raw := strings.TrimSpace(fields["is_active"]); raw != "" {
		active, err := cast.ToBoolE(raw)
		if err != nil {
			errs["is_active"] = "must be true or false"
		} else {
			input.IsActive = active
		}
	}

	if len(errs) > 0 {
		return input, errs
	}
	return input, Loyalty(input)
}

func CustomerFromForm(fields map[string]string) (api.CustomerInput, FieldErrors) {
	input := api.CustomerInput{
		Name:  strings.TrimSpace(fields["name"]),
		Phone: strings.TrimSpace(fields["phone"]),
		Email: strings.TrimSpace(fields["email"]),
	}
	return input, Customer(input)
}

func SettingFromForm(fields map[string]string) (api.SettingInput, FieldErrors) {
	input := api.SettingInput{
		Value:       strings.TrimSpace(fields["value"]),
		Type:        strings.TrimSpace(fields["type"]),
		Description: strings.TrimSpace(fields["description"]),
	}
	return input, Setting(input)
}

// ProductFormFields pre-fills form fields from an existing record, or
// returns the create-mode defaults when record is nil. An absent discount
// price displays as 0.
func ProductFormFields(record *api.Product) map[string]string {
	if record == nil {
		return map[string]string{
			"name":           "",
			"sku":            "",
			"price":          "0",
			"discount_price": "0",
			"stock":          "0",
			"is_active":      "true",
		}
	}
	discount := "0"
	if record.DiscountPrice != nil {
		discount = record.DiscountPrice.String()
	}
	return map[string]string{
		"name":           record.Name,
		"sku":            record.SKU,
		"price":          record.Price.String(),
		"discount_price": discount,
		"stock":          strconv.Itoa(record.Stock),
		"is_active":      strconv.FormatBool(record.IsActive),
	}
}

func LoyaltyFormFields(record *api.Loyalty) map[string]string {
	if record == nil {
		return map[string]string{
			"product_id": "",
			"points":     "",
			"is_active":  "true",
		}
	}
	return map[string]string{
		"product_id": strconv.FormatInt(record.ProductID, 10),
		"points":     strconv.Itoa(record.Points),
		"is_active":  strconv.FormatBool(record.IsActive),
	}
}

func CustomerFormFields(record *api.Customer) map[string]string {
	if record == nil {
		return map[string]string{
			"name":  "",
			"phone": "",
			"email": "",
		}
	}
	email := ""
	if record.Email != nil {
		email = *record.Email
	}
	return map[string]string{
		"name":  record.Name,
		"phone": record.Phone,
		"email": email,
	}
}

func toFloat(raw, field string, errs FieldErrors) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	val, err := cast.ToFloat64E(raw)
	if err != nil {
		errs[field] = "must be a number"
		return 0
	}
	return val
}

func toInt(raw, field string, errs FieldErrors) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	val, err := cast.ToIntE(raw)
	if err != nil {
		errs[field] = "must be an integer"
		return 0
	}
	return val
}
