package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/matthieukhl/loyaltyctl/internal/config"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(&config.APIConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
		PerPage: 15,
	}, staticToken(token))
	return client, srv
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, "tok-123", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: 1})
	})

	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	var hadHeader bool
	client, _ := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadHeader = r.Header["Authorization"]
		json.NewEncoder(w).Encode(User{ID: 1})
	})

	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if hadHeader {
		t.Fatalf("Authorization header sent without a token: %q", gotAuth)
	}
}

func TestListProductsQueryEncoding(t *testing.T) {
	tests := []struct {
		name   string
		params ProductListParams
		want   url.Values
	}{
		{
			name:   "all unset still transmits the configured page size",
			params: ProductListParams{},
			want:   url.Values{"per_page": {"15"}},
		},
		{
			name:   "explicit false is still transmitted",
			params: ProductListParams{IsActive: boolPtr(false)},
			want:   url.Values{"is_active": {"false"}, "per_page": {"15"}},
		},
		{
			name:   "full filter set overrides the default page size",
			params: ProductListParams{Page: 2, Search: "card", IsActive: boolPtr(true), PerPage: 25},
			want: url.Values{
				"page":      {"2"},
				"search":    {"card"},
				"is_active": {"true"},
				"per_page":  {"25"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got url.Values
			client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query()
				json.NewEncoder(w).Encode(Page[Product]{CurrentPage: 1, LastPage: 1})
			})
			if _, err := client.ListProducts(context.Background(), tt.params); err != nil {
				t.Fatalf("ListProducts: %v", err)
			}
			if got.Encode() != tt.want.Encode() {
				t.Errorf("query = %q, want %q", got.Encode(), tt.want.Encode())
			}
		})
	}
}

func TestLoyaltyProductFilterTransmitted(t *testing.T) {
	var got url.Values
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode(Page[Loyalty]{CurrentPage: 1, LastPage: 1})
	})

	_, err := client.ListLoyalties(context.Background(), LoyaltyListParams{ProductID: 42})
	if err != nil {
		t.Fatalf("ListLoyalties: %v", err)
	}
	if got.Get("product_id") != "42" {
		t.Fatalf("product_id = %q, want 42", got.Get("product_id"))
	}
	if got.Get("per_page") != "15" {
		t.Fatalf("per_page = %q, want the configured default 15", got.Get("per_page"))
	}
}

func TestServerErrorSurfacesUnchanged(t *testing.T) {
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListProducts(context.Background(), ProductListParams{})
	if err == nil {
		t.Fatal("want error")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("err type %T, want *Error", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Body != "boom" {
		t.Fatalf("got %+v", apiErr)
	}
	if IsUnauthorized(err) {
		t.Fatal("500 misclassified as unauthorized")
	}
}

func TestUnauthorizedDetection(t *testing.T) {
	client, _ := newTestClient(t, "stale", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
	})

	_, err := client.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized = false for %v", err)
	}
}

func TestInvalidIDFailsBeforeRequest(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	ctx := context.Background()
	if _, err := client.UpdateProduct(ctx, 0, ProductInput{}); err == nil {
		t.Fatal("UpdateProduct accepted id 0")
	}
	if err := client.DeleteProduct(ctx, -3); err == nil {
		t.Fatal("DeleteProduct accepted negative id")
	}
	if _, err := client.GetCustomer(ctx, 0); err == nil {
		t.Fatal("GetCustomer accepted id 0")
	}
	if _, err := client.ListUserOrderLogs(ctx, 0, OrderLogListParams{}); err == nil {
		t.Fatal("ListUserOrderLogs accepted user id 0")
	}
	if calls != 0 {
		t.Fatalf("backend saw %d requests, want 0", calls)
	}
}

func TestGetCustomerUnwrapsEnvelope(t *testing.T) {
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/customers/9" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"customer": map[string]any{
				"id":                    9,
				"name":                  "Ravi",
				"phone":                 "9876543210",
				"total_earned_points":   120,
				"total_referral_points": 30,
				"total_used_points":     50,
			},
		})
	})

	customer, err := client.GetCustomer(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetCustomer: %v", err)
	}
	if customer.Name != "Ravi" {
		t.Fatalf("name = %q", customer.Name)
	}
	if got := customer.AvailablePoints(); got != 100 {
		t.Fatalf("AvailablePoints = %d, want 100", got)
	}
}

func TestUpdateSettingDefaultsTypeString(t *testing.T) {
	var body map[string]string
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/admin/settings/key/referral_points" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(Setting{Key: "referral_points", Value: body["value"]})
	})

	setting, err := client.UpdateSettingByKey(context.Background(), "referral_points", SettingInput{Value: "25"})
	if err != nil {
		t.Fatalf("UpdateSettingByKey: %v", err)
	}
	if body["type"] != "string" {
		t.Fatalf("type = %q, want string default", body["type"])
	}
	if setting.Value != "25" {
		t.Fatalf("value = %q", setting.Value)
	}
}

func TestUpsertCustomerByPhoneReturnsExisting(t *testing.T) {
	// The backend dedups on phone; posting an existing phone must come back
	// as that customer's record, not a new id.
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		var input CustomerInput
		json.NewDecoder(r.Body).Decode(&input)
		json.NewEncoder(w).Encode(Customer{ID: 9, Name: input.Name, Phone: input.Phone})
	})

	customer, err := client.CreateCustomer(context.Background(), CustomerInput{
		Name:  "Ravi Kumar",
		Phone: "9876543210",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if customer.ID != 9 {
		t.Fatalf("id = %d, want the existing customer's id 9", customer.ID)
	}
}

func boolPtr(b bool) *bool { return &b }
