package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"

	"github.com/shopspring/decimal"
)

func validFeeRequest() FeeRequest {
	return FeeRequest{
		FromDistrictID: 1442,
		FromWardCode:   "10100",
		ToDistrictID:   1449,
		ToWardCode:     "20308",
		WeightGrams:    1200,
	}
}

func TestFeeRequestValid(t *testing.T) {
	if !validFeeRequest().Valid() {
		t.Fatalf("expected valid request")
	}
	req := validFeeRequest()
	req.ToDistrictID = 0
	if req.Valid() {
		t.Fatalf("expected invalid request without destination district")
	}
	req = validFeeRequest()
	req.WeightGrams = 0
	if req.Valid() {
		t.Fatalf("expected invalid request without weight")
	}
}

func TestNewGHNGatewayRequiresBaseURL(t *testing.T) {
	if _, err := NewGHNGateway(nil); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got: %v", err)
	}
	if _, err := NewGHNGateway(&config.ShippingConfig{BaseURL: "  "}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got: %v", err)
	}
}

func TestCalculateFee(t *testing.T) {
	var gotPath string
	var gotToken string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("Token")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"message":"Success","data":{"total":31000,"service_fee":29000,"insurance_fee":2000}}`))
	}))
	defer server.Close()

	gateway, err := NewGHNGateway(&config.ShippingConfig{
		BaseURL: server.URL,
		Token:   "test-token",
		ShopID:  "12345",
	})
	if err != nil {
		t.Fatalf("NewGHNGateway failed: %v", err)
	}

	quote, err := gateway.CalculateFee(context.Background(), validFeeRequest())
	if err != nil {
		t.Fatalf("CalculateFee failed: %v", err)
	}
	if !quote.Fee.Equal(decimal.NewFromInt(31000)) {
		t.Fatalf("expected fee 31000, got %s", quote.Fee.String())
	}
	if quote.EstimatedDays != constants.EstimatedDeliveryDays {
		t.Fatalf("expected %d days, got %d", constants.EstimatedDeliveryDays, quote.EstimatedDays)
	}
	if quote.Provider != constants.ShippingProviderGHN {
		t.Fatalf("expected GHN provider, got %s", quote.Provider)
	}

	if gotPath != feeEndpoint {
		t.Fatalf("expected path %s, got %s", feeEndpoint, gotPath)
	}
	if gotToken != "test-token" {
		t.Fatalf("expected token header, got %s", gotToken)
	}
	if gotBody["weight"] != float64(1200) {
		t.Fatalf("expected weight 1200, got %v", gotBody["weight"])
	}
	if gotBody["to_ward_code"] != "20308" {
		t.Fatalf("expected to_ward_code 20308, got %v", gotBody["to_ward_code"])
	}
}

func TestCalculateFeeRejectsBusinessError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":400,"message":"route not supported","data":{}}`))
	}))
	defer server.Close()

	gateway, err := NewGHNGateway(&config.ShippingConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGHNGateway failed: %v", err)
	}
	if _, err := gateway.CalculateFee(context.Background(), validFeeRequest()); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected response invalid, got: %v", err)
	}
}

func TestCalculateFeeRejectsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway, err := NewGHNGateway(&config.ShippingConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGHNGateway failed: %v", err)
	}
	if _, err := gateway.CalculateFee(context.Background(), validFeeRequest()); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected request failed, got: %v", err)
	}
}

func TestCalculateFeeRejectsIncompleteRoute(t *testing.T) {
	gateway, err := NewGHNGateway(&config.ShippingConfig{BaseURL: "http://ghn.local"})
	if err != nil {
		t.Fatalf("NewGHNGateway failed: %v", err)
	}
	req := validFeeRequest()
	req.ToWardCode = ""
	if _, err := gateway.CalculateFee(context.Background(), req); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected request failed, got: %v", err)
	}
}

func TestQuoteCacheKey(t *testing.T) {
	key := quoteCacheKey(validFeeRequest())
	if key != "shipping:fee:1442:10100:1449:20308:1200" {
		t.Fatalf("unexpected cache key: %s", key)
	}
}
