package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid   = errors.New("shipping gateway config invalid")
	ErrRequestFailed   = errors.New("shipping fee request failed")
	ErrResponseInvalid = errors.New("shipping fee response invalid")
)

const feeEndpoint = "/v2/shipping-order/fee"

// GHNGateway GHN 运费网关
type GHNGateway struct {
	baseURL string
	token   string
	shopID  string
	client  *http.Client
}

// NewGHNGateway 创建 GHN 网关
func NewGHNGateway(cfg *config.ShippingConfig) (*GHNGateway, error) {
	if cfg == nil || strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &GHNGateway{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:   strings.TrimSpace(cfg.Token),
		shopID:  strings.TrimSpace(cfg.ShopID),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// CalculateFee 向承运商询价
func (g *GHNGateway) CalculateFee(ctx context.Context, req FeeRequest) (*FeeQuote, error) {
	if g == nil || g.client == nil {
		return nil, ErrConfigInvalid
	}
	if !req.Valid() {
		return nil, fmt.Errorf("%w: incomplete route", ErrRequestFailed)
	}

	params := map[string]interface{}{
		"service_type_id":  constants.ShippingServiceTypeID,
		"from_district_id": req.FromDistrictID,
		"from_ward_code":   req.FromWardCode,
		"to_district_id":   req.ToDistrictID,
		"to_ward_code":     req.ToWardCode,
		"weight":           req.WeightGrams,
		"length":           constants.ShippingParcelLengthCM,
		"width":            constants.ShippingParcelWidthCM,
		"height":           constants.ShippingParcelHeightCM,
		"insurance_value":  0,
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+feeEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Token", g.token)
	if g.shopID != "" {
		httpReq.Header.Set("ShopId", g.shopID)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var parsed struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			Total        int64 `json:"total"`
			ServiceFee   int64 `json:"service_fee"`
			InsuranceFee int64 `json:"insurance_fee"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if parsed.Code != 200 {
		return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, parsed.Message)
	}
	if parsed.Data.Total < 0 {
		return nil, fmt.Errorf("%w: negative fee", ErrResponseInvalid)
	}

	return &FeeQuote{
		Fee:           decimal.NewFromInt(parsed.Data.Total),
		EstimatedDays: constants.EstimatedDeliveryDays,
		Provider:      constants.ShippingProviderGHN,
	}, nil
}
