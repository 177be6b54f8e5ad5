package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// FeeRequest 运费询价请求
type FeeRequest struct {
	FromDistrictID int    `json:"from_district_id"` // 发货区县编码
	FromWardCode   string `json:"from_ward_code"`   // 发货街道编码
	ToDistrictID   int    `json:"to_district_id"`   // 收货区县编码
	ToWardCode     string `json:"to_ward_code"`     // 收货街道编码
	WeightGrams    int    `json:"weight_grams"`     // 包裹总重量（克）
}

// Valid 判断询价路由是否完整
func (r FeeRequest) Valid() bool {
	return r.FromDistrictID > 0 && r.ToDistrictID > 0 && r.ToWardCode != "" && r.WeightGrams > 0
}

// FeeQuote 运费报价
type FeeQuote struct {
	Fee           decimal.Decimal `json:"fee"`            // 运费金额
	EstimatedDays int             `json:"estimated_days"` // 预计时效（天）
	Provider      string          `json:"provider"`       // 报价来源标识
}

// Gateway 运费网关接口
type Gateway interface {
	CalculateFee(ctx context.Context, req FeeRequest) (*FeeQuote, error)
}
