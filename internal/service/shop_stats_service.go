package service

import (
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ShopStatsService 店铺经营统计服务
type ShopStatsService struct {
	statsRepo repository.ShopStatsRepository
	shopRepo  repository.ShopRepository
}

// NewShopStatsService 创建店铺统计服务
func NewShopStatsService(statsRepo repository.ShopStatsRepository, shopRepo repository.ShopRepository) *ShopStatsService {
	return &ShopStatsService{
		statsRepo: statsRepo,
		shopRepo:  shopRepo,
	}
}

// ShopRevenueResult 店铺营收统计结果
type ShopRevenueResult struct {
	ShopID            uint             `json:"shop_id"`
	TotalRevenue      models.Money     `json:"total_revenue"`
	TotalOrders       int64            `json:"total_orders"`
	StatusCounts      map[string]int64 `json:"status_counts"`
	AverageOrderValue models.Money     `json:"average_order_value"`
}

// GetShopRevenue 店铺营收统计，仅店主或管理员可查
// 营收只累计未取消订单；均值分母为非取消订单数，为零时均值为零
func (s *ShopStatsService) GetShopRevenue(principal Principal, shopID uint) (*ShopRevenueResult, error) {
	shop, err := s.shopRepo.GetByID(shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	if !principal.IsAdmin() && shop.OwnerID != principal.UserID {
		return nil, ErrUnauthorized
	}

	revenue, err := s.statsRepo.GetRevenue(shopID)
	if err != nil {
		return nil, err
	}
	statusRows, err := s.statsRepo.GetStatusCounts(shopID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(constants.AllOrderStatuses))
	for _, status := range constants.AllOrderStatuses {
		counts[status] = 0
	}
	for _, row := range statusRows {
		counts[row.Status] = row.Count
	}

	totalRevenue := decimal.NewFromFloat(revenue.TotalRevenue)
	average := decimal.Zero
	denominator := revenue.TotalOrders - revenue.CancelledOrders
	if denominator > 0 {
		average = totalRevenue.Div(decimal.NewFromInt(denominator))
	}

	return &ShopRevenueResult{
		ShopID:            shopID,
		TotalRevenue:      models.NewMoneyFromDecimal(totalRevenue),
		TotalOrders:       revenue.TotalOrders,
		StatusCounts:      counts,
		AverageOrderValue: models.NewMoneyFromDecimal(average),
	}, nil
}
