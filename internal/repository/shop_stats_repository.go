package repository

import (
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// ShopStatsRepository 店铺经营统计聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type ShopStatsRepository interface {
	GetRevenue(shopID uint) (ShopRevenueRow, error)
	GetStatusCounts(shopID uint) ([]ShopStatusCountRow, error)
}

// ShopRevenueRow 店铺营收原始统计结果
type ShopRevenueRow struct {
	TotalOrders     int64
	CancelledOrders int64
	TotalRevenue    float64
}

// ShopStatusCountRow 按状态分组的订单数
type ShopStatusCountRow struct {
	Status string
	Count  int64
}

// GormShopStatsRepository GORM 店铺统计聚合实现
type GormShopStatsRepository struct {
	db *gorm.DB
}

// NewShopStatsRepository 创建店铺统计仓库
func NewShopStatsRepository(db *gorm.DB) *GormShopStatsRepository {
	return &GormShopStatsRepository{db: db}
}

// GetRevenue 获取营收统计（营收只累计未取消订单的应付总额）
func (r *GormShopStatsRepository) GetRevenue(shopID uint) (ShopRevenueRow, error) {
	result := ShopRevenueRow{}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).Where("shop_id = ?", shopID)
	}

	if err := orderBase().Count(&result.TotalOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status = ?", constants.OrderStatusCancelled).
		Count(&result.CancelledOrders).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("status <> ?", constants.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.TotalRevenue).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetStatusCounts 按状态统计店铺订单数
func (r *GormShopStatsRepository) GetStatusCounts(shopID uint) ([]ShopStatusCountRow, error) {
	var rows []ShopStatusCountRow
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("shop_id = ?", shopID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
