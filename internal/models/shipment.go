package models

import (
	"time"

	"gorm.io/gorm"
)

// Shipment 运单表（每个订单一条）
type Shipment struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID               uint           `gorm:"uniqueIndex;not null" json:"order_id"`                      // 订单ID
	Provider              string         `gorm:"not null" json:"provider"`                                  // 承运商标识
	Fee                   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"fee"`          // 运费
	Status                string         `gorm:"index;not null" json:"status"`                              // 运单状态（与订单状态共用映射）
	EstimatedDeliveryDate time.Time      `gorm:"index" json:"estimated_delivery_date"`                      // 预计送达日期
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt             time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (Shipment) TableName() string {
	return "shipments"
}
