package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	ShopID      uint           `gorm:"index;not null" json:"shop_id"`                      // 店铺ID
	Name        string         `gorm:"index;not null" json:"name"`                         // 商品名称
	Description string         `gorm:"default:''" json:"description"`                      // 商品描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 售价
	WeightGrams int            `gorm:"default:0" json:"weight_grams"`                      // 单件重量（克），0 视为未填写
	Stock       int            `gorm:"default:0" json:"stock"`                             // 库存数量
	Status      string         `gorm:"index;default:'active'" json:"status"`               // 商品状态 active/inactive/deleted
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Shop *Shop `gorm:"foreignKey:ShopID" json:"shop,omitempty"` // 关联店铺
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
