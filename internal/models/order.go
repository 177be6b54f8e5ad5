package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
// 一次结算按店铺拆分为多个订单，每个订单只含同一店铺的商品
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                       // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                       // 订单编号
	UserID          uint           `gorm:"index;not null" json:"user_id"`                              // 买家用户ID
	ShopID          uint           `gorm:"index;not null" json:"shop_id"`                              // 店铺ID
	Status          string         `gorm:"index;not null" json:"status"`                               // 订单状态
	Currency        string         `gorm:"not null" json:"currency"`                                   // 币种
	ItemTotal       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"item_total"`    // 商品小计（按下单时快照价）
	ShippingFee     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`  // 运费
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`  // 应付总额 = 商品小计 + 运费
	CancelRequested bool           `gorm:"index;default:false" json:"cancel_requested"`                // 买家是否已申请取消
	AddressID       uint           `gorm:"index" json:"address_id"`                                    // 收货地址ID
	CanceledAt      *time.Time     `gorm:"index" json:"canceled_at"`                                   // 取消时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`    // 订单项
	Shipment *Shipment   `gorm:"foreignKey:OrderID" json:"shipment,omitempty"` // 运单
	Shop     *Shop       `gorm:"foreignKey:ShopID" json:"shop,omitempty"`      // 关联店铺
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                           // 主键
	OrderID         uint           `gorm:"index;not null" json:"order_id"`                                 // 订单ID
	ProductID       uint           `gorm:"index;not null" json:"product_id"`                               // 商品ID
	ProductName     string         `gorm:"not null" json:"product_name"`                                   // 商品名称快照
	PriceAtPurchase Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_at_purchase"` // 下单时单价快照
	Quantity        int            `gorm:"not null" json:"quantity"`                                       // 数量
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal 订单项小计（快照价 × 数量）
func (i OrderItem) Subtotal() Money {
	return NewMoneyFromDecimal(i.PriceAtPurchase.Mul(NewMoneyFromInt(int64(i.Quantity)).Decimal))
}
