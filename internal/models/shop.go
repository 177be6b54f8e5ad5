package models

import (
	"time"

	"gorm.io/gorm"
)

// Shop 店铺表
type Shop struct {
	ID          uint           `gorm:"primarykey" json:"id"`             // 主键
	OwnerID     uint           `gorm:"index;not null" json:"owner_id"`   // 店主用户ID
	Name        string         `gorm:"uniqueIndex;not null" json:"name"` // 店铺名称
	Description string         `gorm:"default:''" json:"description"`    // 店铺简介
	Status      string         `gorm:"default:'active'" json:"status"`   // 店铺状态 active/closed/disabled
	WardID      uint           `gorm:"index" json:"ward_id"`             // 发货街道ID（运费起点）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`          // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`          // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                   // 软删除时间

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"` // 关联店主
	Ward  *Ward `gorm:"foreignKey:WardID" json:"ward,omitempty"`   // 关联发货街道
}

// TableName 指定表名
func (Shop) TableName() string {
	return "shops"
}
