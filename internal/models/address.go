package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 收货地址表
type Address struct {
	ID            uint           `gorm:"primarykey" json:"id"`                     // 主键
	UserID        uint           `gorm:"index;not null" json:"user_id"`            // 用户ID
	RecipientName string         `gorm:"not null" json:"recipient_name"`           // 收件人
	Phone         string         `gorm:"type:varchar(20);not null" json:"phone"`   // 联系电话
	Detail        string         `gorm:"not null" json:"detail"`                   // 详细地址
	WardID        uint           `gorm:"index;not null" json:"ward_id"`            // 街道ID
	IsDefault     bool           `gorm:"index;default:false" json:"is_default"`    // 是否默认地址
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                  // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                           // 软删除时间

	Ward *Ward `gorm:"foreignKey:WardID" json:"ward,omitempty"` // 关联街道
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
