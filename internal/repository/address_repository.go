package repository

import (
	"errors"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// AddressRepository 收货地址数据访问接口
type AddressRepository interface {
	GetByID(id uint) (*models.Address, error)
	GetDefaultByUserID(userID uint) (*models.Address, error)
	ListByUserID(userID uint) ([]models.Address, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	ClearDefault(userID uint) error
	GetWardByID(id uint) (*models.Ward, error)
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// GetByID 根据 ID 获取地址（带街道/区县）
func (r *GormAddressRepository) GetByID(id uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.Preload("Ward").Preload("Ward.District").First(&address, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// GetDefaultByUserID 获取用户默认地址（带街道/区县）
func (r *GormAddressRepository) GetDefaultByUserID(userID uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.Preload("Ward").Preload("Ward.District").
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

// ListByUserID 获取用户地址簿
func (r *GormAddressRepository) ListByUserID(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Preload("Ward").Preload("Ward.District").
		Where("user_id = ?", userID).
		Order("is_default DESC, id DESC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// Create 创建地址
func (r *GormAddressRepository) Create(address *models.Address) error {
	return r.db.Create(address).Error
}

// Update 更新地址
func (r *GormAddressRepository) Update(address *models.Address) error {
	return r.db.Save(address).Error
}

// ClearDefault 清除用户现有默认地址标记
func (r *GormAddressRepository) ClearDefault(userID uint) error {
	return r.db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

// GetWardByID 获取街道（带区县）
func (r *GormAddressRepository) GetWardByID(id uint) (*models.Ward, error) {
	var ward models.Ward
	if err := r.db.Preload("District").First(&ward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ward, nil
}
