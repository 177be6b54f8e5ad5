package repository

import (
	"errors"
	"time"

	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// ShopRepository 店铺数据访问接口
type ShopRepository interface {
	GetByID(id uint) (*models.Shop, error)
	GetByOwnerID(ownerID uint) (*models.Shop, error)
	ListByIDs(ids []uint) ([]models.Shop, error)
	Create(shop *models.Shop) error
	Update(shop *models.Shop) error
	UpdateStatus(id uint, status string) error
}

// GormShopRepository GORM 实现
type GormShopRepository struct {
	db *gorm.DB
}

// NewShopRepository 创建店铺仓库
func NewShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// GetByID 根据 ID 获取店铺（带发货街道）
func (r *GormShopRepository) GetByID(id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.Preload("Ward").Preload("Ward.District").First(&shop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

// GetByOwnerID 根据店主获取店铺
func (r *GormShopRepository) GetByOwnerID(ownerID uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

// ListByIDs 批量获取店铺（带发货街道）
func (r *GormShopRepository) ListByIDs(ids []uint) ([]models.Shop, error) {
	if len(ids) == 0 {
		return []models.Shop{}, nil
	}
	var shops []models.Shop
	if err := r.db.Preload("Ward").Preload("Ward.District").Where("id IN ?", ids).Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// Create 创建店铺
func (r *GormShopRepository) Create(shop *models.Shop) error {
	return r.db.Create(shop).Error
}

// Update 更新店铺
func (r *GormShopRepository) Update(shop *models.Shop) error {
	return r.db.Save(shop).Error
}

// UpdateStatus 更新店铺状态
func (r *GormShopRepository) UpdateStatus(id uint, status string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	return r.db.Model(&models.Shop{}).Where("id = ?", id).Updates(updates).Error
}
