package service

import (
	"strings"

	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// CreateAddressInput 创建地址输入
type CreateAddressInput struct {
	RecipientName string
	Phone         string
	Detail        string
	WardID        uint
	IsDefault     bool
}

// ListAddresses 获取用户地址簿
func (s *AddressService) ListAddresses(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUserID(userID)
}

// CreateAddress 创建地址（首个地址自动设为默认）
func (s *AddressService) CreateAddress(userID uint, input CreateAddressInput) (*models.Address, error) {
	ward, err := s.addressRepo.GetWardByID(input.WardID)
	if err != nil {
		return nil, err
	}
	if ward == nil {
		return nil, ErrWardNotFound
	}

	existing, err := s.addressRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	isDefault := input.IsDefault || len(existing) == 0
	if isDefault {
		if err := s.addressRepo.ClearDefault(userID); err != nil {
			return nil, err
		}
	}

	address := &models.Address{
		UserID:        userID,
		RecipientName: strings.TrimSpace(input.RecipientName),
		Phone:         strings.TrimSpace(input.Phone),
		Detail:        strings.TrimSpace(input.Detail),
		WardID:        input.WardID,
		IsDefault:     isDefault,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}
	return s.addressRepo.GetByID(address.ID)
}

// SetDefaultAddress 设置默认地址
func (s *AddressService) SetDefaultAddress(userID, addressID uint) (*models.Address, error) {
	address, err := s.addressRepo.GetByID(addressID)
	if err != nil {
		return nil, err
	}
	if address == nil || address.UserID != userID {
		return nil, ErrAddressNotFound
	}
	if err := s.addressRepo.ClearDefault(userID); err != nil {
		return nil, err
	}
	address.IsDefault = true
	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}
