package service

import (
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
)

// GetOrderByID 获取订单详情，仅买家本人、店主或管理员可见
func (s *OrderService) GetOrderByID(principal Principal, orderID uint) (*models.Order, error) {
	order, err := s.requireOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == principal.UserID || principal.IsAdmin() {
		return order, nil
	}
	if err := s.authorizeShopActor(principal, order.ShopID); err != nil {
		return nil, ErrUnauthorized
	}
	return order, nil
}

// ListOrdersByUser 买家订单列表，仅本人或管理员可查
func (s *OrderService) ListOrdersByUser(principal Principal, userID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if userID != principal.UserID && !principal.IsAdmin() {
		return nil, 0, ErrUnauthorized
	}
	filter.UserID = userID
	return s.orderRepo.ListByUser(filter)
}

// ListOrdersByShop 店铺订单列表，仅店主或管理员可查
func (s *OrderService) ListOrdersByShop(principal Principal, shopID uint, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if err := s.authorizeShopActor(principal, shopID); err != nil {
		return nil, 0, err
	}
	filter.ShopID = shopID
	return s.orderRepo.ListByShop(filter)
}

// ListOrdersAdmin 管理端订单列表
func (s *OrderService) ListOrdersAdmin(principal Principal, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if !principal.IsAdmin() {
		return nil, 0, ErrUnauthorized
	}
	return s.orderRepo.ListAdmin(filter)
}
