package service

import (
	"strings"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

// allowedTransitions 订单状态机
// pending → awaiting_pickup → shipped → delivered
// pending 与 awaiting_pickup 可取消，终态不可再变更
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusAwaitingPickup: true,
		constants.OrderStatusCancelled:      true,
	},
	constants.OrderStatusAwaitingPickup: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusDelivered: {},
	constants.OrderStatusCancelled: {},
}

// isTransitionAllowed 判断状态迁移是否合法
func isTransitionAllowed(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// isKnownOrderStatus 判断是否已定义的订单状态
func isKnownOrderStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// shipmentStatusFor 运单状态随订单状态联动
// 订单 pending 阶段运单为 preparing，其余阶段取值一致
func shipmentStatusFor(orderStatus string) string {
	if orderStatus == constants.OrderStatusPending {
		return constants.ShipmentStatusPreparing
	}
	return orderStatus
}

// ConfirmOrder 店铺接单：PENDING 且有商品的订单进入待揽收
func (s *OrderService) ConfirmOrder(principal Principal, orderID uint) (*models.Order, error) {
	order, err := s.requireOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeShopActor(principal, order.ShopID); err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderStatusInvalid
	}
	if len(order.Items) == 0 {
		return nil, ErrOrderHasNoItems
	}

	if err := s.applyStatus(order, constants.OrderStatusAwaitingPickup, nil); err != nil {
		return nil, err
	}
	logger.Infow("order_confirmed", "order_id", order.ID, "order_no", order.OrderNo, "operator", principal.UserID)
	return s.orderRepo.GetByID(order.ID)
}

// UpdateOrderStatus 店铺/管理员推进订单状态，迁移必须符合状态机
func (s *OrderService) UpdateOrderStatus(principal Principal, orderID uint, status string) (*models.Order, error) {
	target := strings.ToLower(strings.TrimSpace(status))
	if !isKnownOrderStatus(target) {
		return nil, ErrOrderStatusInvalid
	}

	order, err := s.requireOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeShopActor(principal, order.ShopID); err != nil {
		return nil, err
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	var updates map[string]interface{}
	if target == constants.OrderStatusCancelled {
		now := time.Now()
		updates = map[string]interface{}{
			"canceled_at":      &now,
			"cancel_requested": false,
		}
	}
	if err := s.applyStatus(order, target, updates); err != nil {
		return nil, err
	}
	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", target,
		"operator", principal.UserID,
	)
	return s.orderRepo.GetByID(order.ID)
}

// RequestCancel 买家申请取消，仅允许 PENDING 订单
func (s *OrderService) RequestCancel(principal Principal, orderID uint) (*models.Order, error) {
	order, err := s.requireOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != principal.UserID && !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderStatusInvalid
	}

	if err := s.orderRepo.UpdateStatus(order.ID, order.Status, map[string]interface{}{
		"cancel_requested": true,
	}); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	logger.Infow("order_cancel_requested", "order_id", order.ID, "order_no", order.OrderNo, "user_id", principal.UserID)
	return s.orderRepo.GetByID(order.ID)
}

// ReplyCancelRequest 店铺处理取消申请
// 同意则订单取消，拒绝则仅清除申请标记，两种结果都会消费掉申请
func (s *OrderService) ReplyCancelRequest(principal Principal, orderID uint, accept bool) (*models.Order, error) {
	order, err := s.requireOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeShopActor(principal, order.ShopID); err != nil {
		return nil, err
	}
	if !order.CancelRequested {
		return nil, ErrCancelNotRequested
	}

	if accept {
		now := time.Now()
		if err := s.applyStatus(order, constants.OrderStatusCancelled, map[string]interface{}{
			"canceled_at":      &now,
			"cancel_requested": false,
		}); err != nil {
			return nil, err
		}
	} else {
		if err := s.orderRepo.UpdateStatus(order.ID, order.Status, map[string]interface{}{
			"cancel_requested": false,
		}); err != nil {
			return nil, ErrOrderUpdateFailed
		}
	}
	logger.Infow("order_cancel_replied",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"accept", accept,
		"operator", principal.UserID,
	)
	return s.orderRepo.GetByID(order.ID)
}

// applyStatus 在事务中同步更新订单与运单状态，并异步通知买家
func (s *OrderService) applyStatus(order *models.Order, target string, updates map[string]interface{}) error {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
			return err
		}
		return orderRepo.UpdateShipmentStatus(order.ID, shipmentStatusFor(target))
	})
	if err != nil {
		logger.Errorw("order_status_apply_failed", "order_id", order.ID, "target", target, "error", err)
		return ErrOrderUpdateFailed
	}

	if s.queueClient != nil && s.queueClient.Enabled() {
		s.notifyOrderStatus([]models.Order{{ID: order.ID, Status: target}})
	}
	return nil
}

func (s *OrderService) requireOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// authorizeShopActor 仅店主本人或管理员可操作店铺侧动作
func (s *OrderService) authorizeShopActor(principal Principal, shopID uint) error {
	if principal.IsAdmin() {
		return nil
	}
	shop, err := s.shopRepo.GetByID(shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return ErrShopNotFound
	}
	if shop.OwnerID != principal.UserID {
		return ErrUnauthorized
	}
	return nil
}
