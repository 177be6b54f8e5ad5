package service

import (
	"errors"
	"testing"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"

	"gorm.io/gorm"
)

func TestIsTransitionAllowed(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusAwaitingPickup, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusShipped, false},
		{constants.OrderStatusPending, constants.OrderStatusDelivered, false},
		{constants.OrderStatusAwaitingPickup, constants.OrderStatusShipped, true},
		{constants.OrderStatusAwaitingPickup, constants.OrderStatusCancelled, true},
		{constants.OrderStatusAwaitingPickup, constants.OrderStatusDelivered, false},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered, true},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled, false},
		{constants.OrderStatusDelivered, constants.OrderStatusShipped, false},
		{constants.OrderStatusCancelled, constants.OrderStatusPending, false},
		{"unknown", constants.OrderStatusPending, false},
	}
	for _, c := range cases {
		if got := isTransitionAllowed(c.from, c.to); got != c.want {
			t.Fatalf("transition %s -> %s: expected %v, got %v", c.from, c.to, c.want, got)
		}
	}
}

func TestShipmentStatusFor(t *testing.T) {
	if got := shipmentStatusFor(constants.OrderStatusPending); got != constants.ShipmentStatusPreparing {
		t.Fatalf("expected preparing, got %s", got)
	}
	if got := shipmentStatusFor(constants.OrderStatusShipped); got != constants.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", got)
	}
	if got := shipmentStatusFor(constants.OrderStatusCancelled); got != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", got)
	}
}

// seedOrder 直接落一条带商品与运单的订单
func seedOrder(t *testing.T, db *gorm.DB, fixture checkoutFixture, status string) models.Order {
	t.Helper()
	order := models.Order{
		OrderNo:     generateOrderNo(),
		UserID:      fixture.Buyer.ID,
		ShopID:      fixture.ShopA.ID,
		Status:      status,
		Currency:    constants.SiteCurrencyDefault,
		ItemTotal:   models.NewMoneyFromInt(120000),
		ShippingFee: models.NewMoneyFromInt(22000),
		TotalAmount: models.NewMoneyFromInt(142000),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := models.OrderItem{
		OrderID:         order.ID,
		ProductID:       fixture.ProductA1.ID,
		ProductName:     fixture.ProductA1.Name,
		PriceAtPurchase: models.NewMoneyFromInt(120000),
		Quantity:        1,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
	shipment := models.Shipment{
		OrderID:  order.ID,
		Provider: constants.ShippingProviderGHN,
		Fee:      models.NewMoneyFromInt(22000),
		Status:   shipmentStatusFor(status),
	}
	if err := db.Create(&shipment).Error; err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}
	return order
}

func TestConfirmOrder(t *testing.T) {
	db := openCheckoutDB(t, "confirm_order")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusPending)

	svc := newCheckoutService(db, nil)
	owner := Principal{UserID: fixture.Seller.ID, Role: constants.RoleSeller}

	updated, err := svc.ConfirmOrder(owner, order.ID)
	if err != nil {
		t.Fatalf("ConfirmOrder failed: %v", err)
	}
	if updated.Status != constants.OrderStatusAwaitingPickup {
		t.Fatalf("expected awaiting_pickup, got %s", updated.Status)
	}
	if updated.Shipment == nil || updated.Shipment.Status != constants.ShipmentStatusAwaitingPickup {
		t.Fatalf("expected shipment to follow order status, got: %+v", updated.Shipment)
	}

	// 已接单的订单不能重复接单
	if _, err := svc.ConfirmOrder(owner, order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected order status invalid, got: %v", err)
	}
}

func TestConfirmOrderRejectsEmptyOrder(t *testing.T) {
	db := openCheckoutDB(t, "confirm_empty_order")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusPending)
	if err := db.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		t.Fatalf("delete order items failed: %v", err)
	}

	svc := newCheckoutService(db, nil)
	_, err := svc.ConfirmOrder(Principal{UserID: fixture.Seller.ID, Role: constants.RoleSeller}, order.ID)
	if !errors.Is(err, ErrOrderHasNoItems) {
		t.Fatalf("expected order has no items, got: %v", err)
	}
}

func TestConfirmOrderRejectsStranger(t *testing.T) {
	db := openCheckoutDB(t, "confirm_stranger")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusPending)

	svc := newCheckoutService(db, nil)
	_, err := svc.ConfirmOrder(Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser}, order.ID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got: %v", err)
	}

	// 管理员不受店主限制
	if _, err := svc.ConfirmOrder(Principal{UserID: 999, Role: constants.RoleAdmin}, order.ID); err != nil {
		t.Fatalf("expected admin to confirm, got: %v", err)
	}
}

func TestUpdateOrderStatusFollowsStateMachine(t *testing.T) {
	db := openCheckoutDB(t, "update_status")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusAwaitingPickup)

	svc := newCheckoutService(db, nil)
	owner := Principal{UserID: fixture.Seller.ID, Role: constants.RoleSeller}

	// 跳步迁移被拒绝
	if _, err := svc.UpdateOrderStatus(owner, order.ID, constants.OrderStatusDelivered); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected order status invalid, got: %v", err)
	}
	// 未定义的状态被拒绝
	if _, err := svc.UpdateOrderStatus(owner, order.ID, "paid"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected order status invalid for unknown status, got: %v", err)
	}

	updated, err := svc.UpdateOrderStatus(owner, order.ID, "SHIPPED")
	if err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", updated.Status)
	}
	if updated.Shipment == nil || updated.Shipment.Status != constants.ShipmentStatusShipped {
		t.Fatalf("expected shipment shipped, got: %+v", updated.Shipment)
	}

	updated, err = svc.UpdateOrderStatus(owner, order.ID, constants.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	if updated.Status != constants.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", updated.Status)
	}

	// 终态不可再变更
	if _, err := svc.UpdateOrderStatus(owner, order.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected terminal state to reject transition, got: %v", err)
	}
}

func TestUpdateOrderStatusCancelStampsTime(t *testing.T) {
	db := openCheckoutDB(t, "update_status_cancel")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusAwaitingPickup)

	svc := newCheckoutService(db, nil)
	updated, err := svc.UpdateOrderStatus(Principal{UserID: fixture.Seller.ID, Role: constants.RoleSeller},
		order.ID, constants.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}
	if updated.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
	if updated.CanceledAt == nil {
		t.Fatalf("expected canceled_at to be stamped")
	}
	if updated.Shipment == nil || updated.Shipment.Status != constants.ShipmentStatusCancelled {
		t.Fatalf("expected cancelled shipment, got: %+v", updated.Shipment)
	}
}

func TestRequestCancel(t *testing.T) {
	db := openCheckoutDB(t, "request_cancel")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusPending)

	svc := newCheckoutService(db, nil)

	// 只有买家本人（或管理员）可以申请
	if _, err := svc.RequestCancel(Principal{UserID: fixture.Seller.ID, Role: constants.RoleSeller}, order.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got: %v", err)
	}

	updated, err := svc.RequestCancel(Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser}, order.ID)
	if err != nil {
		t.Fatalf("RequestCancel failed: %v", err)
	}
	if !updated.CancelRequested {
		t.Fatalf("expected cancel_requested to be set")
	}
	if updated.Status != constants.OrderStatusPending {
		t.Fatalf("expected order to stay pending, got %s", updated.Status)
	}
}

func TestRequestCancelOnlyPending(t *testing.T) {
	db := openCheckoutDB(t, "request_cancel_pending")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusShipped)

	svc := newCheckoutService(db, nil)
	_, err := svc.RequestCancel(Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser}, order.ID)
	if !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected order status invalid, got: %v", err)
	}
}

func TestReplyCancelRequestAccept(t *testing.T) {
	db := openCheckoutDB(t, "reply_cancel_accept")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusPending)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("cancel_requested", true).Error; err != nil {
		t.Fatalf("mark cancel requested failed: %v", err)
	}

	svc := newCheckoutService(db, nil)
	updated, err := svc.ReplyCancelRequest(Principal{UserID: fixture.Seller.ID, Role: constants.RoleSeller}, order.ID, true)
	if err != nil {
		t.Fatalf("ReplyCancelRequest failed: %v", err)
	}
	if updated.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
	if updated.CancelRequested {
		t.Fatalf("expected cancel_requested to be cleared")
	}
	if updated.CanceledAt == nil {
		t.Fatalf("expected canceled_at to be stamped")
	}
}

func TestReplyCancelRequestReject(t *testing.T) {
	db := openCheckoutDB(t, "reply_cancel_reject")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusPending)
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("cancel_requested", true).Error; err != nil {
		t.Fatalf("mark cancel requested failed: %v", err)
	}

	svc := newCheckoutService(db, nil)
	updated, err := svc.ReplyCancelRequest(Principal{UserID: fixture.Seller.ID, Role: constants.RoleSeller}, order.ID, false)
	if err != nil {
		t.Fatalf("ReplyCancelRequest failed: %v", err)
	}
	if updated.Status != constants.OrderStatusPending {
		t.Fatalf("expected order to stay pending, got %s", updated.Status)
	}
	if updated.CancelRequested {
		t.Fatalf("expected cancel_requested to be consumed")
	}
}

func TestReplyCancelRequestWithoutRequest(t *testing.T) {
	db := openCheckoutDB(t, "reply_cancel_missing")
	fixture := seedCheckoutFixture(t, db)
	order := seedOrder(t, db, fixture, constants.OrderStatusPending)

	svc := newCheckoutService(db, nil)
	_, err := svc.ReplyCancelRequest(Principal{UserID: fixture.Seller.ID, Role: constants.RoleSeller}, order.ID, true)
	if !errors.Is(err, ErrCancelNotRequested) {
		t.Fatalf("expected cancel not requested, got: %v", err)
	}
}

func TestOrderStatusActionsOnMissingOrder(t *testing.T) {
	db := openCheckoutDB(t, "status_missing_order")
	fixture := seedCheckoutFixture(t, db)

	svc := newCheckoutService(db, nil)
	owner := Principal{UserID: fixture.Seller.ID, Role: constants.RoleSeller}
	if _, err := svc.ConfirmOrder(owner, 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(owner, 9999, constants.OrderStatusShipped); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got: %v", err)
	}
}
