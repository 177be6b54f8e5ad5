package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/provider"
	"github.com/bazaar-next/internal/queue"
	"github.com/bazaar-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.EmailService == nil || c.OrderRepo == nil || c.UserRepo == nil {
		logger.Warnw("worker_order_status_email_skip_deps_nil", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	buyer, err := c.UserRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	if buyer == nil || buyer.Email == "" {
		logger.Debugw("worker_order_status_email_skip_no_receiver", "order_id", order.ID)
		return nil
	}

	status := payload.Status
	if status == "" {
		status = order.Status
	}

	if err := c.EmailService.SendOrderStatusEmail(buyer.Email, buildOrderStatusEmailInput(order, status)); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			logger.Debugw("worker_order_status_email_skip_disabled", "order_id", order.ID)
			return nil
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrEmailRecipientRejected):
			logger.Debugw("worker_order_status_email_skip_bad_receiver", "order_id", order.ID)
			return nil
		default:
			logger.Warnw("worker_order_status_email_send_failed", "order_id", order.ID, "error", err)
			return err
		}
	}

	logger.Infow("worker_order_status_email_sent", "order_id", order.ID, "status", status)
	return nil
}

func buildOrderStatusEmailInput(order *models.Order, status string) service.OrderStatusEmailInput {
	if order == nil {
		return service.OrderStatusEmailInput{Status: status}
	}
	return service.OrderStatusEmailInput{
		OrderNo:  order.OrderNo,
		Status:   status,
		Amount:   order.TotalAmount,
		Currency: order.Currency,
	}
}
