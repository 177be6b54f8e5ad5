package public

import (
	"strconv"
	"strings"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// CheckoutSelectedRequest 购物车选中结算请求
type CheckoutSelectedRequest struct {
	ProductIDs []uint `json:"product_ids" binding:"required"`
}

// CheckoutSelected 从购物车选中商品结算下单
func (h *Handler) CheckoutSelected(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	var req CheckoutSelectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	orders, err := h.OrderService.CheckoutSelected(c.Request.Context(), principal, req.ProductIDs)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(actorErrorRules, checkoutErrorRules), response.CodeInternal, "下单失败")
		return
	}

	response.Success(c, gin.H{"orders": orders})
}

// CheckoutBuyNowRequest 立即购买请求
type CheckoutBuyNowRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CheckoutBuyNow 跳过购物车直接购买下单
func (h *Handler) CheckoutBuyNow(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	var req CheckoutBuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.CheckoutBuyNow(c.Request.Context(), principal, req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(actorErrorRules, checkoutErrorRules), response.CodeInternal, "下单失败")
		return
	}

	response.Success(c, order)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrderByID(principal, orderID)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(actorErrorRules, orderLookupErrorRules), response.CodeInternal, "获取订单失败")
		return
	}

	response.Success(c, order)
}

// ListUserOrders 获取用户订单列表
func (h *Handler) ListUserOrders(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	filter := buildOrderListFilter(c)
	orders, total, err := h.OrderService.ListOrdersByUser(principal, userID, filter)
	if err != nil {
		respondWithMappedError(c, err, actorErrorRules, response.CodeInternal, "获取订单失败")
		return
	}

	pagination := response.BuildPagination(filter.Page, filter.PageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// ListShopOrders 获取店铺订单列表
func (h *Handler) ListShopOrders(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	shopID, ok := parseIDParam(c, "shop_id")
	if !ok {
		return
	}

	filter := buildOrderListFilter(c)
	orders, total, err := h.OrderService.ListOrdersByShop(principal, shopID, filter)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(actorErrorRules, orderLookupErrorRules), response.CodeInternal, "获取订单失败")
		return
	}

	pagination := response.BuildPagination(filter.Page, filter.PageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 更新订单状态（按状态机校验流转）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(principal, orderID, req.Status)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(actorErrorRules, orderLookupErrorRules, orderStatusErrorRules), response.CodeInternal, "更新订单失败")
		return
	}

	response.Success(c, order)
}

// ConfirmOrder 卖家确认接单
func (h *Handler) ConfirmOrder(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.ConfirmOrder(principal, orderID)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(actorErrorRules, orderLookupErrorRules, orderStatusErrorRules), response.CodeInternal, "更新订单失败")
		return
	}

	response.Success(c, order)
}

// RequestCancelOrder 买家申请取消订单
func (h *Handler) RequestCancelOrder(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.RequestCancel(principal, orderID)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(actorErrorRules, orderLookupErrorRules, orderStatusErrorRules), response.CodeInternal, "更新订单失败")
		return
	}

	response.Success(c, order)
}

// ReplyCancelRequest 卖家处理取消申请
type ReplyCancelRequestBody struct {
	Accept bool `json:"accept"`
}

// ReplyCancelOrder 卖家同意或拒绝取消申请
func (h *Handler) ReplyCancelOrder(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReplyCancelRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.ReplyCancelRequest(principal, orderID, req.Accept)
	if err != nil {
		respondWithMappedError(c, err, concatMappedHandlerErrors(actorErrorRules, orderLookupErrorRules, orderStatusErrorRules), response.CodeInternal, "更新订单失败")
		return
	}

	response.Success(c, order)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "路径参数无效", nil)
		return 0, false
	}
	return uint(id), true
}

func buildOrderListFilter(c *gin.Context) repository.OrderListFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	return repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	}
}
