package admin

import (
	"strconv"
	"strings"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateShopStatusRequest 更新店铺状态请求
type UpdateShopStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAdminShopStatus 上架/封禁店铺
func (h *Handler) UpdateAdminShopStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	shopID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || shopID == 0 {
		respondError(c, response.CodeBadRequest, "店铺标识无效", nil)
		return
	}

	var req UpdateShopStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case constants.ShopStatusActive, constants.ShopStatusClosed, constants.ShopStatusDisabled:
	default:
		respondError(c, response.CodeBadRequest, "店铺状态无效", nil)
		return
	}

	shop, err := h.ShopRepo.GetByID(uint(shopID))
	if err != nil {
		respondError(c, response.CodeInternal, "获取店铺失败", err)
		return
	}
	if shop == nil {
		respondError(c, response.CodeNotFound, service.ErrShopNotFound.Error(), nil)
		return
	}

	if err := h.ShopRepo.UpdateStatus(shop.ID, status); err != nil {
		respondError(c, response.CodeInternal, "更新店铺失败", err)
		return
	}
	shop.Status = status

	requestLog(c).Infow("admin_shop_status_updated",
		"admin_id", adminID,
		"shop_id", shop.ID,
		"status", status,
	)
	response.Success(c, shop)
}

// UpdateProductStatusRequest 更新商品状态请求
type UpdateProductStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAdminProductStatus 上架/下架商品
func (h *Handler) UpdateAdminProductStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "商品标识无效", nil)
		return
	}

	var req UpdateProductStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case constants.ProductStatusActive, constants.ProductStatusInactive, constants.ProductStatusDeleted:
	default:
		respondError(c, response.CodeBadRequest, "商品状态无效", nil)
		return
	}

	product, err := h.ProductRepo.GetByID(uint(productID))
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品失败", err)
		return
	}
	if product == nil {
		respondError(c, response.CodeNotFound, service.ErrProductNotFound.Error(), nil)
		return
	}

	if err := h.ProductRepo.UpdateStatus(product.ID, status); err != nil {
		respondError(c, response.CodeInternal, "更新商品失败", err)
		return
	}
	product.Status = status

	requestLog(c).Infow("admin_product_status_updated",
		"admin_id", adminID,
		"product_id", product.ID,
		"status", status,
	)
	response.Success(c, product)
}
