package public

import (
	"strconv"
	"strings"

	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListProducts 获取在售商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var shopID uint
	if raw := strings.TrimSpace(c.Query("shop_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			shopID = uint(parsed)
		}
	}

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		ShopID:     shopID,
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, products, pagination)
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetProduct(productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "获取商品失败")
		return
	}

	response.Success(c, product)
}

// GetShopRevenue 获取店铺营收统计
func (h *Handler) GetShopRevenue(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}

	shopID, ok := parseIDParam(c, "shop_id")
	if !ok {
		return
	}

	result, err := h.ShopStatsService.GetShopRevenue(principal, shopID)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrShopNotFound, code: response.CodeNotFound, msg: service.ErrShopNotFound.Error()},
			{target: service.ErrUnauthorized, code: response.CodeForbidden, msg: service.ErrUnauthorized.Error()},
		}, response.CodeInternal, "获取店铺统计失败")
		return
	}

	response.Success(c, result)
}
