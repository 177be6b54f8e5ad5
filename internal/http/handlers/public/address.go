package public

import (
	"github.com/bazaar-next/internal/http/response"
	"github.com/bazaar-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 收货地址请求
type AddressRequest struct {
	RecipientName string `json:"recipient_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Detail        string `json:"detail" binding:"required"`
	WardID        uint   `json:"ward_id" binding:"required"`
	IsDefault     bool   `json:"is_default"`
}

// ListAddresses 获取收货地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	addresses, err := h.AddressService.ListAddresses(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "获取地址失败", err)
		return
	}

	response.Success(c, gin.H{"addresses": addresses})
}

// CreateAddress 新增收货地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	address, err := h.AddressService.CreateAddress(uid, service.CreateAddressInput{
		RecipientName: req.RecipientName,
		Phone:         req.Phone,
		Detail:        req.Detail,
		WardID:        req.WardID,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "保存地址失败")
		return
	}

	response.Success(c, address)
}

// SetDefaultAddress 设置默认收货地址
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	address, err := h.AddressService.SetDefaultAddress(uid, addressID)
	if err != nil {
		respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "保存地址失败")
		return
	}

	response.Success(c, address)
}
