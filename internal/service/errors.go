package service

import "errors"

// 服务层统一错误定义，处理器按 errors.Is 映射为响应码
var (
	ErrNotFound           = errors.New("资源不存在")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidPassword    = errors.New("密码错误")
	ErrEmailExists        = errors.New("邮箱已注册")
	ErrWeakPassword       = errors.New("密码强度不足")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserBanned         = errors.New("账号已被封禁")
	ErrUnauthorized       = errors.New("无权执行该操作")

	ErrAddressNotFound = errors.New("收货地址不存在")
	ErrWardNotFound    = errors.New("街道信息不存在")

	ErrShopNotFound    = errors.New("店铺不存在")
	ErrProductNotFound = errors.New("商品不存在")

	ErrCartEmpty          = errors.New("购物车为空")
	ErrCartItemNotFound   = errors.New("购物车中不存在该商品")
	ErrProductUnavailable = errors.New("商品不可购买")
	ErrInvalidQuantity    = errors.New("购买数量无效")

	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderHasNoItems    = errors.New("订单没有商品")
	ErrOrderStatusInvalid = errors.New("订单状态不允许该操作")
	ErrCancelNotRequested = errors.New("订单没有待处理的取消申请")

	ErrOrderCreateFailed = errors.New("创建订单失败")
	ErrOrderUpdateFailed = errors.New("更新订单失败")
	ErrOrderFetchFailed  = errors.New("查询订单失败")

	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrInvalidEmail              = errors.New("邮箱格式无效")
	ErrEmailRecipientRejected    = errors.New("收件邮箱被拒收")
)
