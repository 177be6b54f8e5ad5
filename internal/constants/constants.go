package constants

// 订单状态常量
const (
	OrderStatusPending        = "pending"
	OrderStatusAwaitingPickup = "awaiting_pickup"
	OrderStatusShipped        = "shipped"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// AllOrderStatuses 订单状态全集（统计聚合按此顺序补零）
var AllOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusAwaitingPickup,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// 运单状态常量
// 与订单状态共用同一枚举，仅 pending 阶段映射为 preparing
const (
	ShipmentStatusPreparing      = "preparing"
	ShipmentStatusAwaitingPickup = OrderStatusAwaitingPickup
	ShipmentStatusShipped        = OrderStatusShipped
	ShipmentStatusDelivered      = OrderStatusDelivered
	ShipmentStatusCancelled      = OrderStatusCancelled
)

// 用户角色常量
const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// 用户状态常量
const (
	UserStatusActive  = "active"
	UserStatusBanned  = "banned"
	UserStatusDeleted = "deleted"
)

// 店铺状态常量
const (
	ShopStatusActive   = "active"
	ShopStatusClosed   = "closed"
	ShopStatusDisabled = "disabled"
)

// 商品状态常量
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusDeleted  = "deleted"
)

// 运费与包裹默认值常量
const (
	DefaultItemWeightGrams   = 200
	ShippingParcelLengthCM   = 20
	ShippingParcelWidthCM    = 15
	ShippingParcelHeightCM   = 10
	ShippingServiceTypeID    = 2
	ShippingProviderGHN      = "GHN Express"
	ShippingProviderFallback = "GHN (Fallback)"
	EstimatedDeliveryDays    = 3
)

// 队列常量
const (
	QueueDefault         = "default"
	TaskOrderStatusEmail = "order:status_email"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "bz"
)

// 币种常量
const (
	SiteCurrencyDefault = "VND"
)
