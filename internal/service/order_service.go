package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/queue"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/shipping"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
// 负责结算编排：校验买家、按店铺拆单、询价、快照落库
type OrderService struct {
	cfg         *config.Config
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	shopRepo    repository.ShopRepository
	addressRepo repository.AddressRepository
	feeGateway  shipping.Gateway
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	shopRepo repository.ShopRepository,
	addressRepo repository.AddressRepository,
	feeGateway shipping.Gateway,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		cfg:         cfg,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		shopRepo:    shopRepo,
		addressRepo: addressRepo,
		feeGateway:  feeGateway,
		queueClient: queueClient,
	}
}

// checkoutLine 结算行（商品快照）
type checkoutLine struct {
	ProductID   uint
	ProductName string
	Price       models.Money
	Quantity    int
	WeightGrams int
}

// shopPartition 按店铺分组的结算行，保持购物车内的先后顺序
type shopPartition struct {
	ShopID uint
	Lines  []checkoutLine
}

// orderPlan 单个店铺的下单计划
type orderPlan struct {
	Shop      *models.Shop
	Lines     []checkoutLine
	ItemTotal decimal.Decimal
	Quote     shipping.FeeQuote
}

// CheckoutSelected 结算购物车中选中的商品，按店铺拆分为多个订单
func (s *OrderService) CheckoutSelected(ctx context.Context, principal Principal, productIDs []uint) ([]models.Order, error) {
	user, err := s.requireActiveBuyer(principal)
	if err != nil {
		return nil, err
	}
	address, err := s.requireDefaultAddress(user.ID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartEmpty
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	partitions, err := partitionCartItems(items, productIDs)
	if err != nil {
		return nil, err
	}

	plans, err := s.buildOrderPlans(ctx, partitions, address)
	if err != nil {
		return nil, err
	}

	checkedOut := make([]uint, 0, len(productIDs))
	for _, p := range partitions {
		for _, line := range p.Lines {
			checkedOut = append(checkedOut, line.ProductID)
		}
	}

	orders, err := s.persistOrders(user, address, plans, cart, checkedOut)
	if err != nil {
		return nil, err
	}

	s.notifyOrderStatus(orders)
	logger.Infow("order_checkout_completed",
		"user_id", user.ID,
		"order_count", len(orders),
		"selected_products", len(productIDs),
	)
	return orders, nil
}

// CheckoutBuyNow 立即购买单个商品，不经过购物车
func (s *OrderService) CheckoutBuyNow(ctx context.Context, principal Principal, productID uint, quantity int) (*models.Order, error) {
	user, err := s.requireActiveBuyer(principal)
	if err != nil {
		return nil, err
	}
	address, err := s.requireDefaultAddress(user.ID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if offenders := collectUnavailable([]models.CartItem{{ProductID: productID, Product: product}}); len(offenders) > 0 {
		return nil, unavailableError(offenders)
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	partitions := []shopPartition{{
		ShopID: product.ShopID,
		Lines: []checkoutLine{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    quantity,
			WeightGrams: product.WeightGrams,
		}},
	}}
	plans, err := s.buildOrderPlans(ctx, partitions, address)
	if err != nil {
		return nil, err
	}

	orders, err := s.persistOrders(user, address, plans, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderCreateFailed
	}

	s.notifyOrderStatus(orders)
	logger.Infow("order_buy_now_completed",
		"user_id", user.ID,
		"product_id", productID,
		"quantity", quantity,
		"order_no", orders[0].OrderNo,
	)
	return &orders[0], nil
}

// requireActiveBuyer 校验下单主体：必须存在且未被封禁
// 封禁校验先于其他一切校验
func (s *OrderService) requireActiveBuyer(principal Principal) (*models.User, error) {
	if !principal.Valid() {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(principal.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status == constants.UserStatusDeleted {
		return nil, ErrUserNotFound
	}
	if user.Status == constants.UserStatusBanned {
		return nil, ErrUserBanned
	}
	return user, nil
}

func (s *OrderService) requireDefaultAddress(userID uint) (*models.Address, error) {
	address, err := s.addressRepo.GetDefaultByUserID(userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// partitionCartItems 从购物车行中挑出选中的商品并按店铺分组
// 选中的商品不在购物车中时直接忽略，全部不在时报 ErrCartItemNotFound
func partitionCartItems(items []models.CartItem, productIDs []uint) ([]shopPartition, error) {
	if len(productIDs) == 0 {
		return nil, ErrCartItemNotFound
	}
	byProduct := make(map[uint]models.CartItem, len(items))
	for _, item := range items {
		byProduct[item.ProductID] = item
	}

	selected := make([]models.CartItem, 0, len(productIDs))
	seen := make(map[uint]bool, len(productIDs))
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		item, ok := byProduct[id]
		if !ok {
			continue
		}
		selected = append(selected, item)
	}
	if len(selected) == 0 {
		return nil, ErrCartItemNotFound
	}

	if offenders := collectUnavailable(selected); len(offenders) > 0 {
		return nil, unavailableError(offenders)
	}

	// 按店铺分组，组顺序与行顺序都保持选中顺序
	index := make(map[uint]int)
	partitions := make([]shopPartition, 0)
	for _, item := range selected {
		line := checkoutLine{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
			WeightGrams: item.Product.WeightGrams,
		}
		shopID := item.Product.ShopID
		pos, ok := index[shopID]
		if !ok {
			index[shopID] = len(partitions)
			partitions = append(partitions, shopPartition{ShopID: shopID, Lines: []checkoutLine{line}})
			continue
		}
		partitions[pos].Lines = append(partitions[pos].Lines, line)
	}
	return partitions, nil
}

// collectUnavailable 收集不可购买的商品名称（商品缺失、已下架、店铺关联缺失）
func collectUnavailable(items []models.CartItem) []string {
	offenders := make([]string, 0)
	for _, item := range items {
		if item.Product == nil {
			offenders = append(offenders, fmt.Sprintf("#%d", item.ProductID))
			continue
		}
		if item.Product.Status != constants.ProductStatusActive {
			offenders = append(offenders, item.Product.Name)
			continue
		}
		if item.Product.Shop != nil && item.Product.Shop.Status != constants.ShopStatusActive {
			offenders = append(offenders, item.Product.Name)
		}
	}
	return offenders
}

func unavailableError(offenders []string) error {
	return fmt.Errorf("%w: %s", ErrProductUnavailable, strings.Join(offenders, ", "))
}

// buildOrderPlans 逐店铺生成下单计划：商品小计、包裹重量与运费报价
func (s *OrderService) buildOrderPlans(ctx context.Context, partitions []shopPartition, address *models.Address) ([]orderPlan, error) {
	plans := make([]orderPlan, 0, len(partitions))
	for _, partition := range partitions {
		shop, err := s.shopRepo.GetByID(partition.ShopID)
		if err != nil {
			return nil, err
		}
		if shop == nil {
			return nil, ErrShopNotFound
		}
		if shop.Status != constants.ShopStatusActive {
			names := make([]string, 0, len(partition.Lines))
			for _, line := range partition.Lines {
				names = append(names, line.ProductName)
			}
			return nil, unavailableError(names)
		}

		itemTotal := decimal.Zero
		for _, line := range partition.Lines {
			itemTotal = itemTotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		weight := parcelWeightGrams(partition.Lines, s.defaultWeightGrams())

		quote := s.resolveShippingFee(ctx, shop, address, weight)
		plans = append(plans, orderPlan{
			Shop:      shop,
			Lines:     partition.Lines,
			ItemTotal: itemTotal,
			Quote:     quote,
		})
	}
	return plans, nil
}

func (s *OrderService) defaultWeightGrams() int {
	if s.cfg != nil && s.cfg.Shipping.DefaultWeightGrams > 0 {
		return s.cfg.Shipping.DefaultWeightGrams
	}
	return constants.DefaultItemWeightGrams
}

// parcelWeightGrams 包裹总重量 = Σ(单件重量 × 数量)
// 商品都未填写重量导致合计为零时，整个包裹按默认值估算
func parcelWeightGrams(lines []checkoutLine, defaultGrams int) int {
	total := 0
	for _, line := range lines {
		if line.WeightGrams > 0 {
			total += line.WeightGrams * line.Quantity
		}
	}
	if total <= 0 {
		total = defaultGrams
	}
	return total
}

// resolveShippingFee 向承运商询价，任何失败都降级为兜底报价
// 结算流程不会因为运费网关不可用而失败
func (s *OrderService) resolveShippingFee(ctx context.Context, shop *models.Shop, address *models.Address, weightGrams int) shipping.FeeQuote {
	req := buildFeeRequest(shop, address, weightGrams)
	if s.feeGateway == nil || !req.Valid() {
		logger.Warnw("shipping_fee_fallback",
			"reason", "route_unresolved",
			"shop_id", shop.ID,
			"weight_grams", weightGrams,
		)
		return s.fallbackQuote()
	}

	quote, err := s.feeGateway.CalculateFee(ctx, req)
	if err != nil {
		logger.Warnw("shipping_fee_fallback",
			"reason", "gateway_error",
			"shop_id", shop.ID,
			"weight_grams", weightGrams,
			"error", err,
		)
		return s.fallbackQuote()
	}
	return *quote
}

func buildFeeRequest(shop *models.Shop, address *models.Address, weightGrams int) shipping.FeeRequest {
	req := shipping.FeeRequest{WeightGrams: weightGrams}
	if shop != nil && shop.Ward != nil {
		req.FromWardCode = shop.Ward.GHNCode
		if shop.Ward.District != nil {
			req.FromDistrictID = shop.Ward.District.GHNID
		}
	}
	if address != nil && address.Ward != nil {
		req.ToWardCode = address.Ward.GHNCode
		if address.Ward.District != nil {
			req.ToDistrictID = address.Ward.District.GHNID
		}
	}
	return req
}

func (s *OrderService) fallbackQuote() shipping.FeeQuote {
	fee := int64(35000)
	days := constants.EstimatedDeliveryDays
	if s.cfg != nil {
		if s.cfg.Shipping.FallbackFee > 0 {
			fee = s.cfg.Shipping.FallbackFee
		}
		if s.cfg.Shipping.FallbackDays > 0 {
			days = s.cfg.Shipping.FallbackDays
		}
	}
	return shipping.FeeQuote{
		Fee:           decimal.NewFromInt(fee),
		EstimatedDays: days,
		Provider:      constants.ShippingProviderFallback,
	}
}

// persistOrders 在单个事务中落库全部订单、订单项与运单，并清理已结算的购物车行
func (s *OrderService) persistOrders(user *models.User, address *models.Address, plans []orderPlan, cart *models.Cart, checkedOut []uint) ([]models.Order, error) {
	orders := make([]models.Order, 0, len(plans))
	now := time.Now()

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		for _, plan := range plans {
			total := plan.ItemTotal.Add(plan.Quote.Fee)
			order := &models.Order{
				OrderNo:     generateOrderNo(),
				UserID:      user.ID,
				ShopID:      plan.Shop.ID,
				Status:      constants.OrderStatusPending,
				Currency:    constants.SiteCurrencyDefault,
				ItemTotal:   models.NewMoneyFromDecimal(plan.ItemTotal),
				ShippingFee: models.NewMoneyFromDecimal(plan.Quote.Fee),
				TotalAmount: models.NewMoneyFromDecimal(total),
				AddressID:   address.ID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			items := make([]models.OrderItem, 0, len(plan.Lines))
			for _, line := range plan.Lines {
				items = append(items, models.OrderItem{
					ProductID:       line.ProductID,
					ProductName:     line.ProductName,
					PriceAtPurchase: line.Price,
					Quantity:        line.Quantity,
				})
			}
			if err := orderRepo.Create(order, items); err != nil {
				return err
			}

			shipment := &models.Shipment{
				OrderID:               order.ID,
				Provider:              plan.Quote.Provider,
				Fee:                   models.NewMoneyFromDecimal(plan.Quote.Fee),
				Status:                constants.ShipmentStatusPreparing,
				EstimatedDeliveryDate: now.AddDate(0, 0, plan.Quote.EstimatedDays),
			}
			if err := orderRepo.CreateShipment(shipment); err != nil {
				return err
			}

			order.Items = items
			order.Shipment = shipment
			orders = append(orders, *order)
		}

		if cart != nil && len(checkedOut) > 0 {
			if err := cartRepo.DeleteItemsByProductIDs(cart.ID, checkedOut); err != nil {
				return err
			}
			remaining, err := cartRepo.ListItems(cart.ID)
			if err != nil {
				return err
			}
			total := decimal.Zero
			for _, item := range remaining {
				if item.Product == nil {
					continue
				}
				total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
			if err := cartRepo.UpdateTotal(cart.ID, models.NewMoneyFromDecimal(total)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorw("order_persist_failed", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}
	return orders, nil
}

// notifyOrderStatus 下单成功后异步通知买家，失败仅记日志
func (s *OrderService) notifyOrderStatus(orders []models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	for _, order := range orders {
		if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
			OrderID: order.ID,
			Status:  order.Status,
		}); err != nil {
			logger.Warnw("order_status_email_enqueue_failed", "order_id", order.ID, "error", err)
		}
	}
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("BZ%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
