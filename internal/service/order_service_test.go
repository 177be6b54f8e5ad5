package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/shipping"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubFeeGateway struct {
	quote    *shipping.FeeQuote
	err      error
	requests []shipping.FeeRequest
}

func (g *stubFeeGateway) CalculateFee(_ context.Context, req shipping.FeeRequest) (*shipping.FeeQuote, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	quote := *g.quote
	return &quote, nil
}

func openCheckoutDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Province{}, &models.District{}, &models.Ward{},
		&models.User{}, &models.Address{},
		&models.Shop{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Shipment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	prev := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prev })
	return db
}

func newCheckoutService(db *gorm.DB, gateway shipping.Gateway) *OrderService {
	return NewOrderService(
		nil,
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
		repository.NewShopRepository(db),
		repository.NewAddressRepository(db),
		gateway,
		nil,
	)
}

type checkoutFixture struct {
	Buyer  models.User
	Seller models.User
	ShopA  models.Shop
	ShopB  models.Shop
	// ProductA1 120000 重 500g，ProductA2 185000 未填重量，ProductB1 350000 重 400g
	ProductA1 models.Product
	ProductA2 models.Product
	ProductB1 models.Product
	Cart      models.Cart
}

func seedCheckoutFixture(t *testing.T, db *gorm.DB) checkoutFixture {
	t.Helper()
	district := models.District{ProvinceID: 1, Name: "Quận 1", GHNID: 1442}
	if err := db.Create(&district).Error; err != nil {
		t.Fatalf("create district failed: %v", err)
	}
	shopWard := models.Ward{DistrictID: district.ID, Name: "Phường Bến Nghé", GHNCode: "10100"}
	buyerWard := models.Ward{DistrictID: district.ID, Name: "Phường Đa Kao", GHNCode: "10105"}
	if err := db.Create(&shopWard).Error; err != nil {
		t.Fatalf("create ward failed: %v", err)
	}
	if err := db.Create(&buyerWard).Error; err != nil {
		t.Fatalf("create ward failed: %v", err)
	}

	buyer := models.User{Email: "buyer@example.com", PasswordHash: "x", DisplayName: "Buyer", Role: constants.RoleUser, Status: constants.UserStatusActive}
	seller := models.User{Email: "seller@example.com", PasswordHash: "x", DisplayName: "Seller", Role: constants.RoleSeller, Status: constants.UserStatusActive}
	if err := db.Create(&buyer).Error; err != nil {
		t.Fatalf("create buyer failed: %v", err)
	}
	if err := db.Create(&seller).Error; err != nil {
		t.Fatalf("create seller failed: %v", err)
	}

	address := models.Address{UserID: buyer.ID, RecipientName: "Buyer", Phone: "0900000001", Detail: "12 Lê Lợi", WardID: buyerWard.ID, IsDefault: true}
	if err := db.Create(&address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}

	shopA := models.Shop{OwnerID: seller.ID, Name: "Shop A", Status: constants.ShopStatusActive, WardID: shopWard.ID}
	shopB := models.Shop{OwnerID: seller.ID, Name: "Shop B", Status: constants.ShopStatusActive, WardID: shopWard.ID}
	if err := db.Create(&shopA).Error; err != nil {
		t.Fatalf("create shop failed: %v", err)
	}
	if err := db.Create(&shopB).Error; err != nil {
		t.Fatalf("create shop failed: %v", err)
	}

	productA1 := models.Product{ShopID: shopA.ID, Name: "Áo thun", Price: models.NewMoneyFromInt(120000), WeightGrams: 500, Stock: 10, Status: constants.ProductStatusActive}
	productA2 := models.Product{ShopID: shopA.ID, Name: "Bình giữ nhiệt", Price: models.NewMoneyFromInt(185000), WeightGrams: 0, Stock: 10, Status: constants.ProductStatusActive}
	productB1 := models.Product{ShopID: shopB.ID, Name: "Tai nghe", Price: models.NewMoneyFromInt(350000), WeightGrams: 400, Stock: 10, Status: constants.ProductStatusActive}
	for _, p := range []*models.Product{&productA1, &productA2, &productB1} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	cart := models.Cart{UserID: buyer.ID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	items := []models.CartItem{
		{CartID: cart.ID, ProductID: productA1.ID, Quantity: 2},
		{CartID: cart.ID, ProductID: productA2.ID, Quantity: 1},
		{CartID: cart.ID, ProductID: productB1.ID, Quantity: 1},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("create cart items failed: %v", err)
	}

	return checkoutFixture{
		Buyer: buyer, Seller: seller,
		ShopA: shopA, ShopB: shopB,
		ProductA1: productA1, ProductA2: productA2, ProductB1: productB1,
		Cart: cart,
	}
}

func TestPartitionCartItemsEmptySelection(t *testing.T) {
	_, err := partitionCartItems(nil, nil)
	if !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected cart item not found, got: %v", err)
	}
}

func TestPartitionCartItemsDropsUnmatchedSelection(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, Quantity: 1, Product: &models.Product{ID: 1, ShopID: 1, Name: "a", Status: constants.ProductStatusActive}},
	}
	// 不在购物车中的商品被忽略，命中的部分照常结算
	partitions, err := partitionCartItems(items, []uint{1, 99})
	if err != nil {
		t.Fatalf("partitionCartItems error: %v", err)
	}
	if len(partitions) != 1 || len(partitions[0].Lines) != 1 || partitions[0].Lines[0].ProductID != 1 {
		t.Fatalf("expected unmatched id to be dropped, got: %+v", partitions)
	}
}

func TestPartitionCartItemsAllUnmatched(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, Quantity: 1, Product: &models.Product{ID: 1, ShopID: 1, Name: "a", Status: constants.ProductStatusActive}},
	}
	_, err := partitionCartItems(items, []uint{98, 99})
	if !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected cart item not found, got: %v", err)
	}
}

func TestPartitionCartItemsGroupsByShop(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, Quantity: 2, Product: &models.Product{ID: 1, ShopID: 7, Name: "a", Status: constants.ProductStatusActive}},
		{ProductID: 2, Quantity: 1, Product: &models.Product{ID: 2, ShopID: 9, Name: "b", Status: constants.ProductStatusActive}},
		{ProductID: 3, Quantity: 3, Product: &models.Product{ID: 3, ShopID: 7, Name: "c", Status: constants.ProductStatusActive}},
	}
	// 重复选择同一商品只结算一次
	partitions, err := partitionCartItems(items, []uint{1, 2, 3, 1})
	if err != nil {
		t.Fatalf("partitionCartItems error: %v", err)
	}
	if len(partitions) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(partitions))
	}
	if partitions[0].ShopID != 7 || len(partitions[0].Lines) != 2 {
		t.Fatalf("unexpected first partition: %+v", partitions[0])
	}
	if partitions[0].Lines[0].ProductID != 1 || partitions[0].Lines[1].ProductID != 3 {
		t.Fatalf("expected selection order preserved, got: %+v", partitions[0].Lines)
	}
	if partitions[1].ShopID != 9 || len(partitions[1].Lines) != 1 {
		t.Fatalf("unexpected second partition: %+v", partitions[1])
	}
}

func TestPartitionCartItemsRejectsUnavailable(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, Quantity: 1, Product: &models.Product{ID: 1, ShopID: 1, Name: "正常商品", Status: constants.ProductStatusActive}},
		{ProductID: 2, Quantity: 1, Product: &models.Product{ID: 2, ShopID: 1, Name: "已下架商品", Status: constants.ProductStatusInactive}},
	}
	_, err := partitionCartItems(items, []uint{1, 2})
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected product unavailable, got: %v", err)
	}
	if !strings.Contains(err.Error(), "已下架商品") {
		t.Fatalf("expected offender name in error, got: %v", err)
	}
}

func TestCollectUnavailable(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 5, Product: nil},
		{ProductID: 6, Product: &models.Product{ID: 6, Name: "inactive", Status: constants.ProductStatusInactive}},
		{ProductID: 7, Product: &models.Product{
			ID: 7, Name: "closed-shop", Status: constants.ProductStatusActive,
			Shop: &models.Shop{Status: constants.ShopStatusClosed},
		}},
		{ProductID: 8, Product: &models.Product{ID: 8, Name: "ok", Status: constants.ProductStatusActive}},
	}
	offenders := collectUnavailable(items)
	if len(offenders) != 3 {
		t.Fatalf("expected 3 offenders, got: %+v", offenders)
	}
	if offenders[0] != "#5" || offenders[1] != "inactive" || offenders[2] != "closed-shop" {
		t.Fatalf("unexpected offenders: %+v", offenders)
	}
}

func TestParcelWeightGrams(t *testing.T) {
	lines := []checkoutLine{
		{WeightGrams: 500, Quantity: 2},
		{WeightGrams: 0, Quantity: 1},
	}
	// 未填写重量的行不计入合计
	if got := parcelWeightGrams(lines, constants.DefaultItemWeightGrams); got != 1000 {
		t.Fatalf("expected 1000, got %d", got)
	}
	// 合计为零时整个包裹按默认值估算一次
	lines = []checkoutLine{{WeightGrams: 0, Quantity: 3}}
	if got := parcelWeightGrams(lines, constants.DefaultItemWeightGrams); got != constants.DefaultItemWeightGrams {
		t.Fatalf("expected %d, got %d", constants.DefaultItemWeightGrams, got)
	}
}

func TestFallbackQuoteDefaults(t *testing.T) {
	svc := &OrderService{}
	quote := svc.fallbackQuote()
	if !quote.Fee.Equal(decimal.NewFromInt(35000)) {
		t.Fatalf("expected fallback fee 35000, got %s", quote.Fee.String())
	}
	if quote.EstimatedDays != constants.EstimatedDeliveryDays {
		t.Fatalf("expected %d days, got %d", constants.EstimatedDeliveryDays, quote.EstimatedDays)
	}
	if quote.Provider != constants.ShippingProviderFallback {
		t.Fatalf("expected fallback provider, got %s", quote.Provider)
	}
}

func TestCheckoutSelectedSplitsByShop(t *testing.T) {
	db := openCheckoutDB(t, "checkout_selected")
	fixture := seedCheckoutFixture(t, db)

	gateway := &stubFeeGateway{quote: &shipping.FeeQuote{
		Fee:           decimal.NewFromInt(22000),
		EstimatedDays: 2,
		Provider:      constants.ShippingProviderGHN,
	}}
	svc := newCheckoutService(db, gateway)

	orders, err := svc.CheckoutSelected(context.Background(), Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser},
		[]uint{fixture.ProductA1.ID, fixture.ProductA2.ID})
	if err != nil {
		t.Fatalf("CheckoutSelected failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order for one shop, got %d", len(orders))
	}

	order := orders[0]
	if order.ShopID != fixture.ShopA.ID {
		t.Fatalf("expected shop %d, got %d", fixture.ShopA.ID, order.ShopID)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	// 商品小计 = 120000*2 + 185000，应付总额 = 小计 + 运费
	expectedItemTotal := decimal.NewFromInt(425000)
	if !order.ItemTotal.Equal(expectedItemTotal) {
		t.Fatalf("expected item total %s, got %s", expectedItemTotal.String(), order.ItemTotal.String())
	}
	if !order.ShippingFee.Equal(decimal.NewFromInt(22000)) {
		t.Fatalf("expected shipping fee 22000, got %s", order.ShippingFee.String())
	}
	if !order.TotalAmount.Equal(expectedItemTotal.Add(decimal.NewFromInt(22000))) {
		t.Fatalf("expected total %s, got %s", expectedItemTotal.Add(decimal.NewFromInt(22000)).String(), order.TotalAmount.String())
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}
	if order.Items[0].ProductName != fixture.ProductA1.Name {
		t.Fatalf("expected product name snapshot, got %s", order.Items[0].ProductName)
	}
	if !order.Items[0].PriceAtPurchase.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("expected snapshot price 120000, got %s", order.Items[0].PriceAtPurchase.String())
	}
	if order.Shipment == nil {
		t.Fatalf("expected shipment created")
	}
	if order.Shipment.Status != constants.ShipmentStatusPreparing {
		t.Fatalf("expected preparing shipment, got %s", order.Shipment.Status)
	}
	if order.Shipment.Provider != constants.ShippingProviderGHN {
		t.Fatalf("expected GHN provider, got %s", order.Shipment.Provider)
	}

	// 询价重量：500g*2，未填写重量的行不计入
	if len(gateway.requests) != 1 {
		t.Fatalf("expected 1 fee request, got %d", len(gateway.requests))
	}
	if gateway.requests[0].WeightGrams != 1000 {
		t.Fatalf("expected weight 1000, got %d", gateway.requests[0].WeightGrams)
	}

	// 已结算条目移出购物车，未选中的保留并重算总额
	var remaining []models.CartItem
	if err := db.Where("cart_id = ?", fixture.Cart.ID).Find(&remaining).Error; err != nil {
		t.Fatalf("list remaining items failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ProductID != fixture.ProductB1.ID {
		t.Fatalf("expected only unselected item to remain, got: %+v", remaining)
	}
	var cart models.Cart
	if err := db.First(&cart, fixture.Cart.ID).Error; err != nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if !cart.TotalAmount.Equal(decimal.NewFromInt(350000)) {
		t.Fatalf("expected cart total 350000, got %s", cart.TotalAmount.String())
	}
}

func TestCheckoutSelectedTwoShops(t *testing.T) {
	db := openCheckoutDB(t, "checkout_two_shops")
	fixture := seedCheckoutFixture(t, db)

	gateway := &stubFeeGateway{quote: &shipping.FeeQuote{
		Fee:           decimal.NewFromInt(18000),
		EstimatedDays: 3,
		Provider:      constants.ShippingProviderGHN,
	}}
	svc := newCheckoutService(db, gateway)

	orders, err := svc.CheckoutSelected(context.Background(), Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser},
		[]uint{fixture.ProductA1.ID, fixture.ProductB1.ID})
	if err != nil {
		t.Fatalf("CheckoutSelected failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ShopID != fixture.ShopA.ID || orders[1].ShopID != fixture.ShopB.ID {
		t.Fatalf("expected orders split by shop, got: %d, %d", orders[0].ShopID, orders[1].ShopID)
	}
	if orders[0].OrderNo == orders[1].OrderNo {
		t.Fatalf("expected distinct order numbers")
	}
	for _, order := range orders {
		if !order.TotalAmount.Equal(order.ItemTotal.Add(order.ShippingFee.Decimal)) {
			t.Fatalf("total %s does not equal item total %s plus fee %s",
				order.TotalAmount.String(), order.ItemTotal.String(), order.ShippingFee.String())
		}
	}
}

func TestCheckoutSelectedBannedUser(t *testing.T) {
	db := openCheckoutDB(t, "checkout_banned")
	fixture := seedCheckoutFixture(t, db)
	// 封禁校验先于地址校验：删除默认地址也必须先报封禁
	if err := db.Model(&models.User{}).Where("id = ?", fixture.Buyer.ID).
		Update("status", constants.UserStatusBanned).Error; err != nil {
		t.Fatalf("ban buyer failed: %v", err)
	}
	if err := db.Where("user_id = ?", fixture.Buyer.ID).Delete(&models.Address{}).Error; err != nil {
		t.Fatalf("delete address failed: %v", err)
	}

	svc := newCheckoutService(db, nil)
	_, err := svc.CheckoutSelected(context.Background(), Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser},
		[]uint{fixture.ProductA1.ID})
	if !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected user banned, got: %v", err)
	}
}

func TestCheckoutSelectedWithoutDefaultAddress(t *testing.T) {
	db := openCheckoutDB(t, "checkout_no_address")
	fixture := seedCheckoutFixture(t, db)
	if err := db.Where("user_id = ?", fixture.Buyer.ID).Delete(&models.Address{}).Error; err != nil {
		t.Fatalf("delete address failed: %v", err)
	}

	svc := newCheckoutService(db, nil)
	_, err := svc.CheckoutSelected(context.Background(), Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser},
		[]uint{fixture.ProductA1.ID})
	if !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected address not found, got: %v", err)
	}
}

func TestCheckoutBuyNowFallbackQuote(t *testing.T) {
	db := openCheckoutDB(t, "buy_now_fallback")
	fixture := seedCheckoutFixture(t, db)

	gateway := &stubFeeGateway{err: fmt.Errorf("gateway down")}
	svc := newCheckoutService(db, gateway)

	order, err := svc.CheckoutBuyNow(context.Background(), Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser},
		fixture.ProductB1.ID, 2)
	if err != nil {
		t.Fatalf("CheckoutBuyNow failed: %v", err)
	}
	// 询价失败降级为兜底报价，结算不失败
	if !order.ShippingFee.Equal(decimal.NewFromInt(35000)) {
		t.Fatalf("expected fallback fee 35000, got %s", order.ShippingFee.String())
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(735000)) {
		t.Fatalf("expected total 735000, got %s", order.TotalAmount.String())
	}
	if order.Shipment == nil || order.Shipment.Provider != constants.ShippingProviderFallback {
		t.Fatalf("expected fallback provider shipment, got: %+v", order.Shipment)
	}
}

func TestCheckoutBuyNowInvalidQuantity(t *testing.T) {
	db := openCheckoutDB(t, "buy_now_quantity")
	fixture := seedCheckoutFixture(t, db)

	svc := newCheckoutService(db, nil)
	_, err := svc.CheckoutBuyNow(context.Background(), Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser},
		fixture.ProductA1.ID, 0)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got: %v", err)
	}
}

func TestCheckoutBuyNowInactiveProduct(t *testing.T) {
	db := openCheckoutDB(t, "buy_now_inactive")
	fixture := seedCheckoutFixture(t, db)
	if err := db.Model(&models.Product{}).Where("id = ?", fixture.ProductA1.ID).
		Update("status", constants.ProductStatusInactive).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	svc := newCheckoutService(db, nil)
	_, err := svc.CheckoutBuyNow(context.Background(), Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser},
		fixture.ProductA1.ID, 1)
	if !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected product unavailable, got: %v", err)
	}
}

func TestCheckoutSelectedModeratedShopAndProduct(t *testing.T) {
	db := openCheckoutDB(t, "checkout_moderated")
	fixture := seedCheckoutFixture(t, db)
	svc := newCheckoutService(db, nil)
	buyer := Principal{UserID: fixture.Buyer.ID, Role: constants.RoleUser}

	// 管理端封禁店铺后，该店铺商品不可下单
	shopRepo := repository.NewShopRepository(db)
	if err := shopRepo.UpdateStatus(fixture.ShopA.ID, constants.ShopStatusDisabled); err != nil {
		t.Fatalf("UpdateStatus shop failed: %v", err)
	}
	var shop models.Shop
	if err := db.First(&shop, fixture.ShopA.ID).Error; err != nil {
		t.Fatalf("reload shop failed: %v", err)
	}
	if shop.Status != constants.ShopStatusDisabled {
		t.Fatalf("expected disabled shop, got %s", shop.Status)
	}
	if _, err := svc.CheckoutSelected(context.Background(), buyer, []uint{fixture.ProductA1.ID}); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected product unavailable for disabled shop, got: %v", err)
	}

	// 店铺恢复后，再封禁单个商品
	if err := shopRepo.UpdateStatus(fixture.ShopA.ID, constants.ShopStatusActive); err != nil {
		t.Fatalf("restore shop failed: %v", err)
	}
	productRepo := repository.NewProductRepository(db)
	if err := productRepo.UpdateStatus(fixture.ProductA1.ID, constants.ProductStatusInactive); err != nil {
		t.Fatalf("UpdateStatus product failed: %v", err)
	}
	if _, err := svc.CheckoutSelected(context.Background(), buyer, []uint{fixture.ProductA1.ID}); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("expected product unavailable for inactive product, got: %v", err)
	}

	// 未被封禁的商品不受影响
	if _, err := svc.CheckoutSelected(context.Background(), buyer, []uint{fixture.ProductA2.ID}); err != nil {
		t.Fatalf("checkout of untouched product failed: %v", err)
	}
}

func TestGenerateOrderNo(t *testing.T) {
	no := generateOrderNo()
	if !strings.HasPrefix(no, "BZ") {
		t.Fatalf("expected BZ prefix, got %s", no)
	}
	if len(no) != 2+14+6 {
		t.Fatalf("unexpected order no length: %s", no)
	}
}
