package main

import (
	"log"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 行政区划（含承运商编码，作为运费询价路由）
	seedGeo(stdLog)

	// 演示账号
	seller := seedUser(stdLog, "seller@example.com", "Seller123456", "Cửa hàng Minh Anh", constants.RoleSeller)
	buyer := seedUser(stdLog, "buyer@example.com", "Buyer123456", "Nguyễn Văn An", constants.RoleUser)

	// 店铺与商品
	if seller != nil {
		shop := seedShop(stdLog, seller.ID, "Minh Anh Store", 1)
		if shop != nil {
			seedProduct(stdLog, shop.ID, "Áo thun cotton", 120000, 250)
			seedProduct(stdLog, shop.ID, "Bình giữ nhiệt 500ml", 185000, 400)
			seedProduct(stdLog, shop.ID, "Tai nghe không dây", 350000, 0)
		}
	}

	// 买家默认收货地址
	if buyer != nil {
		seedAddress(stdLog, buyer.ID, "Nguyễn Văn An", "0901234567", "12 Nguyễn Huệ, Phường Bến Nghé", 3)
	}

	stdLog.Printf("Seed completed")
}

func seedGeo(stdLog *log.Logger) {
	provinces := []models.Province{
		{ID: 1, Name: "Hồ Chí Minh", Code: "HCM"},
		{ID: 2, Name: "Hà Nội", Code: "HN"},
	}
	districts := []models.District{
		{ID: 1, ProvinceID: 1, Name: "Quận 1", GHNID: 1442},
		{ID: 2, ProvinceID: 1, Name: "Quận 7", GHNID: 1449},
		{ID: 3, ProvinceID: 2, Name: "Quận Ba Đình", GHNID: 1484},
	}
	wards := []models.Ward{
		{ID: 1, DistrictID: 1, Name: "Phường Bến Nghé", GHNCode: "10100"},
		{ID: 2, DistrictID: 2, Name: "Phường Tân Phú", GHNCode: "20308"},
		{ID: 3, DistrictID: 3, Name: "Phường Trúc Bạch", GHNCode: "1A0401"},
	}

	for _, province := range provinces {
		var existing models.Province
		if err := models.DB.Where("code = ?", province.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := models.DB.Create(&province).Error; err != nil {
			stdLog.Printf("Failed to create province %s: %v", province.Name, err)
		}
	}
	for _, district := range districts {
		var existing models.District
		if err := models.DB.Where("ghn_id = ?", district.GHNID).First(&existing).Error; err == nil {
			continue
		}
		if err := models.DB.Create(&district).Error; err != nil {
			stdLog.Printf("Failed to create district %s: %v", district.Name, err)
		}
	}
	for _, ward := range wards {
		var existing models.Ward
		if err := models.DB.Where("ghn_code = ?", ward.GHNCode).First(&existing).Error; err == nil {
			continue
		}
		if err := models.DB.Create(&ward).Error; err != nil {
			stdLog.Printf("Failed to create ward %s: %v", ward.Name, err)
		}
	}
}

func seedUser(stdLog *log.Logger, email, password, displayName, role string) *models.User {
	var existing models.User
	if err := models.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		stdLog.Printf("User already exists: %s", email)
		return &existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Printf("Failed to hash password for %s: %v", email, err)
		return nil
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := models.DB.Create(&user).Error; err != nil {
		stdLog.Printf("Failed to create user %s: %v", email, err)
		return nil
	}
	stdLog.Printf("Created user: %s (%s)", email, role)
	return &user
}

func seedShop(stdLog *log.Logger, ownerID uint, name string, wardID uint) *models.Shop {
	var existing models.Shop
	if err := models.DB.Where("name = ?", name).First(&existing).Error; err == nil {
		stdLog.Printf("Shop already exists: %s", name)
		return &existing
	}

	shop := models.Shop{
		OwnerID: ownerID,
		Name:    name,
		Status:  constants.ShopStatusActive,
		WardID:  wardID,
	}
	if err := models.DB.Create(&shop).Error; err != nil {
		stdLog.Printf("Failed to create shop %s: %v", name, err)
		return nil
	}
	stdLog.Printf("Created shop: %s", name)
	return &shop
}

func seedProduct(stdLog *log.Logger, shopID uint, name string, price int64, weightGrams int) {
	var existing models.Product
	if err := models.DB.Where("shop_id = ? AND name = ?", shopID, name).First(&existing).Error; err == nil {
		stdLog.Printf("Product already exists: %s", name)
		return
	}

	product := models.Product{
		ShopID:      shopID,
		Name:        name,
		Price:       models.NewMoneyFromInt(price),
		WeightGrams: weightGrams,
		Stock:       100,
		Status:      constants.ProductStatusActive,
	}
	if err := models.DB.Create(&product).Error; err != nil {
		stdLog.Printf("Failed to create product %s: %v", name, err)
		return
	}
	stdLog.Printf("Created product: %s", name)
}

func seedAddress(stdLog *log.Logger, userID uint, recipient, phone, detail string, wardID uint) {
	var existing models.Address
	if err := models.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		stdLog.Printf("Address already exists for user %d", userID)
		return
	}

	address := models.Address{
		UserID:        userID,
		RecipientName: recipient,
		Phone:         phone,
		Detail:        detail,
		WardID:        wardID,
		IsDefault:     true,
	}
	if err := models.DB.Create(&address).Error; err != nil {
		stdLog.Printf("Failed to create address for user %d: %v", userID, err)
		return
	}
	stdLog.Printf("Created default address for user %d", userID)
}
