package provider

import (
	"time"

	"github.com/bazaar-next/internal/authz"
	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/logger"
	"github.com/bazaar-next/internal/models"
	"github.com/bazaar-next/internal/queue"
	"github.com/bazaar-next/internal/repository"
	"github.com/bazaar-next/internal/service"
	"github.com/bazaar-next/internal/shipping"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	ProductRepo   repository.ProductRepository
	ShopRepo      repository.ShopRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository
	AddressRepo   repository.AddressRepository
	ShopStatsRepo repository.ShopStatsRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	EmailService     *service.EmailService
	ProductService   *service.ProductService
	CartService      *service.CartService
	AddressService   *service.AddressService
	OrderService     *service.OrderService
	ShopStatsService *service.ShopStatsService

	// 运费网关
	FeeGateway shipping.Gateway
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ShopRepo = repository.NewShopRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.ShopStatsRepo = repository.NewShopStatsRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.FeeGateway = buildFeeGateway(&c.Config.Shipping)
	c.OrderService = service.NewOrderService(
		c.Config,
		c.OrderRepo,
		c.CartRepo,
		c.ProductRepo,
		c.UserRepo,
		c.ShopRepo,
		c.AddressRepo,
		c.FeeGateway,
		c.QueueClient,
	)
	c.ShopStatsService = service.NewShopStatsService(c.ShopStatsRepo, c.ShopRepo)
}

// buildFeeGateway 构造运费网关，配置不完整时返回 nil（下单走兜底运费）。
func buildFeeGateway(cfg *config.ShippingConfig) shipping.Gateway {
	gateway, err := shipping.NewGHNGateway(cfg)
	if err != nil {
		logger.Warnw("provider_init_fee_gateway_failed", "error", err)
		return nil
	}
	if cfg.QuoteCacheSeconds > 0 && cache.Client() != nil {
		return shipping.NewCachedGateway(gateway, time.Duration(cfg.QuoteCacheSeconds)*time.Second)
	}
	return gateway
}
