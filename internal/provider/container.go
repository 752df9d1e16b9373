package provider

import (
	"github.com/vijayholve/Wooden-EShop/internal/cache"
	"github.com/vijayholve/Wooden-EShop/internal/config"
	"github.com/vijayholve/Wooden-EShop/internal/logger"
	"github.com/vijayholve/Wooden-EShop/internal/models"
	"github.com/vijayholve/Wooden-EShop/internal/repository"
	"github.com/vijayholve/Wooden-EShop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo            repository.UserRepository
	CustomerProfileRepo repository.CustomerProfileRepository
	ProductRepo         repository.ProductRepository
	CartRepo            repository.CartRepository

	// Services
	UserService    *service.UserService
	CatalogService *service.CatalogService
	CartService    *service.CartService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{
		Config: cfg,
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
	c.CustomerProfileRepo = repository.NewCustomerProfileRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
}

func (c *Container) initServices() {
	c.UserService = service.NewUserService(c.Config, c.UserRepo, c.CustomerProfileRepo)
	c.CatalogService = service.NewCatalogService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.Config.Cart.MaxQuantityPerLine)
}
