package router

import (
	"fmt"
	"strings"

	"github.com/vijayholve/Wooden-EShop/internal/cache"
	"github.com/vijayholve/Wooden-EShop/internal/config"
	publichandlers "github.com/vijayholve/Wooden-EShop/internal/http/handlers/public"
	"github.com/vijayholve/Wooden-EShop/internal/logger"
	"github.com/vijayholve/Wooden-EShop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "wes"
	}
	redisClient := cache.Client()
	cartWriteRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:cart_write", redisPrefix),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.GET("/me/profile", publicHandler.GetMyProfile)
			user.PUT("/me/profile", publicHandler.UpdateMyProfile)

			user.GET("/cart", publicHandler.GetCart)

			// 购物车写接口统一限流
			cartWrite := user.Group("")
			cartWrite.Use(RateLimitMiddleware(redisClient, cartWriteRule, KeyByUserOrIP))
			{
				cartWrite.POST("/cart/items", publicHandler.AddCartItem)
				cartWrite.PUT("/cart/items/:line_id", publicHandler.UpdateCartItem)
				cartWrite.PATCH("/cart/items/:line_id", publicHandler.UpdateCartItem)
				cartWrite.DELETE("/cart/items/:line_id", publicHandler.DeleteCartItem)
			}
		}
	}

	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
