package main

import (
	"time"

	"github.com/vijayholve/Wooden-EShop/internal/config"
	"github.com/vijayholve/Wooden-EShop/internal/constants"
	"github.com/vijayholve/Wooden-EShop/internal/logger"
	"github.com/vijayholve/Wooden-EShop/internal/models"
	"github.com/vijayholve/Wooden-EShop/internal/repository"
	"github.com/vijayholve/Wooden-EShop/internal/service"

	"github.com/shopspring/decimal"
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

	// 添加演示商品
	products := []models.Product{
		{
			Name:             "Safari Animal Set",
			Slug:             "safari-animal-set",
			Brand:            "Little Timber",
			ShortDescription: "Hand-carved set of six safari animals in untreated beech.",
			LongDescription:  "Six hand-carved safari animals. Sized for small hands, finished with food-safe linseed oil.",
			Theme:            "safari",
			Genre:            "figures",
			Price:            mustMoney("29.90"),
			DiscountPercent:  decimal.RequireFromString("10"),
			StockQuantity:    40,
			IsAvailable:      true,
			Images: []models.ProductImage{
				{URL: "/uploads/products/safari-animal-set-1.jpg", AltText: "Safari animal set", IsMain: true, SortOrder: 0},
				{URL: "/uploads/products/safari-animal-set-2.jpg", AltText: "Safari animals detail", SortOrder: 1},
			},
			Features: []models.ProductFeature{
				{Name: "material", Value: "beech"},
				{Name: "age", Value: "3+"},
				{Name: "pieces", Value: "6"},
			},
		},
		{
			Name:             "Rainbow Stacking Tower",
			Slug:             "rainbow-stacking-tower",
			Brand:            "Little Timber",
			ShortDescription: "Classic twelve-ring stacking tower in water-based rainbow stain.",
			Theme:            "classic",
			Genre:            "stacking",
			Price:            mustMoney("24.50"),
			StockQuantity:    25,
			IsAvailable:      true,
			Images: []models.ProductImage{
				{URL: "/uploads/products/rainbow-stacking-tower-1.jpg", AltText: "Rainbow stacking tower", IsMain: true, SortOrder: 0},
			},
			Features: []models.ProductFeature{
				{Name: "material", Value: "maple"},
				{Name: "age", Value: "1+"},
			},
		},
		{
			Name:             "Oak Express Train",
			Slug:             "oak-express-train",
			Brand:            "Woodvale",
			ShortDescription: "Three-carriage magnetic train with removable oak passengers.",
			Theme:            "vehicles",
			Genre:            "trains",
			Price:            mustMoney("39.00"),
			DiscountPercent:  decimal.RequireFromString("15"),
			StockQuantity:    12,
			IsAvailable:      true,
			Images: []models.ProductImage{
				{URL: "/uploads/products/oak-express-train-1.jpg", AltText: "Oak express train", IsMain: true, SortOrder: 0},
			},
			Features: []models.ProductFeature{
				{Name: "material", Value: "oak"},
				{Name: "age", Value: "3+"},
				{Name: "coupling", Value: "magnetic"},
			},
		},
		{
			Name:             "Walnut Chess Set",
			Slug:             "walnut-chess-set",
			Brand:            "Woodvale",
			ShortDescription: "Folding walnut board with hand-turned pieces.",
			Theme:            "classic",
			Genre:            "games",
			Price:            mustMoney("54.00"),
			StockQuantity:    0,
			IsAvailable:      false,
			Features: []models.ProductFeature{
				{Name: "material", Value: "walnut"},
				{Name: "age", Value: "6+"},
			},
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 添加演示用户与客户资料
	userRepo := repository.NewUserRepository(models.DB)
	profileRepo := repository.NewCustomerProfileRepository(models.DB)

	demoEmail := "demo@example.com"
	user, err := userRepo.GetByEmail(demoEmail)
	if err != nil {
		stdLog.Fatalf("Failed to query demo user: %v", err)
	}
	if user == nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte("demo123456"), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash demo password: %v", err)
		}
		user = &models.User{
			Email:        demoEmail,
			PasswordHash: string(hashed),
			DisplayName:  "demo",
			Status:       constants.UserStatusActive,
		}
		if err := userRepo.Create(user); err != nil {
			stdLog.Fatalf("Failed to create demo user: %v", err)
		}
		stdLog.Printf("Created demo user: %s", demoEmail)
	} else {
		stdLog.Printf("Demo user already exists: %s", demoEmail)
	}

	profile, err := profileRepo.GetOrCreateByUser(user.ID)
	if err != nil {
		stdLog.Fatalf("Failed to create demo profile: %v", err)
	}
	if profile.City == "" {
		dob := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
		profile.PhoneNumber = "5551234567"
		profile.StreetAddress = "12 Workshop Lane"
		profile.City = "Portland"
		profile.State = "OR"
		profile.ZipCode = "97201"
		profile.Country = "USA"
		profile.DateOfBirth = &dob
		profile.Newsletter = true
		if err := profileRepo.Update(profile); err != nil {
			stdLog.Printf("Failed to update demo profile: %v", err)
		}
	}

	// 签发开发用 JWT，便于直接调用需鉴权接口
	userService := service.NewUserService(cfg, userRepo, profileRepo)
	token, expiresAt, err := userService.GenerateUserJWT(user, 0)
	if err != nil {
		stdLog.Fatalf("Failed to generate dev JWT: %v", err)
	}
	stdLog.Printf("Dev JWT (expires %s):", expiresAt.Format(time.RFC3339))
	stdLog.Printf("Bearer %s", token)

	stdLog.Printf("Seed finished")
}

func mustMoney(value string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}
