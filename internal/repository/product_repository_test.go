package repository

import (
	"fmt"
	"testing"

	"github.com/vijayholve/Wooden-EShop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var productRepoTestDBSeq int

func newProductTestRepo(t *testing.T) *GormProductRepository {
	t.Helper()

	productRepoTestDBSeq++
	dsn := fmt.Sprintf("file:product_repo_%d?mode=memory&cache=shared", productRepoTestDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.ProductImage{}, &models.ProductFeature{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductRepository(db)
}

func TestCreatePersistsAvailabilityFlag(t *testing.T) {
	repo := newProductTestRepo(t)

	for _, available := range []bool{true, false} {
		name := fmt.Sprintf("beech-puzzle-%v", available)
		product := &models.Product{
			Name:          name,
			Slug:          name,
			Price:         models.NewMoneyFromDecimal(decimal.RequireFromString("12.00")),
			StockQuantity: 5,
			IsAvailable:   available,
		}
		if err := repo.Create(product); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}

		stored, err := repo.GetByID(product.ID)
		if err != nil {
			t.Fatalf("reload %s failed: %v", name, err)
		}
		if stored == nil {
			t.Fatalf("product %s not found after create", name)
		}
		if stored.IsAvailable != available {
			t.Fatalf("is_available round trip for %s: want %v got %v", name, available, stored.IsAvailable)
		}
	}
}

func TestGetBySlugHonorsAvailabilityFilter(t *testing.T) {
	repo := newProductTestRepo(t)

	product := &models.Product{
		Name:          "retired-spinning-top",
		Slug:          "retired-spinning-top",
		Price:         models.NewMoneyFromDecimal(decimal.RequireFromString("6.00")),
		StockQuantity: 0,
		IsAvailable:   false,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	hidden, err := repo.GetBySlug(product.Slug, true)
	if err != nil {
		t.Fatalf("available-only lookup failed: %v", err)
	}
	if hidden != nil {
		t.Fatalf("unavailable product leaked through available-only lookup: %+v", hidden)
	}

	raw, err := repo.GetBySlug(product.Slug, false)
	if err != nil {
		t.Fatalf("unfiltered lookup failed: %v", err)
	}
	if raw == nil || raw.IsAvailable {
		t.Fatalf("unfiltered lookup want unavailable product, got %+v", raw)
	}
}
