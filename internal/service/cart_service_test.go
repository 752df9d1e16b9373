package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vijayholve/Wooden-EShop/internal/models"
	"github.com/vijayholve/Wooden-EShop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var cartTestDBSeq int

type cartTestEnv struct {
	svc         *CartService
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func newCartTestEnv(t *testing.T) *cartTestEnv {
	t.Helper()

	cartTestDBSeq++
	dsn := fmt.Sprintf("file:cart_svc_%d?mode=memory&cache=shared", cartTestDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Cart{}, &models.CartLine{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	return &cartTestEnv{
		svc:         NewCartService(cartRepo, productRepo, 0),
		productRepo: productRepo,
		db:          db,
	}
}

func (e *cartTestEnv) createProduct(t *testing.T, name, price string, stock int, available bool) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:          name,
		Slug:          name,
		Price:         mustMoney(t, price),
		StockQuantity: stock,
		IsAvailable:   available,
	}
	if err := e.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func mustMoney(t *testing.T, value string) models.Money {
	t.Helper()

	money, err := models.NewMoneyFromString(value)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", value, err)
	}
	return money
}

func TestAddItemCreatesLineWithSnapshot(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "teak-train", "10.00", 8, true)

	line, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if line.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", line.Quantity)
	}
	if line.PriceSnapshot.String() != "10.00" {
		t.Fatalf("expected snapshot 10.00, got %s", line.PriceSnapshot.String())
	}
	if line.Subtotal.String() != "20.00" {
		t.Fatalf("expected subtotal 20.00, got %s", line.Subtotal.String())
	}

	cart, err := env.svc.View(1)
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Lines))
	}
	if cart.TotalItems != 2 {
		t.Fatalf("expected total items 2, got %d", cart.TotalItems)
	}
	if cart.TotalPrice.String() != "20.00" {
		t.Fatalf("expected total 20.00, got %s", cart.TotalPrice.String())
	}
}

func TestAddItemAgainReplacesQuantityAndRefreshesSnapshot(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "oak-blocks", "10.00", 20, true)

	if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	// 改价后重新加购：数量覆盖为新值，快照取当前折后价
	product.Price = mustMoney(t, "12.50")
	if err := env.productRepo.Update(product); err != nil {
		t.Fatalf("update product price failed: %v", err)
	}

	if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 5}); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	cart, err := env.svc.View(1)
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected single line after re-add, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Lines[0].Quantity)
	}
	if cart.Lines[0].PriceSnapshot.String() != "12.50" {
		t.Fatalf("expected refreshed snapshot 12.50, got %s", cart.Lines[0].PriceSnapshot.String())
	}
	if cart.TotalPrice.String() != "62.50" {
		t.Fatalf("expected total 62.50, got %s", cart.TotalPrice.String())
	}
}

func TestAddItemUsesDiscountedPriceSnapshot(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "pine-puzzle", "19.99", 10, true)
	product.DiscountPercent = decimal.RequireFromString("15")
	if err := env.productRepo.Update(product); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	line, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	// 19.99 * 0.85 = 16.9915 → 16.99
	if line.PriceSnapshot.String() != "16.99" {
		t.Fatalf("expected snapshot 16.99, got %s", line.PriceSnapshot.String())
	}
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "maple-car", "5.00", 10, true)

	for _, quantity := range []int{0, -1, 1000} {
		if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: quantity}); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", quantity, err)
		}
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	env := newCartTestEnv(t)

	if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: 9999, Quantity: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddItemUnavailableProduct(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "retired-rocker", "30.00", 5, false)

	if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
}

func TestAddItemInsufficientStockLeavesCartUnchanged(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "birch-abacus", "8.00", 3, true)

	if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 4}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	cart, err := env.svc.View(1)
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected cart unchanged at quantity 2, got %+v", cart.Lines)
	}
}

func TestUpdateItemKeepsPriceSnapshot(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "walnut-dominoes", "10.00", 10, true)

	added, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	// 改量走加购后的价格快照，不受目录改价影响
	product.Price = mustMoney(t, "99.00")
	if err := env.productRepo.Update(product); err != nil {
		t.Fatalf("update product price failed: %v", err)
	}

	updated, err := env.svc.UpdateItemQuantity(UpdateCartItemInput{UserID: 1, LineID: added.LineID, Quantity: 4})
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if updated.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", updated.Quantity)
	}
	if updated.PriceSnapshot.String() != "10.00" {
		t.Fatalf("expected snapshot kept at 10.00, got %s", updated.PriceSnapshot.String())
	}
	if updated.Subtotal.String() != "40.00" {
		t.Fatalf("expected subtotal 40.00, got %s", updated.Subtotal.String())
	}
}

func TestUpdateItemRevalidatesStock(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "cedar-stacker", "6.00", 5, true)

	added, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := env.svc.UpdateItemQuantity(UpdateCartItemInput{UserID: 1, LineID: added.LineID, Quantity: 6}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestUpdateItemUnknownLine(t *testing.T) {
	env := newCartTestEnv(t)

	if _, err := env.svc.UpdateItemQuantity(UpdateCartItemInput{UserID: 1, LineID: 42, Quantity: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveItemEmptiesCart(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "ash-ninepins", "14.00", 9, true)

	added, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	cart, err := env.svc.RemoveItem(1, added.LineID)
	if err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}
	if cart.TotalItems != 0 {
		t.Fatalf("expected total items 0, got %d", cart.TotalItems)
	}
	if cart.TotalPrice.String() != "0.00" {
		t.Fatalf("expected total 0.00, got %s", cart.TotalPrice.String())
	}
}

func TestRemoveItemFromAnotherCart(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.createProduct(t, "beech-yo-yo", "4.50", 9, true)

	added, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	// 他人尝试删除该行：返回未找到，双方购物车保持不变
	if _, err := env.svc.RemoveItem(2, added.LineID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	owner, err := env.svc.View(1)
	if err != nil {
		t.Fatalf("view owner cart failed: %v", err)
	}
	if len(owner.Lines) != 1 || owner.Lines[0].Quantity != 2 {
		t.Fatalf("expected owner cart untouched, got %+v", owner.Lines)
	}
	other, err := env.svc.View(2)
	if err != nil {
		t.Fatalf("view other cart failed: %v", err)
	}
	if len(other.Lines) != 0 {
		t.Fatalf("expected other cart empty, got %d lines", len(other.Lines))
	}
}

func TestViewPrunesUnavailableProducts(t *testing.T) {
	env := newCartTestEnv(t)
	keep := env.createProduct(t, "elm-whistle", "3.00", 9, true)
	gone := env.createProduct(t, "fir-sailboat", "7.00", 9, true)

	if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: keep.ID, Quantity: 1}); err != nil {
		t.Fatalf("add keep failed: %v", err)
	}
	if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: gone.ID, Quantity: 1}); err != nil {
		t.Fatalf("add gone failed: %v", err)
	}

	gone.IsAvailable = false
	if err := env.productRepo.Update(gone); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	cart, err := env.svc.View(1)
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line after prune, got %d", len(cart.Lines))
	}
	if cart.Lines[0].ProductID != keep.ID {
		t.Fatalf("expected surviving line product %d, got %d", keep.ID, cart.Lines[0].ProductID)
	}
	if cart.TotalPrice.String() != "3.00" {
		t.Fatalf("expected total 3.00, got %s", cart.TotalPrice.String())
	}

	// 清理已落库，二次读取同样只剩一行
	again, err := env.svc.View(1)
	if err != nil {
		t.Fatalf("second view failed: %v", err)
	}
	if len(again.Lines) != 1 {
		t.Fatalf("expected prune persisted, got %d lines", len(again.Lines))
	}
}

func TestViewPruneBumpsCartUpdatedAt(t *testing.T) {
	env := newCartTestEnv(t)
	gone := env.createProduct(t, "larch-drum", "4.00", 9, true)

	if _, err := env.svc.AddItem(AddCartItemInput{UserID: 1, ProductID: gone.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	before, err := env.svc.View(1)
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}

	gone.IsAvailable = false
	if err := env.productRepo.Update(gone); err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	pruned, err := env.svc.View(1)
	if err != nil {
		t.Fatalf("pruning view failed: %v", err)
	}
	if len(pruned.Lines) != 0 {
		t.Fatalf("expected empty cart after prune, got %d lines", len(pruned.Lines))
	}
	if !pruned.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("prune did not bump updated_at: before=%v after=%v", before.UpdatedAt, pruned.UpdatedAt)
	}

	// 无清理的读取不动时间戳
	idle, err := env.svc.View(1)
	if err != nil {
		t.Fatalf("idle view failed: %v", err)
	}
	if !idle.UpdatedAt.Equal(pruned.UpdatedAt) {
		t.Fatalf("plain view changed updated_at: before=%v after=%v", pruned.UpdatedAt, idle.UpdatedAt)
	}
}

func TestViewCreatesEmptyCartOnFirstAccess(t *testing.T) {
	env := newCartTestEnv(t)

	cart, err := env.svc.View(7)
	if err != nil {
		t.Fatalf("view cart failed: %v", err)
	}
	if cart.CartID == 0 {
		t.Fatalf("expected cart to be created lazily")
	}
	if len(cart.Lines) != 0 || cart.TotalItems != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}

	again, err := env.svc.View(7)
	if err != nil {
		t.Fatalf("second view failed: %v", err)
	}
	if again.CartID != cart.CartID {
		t.Fatalf("expected same cart on repeat view, got %d and %d", cart.CartID, again.CartID)
	}
}
