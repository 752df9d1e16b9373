package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/vijayholve/Wooden-EShop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var cartRepoTestDBSeq int

func newCartTestRepo(t *testing.T) *GormCartRepository {
	t.Helper()

	cartRepoTestDBSeq++
	dsn := fmt.Sprintf("file:cart_repo_%d?mode=memory&cache=shared", cartRepoTestDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Cart{}, &models.CartLine{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCartRepository(db)
}

func moneyFromString(t *testing.T, value string) models.Money {
	t.Helper()
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}

func TestGetOrCreateByUserIdempotent(t *testing.T) {
	repo := newCartTestRepo(t)

	first, err := repo.GetOrCreateByUser(11)
	if err != nil {
		t.Fatalf("first get-or-create failed: %v", err)
	}
	second, err := repo.GetOrCreateByUser(11)
	if err != nil {
		t.Fatalf("second get-or-create failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same cart, got ids %d and %d", first.ID, second.ID)
	}

	other, err := repo.GetOrCreateByUser(12)
	if err != nil {
		t.Fatalf("get-or-create for other user failed: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("expected distinct carts per user")
	}
}

func TestUpsertLineReplacesQuantityAndSnapshot(t *testing.T) {
	repo := newCartTestRepo(t)

	cart, err := repo.GetOrCreateByUser(21)
	if err != nil {
		t.Fatalf("get-or-create failed: %v", err)
	}

	first, err := repo.UpsertLine(&models.CartLine{
		CartID:        cart.ID,
		ProductID:     501,
		Quantity:      2,
		PriceSnapshot: moneyFromString(t, "10.00"),
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	second, err := repo.UpsertLine(&models.CartLine{
		CartID:        cart.ID,
		ProductID:     501,
		Quantity:      5,
		PriceSnapshot: moneyFromString(t, "12.50"),
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected upsert to reuse line %d, got %d", first.ID, second.ID)
	}
	if second.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", second.Quantity)
	}
	if second.PriceSnapshot.String() != "12.50" {
		t.Fatalf("expected snapshot 12.50, got %s", second.PriceSnapshot.String())
	}

	lines, err := repo.ListLines(cart.ID)
	if err != nil {
		t.Fatalf("list lines failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected single line after upsert, got %d", len(lines))
	}
}

func TestDeleteLineScopedToCart(t *testing.T) {
	repo := newCartTestRepo(t)

	owner, err := repo.GetOrCreateByUser(31)
	if err != nil {
		t.Fatalf("get-or-create owner failed: %v", err)
	}
	intruder, err := repo.GetOrCreateByUser(32)
	if err != nil {
		t.Fatalf("get-or-create intruder failed: %v", err)
	}

	line, err := repo.UpsertLine(&models.CartLine{
		CartID:        owner.ID,
		ProductID:     601,
		Quantity:      1,
		PriceSnapshot: moneyFromString(t, "8.00"),
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	rows, err := repo.DeleteLine(intruder.ID, line.ID)
	if err != nil {
		t.Fatalf("cross-cart delete failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows for cross-cart delete, got %d", rows)
	}

	rows, err = repo.DeleteLine(owner.ID, line.ID)
	if err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row for owner delete, got %d", rows)
	}
}

func TestGetLineScopedToCart(t *testing.T) {
	repo := newCartTestRepo(t)

	owner, err := repo.GetOrCreateByUser(41)
	if err != nil {
		t.Fatalf("get-or-create failed: %v", err)
	}
	line, err := repo.UpsertLine(&models.CartLine{
		CartID:        owner.ID,
		ProductID:     701,
		Quantity:      3,
		PriceSnapshot: moneyFromString(t, "6.00"),
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	found, err := repo.GetLine(owner.ID, line.ID)
	if err != nil {
		t.Fatalf("get line failed: %v", err)
	}
	if found == nil || found.ID != line.ID {
		t.Fatalf("expected line %d, got %+v", line.ID, found)
	}

	foreign, err := repo.GetLine(owner.ID+1, line.ID)
	if err != nil {
		t.Fatalf("foreign get line failed: %v", err)
	}
	if foreign != nil {
		t.Fatalf("expected nil for foreign cart lookup, got %+v", foreign)
	}
}

func TestLineMutationsBumpCartUpdatedAt(t *testing.T) {
	repo := newCartTestRepo(t)

	cart, err := repo.GetOrCreateByUser(51)
	if err != nil {
		t.Fatalf("get-or-create failed: %v", err)
	}

	reload := func() *models.Cart {
		t.Helper()
		fresh, err := repo.GetOrCreateByUser(51)
		if err != nil {
			t.Fatalf("reload cart failed: %v", err)
		}
		return fresh
	}

	time.Sleep(10 * time.Millisecond)
	line, err := repo.UpsertLine(&models.CartLine{
		CartID:        cart.ID,
		ProductID:     801,
		Quantity:      1,
		PriceSnapshot: moneyFromString(t, "5.00"),
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	afterUpsert := reload()
	if !afterUpsert.UpdatedAt.After(cart.UpdatedAt) {
		t.Fatalf("upsert did not bump updated_at: before=%v after=%v", cart.UpdatedAt, afterUpsert.UpdatedAt)
	}

	time.Sleep(10 * time.Millisecond)
	if err := repo.UpdateLineQuantity(cart.ID, line.ID, 3); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	afterUpdate := reload()
	if !afterUpdate.UpdatedAt.After(afterUpsert.UpdatedAt) {
		t.Fatalf("quantity update did not bump updated_at: before=%v after=%v", afterUpsert.UpdatedAt, afterUpdate.UpdatedAt)
	}

	time.Sleep(10 * time.Millisecond)
	rows, err := repo.DeleteLine(cart.ID, line.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row deleted, got %d", rows)
	}
	afterDelete := reload()
	if !afterDelete.UpdatedAt.After(afterUpdate.UpdatedAt) {
		t.Fatalf("delete did not bump updated_at: before=%v after=%v", afterUpdate.UpdatedAt, afterDelete.UpdatedAt)
	}

	// 空删不动时间戳
	time.Sleep(10 * time.Millisecond)
	rows, err = repo.DeleteLine(cart.ID, line.ID)
	if err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows for repeated delete, got %d", rows)
	}
	afterNoop := reload()
	if !afterNoop.UpdatedAt.Equal(afterDelete.UpdatedAt) {
		t.Fatalf("no-op delete changed updated_at: before=%v after=%v", afterDelete.UpdatedAt, afterNoop.UpdatedAt)
	}
}

func TestDeleteLineByProductReportsRows(t *testing.T) {
	repo := newCartTestRepo(t)

	cart, err := repo.GetOrCreateByUser(61)
	if err != nil {
		t.Fatalf("get-or-create failed: %v", err)
	}
	if _, err := repo.UpsertLine(&models.CartLine{
		CartID:        cart.ID,
		ProductID:     901,
		Quantity:      2,
		PriceSnapshot: moneyFromString(t, "7.00"),
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	rows, err := repo.DeleteLineByProduct(cart.ID, 901)
	if err != nil {
		t.Fatalf("delete by product failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row deleted, got %d", rows)
	}

	rows, err = repo.DeleteLineByProduct(cart.ID, 901)
	if err != nil {
		t.Fatalf("repeated delete by product failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows for repeated delete, got %d", rows)
	}
}
