package repository

import (
	"errors"
	"time"

	"github.com/vijayholve/Wooden-EShop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
// 唯一性约束（一人一车、一车一商品一行）全部由存储层唯一索引兜底，
// 写路径使用单条 upsert 语句，避免读-检-写竞态。
type CartRepository interface {
	GetOrCreateByUser(userID uint) (*models.Cart, error)
	ListLines(cartID uint) ([]models.CartLine, error)
	FindLineByProduct(cartID, productID uint) (*models.CartLine, error)
	GetLine(cartID, lineID uint) (*models.CartLine, error)
	UpsertLine(line *models.CartLine) (*models.CartLine, error)
	UpdateLineQuantity(cartID, lineID uint, quantity int) error
	DeleteLine(cartID, lineID uint) (int64, error)
	DeleteLineByProduct(cartID, productID uint) (int64, error)
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// GetOrCreateByUser 获取用户购物车，不存在则创建空车（幂等）。
// 并发双创建由 user_id 唯一索引化解：插入使用 ON CONFLICT DO NOTHING，随后统一回读。
func (r *GormCartRepository) GetOrCreateByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.Cart{UserID: userID}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// ListLines 获取购物车全部行（带商品）
func (r *GormCartRepository) ListLines(cartID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Preload("Product").Where("cart_id = ?", cartID).Order("created_at asc, id asc").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindLineByProduct 按商品查找购物车行
func (r *GormCartRepository) FindLineByProduct(cartID, productID uint) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// GetLine 获取指定购物车内的行；行不属于该车时视为不存在，防止跨车访问。
func (r *GormCartRepository) GetLine(cartID, lineID uint) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.Where("id = ? AND cart_id = ?", lineID, cartID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// UpsertLine 添加或整体替换购物车行（数量与价格快照一并覆盖）。
// 单条 ON CONFLICT 语句保证并发加购同一商品时只落一行；
// 行写入与购物车时间戳更新在同一事务内提交。
func (r *GormCartRepository) UpsertLine(line *models.CartLine) (*models.CartLine, error) {
	if line == nil {
		return nil, nil
	}
	now := time.Now()
	line.CreatedAt = now
	line.UpdatedAt = now
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "price_snapshot", "updated_at"}),
		}).Create(line).Error; err != nil {
			return err
		}
		return touchCart(tx, line.CartID)
	})
	if err != nil {
		return nil, err
	}

	// 冲突分支下 line.ID 未必填充，统一回读保证返回持久化的行
	return r.FindLineByProduct(line.CartID, line.ProductID)
}

// UpdateLineQuantity 仅覆盖指定购物车内行的数量（价格快照保持不变），
// 与购物车时间戳更新同一事务提交。
func (r *GormCartRepository) UpdateLineQuantity(cartID, lineID uint, quantity int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CartLine{}).Where("id = ? AND cart_id = ?", lineID, cartID).Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return err
		}
		return touchCart(tx, cartID)
	})
}

// DeleteLine 删除指定购物车内的行，返回受影响行数（0 表示行不存在或不属于该车）。
// 删到行时同一事务内更新购物车时间戳；没删到则不动时间戳。
func (r *GormCartRepository) DeleteLine(cartID, lineID uint) (int64, error) {
	var rows int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND cart_id = ?", lineID, cartID).Delete(&models.CartLine{})
		if result.Error != nil {
			return result.Error
		}
		rows = result.RowsAffected
		if rows == 0 {
			return nil
		}
		return touchCart(tx, cartID)
	})
	return rows, err
}

// DeleteLineByProduct 按商品删除购物车行（用于清理已下架商品），返回受影响行数。
// 与 DeleteLine 同样仅在删到行时更新购物车时间戳。
func (r *GormCartRepository) DeleteLineByProduct(cartID, productID uint) (int64, error) {
	var rows int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartLine{})
		if result.Error != nil {
			return result.Error
		}
		rows = result.RowsAffected
		if rows == 0 {
			return nil
		}
		return touchCart(tx, cartID)
	})
	return rows, err
}

// touchCart 在事务内更新购物车的最后变更时间
func touchCart(tx *gorm.DB, cartID uint) error {
	return tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("updated_at", time.Now()).Error
}
