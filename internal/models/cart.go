package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart 购物车表（每个用户恰好一个，首次访问时惰性创建）
// 不使用软删除：user_id 上的唯一索引保证"一人一车"，软删除行会与该约束冲突。
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                // 主键
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"` // 用户ID（一对一）
	CreatedAt time.Time `gorm:"index" json:"created_at"`             // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`             // 最后变更时间

	User  *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 关联用户（随用户级联删除）
	Lines []CartLine `gorm:"foreignKey:CartID" json:"lines,omitempty"`               // 购物车行
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartLine 购物车行（同一购物车内每个商品至多一行）
// 不使用软删除：删除即终态，软删除行会与 (cart_id, product_id) 唯一索引冲突。
type CartLine struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                         // 主键
	CartID        uint      `gorm:"not null;uniqueIndex:idx_cart_line_cart_product" json:"cart_id"`    // 购物车ID
	ProductID     uint      `gorm:"not null;uniqueIndex:idx_cart_line_cart_product" json:"product_id"` // 商品ID
	Quantity      int       `gorm:"not null" json:"quantity"`                                     // 数量（正整数）
	PriceSnapshot Money     `gorm:"type:decimal(10,2);not null" json:"price_snapshot"`            // 写入时的折后单价快照
	CreatedAt     time.Time `json:"created_at"`                                                   // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                                   // 更新时间

	Cart    *Cart    `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"-"` // 关联购物车
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`          // 关联商品
}

// TableName 指定表名
func (CartLine) TableName() string {
	return "cart_lines"
}

// Subtotal 行小计 = 快照单价 × 数量
func (l *CartLine) Subtotal() Money {
	if l == nil {
		return Money{}
	}
	return NewMoneyFromDecimal(l.PriceSnapshot.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity))))
}
