package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID               uint            `gorm:"primarykey" json:"id"`                                        // 主键
	Name             string          `gorm:"uniqueIndex;not null" json:"name"`                            // 商品名称
	Slug             string          `gorm:"uniqueIndex;not null" json:"slug"`                            // 唯一标识
	Brand            string          `gorm:"type:varchar(100);not null;default:'Unbranded'" json:"brand"` // 品牌
	ShortDescription string          `gorm:"type:varchar(500)" json:"short_description"`                  // 摘要
	LongDescription  string          `json:"long_description"`                                            // 详情
	Theme            string          `gorm:"type:varchar(100)" json:"theme"`                              // 主题
	Genre            string          `gorm:"type:varchar(100)" json:"genre"`                              // 类型
	Price            Money           `gorm:"type:decimal(10,2);not null;default:0" json:"price"`          // 零售价
	DiscountPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"` // 折扣百分比
	StockQuantity    int             `gorm:"not null;default:0" json:"stock_quantity"`                    // 可售库存
	IsAvailable      bool            `gorm:"not null;index" json:"is_available"`                          // 是否上架（不设列默认值，零值 false 需要能落库）
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt        time.Time       `json:"updated_at"`                                                  // 更新时间
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	Images   []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`   // 图片列表
	Features []ProductFeature `gorm:"foreignKey:ProductID" json:"features,omitempty"` // 特性列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// EffectivePrice 计算折后单价（零售价减去折扣金额，保留 2 位小数）
func (p *Product) EffectivePrice() Money {
	if p == nil {
		return Money{}
	}
	if p.DiscountPercent.LessThanOrEqual(decimal.Zero) {
		return NewMoneyFromDecimal(p.Price.Decimal)
	}
	discount := p.Price.Decimal.Mul(p.DiscountPercent).Div(decimal.NewFromInt(100))
	return NewMoneyFromDecimal(p.Price.Decimal.Sub(discount))
}

// ProductImage 商品图片表
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                           // 主键
	ProductID uint      `gorm:"not null;uniqueIndex:idx_product_image_order" json:"product_id"` // 商品ID
	URL       string    `gorm:"not null" json:"url"`                                            // 图片地址
	AltText   string    `gorm:"default:''" json:"alt_text"`                                     // 替代文本
	IsMain    bool      `gorm:"not null;default:false" json:"is_main"`                          // 是否主图
	SortOrder int       `gorm:"not null;default:0;uniqueIndex:idx_product_image_order" json:"sort_order"` // 展示顺序
	CreatedAt time.Time `json:"created_at"`                                                     // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}

// ProductFeature 商品特性表（键值对）
type ProductFeature struct {
	ID        uint   `gorm:"primarykey" json:"id"`                      // 主键
	ProductID uint   `gorm:"not null;index" json:"product_id"`          // 商品ID
	Name      string `gorm:"type:varchar(100);not null" json:"name"`    // 特性名
	Value     string `gorm:"not null" json:"value"`                     // 特性值
}

// TableName 指定表名
func (ProductFeature) TableName() string {
	return "product_features"
}
