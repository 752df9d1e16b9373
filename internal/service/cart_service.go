package service

import (
	"time"

	"github.com/vijayholve/Wooden-EShop/internal/constants"
	"github.com/vijayholve/Wooden-EShop/internal/logger"
	"github.com/vijayholve/Wooden-EShop/internal/models"
	"github.com/vijayholve/Wooden-EShop/internal/repository"

	"github.com/shopspring/decimal"
)

// CartLineDetail 购物车行详情（用于响应）
type CartLineDetail struct {
	LineID        uint            `json:"id"`
	ProductID     uint            `json:"product_id"`
	Quantity      int             `json:"quantity"`
	PriceSnapshot models.Money    `json:"price_snapshot"`
	Subtotal      models.Money    `json:"subtotal"`
	Product       *models.Product `json:"product,omitempty"`
}

// CartDetail 购物车详情（行 + 实时汇总）
type CartDetail struct {
	CartID     uint             `json:"id"`
	UserID     uint             `json:"user_id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Lines      []CartLineDetail `json:"items"`
	TotalItems int              `json:"total_items"`
	TotalPrice models.Money     `json:"total_price"`
}

// AddCartItemInput 加购输入
type AddCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// UpdateCartItemInput 改量输入
type UpdateCartItemInput struct {
	UserID   uint
	LineID   uint
	Quantity int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	maxQuantity int
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, maxQuantityPerLine int) *CartService {
	if maxQuantityPerLine <= 0 {
		maxQuantityPerLine = constants.DefaultMaxQuantityPerLine
	}
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		maxQuantity: maxQuantityPerLine,
	}
}

// View 获取用户购物车（首次访问时创建空车）。
// 已下架或已删除商品的行在读取时顺手清理，不进入汇总。
func (s *CartService) View(userID uint) (*CartDetail, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	lines, err := s.cartRepo.ListLines(cart.ID)
	if err != nil {
		return nil, err
	}

	pruned := false
	details := make([]CartLineDetail, 0, len(lines))
	for i := range lines {
		line := &lines[i]
		product := line.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(line.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil || !product.IsAvailable {
			// 清理失败不阻塞读取，下次访问重试
			rows, err := s.cartRepo.DeleteLineByProduct(cart.ID, line.ProductID)
			if err != nil {
				logger.Warnw("cart_prune_failed", "cart_id", cart.ID, "product_id", line.ProductID, "error", err)
			} else if rows > 0 {
				pruned = true
			}
			continue
		}
		details = append(details, s.lineDetail(line, product))
	}

	// 清理视同变更，回读拿到事务内更新过的时间戳
	if pruned {
		fresh, err := s.cartRepo.GetOrCreateByUser(userID)
		if err != nil {
			return nil, err
		}
		cart = fresh
	}

	detail := &CartDetail{
		CartID:    cart.ID,
		UserID:    cart.UserID,
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
		Lines:     details,
	}
	detail.TotalItems, detail.TotalPrice = sumLines(details)
	return detail, nil
}

// AddItem 加购：同一商品重复加购时整体覆盖数量并刷新价格快照（不做累加）。
func (s *CartService) AddItem(input AddCartItemInput) (*CartLineDetail, error) {
	if input.UserID == 0 || input.ProductID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Quantity < 1 || input.Quantity > s.maxQuantity {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsAvailable {
		return nil, ErrProductNotAvailable
	}
	if input.Quantity > product.StockQuantity {
		return nil, ErrInsufficientStock
	}

	cart, err := s.cartRepo.GetOrCreateByUser(input.UserID)
	if err != nil {
		return nil, err
	}

	line, err := s.cartRepo.UpsertLine(&models.CartLine{
		CartID:        cart.ID,
		ProductID:     input.ProductID,
		Quantity:      input.Quantity,
		PriceSnapshot: product.EffectivePrice(),
	})
	if err != nil {
		return nil, err
	}

	detail := s.lineDetail(line, product)
	return &detail, nil
}

// UpdateItemQuantity 修改行数量。
// 库存按当前目录值重新校验；价格快照保持加购时的值不变。
func (s *CartService) UpdateItemQuantity(input UpdateCartItemInput) (*CartLineDetail, error) {
	if input.UserID == 0 || input.LineID == 0 {
		return nil, ErrInvalidInput
	}
	if input.Quantity < 1 || input.Quantity > s.maxQuantity {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetOrCreateByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	line, err := s.cartRepo.GetLine(cart.ID, input.LineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrNotFound
	}

	product, err := s.productRepo.GetByID(line.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsAvailable {
		return nil, ErrProductNotAvailable
	}
	if input.Quantity > product.StockQuantity {
		return nil, ErrInsufficientStock
	}

	if err := s.cartRepo.UpdateLineQuantity(cart.ID, line.ID, input.Quantity); err != nil {
		return nil, err
	}

	line.Quantity = input.Quantity
	detail := s.lineDetail(line, product)
	return &detail, nil
}

// RemoveItem 删除购物车行，返回删除后的购物车汇总。
// 行不存在或属于他人购物车时返回 ErrNotFound，不泄露他车信息。
func (s *CartService) RemoveItem(userID, lineID uint) (*CartDetail, error) {
	if userID == 0 || lineID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.cartRepo.DeleteLine(cart.ID, lineID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.View(userID)
}

func (s *CartService) lineDetail(line *models.CartLine, product *models.Product) CartLineDetail {
	return CartLineDetail{
		LineID:        line.ID,
		ProductID:     line.ProductID,
		Quantity:      line.Quantity,
		PriceSnapshot: line.PriceSnapshot,
		Subtotal:      line.Subtotal(),
		Product:       product,
	}
}

func sumLines(lines []CartLineDetail) (int, models.Money) {
	totalItems := 0
	totalPrice := decimal.Zero
	for _, line := range lines {
		totalItems += line.Quantity
		totalPrice = totalPrice.Add(line.Subtotal.Decimal)
	}
	return totalItems, models.NewMoneyFromDecimal(totalPrice)
}
