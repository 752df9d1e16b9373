package service

import (
	"github.com/vijayholve/Wooden-EShop/internal/models"
	"github.com/vijayholve/Wooden-EShop/internal/repository"
)

// CatalogListInput 商品列表查询输入
type CatalogListInput struct {
	Page     int
	PageSize int
	Search   string
	Theme    string
	Genre    string
}

// CatalogService 商品目录服务（只读门面）
type CatalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(productRepo repository.ProductRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo}
}

// ListPublic 公开商品列表（仅在售商品，含图片与卖点）
func (s *CatalogService) ListPublic(input CatalogListInput) ([]models.Product, int64, error) {
	return s.productRepo.List(repository.ProductListFilter{
		Page:          input.Page,
		PageSize:      input.PageSize,
		Search:        input.Search,
		Theme:         input.Theme,
		Genre:         input.Genre,
		OnlyAvailable: true,
		WithChildren:  true,
	})
}

// GetPublicBySlug 按 slug 查询在售商品详情
func (s *CatalogService) GetPublicBySlug(slug string) (*models.Product, error) {
	if slug == "" {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetProduct 按 ID 查询商品（不限制在售状态，供内部校验使用）
func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}
