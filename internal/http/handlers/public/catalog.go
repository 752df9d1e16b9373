package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vijayholve/Wooden-EShop/internal/http/response"
	"github.com/vijayholve/Wooden-EShop/internal/models"
	"github.com/vijayholve/Wooden-EShop/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicProductView 公共商品响应结构
type PublicProductView struct {
	models.Product
	EffectivePrice models.Money `json:"effective_price"` // 折后单价
	InStock        bool         `json:"in_stock"`
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	// 获取分页参数
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	// 获取筛选参数
	search := strings.TrimSpace(c.Query("search"))
	theme := strings.TrimSpace(c.Query("theme"))
	genre := strings.TrimSpace(c.Query("genre"))

	products, total, err := h.CatalogService.ListPublic(service.CatalogListInput{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
		Theme:    theme,
		Genre:    genre,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	decorated := make([]PublicProductView, 0, len(products))
	for i := range products {
		decorated = append(decorated, decoratePublicProduct(&products[i]))
	}

	// 统一响应格式
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, decorated, pagination)
}

// GetProductBySlug 根据 slug 获取商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.CatalogService.GetPublicBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) || errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	response.Success(c, decoratePublicProduct(product))
}

func decoratePublicProduct(product *models.Product) PublicProductView {
	if product == nil {
		return PublicProductView{}
	}
	return PublicProductView{
		Product:        *product,
		EffectivePrice: product.EffectivePrice(),
		InStock:        product.StockQuantity > 0,
	}
}
