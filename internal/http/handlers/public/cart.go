package public

import (
	"strconv"

	"github.com/vijayholve/Wooden-EShop/internal/http/response"
	"github.com/vijayholve/Wooden-EShop/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 改量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	cart, err := h.CartService.View(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	response.Success(c, cart)
}

// AddCartItem 加购商品（重复加购同一商品时覆盖数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	line, err := h.CartService.AddItem(service.AddCartItemInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondCartWriteError(c, err)
		return
	}
	response.Success(c, line)
}

// UpdateCartItem 修改购物车行数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	lineID, ok := parseLineID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	line, err := h.CartService.UpdateItemQuantity(service.UpdateCartItemInput{
		UserID:   uid,
		LineID:   lineID,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondCartWriteError(c, err)
		return
	}
	response.Success(c, line)
}

// DeleteCartItem 删除购物车行，返回删除后的购物车
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	lineID, ok := parseLineID(c)
	if !ok {
		return
	}

	cart, err := h.CartService.RemoveItem(uid, lineID)
	if err != nil {
		respondCartWriteError(c, err)
		return
	}
	response.Success(c, cart)
}

func parseLineID(c *gin.Context) (uint, bool) {
	raw := c.Param("line_id")
	lineID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || lineID == 0 {
		respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return 0, false
	}
	return uint(lineID), true
}
