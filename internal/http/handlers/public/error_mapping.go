package public

import (
	"errors"

	"github.com/vijayholve/Wooden-EShop/internal/http/response"
	"github.com/vijayholve/Wooden-EShop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartWriteErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "error.bad_request"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "error.quantity_invalid"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "error.product_not_found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "error.product_not_available"},
	{target: service.ErrInsufficientStock, code: response.CodeConflict, msg: "error.insufficient_stock"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "error.cart_item_not_found"},
}

func respondCartWriteError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartWriteErrorRules, response.CodeInternal, "error.cart_update_failed")
}
