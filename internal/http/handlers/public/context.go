package public

import (
	handlershared "github.com/vijayholve/Wooden-EShop/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidMsg, typeInvalidMsg string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidMsg, typeInvalidMsg)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}
