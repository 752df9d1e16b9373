package public

import handlershared "github.com/vijayholve/Wooden-EShop/internal/http/handlers/shared"

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
