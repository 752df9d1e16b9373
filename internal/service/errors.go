package service

import "errors"

// 业务哨兵错误，由 handler 层映射为响应码
var (
	ErrNotFound            = errors.New("resource not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidInput        = errors.New("invalid input")
)
