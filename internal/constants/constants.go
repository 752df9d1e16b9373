package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 购物车默认约束
const (
	DefaultMaxQuantityPerLine = 999
)

// 默认国家（客户资料未填写时使用）
const DefaultProfileCountry = "Unknown"
