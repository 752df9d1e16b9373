package repository

// ProductListFilter 商品列表筛选条件
type ProductListFilter struct {
	Page          int
	PageSize      int
	Search        string // 模糊匹配名称/品牌/摘要
	Theme         string
	Genre         string
	OnlyAvailable bool
	WithChildren  bool // 预加载图片与特性
}
