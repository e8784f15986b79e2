package pagination

// 列表接口统一的分页约定：查询参数 page / page_size，页码从1开始，
// 响应在 page_info 中回带总数与翻页标记

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100 // 单页上限，防止一次拉取过大结果集
)

// PageParams 请求侧分页参数
type PageParams struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// ParsePageParams 解析分页查询参数
// 缺失或非法的值回退默认值，页大小夹紧到上限
func ParsePageParams(c *gin.Context) *PageParams {
	params := &PageParams{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page >= 1 {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size >= 1 {
		params.PageSize = size
	}
	if params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}

	return params
}

// GetOffset 当前页的记录偏移
func (p *PageParams) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

// GetLimit 当前页的记录条数
func (p *PageParams) GetLimit() int {
	return p.PageSize
}

// PageInfo 响应侧分页信息
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPageInfo 由总记录数计算分页信息
func NewPageInfo(page, pageSize int, total int64) *PageInfo {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}

	return &PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
