package handlers

import (
	"errors"
	"strconv"

	"meetgov/internal/services"
	"meetgov/pkg/pagination"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PermissionHandler 权限查询接口（词汇表只读）
type PermissionHandler struct {
	service *services.PermissionService
}

func NewPermissionHandler(service *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// GetAll 分页获取权限
func (h *PermissionHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	module := c.Query("module")

	permissions, total, err := h.service.GetWithPage(module, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, permissions, pageInfo)
}

// GetByID 获取权限
func (h *PermissionHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	permission, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "权限不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, permission)
}

// GetModules 获取全部权限模块名
func (h *PermissionHandler) GetModules(c *gin.Context) {
	modules, err := h.service.GetModules()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, modules)
}
