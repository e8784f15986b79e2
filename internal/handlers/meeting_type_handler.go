package handlers

import (
	"errors"
	"strconv"

	"meetgov/internal/middleware"
	"meetgov/internal/services"
	"meetgov/pkg/pagination"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateMeetingTypeRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateMeetingTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type GrantRequest struct {
	UserID      uint     `json:"user_id" binding:"required"`
	Permissions []string `json:"permissions" binding:"required"`
}

type MeetingTypeHandler struct {
	service *services.MeetingTypeService
}

func NewMeetingTypeHandler(service *services.MeetingTypeService) *MeetingTypeHandler {
	return &MeetingTypeHandler{service: service}
}

// ========== 基础CRUD方法 ==========

// Create 创建会议类型
func (h *MeetingTypeHandler) Create(c *gin.Context) {
	var req CreateMeetingTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	meetingType, err := h.service.Create(req.Code, req.Name, req.Description)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, meetingType)
}

// GetByID 获取会议类型
func (h *MeetingTypeHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	meetingType, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "会议类型不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, meetingType)
}

// GetAll 分页获取会议类型
func (h *MeetingTypeHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	keyword := c.Query("keyword")

	types, total, err := h.service.GetWithPage(keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, types, pageInfo)
}

// Update 更新会议类型
func (h *MeetingTypeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateMeetingTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	meetingType, err := h.service.Update(uint(id), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "会议类型不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, meetingType)
}

// Delete 删除会议类型
func (h *MeetingTypeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "会议类型不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ========== 授权管理方法 ==========

// GetGrantedUsers 某会议类型下的授权用户列表
func (h *MeetingTypeHandler) GetGrantedUsers(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	users, err := h.service.ListGrantedUsers(uint(id))
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, users)
}

// GetCandidates 搜索尚未授权的用户
func (h *MeetingTypeHandler) GetCandidates(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	term := c.Query("q")
	candidates, err := h.service.FindCandidates(uint(id), term)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, candidates)
}

// Grant 授权（覆盖式：重复授权替换整套权限集）
func (h *MeetingTypeHandler) Grant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	grant, err := h.service.Grant(uint(id), req.UserID, req.Permissions, middleware.CurrentUserID(c))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, grant)
}

// Revoke 撤销授权
func (h *MeetingTypeHandler) Revoke(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "用户ID格式错误")
		return
	}

	if err := h.service.Revoke(uint(id), uint(userID)); err != nil {
		if err.Error() == "授权记录不存在" {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "撤销失败")
		return
	}

	response.SuccessWithMessage(c, "撤销成功", nil)
}
