package handlers

import (
	"errors"
	"strconv"

	"meetgov/internal/middleware"
	"meetgov/internal/policy"
	"meetgov/internal/services"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateMinuteRequest struct {
	AgendaItemID uint   `json:"agenda_item_id" binding:"required"`
	Content      string `json:"content" binding:"required"`
	Decision     string `json:"decision"`
}

type UpdateMinuteRequest struct {
	Content  string `json:"content" binding:"required"`
	Decision string `json:"decision"`
}

// MinuteHandler 纪要接口
// 纪要是委托实体：鉴权经议程项沿所属会议委托
type MinuteHandler struct {
	service     *services.MinuteService
	itemService *services.AgendaItemService
	evaluator   *policy.Evaluator
}

func NewMinuteHandler(service *services.MinuteService, itemService *services.AgendaItemService, evaluator *policy.Evaluator) *MinuteHandler {
	return &MinuteHandler{
		service:     service,
		itemService: itemService,
		evaluator:   evaluator,
	}
}

// owningRef 解析纪要的所属会议
func (h *MinuteHandler) owningRef(c *gin.Context) (uint, policy.MeetingRef, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return 0, policy.MeetingRef{}, false
	}

	ref, err := h.service.OwningMeeting(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "纪要不存在")
			return 0, policy.MeetingRef{}, false
		}
		response.ServerError(c, "查询失败")
		return 0, policy.MeetingRef{}, false
	}

	return uint(id), *ref, true
}

// Create 创建纪要
// create走扁平权限（路由层守卫），额外要求所属会议的编辑授权
func (h *MinuteHandler) Create(c *gin.Context) {
	var req CreateMinuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	ref, err := h.itemService.OwningMeeting(req.AgendaItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "议程项不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingUpdate, *ref) {
		response.Forbidden(c, "没有编辑该会议的授权")
		return
	}

	minute, err := h.service.Create(req.AgendaItemID, req.Content, req.Decision, userID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, minute)
}

// GetByID 获取纪要
func (h *MinuteHandler) GetByID(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMinute(userID, policy.ItemView, ref) {
		response.Forbidden(c, "")
		return
	}

	minute, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "纪要不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, minute)
}

// GetByAgendaItem 获取某议程项下的纪要（挂在 /agenda-items/:id/minutes 下）
func (h *MinuteHandler) GetByAgendaItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "议程项ID格式错误")
		return
	}

	ref, err := h.itemService.OwningMeeting(uint(itemID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "议程项不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMinute(userID, policy.ItemView, *ref) {
		response.Forbidden(c, "")
		return
	}

	minutes, err := h.service.GetByAgendaItem(uint(itemID))
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, minutes)
}

// Update 更新纪要
func (h *MinuteHandler) Update(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMinute(userID, policy.ItemUpdate, ref) {
		response.Forbidden(c, "")
		return
	}

	var req UpdateMinuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	minute, err := h.service.Update(id, req.Content, req.Decision)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, minute)
}

// Delete 删除纪要（软删除）
func (h *MinuteHandler) Delete(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMinute(userID, policy.ItemDelete, ref) {
		response.Forbidden(c, "")
		return
	}

	if err := h.service.Delete(id); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Restore 恢复软删除的纪要
func (h *MinuteHandler) Restore(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMinute(userID, policy.ItemRestore, ref) {
		response.Forbidden(c, "")
		return
	}

	minute, err := h.service.Restore(id)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, minute)
}

// ForceDelete 彻底删除纪要
func (h *MinuteHandler) ForceDelete(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMinute(userID, policy.ItemForceDelete, ref) {
		response.Forbidden(c, "")
		return
	}

	if err := h.service.ForceDelete(id); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "彻底删除成功", nil)
}
