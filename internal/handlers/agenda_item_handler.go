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

type CreateAgendaItemRequest struct {
	MeetingID        uint   `json:"meeting_id" binding:"required"`
	AgendaItemTypeID *uint  `json:"agenda_item_type_id"`
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	SortOrder        int    `json:"sort_order"`
	PresenterID      *uint  `json:"presenter_id"`
}

type UpdateAgendaItemRequest struct {
	AgendaItemTypeID *uint  `json:"agenda_item_type_id"`
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	SortOrder        int    `json:"sort_order"`
	PresenterID      *uint  `json:"presenter_id"`
}

type ReorderAgendaRequest struct {
	OrderedIDs []uint `json:"ordered_ids" binding:"required"`
}

// AgendaItemHandler 议程项接口
// 议程项是委托实体：鉴权沿所属会议委托
type AgendaItemHandler struct {
	service        *services.AgendaItemService
	meetingService *services.MeetingService
	evaluator      *policy.Evaluator
}

func NewAgendaItemHandler(service *services.AgendaItemService, meetingService *services.MeetingService, evaluator *policy.Evaluator) *AgendaItemHandler {
	return &AgendaItemHandler{
		service:        service,
		meetingService: meetingService,
		evaluator:      evaluator,
	}
}

// owningRef 解析议程项的所属会议
func (h *AgendaItemHandler) owningRef(c *gin.Context) (uint, policy.MeetingRef, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return 0, policy.MeetingRef{}, false
	}

	ref, err := h.service.OwningMeeting(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "议程项不存在")
			return 0, policy.MeetingRef{}, false
		}
		response.ServerError(c, "查询失败")
		return 0, policy.MeetingRef{}, false
	}

	return uint(id), *ref, true
}

// Create 创建议程项
// create走扁平权限（路由层守卫），额外要求所属会议的编辑授权
func (h *AgendaItemHandler) Create(c *gin.Context) {
	var req CreateAgendaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	meeting, err := h.meetingService.GetByID(req.MeetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "会议不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	userID := middleware.CurrentUserID(c)
	ref := policy.MeetingRef{ID: meeting.ID, MeetingTypeID: meeting.MeetingTypeID}
	if !h.evaluator.CanMeeting(userID, policy.MeetingUpdate, ref) {
		response.Forbidden(c, "没有编辑该会议的授权")
		return
	}

	item, err := h.service.Create(req.MeetingID, req.AgendaItemTypeID, req.PresenterID, req.Title, req.Description, req.SortOrder)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, item)
}

// GetByID 获取议程项
func (h *AgendaItemHandler) GetByID(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanAgendaItem(userID, policy.ItemView, ref) {
		response.Forbidden(c, "")
		return
	}

	item, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "议程项不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, item)
}

// GetByMeeting 获取某会议的议程（挂在 /meetings/:id/agenda-items 下）
func (h *AgendaItemHandler) GetByMeeting(c *gin.Context) {
	meetingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "会议ID格式错误")
		return
	}

	meeting, err := h.meetingService.GetByID(uint(meetingID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "会议不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	userID := middleware.CurrentUserID(c)
	ref := policy.MeetingRef{ID: meeting.ID, MeetingTypeID: meeting.MeetingTypeID}
	if !h.evaluator.CanMeeting(userID, policy.MeetingView, ref) {
		response.Forbidden(c, "")
		return
	}

	items, err := h.service.GetByMeeting(meeting.ID)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, items)
}

// Update 更新议程项
func (h *AgendaItemHandler) Update(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanAgendaItem(userID, policy.ItemUpdate, ref) {
		response.Forbidden(c, "")
		return
	}

	var req UpdateAgendaItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	item, err := h.service.Update(id, req.AgendaItemTypeID, req.PresenterID, req.Title, req.Description, req.SortOrder)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, item)
}

// Reorder 调整某会议的议程顺序（挂在 /meetings/:id/agenda-items/reorder 下）
func (h *AgendaItemHandler) Reorder(c *gin.Context) {
	meetingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "会议ID格式错误")
		return
	}

	meeting, err := h.meetingService.GetByID(uint(meetingID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "会议不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	userID := middleware.CurrentUserID(c)
	ref := policy.MeetingRef{ID: meeting.ID, MeetingTypeID: meeting.MeetingTypeID}
	if !h.evaluator.CanMeeting(userID, policy.MeetingUpdate, ref) {
		response.Forbidden(c, "")
		return
	}

	var req ReorderAgendaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.service.Reorder(meeting.ID, req.OrderedIDs); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "排序成功", nil)
}

// Delete 删除议程项（软删除）
func (h *AgendaItemHandler) Delete(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanAgendaItem(userID, policy.ItemDelete, ref) {
		response.Forbidden(c, "")
		return
	}

	if err := h.service.Delete(id); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Restore 恢复软删除的议程项
func (h *AgendaItemHandler) Restore(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanAgendaItem(userID, policy.ItemRestore, ref) {
		response.Forbidden(c, "")
		return
	}

	item, err := h.service.Restore(id)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, item)
}

// ForceDelete 彻底删除议程项
func (h *AgendaItemHandler) ForceDelete(c *gin.Context) {
	id, ref, ok := h.owningRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanAgendaItem(userID, policy.ItemForceDelete, ref) {
		response.Forbidden(c, "")
		return
	}

	if err := h.service.ForceDelete(id); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "彻底删除成功", nil)
}

// ========== 议程项类型 ==========

type AgendaItemTypeRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AgendaItemTypeHandler 议程项类型接口（扁平权限实体）
type AgendaItemTypeHandler struct {
	service *services.AgendaItemTypeService
}

func NewAgendaItemTypeHandler(service *services.AgendaItemTypeService) *AgendaItemTypeHandler {
	return &AgendaItemTypeHandler{service: service}
}

// Create 创建议程项类型
func (h *AgendaItemTypeHandler) Create(c *gin.Context) {
	var req AgendaItemTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		response.BadRequest(c, "参数错误")
		return
	}

	itemType, err := h.service.Create(req.Code, req.Name, req.Description)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, itemType)
}

// GetAll 获取全部议程项类型
func (h *AgendaItemTypeHandler) GetAll(c *gin.Context) {
	types, err := h.service.GetAll()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, types)
}

// Update 更新议程项类型
func (h *AgendaItemTypeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AgendaItemTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	itemType, err := h.service.Update(uint(id), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "议程项类型不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, itemType)
}

// Delete 删除议程项类型
func (h *AgendaItemTypeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
