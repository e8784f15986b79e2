package handlers

import (
	"errors"
	"strconv"

	"meetgov/internal/middleware"
	"meetgov/internal/policy"
	"meetgov/internal/services"
	"meetgov/pkg/pagination"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AnnouncementRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

type AnnouncementHandler struct {
	service   *services.AnnouncementService
	evaluator *policy.Evaluator
}

func NewAnnouncementHandler(service *services.AnnouncementService, evaluator *policy.Evaluator) *AnnouncementHandler {
	return &AnnouncementHandler{
		service:   service,
		evaluator: evaluator,
	}
}

// Create 创建公告
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	announcement, err := h.service.Create(req.Title, req.Body, middleware.CurrentUserID(c))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, announcement)
}

// GetByID 获取公告
func (h *AnnouncementHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	announcement, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公告不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, announcement)
}

// GetAll 分页获取公告
// 持有编辑权限的用户可见草稿，否则只返回已发布的
func (h *AnnouncementHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)

	userID := middleware.CurrentUserID(c)
	publishedOnly := !h.evaluator.Can(userID, policy.VerbEdit, policy.NounAnnouncements)

	announcements, total, err := h.service.GetWithPage(publishedOnly, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, announcements, pageInfo)
}

// Update 更新公告
func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	announcement, err := h.service.Update(uint(id), req.Title, req.Body)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公告不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, announcement)
}

// Publish 发布公告
func (h *AnnouncementHandler) Publish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	announcement, err := h.service.Publish(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公告不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, announcement)
}

// Delete 删除公告
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公告不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
