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

// NotificationHandler 通知接口
// 通知只能操作自己的：所有查询和写入都以当前用户为界
type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// GetMine 分页获取当前用户的通知
func (h *NotificationHandler) GetMine(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	unreadOnly := c.Query("unread") == "true"

	userID := middleware.CurrentUserID(c)
	notifications, total, err := h.service.GetByUser(userID, unreadOnly, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, notifications, pageInfo)
}

// UnreadCount 当前用户的未读通知数
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	count, err := h.service.UnreadCount(userID)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, gin.H{"unread": count})
}

// MarkRead 标记单条通知已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.service.MarkRead(userID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "通知不存在或已读")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.SuccessWithMessage(c, "已读", nil)
}

// MarkAllRead 标记全部通知已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	count, err := h.service.MarkAllRead(userID)
	if err != nil {
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, gin.H{"marked": count})
}

// Delete 删除通知
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.service.Delete(userID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "通知不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
