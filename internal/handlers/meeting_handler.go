package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"meetgov/internal/middleware"
	"meetgov/internal/models"
	"meetgov/internal/policy"
	"meetgov/internal/services"
	"meetgov/pkg/pagination"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type CreateMeetingRequest struct {
	MeetingTypeID uint       `json:"meeting_type_id" binding:"required"`
	Title         string     `json:"title" binding:"required,min=2,max=255"`
	Number        string     `json:"number" binding:"max=50"`
	Venue         string     `json:"venue" binding:"max=255"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
}

type UpdateMeetingRequest struct {
	Title       string     `json:"title" binding:"required"`
	Number      string     `json:"number"`
	Venue       string     `json:"venue"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// MeetingHandler 会议接口
// 会议是上下文实体：每个动作先解析目标归属的类型，再走求值器判定
type MeetingHandler struct {
	service     *services.MeetingService
	typeService *services.MeetingTypeService
	userService *services.UserService
	notifier    *services.NotificationService
	exporter    *services.ExportService
	evaluator   *policy.Evaluator
}

func NewMeetingHandler(service *services.MeetingService, typeService *services.MeetingTypeService, userService *services.UserService, notifier *services.NotificationService, exporter *services.ExportService, evaluator *policy.Evaluator) *MeetingHandler {
	return &MeetingHandler{
		service:     service,
		typeService: typeService,
		userService: userService,
		notifier:    notifier,
		exporter:    exporter,
		evaluator:   evaluator,
	}
}

// meetingRef 加载会议并构造求值器引用
func (h *MeetingHandler) meetingRef(c *gin.Context) (*models.Meeting, policy.MeetingRef, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return nil, policy.MeetingRef{}, false
	}

	// 回收站操作也要能定位目标，这里不过滤软删除
	meeting, err := h.service.GetUnscoped(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "会议不存在")
			return nil, policy.MeetingRef{}, false
		}
		response.ServerError(c, "查询失败")
		return nil, policy.MeetingRef{}, false
	}

	return meeting, policy.MeetingRef{ID: meeting.ID, MeetingTypeID: meeting.MeetingTypeID}, true
}

// visibleTypeIDs 当前用户的可见类型集；超级管理员不受限
func (h *MeetingHandler) visibleTypeIDs(userID uint) ([]uint, bool, error) {
	super, err := h.userService.IsSuperAdmin(userID)
	if err != nil {
		return nil, false, err
	}
	if super {
		return nil, false, nil
	}

	typeIDs, err := h.typeService.TypeIDsWithGrant(userID, policy.GrantView)
	if err != nil {
		return nil, false, err
	}
	return typeIDs, true, nil
}

// ========== 基础CRUD方法 ==========

// Create 创建会议
// 可创建类型集收窄：非超级管理员须持有目标类型的create授权
func (h *MeetingHandler) Create(c *gin.Context) {
	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 解析验证错误，提供更友好的提示
		if validationErr, ok := err.(validator.ValidationErrors); ok {
			errorMsg := "参数验证失败"
			for _, fieldErr := range validationErr {
				switch fieldErr.Field() {
				case "MeetingTypeID":
					errorMsg = "必须指定会议类型"
				case "Title":
					errorMsg = "会议标题不能为空，且长度在2-255个字符之间"
				default:
					errorMsg = fmt.Sprintf("字段 %s 验证失败", fieldErr.Field())
				}
				break // 只返回第一个错误
			}
			response.BadRequest(c, errorMsg)
			return
		}
		response.BadRequest(c, "请求参数格式错误")
		return
	}

	userID := middleware.CurrentUserID(c)

	super, err := h.userService.IsSuperAdmin(userID)
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !super {
		ok, err := h.typeService.HasGrant(userID, req.MeetingTypeID, policy.GrantCreate)
		if err != nil {
			response.ServerError(c, "权限检查失败")
			return
		}
		if !ok {
			response.Forbidden(c, "没有在该会议类型下创建会议的授权")
			return
		}
	}

	meeting, err := h.service.Create(req.MeetingTypeID, req.Title, req.Number, req.Venue, req.ScheduledAt, userID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, meeting)
}

// GetByID 获取会议详情（含议程项）
func (h *MeetingHandler) GetByID(c *gin.Context) {
	meeting, ref, ok := h.meetingRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingView, ref) {
		response.Forbidden(c, "")
		return
	}

	detail, err := h.service.GetWithDetail(meeting.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "会议不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, detail)
}

// GetAll 分页获取会议，只返回可见类型下的会议
func (h *MeetingHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	userID := middleware.CurrentUserID(c)
	typeIDs, restrict, err := h.visibleTypeIDs(userID)
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	meetings, total, err := h.service.GetWithPage(typeIDs, restrict, status, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, meetings, pageInfo)
}

// GetCreatableTypes 当前用户可创建会议的类型集
func (h *MeetingHandler) GetCreatableTypes(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	super, err := h.userService.IsSuperAdmin(userID)
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	if super {
		types, err := h.typeService.GetAll()
		if err != nil {
			response.ServerError(c, "查询失败")
			return
		}
		response.Success(c, types)
		return
	}

	types, err := h.typeService.TypesWithGrant(userID, policy.GrantCreate)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}
	response.Success(c, types)
}

// Update 更新会议
func (h *MeetingHandler) Update(c *gin.Context) {
	meeting, ref, ok := h.meetingRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingUpdate, ref) {
		response.Forbidden(c, "")
		return
	}

	var req UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	updated, err := h.service.Update(meeting.ID, req.Title, req.Number, req.Venue, req.ScheduledAt)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, updated)
}

// Delete 删除会议（软删除）
func (h *MeetingHandler) Delete(c *gin.Context) {
	meeting, ref, ok := h.meetingRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingDelete, ref) {
		response.Forbidden(c, "")
		return
	}

	if err := h.service.Delete(meeting.ID); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Restore 恢复软删除的会议
func (h *MeetingHandler) Restore(c *gin.Context) {
	meeting, ref, ok := h.meetingRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingRestore, ref) {
		response.Forbidden(c, "")
		return
	}

	restored, err := h.service.Restore(meeting.ID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, restored)
}

// ForceDelete 彻底删除会议
func (h *MeetingHandler) ForceDelete(c *gin.Context) {
	meeting, ref, ok := h.meetingRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingForceDelete, ref) {
		response.Forbidden(c, "")
		return
	}

	if err := h.service.ForceDelete(meeting.ID); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "彻底删除成功", nil)
}

// GetDeleted 回收站会议列表
func (h *MeetingHandler) GetDeleted(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)

	userID := middleware.CurrentUserID(c)
	typeIDs, restrict, err := h.visibleTypeIDs(userID)
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	meetings, total, err := h.service.GetDeleted(typeIDs, restrict, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, meetings, pageInfo)
}

// GetStats 会议统计
func (h *MeetingHandler) GetStats(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	typeIDs, restrict, err := h.visibleTypeIDs(userID)
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	stats, err := h.service.GetStats(typeIDs, restrict)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, stats)
}

// ========== 状态流转方法 ==========

// Finalize 定稿会议
func (h *MeetingHandler) Finalize(c *gin.Context) {
	meeting, ref, ok := h.meetingRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingFinalize, ref) {
		response.Forbidden(c, "")
		return
	}

	finalized, err := h.service.Finalize(meeting.ID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, finalized)
}

// Publish 发布会议，并通知持有该类型查看授权的用户
func (h *MeetingHandler) Publish(c *gin.Context) {
	meeting, ref, ok := h.meetingRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingPublish, ref) {
		response.Forbidden(c, "")
		return
	}

	published, err := h.service.Publish(meeting.ID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// 通知失败不影响发布结果
	if userIDs, err := h.typeService.UserIDsWithGrant(meeting.MeetingTypeID, policy.GrantView); err == nil {
		meetingID := published.ID
		title := fmt.Sprintf("会议发布：%s", published.Title)
		content := fmt.Sprintf("会议「%s」已发布", published.Title)
		_ = h.notifier.NotifyMany(userIDs, models.NotificationKindMeetingPublished, title, content, &meetingID)
	}

	response.Success(c, published)
}

// ========== 文档导出方法 ==========

// DownloadAgenda 下载会议议程CSV
func (h *MeetingHandler) DownloadAgenda(c *gin.Context) {
	meeting, ref, ok := h.meetingRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingDownloadAgenda, ref) {
		response.Forbidden(c, "")
		return
	}

	data, err := h.exporter.ExportAgenda(meeting.ID)
	if err != nil {
		response.ServerError(c, "导出失败")
		return
	}

	filename := fmt.Sprintf("agenda-%d.csv", meeting.ID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// DownloadMinutes 下载会议纪要CSV
func (h *MeetingHandler) DownloadMinutes(c *gin.Context) {
	meeting, ref, ok := h.meetingRef(c)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(c)
	if !h.evaluator.CanMeeting(userID, policy.MeetingDownloadMinutes, ref) {
		response.Forbidden(c, "")
		return
	}

	data, err := h.exporter.ExportMinutes(meeting.ID)
	if err != nil {
		response.ServerError(c, "导出失败")
		return
	}

	filename := fmt.Sprintf("minutes-%d.csv", meeting.ID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Export 导出会议清单CSV（扁平权限，路由层守卫）
func (h *MeetingHandler) Export(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	typeIDs, restrict, err := h.visibleTypeIDs(userID)
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	data, err := h.exporter.ExportMeetings(typeIDs, restrict)
	if err != nil {
		response.ServerError(c, "导出失败")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=meetings.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
