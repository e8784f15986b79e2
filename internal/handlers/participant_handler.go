package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"meetgov/internal/services"
	"meetgov/pkg/pagination"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ParticipantRequest struct {
	UserID             *uint  `json:"user_id"`
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email"`
	Department         string `json:"department"`
	PositionID         *uint  `json:"position_id"`
	EmploymentStatusID *uint  `json:"employment_status_id"`
}

type ParticipantHandler struct {
	service  *services.ParticipantService
	exporter *services.ExportService
}

func NewParticipantHandler(service *services.ParticipantService, exporter *services.ExportService) *ParticipantHandler {
	return &ParticipantHandler{
		service:  service,
		exporter: exporter,
	}
}

// Create 创建参会人员
func (h *ParticipantHandler) Create(c *gin.Context) {
	var req ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	participant, err := h.service.Create(req.UserID, req.PositionID, req.EmploymentStatusID, req.Name, req.Email, req.Department)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, participant)
}

// GetByID 获取参会人员
func (h *ParticipantHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	participant, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "参会人员不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, participant)
}

// GetAll 分页获取参会人员
func (h *ParticipantHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	keyword := c.Query("keyword")
	department := c.Query("department")

	participants, total, err := h.service.GetWithPage(keyword, department, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, participants, pageInfo)
}

// Update 更新参会人员
func (h *ParticipantHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req ParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	participant, err := h.service.Update(uint(id), req.UserID, req.PositionID, req.EmploymentStatusID, req.Name, req.Email, req.Department)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "参会人员不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, participant)
}

// Delete 删除参会人员
func (h *ParticipantHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "参会人员不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Export 导出参会人员CSV
func (h *ParticipantHandler) Export(c *gin.Context) {
	data, err := h.exporter.ExportParticipants()
	if err != nil {
		response.ServerError(c, "导出失败")
		return
	}

	c.Header("Content-Disposition", "attachment; filename=participants.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Import 从CSV导入参会人员
func (h *ParticipantHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请上传CSV文件")
		return
	}
	defer file.Close()

	result, err := h.exporter.ImportParticipants(file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, result)
}
