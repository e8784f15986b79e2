package handlers

import (
	"errors"
	"strconv"

	"meetgov/internal/services"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 目录类实体接口：职位、聘用状态、关键词

type PositionRequest struct {
	Code  string `json:"code"`
	Name  string `json:"name" binding:"required"`
	Grade int    `json:"grade"`
}

type EmploymentStatusRequest struct {
	Code string `json:"code"`
	Name string `json:"name" binding:"required"`
}

type KeywordRequest struct {
	Name string `json:"name" binding:"required"`
}

// ========== 职位 ==========

type PositionHandler struct {
	service *services.PositionService
}

func NewPositionHandler(service *services.PositionService) *PositionHandler {
	return &PositionHandler{service: service}
}

// Create 创建职位
func (h *PositionHandler) Create(c *gin.Context) {
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		response.BadRequest(c, "参数错误")
		return
	}

	position, err := h.service.Create(req.Code, req.Name, req.Grade)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, position)
}

// GetAll 获取全部职位
func (h *PositionHandler) GetAll(c *gin.Context) {
	positions, err := h.service.GetAll()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, positions)
}

// Update 更新职位
func (h *PositionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	position, err := h.service.Update(uint(id), req.Name, req.Grade)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "职位不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, position)
}

// Delete 删除职位
func (h *PositionHandler) Delete(c *gin.Context) {
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

// ========== 聘用状态 ==========

type EmploymentStatusHandler struct {
	service *services.EmploymentStatusService
}

func NewEmploymentStatusHandler(service *services.EmploymentStatusService) *EmploymentStatusHandler {
	return &EmploymentStatusHandler{service: service}
}

// Create 创建聘用状态
func (h *EmploymentStatusHandler) Create(c *gin.Context) {
	var req EmploymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		response.BadRequest(c, "参数错误")
		return
	}

	status, err := h.service.Create(req.Code, req.Name)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, status)
}

// GetAll 获取全部聘用状态
func (h *EmploymentStatusHandler) GetAll(c *gin.Context) {
	statuses, err := h.service.GetAll()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, statuses)
}

// Update 更新聘用状态
func (h *EmploymentStatusHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req EmploymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	status, err := h.service.Update(uint(id), req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "聘用状态不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, status)
}

// Delete 删除聘用状态
func (h *EmploymentStatusHandler) Delete(c *gin.Context) {
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

// ========== 关键词 ==========

type KeywordHandler struct {
	service *services.KeywordService
}

func NewKeywordHandler(service *services.KeywordService) *KeywordHandler {
	return &KeywordHandler{service: service}
}

// Create 创建关键词
func (h *KeywordHandler) Create(c *gin.Context) {
	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	keyword, err := h.service.Create(req.Name)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, keyword)
}

// GetAll 获取全部关键词
func (h *KeywordHandler) GetAll(c *gin.Context) {
	keywords, err := h.service.GetAll()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, keywords)
}

// Update 更新关键词
func (h *KeywordHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	keyword, err := h.service.Update(uint(id), req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "关键词不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, keyword)
}

// Delete 删除关键词
func (h *KeywordHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
