package handlers

import (
	"meetgov/internal/services"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
)

type SetSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

type SettingHandler struct {
	service *services.SettingService
}

func NewSettingHandler(service *services.SettingService) *SettingHandler {
	return &SettingHandler{service: service}
}

// GetAll 获取全部设置
func (h *SettingHandler) GetAll(c *gin.Context) {
	settings, err := h.service.GetAll()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, settings)
}

// Set 写入设置
func (h *SettingHandler) Set(c *gin.Context) {
	var req SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	setting, err := h.service.Set(req.Key, req.Value)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, setting)
}
