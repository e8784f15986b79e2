package handlers

import (
	"time"

	"meetgov/internal/database"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
)

// SystemHandler 系统状态接口
type SystemHandler struct {
	startedAt time.Time
}

func NewSystemHandler() *SystemHandler {
	return &SystemHandler{startedAt: time.Now()}
}

// Ping 存活检查
func (h *SystemHandler) Ping(c *gin.Context) {
	response.Success(c, gin.H{"message": "pong"})
}

// Health 健康检查：数据库和通知队列连通性
func (h *SystemHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := database.GetDB().DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	redisStatus := "ok"
	if q := database.GetNotificationQueue(); q == nil || q.Ping() != nil {
		redisStatus = "down"
	}

	response.Success(c, gin.H{
		"database": dbStatus,
		"redis":    redisStatus,
		"uptime":   time.Since(h.startedAt).String(),
	})
}
