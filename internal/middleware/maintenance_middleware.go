package middleware

import (
	"meetgov/internal/policy"
	"meetgov/internal/services"
	"meetgov/pkg/config"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaintenanceMiddleware 维护模式中间件
// 开关来自环境变量或系统设置（任一开启即生效）
// 持有bypass maintenance权限的用户不受影响（超级管理员始终放行）
type MaintenanceMiddleware struct {
	settingService *services.SettingService
	evaluator      *policy.Evaluator
}

func NewMaintenanceMiddleware(settingService *services.SettingService, evaluator *policy.Evaluator) *MaintenanceMiddleware {
	return &MaintenanceMiddleware{
		settingService: settingService,
		evaluator:      evaluator,
	}
}

// Gate 维护模式关卡，必须挂在RequireLogin之后
func (m *MaintenanceMiddleware) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		enabled := config.GetConfig().Maintenance.Enabled || m.settingService.IsMaintenanceMode()
		if !enabled {
			c.Next()
			return
		}

		userID := CurrentUserID(c)
		if m.evaluator.CanNamed(userID, policy.PermBypassMaintenance) {
			c.Next()
			return
		}

		response.Maintenance(c)
		c.Abort()
	}
}
