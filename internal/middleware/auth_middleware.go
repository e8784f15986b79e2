package middleware

import (
	"strings"

	"meetgov/internal/policy"
	"meetgov/internal/services"
	"meetgov/pkg/jwt"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 认证与授权中间件
// 扁平权限实体在路由层用Require*守卫；会议等上下文实体的判定
// 需要先解析目标归属，由各handler自行调用求值器
type AuthMiddleware struct {
	userService *services.UserService
	evaluator   *policy.Evaluator
	jwtManager  *jwt.JWTManager
}

func NewAuthMiddleware(userService *services.UserService, evaluator *policy.Evaluator) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
		evaluator:   evaluator,
		jwtManager:  jwt.GetJWTManager(),
	}
}

// RequireLogin 要求登录
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从Authorization头获取JWT token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 检查Bearer格式
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		tokenString := authHeader[7:] // 去掉 "Bearer "

		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		user, err := m.userService.GetByID(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		if !m.userService.IsActive(user) {
			response.Unauthorized(c, "用户已被禁用")
			c.Abort()
			return
		}

		// 将用户信息保存到上下文
		c.Set("user", user)
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("claims", claims)

		c.Next()
	}
}

// Require 要求扁平权限 "<verb> <noun>"
func (m *AuthMiddleware) Require(verb policy.Verb, noun policy.Noun) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !m.evaluator.Can(userID.(uint), verb, noun) {
			response.Forbidden(c, "权限不足：需要 "+policy.Code(verb, noun)+" 权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireNamed 要求命名特殊权限（assign roles等）
func (m *AuthMiddleware) RequireNamed(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !m.evaluator.CanNamed(userID.(uint), code) {
			response.Forbidden(c, "权限不足：需要 "+code+" 权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUserID 从上下文取当前用户ID，未登录返回0
func CurrentUserID(c *gin.Context) uint {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	return userID.(uint)
}
