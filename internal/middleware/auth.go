package middleware

import (
	"context"
	"strings"

	"itam-go/internal/policy"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxActor  = "actor"
)

// ActorResolver 根据用户ID加载当前操作者
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uint) (*policy.Actor, error)
}

// AuthMiddleware JWT认证中间件
// Token 只用于识别身份, 激活状态和管理员权限以数据库记录为准
func AuthMiddleware(jwtManager *utils.JWTManager, resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authentication credentials were not provided.")
			c.Abort()
			return
		}

		// 解析Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Unauthorized(c, "Invalid authorization header.")
			c.Abort()
			return
		}

		// 验证Token
		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			utils.Unauthorized(c, "Token is invalid or expired.")
			c.Abort()
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), claims.UserID)
		if err != nil {
			utils.Fail(c, err)
			c.Abort()
			return
		}
		if actor == nil {
			utils.Unauthorized(c, "User not found.")
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set(ctxUserID, actor.ID)
		c.Set(ctxActor, actor)

		c.Next()
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetActor 从上下文获取当前操作者, 未认证时返回 nil
func GetActor(c *gin.Context) *policy.Actor {
	actor, exists := c.Get(ctxActor)
	if !exists {
		return nil
	}
	return actor.(*policy.Actor)
}
