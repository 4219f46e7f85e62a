package middleware

import (
	"itam-go/internal/policy"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequirePermission 路由级权限检查, 在进入处理器前按访问策略拒绝
func RequirePermission(gate *policy.Gate, action policy.Action, resource policy.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.Authorize(GetActor(c), action, resource); err != nil {
			utils.Fail(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
