package handler

import (
	"strconv"

	"itam-go/internal/middleware"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuditHandler 审计日志处理器
type AuditHandler struct {
	svc *service.AuditService
}

// NewAuditHandler 创建审计日志处理器
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List 最近的审计日志, 仅管理员
// @Param limit query int false "条数, 默认100"
// @Router /api/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.svc.List(c.Request.Context(), middleware.GetActor(c), limit)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, logs)
}
