package handler

import (
	"context"

	"itam-go/internal/dto"
	"itam-go/internal/middleware"
	"itam-go/internal/policy"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// SoftwareHandler 软件处理器
type SoftwareHandler struct {
	svc *service.SoftwareService
}

// NewSoftwareHandler 创建软件处理器
func NewSoftwareHandler(svc *service.SoftwareService) *SoftwareHandler {
	return &SoftwareHandler{svc: svc}
}

// List 软件列表, 普通用户只能看到安装在自己设备上的软件
// @Router /api/software [get]
func (h *SoftwareHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// Retrieve 软件详情
// @Router /api/software/{id} [get]
func (h *SoftwareHandler) Retrieve(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	item, err := h.svc.Get(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, item)
}

// Create 创建软件
// @Router /api/software [post]
func (h *SoftwareHandler) Create(c *gin.Context) {
	var req dto.SoftwareRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}
	item, err := h.svc.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, item)
}

// Update 更新软件
// @Router /api/software/{id} [put]
func (h *SoftwareHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.SoftwareUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}
	item, err := h.svc.Update(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, item)
}

// Destroy 删除软件
// @Router /api/software/{id} [delete]
func (h *SoftwareHandler) Destroy(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Software deleted.", nil)
}

// Install 安装软件到设备, 仅管理员
// @Param request body dto.InstallRequest true "device_id"
// @Router /api/software/{id}/install [post]
func (h *SoftwareHandler) Install(c *gin.Context) {
	h.action(c, h.svc.Install)
}

// Uninstall 从设备卸载软件, 仅管理员
// @Param request body dto.InstallRequest true "device_id"
// @Router /api/software/{id}/uninstall [post]
func (h *SoftwareHandler) Uninstall(c *gin.Context) {
	h.action(c, h.svc.Uninstall)
}

type installFunc func(ctx context.Context, actor *policy.Actor, id uint, req *dto.InstallRequest) (*dto.ActionResult, error)

func (h *SoftwareHandler) action(c *gin.Context, fn installFunc) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.InstallRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}
	result, err := fn(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, result.Status, result)
}
