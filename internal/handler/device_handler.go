package handler

import (
	"itam-go/internal/dto"
	"itam-go/internal/middleware"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// DeviceHandler 设备处理器
type DeviceHandler struct {
	svc *service.DeviceService
}

// NewDeviceHandler 创建设备处理器
func NewDeviceHandler(svc *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{svc: svc}
}

// List 设备列表, 普通用户只能看到分配给自己的设备
// @Router /api/devices [get]
func (h *DeviceHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// Retrieve 设备详情
// @Router /api/devices/{id} [get]
func (h *DeviceHandler) Retrieve(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, item)
}

// Create 创建设备
// @Router /api/devices [post]
func (h *DeviceHandler) Create(c *gin.Context) {
	var req dto.DeviceRequest
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

// Update 更新设备
// @Router /api/devices/{id} [put]
func (h *DeviceHandler) Update(c *gin.Context) {
	var req dto.DeviceUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}
	item, err := h.svc.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, item)
}

// Destroy 删除设备
// @Router /api/devices/{id} [delete]
func (h *DeviceHandler) Destroy(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Device deleted.", nil)
}

// Assign 分配设备, 仅管理员
// @Param request body dto.AssignRequest true "user_id"
// @Router /api/devices/{id}/assign [post]
func (h *DeviceHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if err := bindJSON(c, &req); err != nil {
		utils.Fail(c, err)
		return
	}
	result, err := h.svc.Assign(c.Request.Context(), middleware.GetActor(c), c.Param("id"), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, result.Status, result)
}
