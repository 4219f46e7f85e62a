package handler

import (
	"itam-go/internal/dto"
	"itam-go/internal/middleware"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// InterventionHandler 维护工单处理器
type InterventionHandler struct {
	svc *service.InterventionService
}

// NewInterventionHandler 创建维护工单处理器
func NewInterventionHandler(svc *service.InterventionService) *InterventionHandler {
	return &InterventionHandler{svc: svc}
}

// List 工单列表, 普通用户只能看到自己负责的工单
func (h *InterventionHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// Retrieve 工单详情
func (h *InterventionHandler) Retrieve(c *gin.Context) {
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

// Create 创建工单
func (h *InterventionHandler) Create(c *gin.Context) {
	var req dto.InterventionRequest
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

// Update 更新工单
func (h *InterventionHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.InterventionUpdateRequest
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

// Destroy 删除工单
func (h *InterventionHandler) Destroy(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Maintenance intervention deleted.", nil)
}
