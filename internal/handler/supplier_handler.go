package handler

import (
	"itam-go/internal/dto"
	"itam-go/internal/middleware"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// SupplierHandler 供应商处理器
type SupplierHandler struct {
	svc *service.SupplierService
}

// NewSupplierHandler 创建供应商处理器
func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// List 供应商列表
func (h *SupplierHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// Retrieve 供应商详情
func (h *SupplierHandler) Retrieve(c *gin.Context) {
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

// Create 创建供应商
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
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

// Update 更新供应商
func (h *SupplierHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.SupplierUpdateRequest
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

// Destroy 删除供应商
func (h *SupplierHandler) Destroy(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Supplier deleted.", nil)
}
