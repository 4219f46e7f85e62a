package handler

import (
	"itam-go/internal/dto"
	"itam-go/internal/middleware"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// DepartmentHandler 部门处理器
type DepartmentHandler struct {
	svc *service.DepartmentService
}

// NewDepartmentHandler 创建部门处理器
func NewDepartmentHandler(svc *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// List 部门列表
// @Router /api/departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// Retrieve 部门详情
// @Router /api/departments/{id} [get]
func (h *DepartmentHandler) Retrieve(c *gin.Context) {
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

// Create 创建部门
// @Router /api/departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req dto.DepartmentRequest
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

// Update 更新部门
// @Router /api/departments/{id} [put]
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.DepartmentUpdateRequest
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

// Destroy 删除部门
// @Router /api/departments/{id} [delete]
func (h *DepartmentHandler) Destroy(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Department deleted.", nil)
}
