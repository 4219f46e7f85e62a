package handler

import (
	"itam-go/internal/dto"
	"itam-go/internal/middleware"
	"itam-go/internal/service"
	"itam-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler 创建用户处理器
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List 用户列表, 普通用户只能看到自己
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// Retrieve 用户详情
// @Router /api/users/{id} [get]
func (h *UserHandler) Retrieve(c *gin.Context) {
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

// Create 创建用户, 仅管理员
// @Router /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserCreateRequest
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

// Update 更新用户, 仅管理员
// @Router /api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req dto.UserUpdateRequest
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

// Destroy 停用用户, 仅管理员
// @Router /api/users/{id} [delete]
func (h *UserHandler) Destroy(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "User deactivated.", nil)
}

// Activate 重新激活用户, 仅管理员
// @Router /api/users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	result, err := h.svc.Activate(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, result.Status, result)
}
