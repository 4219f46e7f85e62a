package service

import (
	"context"

	"itam-go/internal/dto"
	"itam-go/internal/models"
	"itam-go/internal/policy"
	"itam-go/internal/repository"
	"itam-go/internal/utils"
)

const departmentNotFound = "Department not found."

// DepartmentService 部门服务
type DepartmentService struct {
	gate  *policy.Gate
	repo  *repository.DepartmentRepository
	audit *AuditLogger
}

// NewDepartmentService 创建部门服务
func NewDepartmentService(gate *policy.Gate, repo *repository.DepartmentRepository, audit *AuditLogger) *DepartmentService {
	return &DepartmentService{gate: gate, repo: repo, audit: audit}
}

// List 获取部门列表
func (s *DepartmentService) List(ctx context.Context, actor *policy.Actor) ([]models.Department, error) {
	if err := s.gate.Authorize(actor, policy.ActionList, policy.ResourceDepartment); err != nil {
		return nil, err
	}
	depts, err := s.repo.List(ctx)
	return depts, storeError(err, "")
}

// Get 获取部门
func (s *DepartmentService) Get(ctx context.Context, actor *policy.Actor, id uint) (*models.Department, error) {
	if err := s.gate.Authorize(actor, policy.ActionView, policy.ResourceDepartment); err != nil {
		return nil, err
	}
	dept, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, departmentNotFound)
	}
	return dept, nil
}

// Create 创建部门
func (s *DepartmentService) Create(ctx context.Context, actor *policy.Actor, req *dto.DepartmentRequest) (*models.Department, error) {
	if err := s.gate.Authorize(actor, policy.ActionCreate, policy.ResourceDepartment); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	dept := &models.Department{Name: req.Name}
	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, storeError(err, "")
	}

	s.audit.Success(ctx, actor, policy.ActionCreate, policy.ResourceDepartment, idKey(dept.ID),
		"Department created: "+dept.Name)
	return dept, nil
}

// Update 更新部门
func (s *DepartmentService) Update(ctx context.Context, actor *policy.Actor, id uint, req *dto.DepartmentUpdateRequest) (*models.Department, error) {
	if err := s.gate.Authorize(actor, policy.ActionUpdate, policy.ResourceDepartment); err != nil {
		return nil, err
	}
	if err := firstError(utils.ValidateStruct(req), notBlank("name", req.Name)); err != nil {
		return nil, err
	}

	dept, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, departmentNotFound)
	}
	if req.Name != nil {
		dept.Name = *req.Name
	}
	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, storeError(err, departmentNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionUpdate, policy.ResourceDepartment, idKey(dept.ID),
		"Department updated: "+dept.Name)
	return dept, nil
}

// Delete 删除部门, 成员的部门置空
func (s *DepartmentService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	if err := s.gate.Authorize(actor, policy.ActionDelete, policy.ResourceDepartment); err != nil {
		return err
	}
	dept, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeError(err, departmentNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, departmentNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionDelete, policy.ResourceDepartment, idKey(id),
		"Department deleted: "+dept.Name)
	return nil
}
