package service

import (
	"context"

	"itam-go/internal/dto"
	"itam-go/internal/models"
	"itam-go/internal/policy"
	"itam-go/internal/repository"
	"itam-go/internal/utils"
)

const supplierNotFound = "Supplier not found."

// SupplierService 供应商服务
type SupplierService struct {
	gate  *policy.Gate
	repo  *repository.SupplierRepository
	audit *AuditLogger
}

// NewSupplierService 创建供应商服务
func NewSupplierService(gate *policy.Gate, repo *repository.SupplierRepository, audit *AuditLogger) *SupplierService {
	return &SupplierService{gate: gate, repo: repo, audit: audit}
}

// List 获取供应商列表
func (s *SupplierService) List(ctx context.Context, actor *policy.Actor) ([]models.Supplier, error) {
	if err := s.gate.Authorize(actor, policy.ActionList, policy.ResourceSupplier); err != nil {
		return nil, err
	}
	suppliers, err := s.repo.List(ctx)
	return suppliers, storeError(err, "")
}

// Get 获取供应商
func (s *SupplierService) Get(ctx context.Context, actor *policy.Actor, id uint) (*models.Supplier, error) {
	if err := s.gate.Authorize(actor, policy.ActionView, policy.ResourceSupplier); err != nil {
		return nil, err
	}
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, supplierNotFound)
	}
	return supplier, nil
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, actor *policy.Actor, req *dto.SupplierRequest) (*models.Supplier, error) {
	if err := s.gate.Authorize(actor, policy.ActionCreate, policy.ResourceSupplier); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	supplier := &models.Supplier{Name: req.Name, Telephone: req.Telephone}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, storeError(err, "")
	}

	s.audit.Success(ctx, actor, policy.ActionCreate, policy.ResourceSupplier, idKey(supplier.ID),
		"Supplier created: "+supplier.Name)
	return supplier, nil
}

// Update 更新供应商
func (s *SupplierService) Update(ctx context.Context, actor *policy.Actor, id uint, req *dto.SupplierUpdateRequest) (*models.Supplier, error) {
	if err := s.gate.Authorize(actor, policy.ActionUpdate, policy.ResourceSupplier); err != nil {
		return nil, err
	}
	if err := firstError(
		utils.ValidateStruct(req),
		notBlank("name", req.Name),
		notBlank("telephone", req.Telephone),
	); err != nil {
		return nil, err
	}

	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, supplierNotFound)
	}
	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.Telephone != nil {
		supplier.Telephone = *req.Telephone
	}
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, storeError(err, supplierNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionUpdate, policy.ResourceSupplier, idKey(supplier.ID),
		"Supplier updated: "+supplier.Name)
	return supplier, nil
}

// Delete 删除供应商及其软件
func (s *SupplierService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	if err := s.gate.Authorize(actor, policy.ActionDelete, policy.ResourceSupplier); err != nil {
		return err
	}
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeError(err, supplierNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, supplierNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionDelete, policy.ResourceSupplier, idKey(id),
		"Supplier deleted: "+supplier.Name)
	return nil
}
