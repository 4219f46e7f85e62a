package service

import (
	"context"
	"fmt"

	"itam-go/internal/apperr"
	"itam-go/internal/dto"
	"itam-go/internal/models"
	"itam-go/internal/policy"
	"itam-go/internal/repository"
	"itam-go/internal/utils"
)

const interventionNotFound = "Maintenance intervention not found."

// InterventionService 维护工单服务
type InterventionService struct {
	gate       *policy.Gate
	repo       *repository.InterventionRepository
	deviceRepo *repository.DeviceRepository
	userRepo   *repository.UserRepository
	audit      *AuditLogger
}

// NewInterventionService 创建维护工单服务
func NewInterventionService(gate *policy.Gate, repo *repository.InterventionRepository, deviceRepo *repository.DeviceRepository, userRepo *repository.UserRepository, audit *AuditLogger) *InterventionService {
	return &InterventionService{gate: gate, repo: repo, deviceRepo: deviceRepo, userRepo: userRepo, audit: audit}
}

// List 获取可见工单列表
func (s *InterventionService) List(ctx context.Context, actor *policy.Actor) ([]models.MaintenanceIntervention, error) {
	if err := s.gate.Authorize(actor, policy.ActionList, policy.ResourceIntervention); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, policy.InterventionFilter(actor))
	return items, storeError(err, "")
}

// Get 获取可见工单
func (s *InterventionService) Get(ctx context.Context, actor *policy.Actor, id uint) (*models.MaintenanceIntervention, error) {
	if err := s.gate.Authorize(actor, policy.ActionView, policy.ResourceIntervention); err != nil {
		return nil, err
	}
	return s.get(ctx, actor, id)
}

func (s *InterventionService) get(ctx context.Context, actor *policy.Actor, id uint) (*models.MaintenanceIntervention, error) {
	it, err := s.repo.Get(ctx, id, policy.InterventionFilter(actor))
	if err != nil {
		return nil, storeError(err, interventionNotFound)
	}
	return it, nil
}

// Create 创建工单, 未指定技术员时由当前用户负责
func (s *InterventionService) Create(ctx context.Context, actor *policy.Actor, req *dto.InterventionRequest) (*models.MaintenanceIntervention, error) {
	if err := s.gate.Authorize(actor, policy.ActionCreate, policy.ResourceIntervention); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	date, err := parseDate("date_intervention", req.DateIntervention)
	if err != nil {
		return nil, err
	}
	if err := s.checkDevice(ctx, req.DeviceID); err != nil {
		return nil, err
	}

	technician := actor.ID
	if req.TechnicianID != nil {
		if err := s.checkTechnician(ctx, *req.TechnicianID); err != nil {
			return nil, err
		}
		technician = *req.TechnicianID
	}

	it := &models.MaintenanceIntervention{
		DeviceID:         req.DeviceID,
		Description:      req.Description,
		DateIntervention: date,
		TechnicianID:     &technician,
		Status:           models.InterventionStatus(req.Status),
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, storeError(err, "")
	}

	s.audit.Success(ctx, actor, policy.ActionCreate, policy.ResourceIntervention, idKey(it.ID),
		fmt.Sprintf("Maintenance intervention created: %d", it.ID))
	return it, nil
}

// Update 更新工单
func (s *InterventionService) Update(ctx context.Context, actor *policy.Actor, id uint, req *dto.InterventionUpdateRequest) (*models.MaintenanceIntervention, error) {
	if err := s.gate.Authorize(actor, policy.ActionUpdate, policy.ResourceIntervention); err != nil {
		return nil, err
	}
	if err := firstError(
		utils.ValidateStruct(req),
		notBlank("device", req.DeviceID),
		notBlank("description", req.Description),
	); err != nil {
		return nil, err
	}

	it, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.DeviceID != nil {
		if err := s.checkDevice(ctx, *req.DeviceID); err != nil {
			return nil, err
		}
	}
	if req.TechnicianID != nil {
		if err := s.checkTechnician(ctx, *req.TechnicianID); err != nil {
			return nil, err
		}
	}
	if req.DateIntervention != nil {
		if it.DateIntervention, err = parseDate("date_intervention", *req.DateIntervention); err != nil {
			return nil, err
		}
	}
	if req.DeviceID != nil {
		it.DeviceID = *req.DeviceID
	}
	if req.Description != nil {
		it.Description = *req.Description
	}
	if req.TechnicianID != nil {
		it.TechnicianID = req.TechnicianID
	}
	if req.Status != nil {
		it.Status = models.InterventionStatus(*req.Status)
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, storeError(err, interventionNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionUpdate, policy.ResourceIntervention, idKey(it.ID),
		fmt.Sprintf("Maintenance intervention updated: %d", it.ID))
	return it, nil
}

// Delete 删除工单
func (s *InterventionService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	if err := s.gate.Authorize(actor, policy.ActionDelete, policy.ResourceIntervention); err != nil {
		return err
	}
	it, err := s.get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, it.ID); err != nil {
		return storeError(err, interventionNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionDelete, policy.ResourceIntervention, idKey(it.ID),
		fmt.Sprintf("Maintenance intervention deleted: %d", it.ID))
	return nil
}

func (s *InterventionService) checkDevice(ctx context.Context, deviceID string) error {
	exists, err := s.deviceRepo.Exists(ctx, deviceID)
	return mustExist("device", exists, err)
}

// checkTechnician 技术员必须是已存在的管理员
func (s *InterventionService) checkTechnician(ctx context.Context, id uint) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if apperr.KindOf(storeError(err, "")) == apperr.KindNotFound {
			return apperr.Validation("technician: referenced object does not exist.")
		}
		return fmt.Errorf("检查技术员失败: %w", err)
	}
	if !user.IsStaff {
		return apperr.Validation("technician: must be a staff user.")
	}
	return nil
}
