package service

import (
	"context"

	"itam-go/internal/apperr"
	"itam-go/internal/dto"
	"itam-go/internal/models"
	"itam-go/internal/policy"
	"itam-go/internal/repository"
	"itam-go/internal/utils"
)

const deviceNotFound = "Device not found."

// DeviceService 设备服务
type DeviceService struct {
	gate     *policy.Gate
	repo     *repository.DeviceRepository
	userRepo *repository.UserRepository
	audit    *AuditLogger
}

// NewDeviceService 创建设备服务
func NewDeviceService(gate *policy.Gate, repo *repository.DeviceRepository, userRepo *repository.UserRepository, audit *AuditLogger) *DeviceService {
	return &DeviceService{gate: gate, repo: repo, userRepo: userRepo, audit: audit}
}

// List 获取可见设备列表
func (s *DeviceService) List(ctx context.Context, actor *policy.Actor) ([]models.Device, error) {
	if err := s.gate.Authorize(actor, policy.ActionList, policy.ResourceDevice); err != nil {
		return nil, err
	}
	devices, err := s.repo.List(ctx, policy.DeviceFilter(actor))
	return devices, storeError(err, "")
}

// Get 获取可见设备
func (s *DeviceService) Get(ctx context.Context, actor *policy.Actor, deviceID string) (*models.Device, error) {
	if err := s.gate.Authorize(actor, policy.ActionView, policy.ResourceDevice); err != nil {
		return nil, err
	}
	return s.get(ctx, policy.DeviceFilter(actor), deviceID)
}

func (s *DeviceService) get(ctx context.Context, filter repository.DeviceFilter, deviceID string) (*models.Device, error) {
	device, err := s.repo.Get(ctx, deviceID, filter)
	if err != nil {
		return nil, storeError(err, deviceNotFound)
	}
	return device, nil
}

// Create 创建设备, device_id 自动生成
func (s *DeviceService) Create(ctx context.Context, actor *policy.Actor, req *dto.DeviceRequest) (*models.Device, error) {
	if err := s.gate.Authorize(actor, policy.ActionCreate, policy.ResourceDevice); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	purchaseDate, err := parseDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	if err := s.checkUsers(ctx, &req.UserID, req.AssignedToID); err != nil {
		return nil, err
	}

	device := &models.Device{
		UserID:       req.UserID,
		Brand:        req.Brand,
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		Status:       models.DeviceStatus(req.Status),
		PurchaseDate: purchaseDate,
		AssignedToID: req.AssignedToID,
	}
	if err := s.repo.Create(ctx, device); err != nil {
		return nil, storeError(err, "")
	}

	s.audit.Success(ctx, actor, policy.ActionCreate, policy.ResourceDevice, device.DeviceID,
		"Device created: "+device.SerialNumber)
	return device, nil
}

// Update 更新设备
func (s *DeviceService) Update(ctx context.Context, actor *policy.Actor, deviceID string, req *dto.DeviceUpdateRequest) (*models.Device, error) {
	if err := s.gate.Authorize(actor, policy.ActionUpdate, policy.ResourceDevice); err != nil {
		return nil, err
	}
	if err := firstError(
		utils.ValidateStruct(req),
		notBlank("brand", req.Brand),
		notBlank("name", req.Name),
		notBlank("serial_number", req.SerialNumber),
	); err != nil {
		return nil, err
	}

	device, err := s.get(ctx, policy.DeviceFilter(actor), deviceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkUsers(ctx, req.UserID, req.AssignedToID.Value); err != nil {
		return nil, err
	}
	if req.PurchaseDate != nil {
		if device.PurchaseDate, err = parseDate("purchase_date", *req.PurchaseDate); err != nil {
			return nil, err
		}
	}
	if req.UserID != nil {
		device.UserID = *req.UserID
	}
	if req.Brand != nil {
		device.Brand = *req.Brand
	}
	if req.Name != nil {
		device.Name = *req.Name
	}
	if req.SerialNumber != nil {
		device.SerialNumber = *req.SerialNumber
	}
	if req.Status != nil {
		device.Status = models.DeviceStatus(*req.Status)
	}
	if req.AssignedToID.Set {
		device.AssignedToID = req.AssignedToID.Value
	}

	if err := s.repo.Update(ctx, device); err != nil {
		return nil, storeError(err, deviceNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionUpdate, policy.ResourceDevice, device.DeviceID,
		"Device updated: "+device.SerialNumber)
	// 更新后可能已不在操作者可见范围内, 返回完整记录
	return s.get(ctx, repository.DeviceFilter{}, device.DeviceID)
}

// Delete 删除设备, 级联删除工单和安装记录
func (s *DeviceService) Delete(ctx context.Context, actor *policy.Actor, deviceID string) error {
	if err := s.gate.Authorize(actor, policy.ActionDelete, policy.ResourceDevice); err != nil {
		return err
	}
	device, err := s.get(ctx, policy.DeviceFilter(actor), deviceID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, device.DeviceID); err != nil {
		return storeError(err, deviceNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionDelete, policy.ResourceDevice, device.DeviceID,
		"Device deleted: "+device.SerialNumber)
	return nil
}

// Assign 将设备分配给用户, 仅管理员
func (s *DeviceService) Assign(ctx context.Context, actor *policy.Actor, deviceID string, req *dto.AssignRequest) (*dto.ActionResult, error) {
	result, err := s.assign(ctx, actor, deviceID, req)
	if err != nil {
		s.audit.Failure(actor, policy.ActionAssign, policy.ResourceDevice, deviceID, err)
		return nil, err
	}
	return result, nil
}

func (s *DeviceService) assign(ctx context.Context, actor *policy.Actor, deviceID string, req *dto.AssignRequest) (*dto.ActionResult, error) {
	if err := s.gate.Authorize(actor, policy.ActionAssign, policy.ResourceDevice); err != nil {
		return nil, err
	}
	device, err := s.get(ctx, policy.DeviceFilter(actor), deviceID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.UserID.IsNull() || *req.UserID.Value == 0 {
		return nil, apperr.Validation("User ID is required.")
	}
	user, err := s.userRepo.GetByID(ctx, *req.UserID.Value)
	if err != nil {
		return nil, storeError(err, "User does not exist.")
	}
	if err := s.repo.Assign(ctx, device.DeviceID, user.ID); err != nil {
		return nil, storeError(err, deviceNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionAssign, policy.ResourceDevice, device.DeviceID,
		"Device "+device.SerialNumber+" assigned to user "+user.Username)
	return &dto.ActionResult{Status: "Device assigned successfully."}, nil
}

// checkUsers 所有者和分配人必须是已存在的用户
func (s *DeviceService) checkUsers(ctx context.Context, owner, assignee *uint) error {
	if owner != nil {
		exists, err := s.userRepo.Exists(ctx, *owner)
		if err := mustExist("user", exists, err); err != nil {
			return err
		}
	}
	if assignee != nil {
		exists, err := s.userRepo.Exists(ctx, *assignee)
		if err := mustExist("assigned_to", exists, err); err != nil {
			return err
		}
	}
	return nil
}
