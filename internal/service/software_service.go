package service

import (
	"context"
	"errors"

	"itam-go/internal/apperr"
	"itam-go/internal/dto"
	"itam-go/internal/models"
	"itam-go/internal/policy"
	"itam-go/internal/repository"
	"itam-go/internal/utils"
)

const softwareNotFound = "Software not found."

// SoftwareService 软件服务
type SoftwareService struct {
	gate         *policy.Gate
	repo         *repository.SoftwareRepository
	supplierRepo *repository.SupplierRepository
	audit        *AuditLogger
}

// NewSoftwareService 创建软件服务
func NewSoftwareService(gate *policy.Gate, repo *repository.SoftwareRepository, supplierRepo *repository.SupplierRepository, audit *AuditLogger) *SoftwareService {
	return &SoftwareService{gate: gate, repo: repo, supplierRepo: supplierRepo, audit: audit}
}

// List 获取可见软件列表
func (s *SoftwareService) List(ctx context.Context, actor *policy.Actor) ([]models.Software, error) {
	if err := s.gate.Authorize(actor, policy.ActionList, policy.ResourceSoftware); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, policy.SoftwareFilter(actor))
	return items, storeError(err, "")
}

// Get 获取可见软件
func (s *SoftwareService) Get(ctx context.Context, actor *policy.Actor, id uint) (*models.Software, error) {
	if err := s.gate.Authorize(actor, policy.ActionView, policy.ResourceSoftware); err != nil {
		return nil, err
	}
	return s.get(ctx, actor, id)
}

func (s *SoftwareService) get(ctx context.Context, actor *policy.Actor, id uint) (*models.Software, error) {
	sw, err := s.repo.Get(ctx, id, policy.SoftwareFilter(actor))
	if err != nil {
		return nil, storeError(err, softwareNotFound)
	}
	return sw, nil
}

// Create 创建软件
func (s *SoftwareService) Create(ctx context.Context, actor *policy.Actor, req *dto.SoftwareRequest) (*models.Software, error) {
	if err := s.gate.Authorize(actor, policy.ActionCreate, policy.ResourceSoftware); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	expireDate, err := parseDate("expire_date", req.ExpireDate)
	if err != nil {
		return nil, err
	}
	if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	sw := &models.Software{
		Name:             req.Name,
		Version:          req.Version,
		SupplierID:       req.SupplierID,
		LicenseKey:       req.LicenseKey,
		ExpireDate:       expireDate,
		MaxInstallations: req.MaxInstallations,
	}
	if err := s.repo.Create(ctx, sw); err != nil {
		return nil, storeError(err, "")
	}

	s.audit.Success(ctx, actor, policy.ActionCreate, policy.ResourceSoftware, idKey(sw.ID),
		"Software created: "+sw.Name)
	return sw, nil
}

// Update 更新软件字段; 降低 max_installations 不影响已有安装
func (s *SoftwareService) Update(ctx context.Context, actor *policy.Actor, id uint, req *dto.SoftwareUpdateRequest) (*models.Software, error) {
	if err := s.gate.Authorize(actor, policy.ActionUpdate, policy.ResourceSoftware); err != nil {
		return nil, err
	}
	if err := firstError(
		utils.ValidateStruct(req),
		notBlank("name", req.Name),
		notBlank("version", req.Version),
		notBlank("license_key", req.LicenseKey),
	); err != nil {
		return nil, err
	}

	sw, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.SupplierID != nil {
		if err := s.checkSupplier(ctx, *req.SupplierID); err != nil {
			return nil, err
		}
		sw.SupplierID = *req.SupplierID
	}
	if req.ExpireDate != nil {
		if sw.ExpireDate, err = parseDate("expire_date", *req.ExpireDate); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		sw.Name = *req.Name
	}
	if req.Version != nil {
		sw.Version = *req.Version
	}
	if req.LicenseKey != nil {
		sw.LicenseKey = *req.LicenseKey
	}
	if req.MaxInstallations != nil {
		sw.MaxInstallations = *req.MaxInstallations
	}

	if err := s.repo.Update(ctx, sw); err != nil {
		return nil, storeError(err, softwareNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionUpdate, policy.ResourceSoftware, idKey(sw.ID),
		"Software updated: "+sw.Name)
	return sw, nil
}

// Delete 删除软件及其安装记录
func (s *SoftwareService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	if err := s.gate.Authorize(actor, policy.ActionDelete, policy.ResourceSoftware); err != nil {
		return err
	}
	sw, err := s.get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sw.ID); err != nil {
		return storeError(err, softwareNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionDelete, policy.ResourceSoftware, idKey(sw.ID),
		"Software deleted: "+sw.Name)
	return nil
}

// Install 将软件安装到设备, 仅管理员
// 设备已安装时视为成功且不占用名额
func (s *SoftwareService) Install(ctx context.Context, actor *policy.Actor, id uint, req *dto.InstallRequest) (*dto.ActionResult, error) {
	result, err := s.install(ctx, actor, id, req)
	if err != nil {
		s.audit.Failure(actor, policy.ActionInstall, policy.ResourceSoftware, idKey(id), err)
		return nil, err
	}
	return result, nil
}

func (s *SoftwareService) install(ctx context.Context, actor *policy.Actor, id uint, req *dto.InstallRequest) (*dto.ActionResult, error) {
	if err := s.gate.Authorize(actor, policy.ActionInstall, policy.ResourceSoftware); err != nil {
		return nil, err
	}
	sw, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req == nil || req.DeviceID == "" {
		return nil, apperr.Validation("Device ID is required.")
	}

	already, err := s.repo.Install(ctx, sw.ID, req.DeviceID)
	if err != nil {
		return nil, installError(err)
	}
	if already {
		return &dto.ActionResult{Status: "Software already installed on device."}, nil
	}

	s.audit.Success(ctx, actor, policy.ActionInstall, policy.ResourceSoftware, idKey(sw.ID),
		"Software "+sw.Name+" installed on device "+req.DeviceID)
	return &dto.ActionResult{Status: "Software installed on device successfully."}, nil
}

// Uninstall 从设备卸载软件, 仅管理员
func (s *SoftwareService) Uninstall(ctx context.Context, actor *policy.Actor, id uint, req *dto.InstallRequest) (*dto.ActionResult, error) {
	result, err := s.uninstall(ctx, actor, id, req)
	if err != nil {
		s.audit.Failure(actor, policy.ActionUninstall, policy.ResourceSoftware, idKey(id), err)
		return nil, err
	}
	return result, nil
}

func (s *SoftwareService) uninstall(ctx context.Context, actor *policy.Actor, id uint, req *dto.InstallRequest) (*dto.ActionResult, error) {
	if err := s.gate.Authorize(actor, policy.ActionUninstall, policy.ResourceSoftware); err != nil {
		return nil, err
	}
	sw, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req == nil || req.DeviceID == "" {
		return nil, apperr.Validation("Device ID is required.")
	}

	removed, err := s.repo.Uninstall(ctx, sw.ID, req.DeviceID)
	if err != nil {
		return nil, storeError(err, softwareNotFound)
	}
	if !removed {
		return &dto.ActionResult{Status: "Software is not installed on device."}, nil
	}

	s.audit.Success(ctx, actor, policy.ActionUninstall, policy.ResourceSoftware, idKey(sw.ID),
		"Software "+sw.Name+" uninstalled from device "+req.DeviceID)
	return &dto.ActionResult{Status: "Software uninstalled from device successfully."}, nil
}

func (s *SoftwareService) checkSupplier(ctx context.Context, id uint) error {
	exists, err := s.supplierRepo.Exists(ctx, id)
	return mustExist("supplier", exists, err)
}

// installError 安装失败的错误分类
func installError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDeviceNotFound):
		return apperr.Wrap(apperr.KindNotFound, "Device does not exist.", err)
	case errors.Is(err, repository.ErrInstallLimitReached):
		return apperr.Wrap(apperr.KindCapacityExceeded, "Maximum number of installations reached.", err)
	default:
		return storeError(err, softwareNotFound)
	}
}
