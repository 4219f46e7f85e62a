package repository

import (
	"context"

	"itam-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceRepository 设备数据访问层
type DeviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository 创建设备Repository
func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) scoped(ctx context.Context, filter DeviceFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Device{})
	if filter.AssignedToID != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	return q
}

func preloadInterventions(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// Create 创建设备
func (r *DeviceRepository) Create(ctx context.Context, device *models.Device) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(device).Error; err != nil {
		return err
	}
	device.MaintenanceInterventions = []models.MaintenanceIntervention{}
	device.Softwares = []uint{}
	return nil
}

// Get 在可见范围内获取设备, 附带工单和已安装软件
func (r *DeviceRepository) Get(ctx context.Context, deviceID string, filter DeviceFilter) (*models.Device, error) {
	var device models.Device
	err := r.scoped(ctx, filter).
		Preload("MaintenanceInterventions", preloadInterventions).
		Where("device_id = ?", deviceID).
		First(&device).Error
	if err != nil {
		return nil, err
	}
	items := []models.Device{device}
	if err := r.loadSoftwares(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Exists 检查设备是否存在
func (r *DeviceRepository) Exists(ctx context.Context, deviceID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Device{}).Where("device_id = ?", deviceID).Count(&count).Error
	return count > 0, err
}

// Update 更新设备字段, 不涉及关联
func (r *DeviceRepository) Update(ctx context.Context, device *models.Device) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(device).Error
}

// Assign 设置设备分配人
func (r *DeviceRepository) Assign(ctx context.Context, deviceID string, userID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Device{}).
		Where("device_id = ?", deviceID).
		Update("assigned_to_id", userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除设备, 级联删除工单和安装记录
func (r *DeviceRepository) Delete(ctx context.Context, deviceID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Device{}).Where("device_id = ?", deviceID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return deleteDeviceRows(tx, []string{deviceID})
	})
}

// List 按创建顺序获取可见设备列表
func (r *DeviceRepository) List(ctx context.Context, filter DeviceFilter) ([]models.Device, error) {
	var devices []models.Device
	err := r.scoped(ctx, filter).
		Preload("MaintenanceInterventions", preloadInterventions).
		Order("created_at ASC, device_id ASC").
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	if err := r.loadSoftwares(ctx, devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// loadSoftwares 批量填充 Softwares
func (r *DeviceRepository) loadSoftwares(ctx context.Context, devices []models.Device) error {
	if len(devices) == 0 {
		return nil
	}
	ids := make([]string, 0, len(devices))
	index := make(map[string]int, len(devices))
	for i := range devices {
		ids = append(ids, devices[i].DeviceID)
		index[devices[i].DeviceID] = i
		devices[i].Softwares = []uint{}
		if devices[i].MaintenanceInterventions == nil {
			devices[i].MaintenanceInterventions = []models.MaintenanceIntervention{}
		}
	}

	var rows []models.Installation
	if err := r.db.WithContext(ctx).
		Where("device_id IN ?", ids).
		Order("software_id ASC").
		Find(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		i := index[row.DeviceID]
		devices[i].Softwares = append(devices[i].Softwares, row.SoftwareID)
	}
	return nil
}

// deleteDeviceRows 在事务内删除设备及其依赖行
func deleteDeviceRows(tx *gorm.DB, deviceIDs []string) error {
	if len(deviceIDs) == 0 {
		return nil
	}
	if err := tx.Where("device_id IN ?", deviceIDs).Delete(&models.Installation{}).Error; err != nil {
		return err
	}
	if err := tx.Where("device_id IN ?", deviceIDs).Delete(&models.MaintenanceIntervention{}).Error; err != nil {
		return err
	}
	return tx.Where("device_id IN ?", deviceIDs).Delete(&models.Device{}).Error
}
