package repository

import (
	"context"
	"errors"

	"itam-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDeviceNotFound 安装/卸载的目标设备不存在
	ErrDeviceNotFound = errors.New("device not found")
	// ErrInstallLimitReached 已达到最大安装数
	ErrInstallLimitReached = errors.New("maximum number of installations reached")
)

// SoftwareRepository 软件数据访问层
type SoftwareRepository struct {
	db *gorm.DB
}

// NewSoftwareRepository 创建软件Repository
func NewSoftwareRepository(db *gorm.DB) *SoftwareRepository {
	return &SoftwareRepository{db: db}
}

func (r *SoftwareRepository) scoped(ctx context.Context, filter SoftwareFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Software{})
	if filter.AssignedToID != nil {
		visible := r.db.Table("software_installations AS si").
			Select("si.software_id").
			Joins("JOIN devices AS d ON d.device_id = si.device_id").
			Where("d.assigned_to_id = ?", *filter.AssignedToID)
		q = q.Where("id IN (?)", visible)
	}
	return q
}

// Create 创建软件
func (r *SoftwareRepository) Create(ctx context.Context, sw *models.Software) error {
	if err := r.db.WithContext(ctx).Create(sw).Error; err != nil {
		return err
	}
	sw.InstalledOn = []string{}
	return nil
}

// Get 在可见范围内获取软件, 并填充 InstalledOn
func (r *SoftwareRepository) Get(ctx context.Context, id uint, filter SoftwareFilter) (*models.Software, error) {
	var sw models.Software
	if err := r.scoped(ctx, filter).Where("id = ?", id).First(&sw).Error; err != nil {
		return nil, err
	}
	items := []models.Software{sw}
	if err := r.loadInstallations(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Update 更新软件字段, 不涉及安装关系
func (r *SoftwareRepository) Update(ctx context.Context, sw *models.Software) error {
	return r.db.WithContext(ctx).Save(sw).Error
}

// Delete 删除软件及其安装记录
func (r *SoftwareRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("software_id = ?", id).Delete(&models.Installation{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Software{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List 按创建顺序获取可见软件列表
func (r *SoftwareRepository) List(ctx context.Context, filter SoftwareFilter) ([]models.Software, error) {
	var items []models.Software
	if err := r.scoped(ctx, filter).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	if err := r.loadInstallations(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// CountInstallations 获取软件当前安装数
func (r *SoftwareRepository) CountInstallations(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Installation{}).Where("software_id = ?", id).Count(&count).Error
	return count, err
}

// Install 将软件安装到设备
// 软件行加锁后再计数和写入, 并发安装不会越过 max_installations。
// 设备已安装时直接返回 alreadyInstalled=true, 不占用名额。
func (r *SoftwareRepository) Install(ctx context.Context, softwareID uint, deviceID string) (alreadyInstalled bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sw models.Software
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sw, softwareID).Error; err != nil {
			return err
		}

		var devices int64
		if err := tx.Model(&models.Device{}).Where("device_id = ?", deviceID).Count(&devices).Error; err != nil {
			return err
		}
		if devices == 0 {
			return ErrDeviceNotFound
		}

		var existing int64
		if err := tx.Model(&models.Installation{}).
			Where("software_id = ? AND device_id = ?", softwareID, deviceID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			alreadyInstalled = true
			return nil
		}

		var installed int64
		if err := tx.Model(&models.Installation{}).Where("software_id = ?", softwareID).Count(&installed).Error; err != nil {
			return err
		}
		if installed >= int64(sw.MaxInstallations) {
			return ErrInstallLimitReached
		}

		return tx.Create(&models.Installation{SoftwareID: softwareID, DeviceID: deviceID}).Error
	})
	return alreadyInstalled, err
}

// Uninstall 从设备卸载软件, 未安装时 removed=false
func (r *SoftwareRepository) Uninstall(ctx context.Context, softwareID uint, deviceID string) (removed bool, err error) {
	res := r.db.WithContext(ctx).
		Where("software_id = ? AND device_id = ?", softwareID, deviceID).
		Delete(&models.Installation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// loadInstallations 批量填充 InstalledOn
func (r *SoftwareRepository) loadInstallations(ctx context.Context, items []models.Software) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(items))
	index := make(map[uint]int, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
		index[items[i].ID] = i
		items[i].InstalledOn = []string{}
	}

	var rows []models.Installation
	if err := r.db.WithContext(ctx).
		Where("software_id IN ?", ids).
		Order("created_at ASC, device_id ASC").
		Find(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		i := index[row.SoftwareID]
		items[i].InstalledOn = append(items[i].InstalledOn, row.DeviceID)
	}
	return nil
}
