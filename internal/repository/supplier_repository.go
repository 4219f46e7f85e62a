package repository

import (
	"context"

	"itam-go/internal/models"

	"gorm.io/gorm"
)

// SupplierRepository 供应商数据访问层
type SupplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository 创建供应商Repository
func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create 创建供应商
func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// GetByID 根据ID获取供应商
func (r *SupplierRepository) GetByID(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// Exists 检查供应商是否存在
func (r *SupplierRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Supplier{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update 更新供应商
func (r *SupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete 删除供应商, 级联删除其软件及安装记录
func (r *SupplierRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var softwareIDs []uint
		if err := tx.Model(&models.Software{}).Where("supplier_id = ?", id).Pluck("id", &softwareIDs).Error; err != nil {
			return err
		}
		if len(softwareIDs) > 0 {
			if err := tx.Where("software_id IN ?", softwareIDs).Delete(&models.Installation{}).Error; err != nil {
				return err
			}
			if err := tx.Where("supplier_id = ?", id).Delete(&models.Software{}).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Supplier{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List 按创建顺序获取供应商列表
func (r *SupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).Order("id ASC").Find(&suppliers).Error
	return suppliers, err
}
