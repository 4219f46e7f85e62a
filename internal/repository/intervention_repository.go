package repository

import (
	"context"

	"itam-go/internal/models"

	"gorm.io/gorm"
)

// InterventionRepository 维护工单数据访问层
type InterventionRepository struct {
	db *gorm.DB
}

// NewInterventionRepository 创建维护工单Repository
func NewInterventionRepository(db *gorm.DB) *InterventionRepository {
	return &InterventionRepository{db: db}
}

func (r *InterventionRepository) scoped(ctx context.Context, filter InterventionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.MaintenanceIntervention{})
	if filter.TechnicianID != nil {
		q = q.Where("technician_id = ?", *filter.TechnicianID)
	}
	return q
}

// Create 创建工单
func (r *InterventionRepository) Create(ctx context.Context, it *models.MaintenanceIntervention) error {
	return r.db.WithContext(ctx).Create(it).Error
}

// Get 在可见范围内获取工单
func (r *InterventionRepository) Get(ctx context.Context, id uint, filter InterventionFilter) (*models.MaintenanceIntervention, error) {
	var it models.MaintenanceIntervention
	if err := r.scoped(ctx, filter).Where("id = ?", id).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// Update 更新工单
func (r *InterventionRepository) Update(ctx context.Context, it *models.MaintenanceIntervention) error {
	return r.db.WithContext(ctx).Save(it).Error
}

// Delete 删除工单
func (r *InterventionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.MaintenanceIntervention{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 按创建顺序获取可见工单列表
func (r *InterventionRepository) List(ctx context.Context, filter InterventionFilter) ([]models.MaintenanceIntervention, error) {
	var items []models.MaintenanceIntervention
	err := r.scoped(ctx, filter).Order("id ASC").Find(&items).Error
	return items, err
}
