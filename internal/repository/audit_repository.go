package repository

import (
	"context"

	"itam-go/internal/models"

	"gorm.io/gorm"
)

// AuditRepository 审计日志数据访问层
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository 创建审计日志Repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create 写入审计日志
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecent 获取最近的审计日志
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
