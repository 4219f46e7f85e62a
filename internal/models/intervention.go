package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaintenanceIntervention 维护工单
type MaintenanceIntervention struct {
	ID               uint               `gorm:"primarykey" json:"id"`
	DeviceID         string             `gorm:"size:36;not null;index" json:"device"`
	Description      string             `gorm:"type:text;not null" json:"description"`
	DateIntervention datatypes.Date     `gorm:"not null" json:"date_intervention"`
	TechnicianID     *uint              `gorm:"index" json:"technician"`
	Status           InterventionStatus `gorm:"size:50;not null;default:'PENDING'" json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// TableName 指定表名
func (MaintenanceIntervention) TableName() string {
	return "maintenance_interventions"
}

// BeforeCreate 补全默认状态
func (m *MaintenanceIntervention) BeforeCreate(tx *gorm.DB) error {
	if m.Status == "" {
		m.Status = InterventionPending
	}
	return nil
}
