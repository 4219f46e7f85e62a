package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Device 设备
// DeviceID 创建时生成, 之后不可修改也不会复用
type Device struct {
	DeviceID     string         `gorm:"primaryKey;size:36" json:"device_id"`
	UserID       uint           `gorm:"not null;index" json:"user"`
	Brand        string         `gorm:"size:50;not null" json:"brand"`
	Name         string         `gorm:"size:50;not null" json:"name"`
	SerialNumber string         `gorm:"size:50;not null" json:"serial_number"`
	Status       DeviceStatus   `gorm:"size:50;not null;default:'ACTIVE'" json:"status"`
	PurchaseDate datatypes.Date `gorm:"not null" json:"purchase_date"`
	AssignedToID *uint          `gorm:"index" json:"assigned_to"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	MaintenanceInterventions []MaintenanceIntervention `gorm:"foreignKey:DeviceID;references:DeviceID" json:"maintenance_interventions"`
	// Softwares 已安装软件ID, 由 software_installations 填充
	Softwares []uint `gorm:"-" json:"softwares"`
}

// TableName 指定表名
func (Device) TableName() string {
	return "devices"
}

// BeforeCreate 生成设备ID并补全默认状态
func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.DeviceID == "" {
		d.DeviceID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = DeviceActive
	}
	return nil
}
