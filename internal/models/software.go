package models

import (
	"time"

	"gorm.io/datatypes"
)

// Software 软件许可
// 安装关系保存在 Installation 中, InstalledOn 仅用于输出
type Software struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Name             string         `gorm:"size:50;not null" json:"name"`
	Version          string         `gorm:"size:50;not null" json:"version"`
	SupplierID       uint           `gorm:"not null;index" json:"supplier"`
	LicenseKey       string         `gorm:"size:50;not null" json:"license_key"`
	ExpireDate       datatypes.Date `gorm:"not null" json:"expire_date"`
	MaxInstallations int            `gorm:"not null" json:"max_installations"`
	InstalledOn      []string       `gorm:"-" json:"installed_on"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (Software) TableName() string {
	return "software"
}

// Installation 软件与设备的安装关系
type Installation struct {
	SoftwareID uint      `gorm:"primaryKey;autoIncrement:false" json:"software_id"`
	DeviceID   string    `gorm:"primaryKey;size:36;index" json:"device_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (Installation) TableName() string {
	return "software_installations"
}
