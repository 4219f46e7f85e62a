package models

import "time"

// Supplier 供应商
type Supplier struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Telephone string    `gorm:"uniqueIndex;size:20;not null" json:"telephone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Supplier) TableName() string {
	return "suppliers"
}
