package models

import "time"

// AuditLog 审计日志
type AuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	ActorID    uint      `gorm:"not null;index" json:"actor_id"`
	Action     string    `gorm:"size:50;not null" json:"action"` // create, update, delete, activate, assign, install ...
	EntityType string    `gorm:"size:50;not null" json:"entity_type"`
	EntityKey  string    `gorm:"size:64;not null" json:"entity_key"`
	Message    string    `gorm:"type:text" json:"message"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
