package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	Username      string      `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email         string      `gorm:"size:254;not null;default:''" json:"email"`
	PasswordHash  string      `gorm:"size:255;not null" json:"-"`
	FirstName     string      `gorm:"size:30;not null;default:''" json:"first_name"`
	LastName      string      `gorm:"size:150;not null;default:''" json:"last_name"`
	Gender        Gender      `gorm:"size:10;not null;default:'NONE'" json:"gender"`
	Telephone     *string     `gorm:"uniqueIndex;size:20" json:"telephone"`
	DepartmentID  *uint       `gorm:"index" json:"department_id"`
	Department    *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	IsActive      bool        `gorm:"not null" json:"is_active"`
	IsStaff       bool        `gorm:"not null;default:false" json:"is_staff"`
	EmailVerified bool        `gorm:"not null;default:false" json:"email_verified"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
