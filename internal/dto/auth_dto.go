package dto

import "itam-go/internal/models"

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username     string  `json:"username" validate:"required,username"`
	Password     string  `json:"password" validate:"required,min=8,max=72"`
	Email        string  `json:"email" validate:"required,email,max=254"`
	FirstName    string  `json:"first_name" validate:"max=30"`
	LastName     string  `json:"last_name" validate:"max=150"`
	Gender       string  `json:"gender" validate:"omitempty,oneof=MAN WOMAN NONE"`
	Telephone    *string `json:"telephone" validate:"omitempty,max=20,telephone"`
	DepartmentID *uint   `json:"department" validate:"omitempty,gt=0"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        UserInfo `json:"user"`
}

// UserInfo 当前用户信息
type UserInfo struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	IsActive      bool   `json:"is_active"`
	IsStaff       bool   `json:"is_staff"`
	EmailVerified bool   `json:"email_verified"`
}

// NewUserInfo 由用户记录构造 UserInfo
func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		IsActive:      u.IsActive,
		IsStaff:       u.IsStaff,
		EmailVerified: u.EmailVerified,
	}
}
