package policy

import (
	"itam-go/internal/models"
)

// Actor 发起请求的用户
type Actor struct {
	ID            uint
	Username      string
	IsActive      bool
	IsStaff       bool
	EmailVerified bool
}

// ActorFromUser 由用户记录构造 Actor
func ActorFromUser(u *models.User) *Actor {
	if u == nil {
		return nil
	}
	return &Actor{
		ID:            u.ID,
		Username:      u.Username,
		IsActive:      u.IsActive,
		IsStaff:       u.IsStaff,
		EmailVerified: u.EmailVerified,
	}
}

// Authenticated 已登录、已激活且邮箱已验证
func (a *Actor) Authenticated() bool {
	return a != nil && a.ID != 0 && a.IsActive && a.EmailVerified
}
