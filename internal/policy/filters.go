package policy

import (
	"itam-go/internal/repository"
)

// 管理员不受限制; 普通用户只能看到与自己相关的记录

// UserFilter 普通用户只能看到自己
func UserFilter(actor *Actor) repository.UserFilter {
	if actor.IsStaff {
		return repository.UserFilter{}
	}
	id := actor.ID
	return repository.UserFilter{ID: &id}
}

// DeviceFilter 普通用户只能看到分配给自己的设备
func DeviceFilter(actor *Actor) repository.DeviceFilter {
	if actor.IsStaff {
		return repository.DeviceFilter{}
	}
	id := actor.ID
	return repository.DeviceFilter{AssignedToID: &id}
}

// InterventionFilter 普通用户只能看到自己负责的工单
func InterventionFilter(actor *Actor) repository.InterventionFilter {
	if actor.IsStaff {
		return repository.InterventionFilter{}
	}
	id := actor.ID
	return repository.InterventionFilter{TechnicianID: &id}
}

// SoftwareFilter 普通用户只能看到安装在自己设备上的软件
func SoftwareFilter(actor *Actor) repository.SoftwareFilter {
	if actor.IsStaff {
		return repository.SoftwareFilter{}
	}
	id := actor.ID
	return repository.SoftwareFilter{AssignedToID: &id}
}
