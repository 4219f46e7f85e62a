package repository

// 以下过滤器由访问策略生成, nil 字段表示不限制

// UserFilter 用户可见范围
type UserFilter struct {
	ID *uint
}

// DeviceFilter 设备可见范围
type DeviceFilter struct {
	AssignedToID *uint
}

// InterventionFilter 维护工单可见范围
type InterventionFilter struct {
	TechnicianID *uint
}

// SoftwareFilter 软件可见范围: 安装在分配给该用户的设备上
type SoftwareFilter struct {
	AssignedToID *uint
}
