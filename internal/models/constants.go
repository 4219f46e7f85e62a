package models

// Gender 性别
type Gender string

const (
	GenderMan   Gender = "MAN"
	GenderWoman Gender = "WOMAN"
	GenderNone  Gender = "NONE"
)

// DeviceStatus 设备状态
type DeviceStatus string

const (
	DeviceActive        DeviceStatus = "ACTIVE"
	DeviceOnMaintenance DeviceStatus = "ON_MAINTENANCE"
	DeviceInactive      DeviceStatus = "INACTIVE"
)

// InterventionStatus 维护工单状态
// 状态之间没有强制的流转规则, 任何有权限的写操作都可以设置任意值
type InterventionStatus string

const (
	InterventionPending    InterventionStatus = "PENDING"
	InterventionInProgress InterventionStatus = "IN_PROGRESS"
	InterventionCompleted  InterventionStatus = "COMPLETED"
)
