package dto

// AssignRequest 分配设备, user_id 可以是数字或数字字符串
type AssignRequest struct {
	UserID Ref `json:"user_id"`
}

// InstallRequest 安装/卸载软件
type InstallRequest struct {
	DeviceID string `json:"device_id"`
}

// ActionResult 自定义动作结果
type ActionResult struct {
	Status string `json:"status"`
}
