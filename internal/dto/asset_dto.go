package dto

// 更新请求的字段均为指针, nil 表示不修改

// DepartmentRequest 创建部门
type DepartmentRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// DepartmentUpdateRequest 更新部门
type DepartmentUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=50"`
}

// UserCreateRequest 管理员创建用户
type UserCreateRequest struct {
	Username      string  `json:"username" validate:"required,username"`
	Password      string  `json:"password" validate:"required,min=8,max=72"`
	Email         string  `json:"email" validate:"omitempty,email,max=254"`
	FirstName     string  `json:"first_name" validate:"max=30"`
	LastName      string  `json:"last_name" validate:"max=150"`
	Gender        string  `json:"gender" validate:"omitempty,oneof=MAN WOMAN NONE"`
	Telephone     *string `json:"telephone" validate:"omitempty,max=20,telephone"`
	DepartmentID  *uint   `json:"department_id" validate:"omitempty,gt=0"`
	IsStaff       bool    `json:"is_staff"`
	EmailVerified bool    `json:"email_verified"`
}

// UserUpdateRequest 管理员更新用户
type UserUpdateRequest struct {
	Username      *string `json:"username" validate:"omitempty,username"`
	Password      *string `json:"password" validate:"omitempty,min=8,max=72"`
	Email         *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName     *string `json:"first_name" validate:"omitempty,max=30"`
	LastName      *string `json:"last_name" validate:"omitempty,max=150"`
	Gender        *string `json:"gender" validate:"omitempty,oneof=MAN WOMAN NONE"`
	Telephone     *string `json:"telephone" validate:"omitempty,max=20,telephone"`
	DepartmentID  *uint   `json:"department_id" validate:"omitempty,gt=0"`
	IsStaff       *bool   `json:"is_staff"`
	EmailVerified *bool   `json:"email_verified"`
}

// DeviceRequest 创建设备
type DeviceRequest struct {
	UserID       uint   `json:"user" validate:"required,gt=0"`
	Brand        string `json:"brand" validate:"required,max=50"`
	Name         string `json:"name" validate:"required,max=50"`
	SerialNumber string `json:"serial_number" validate:"required,max=50"`
	Status       string `json:"status" validate:"omitempty,oneof=ACTIVE ON_MAINTENANCE INACTIVE"`
	PurchaseDate string `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	AssignedToID *uint  `json:"assigned_to" validate:"omitempty,gt=0"`
}

// DeviceUpdateRequest 更新设备, device_id 不可修改
type DeviceUpdateRequest struct {
	UserID       *uint   `json:"user" validate:"omitempty,gt=0"`
	Brand        *string `json:"brand" validate:"omitempty,min=1,max=50"`
	Name         *string `json:"name" validate:"omitempty,min=1,max=50"`
	SerialNumber *string `json:"serial_number" validate:"omitempty,min=1,max=50"`
	Status       *string `json:"status" validate:"omitempty,oneof=ACTIVE ON_MAINTENANCE INACTIVE"`
	PurchaseDate *string `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	// null 表示取消分配
	AssignedToID Ref `json:"assigned_to"`
}

// InterventionRequest 创建维护工单, 未指定技术员时默认为当前用户
type InterventionRequest struct {
	DeviceID         string `json:"device" validate:"required,max=36"`
	Description      string `json:"description" validate:"required"`
	DateIntervention string `json:"date_intervention" validate:"required,datetime=2006-01-02"`
	TechnicianID     *uint  `json:"technician" validate:"omitempty,gt=0"`
	Status           string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// InterventionUpdateRequest 更新维护工单
type InterventionUpdateRequest struct {
	DeviceID         *string `json:"device" validate:"omitempty,max=36"`
	Description      *string `json:"description" validate:"omitempty,min=1"`
	DateIntervention *string `json:"date_intervention" validate:"omitempty,datetime=2006-01-02"`
	TechnicianID     *uint   `json:"technician" validate:"omitempty,gt=0"`
	Status           *string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// SupplierRequest 创建供应商
type SupplierRequest struct {
	Name      string `json:"name" validate:"required,max=50"`
	Telephone string `json:"telephone" validate:"required,max=20,telephone"`
}

// SupplierUpdateRequest 更新供应商
type SupplierUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=50"`
	Telephone *string `json:"telephone" validate:"omitempty,max=20,telephone"`
}

// SoftwareRequest 创建软件, 安装关系只能通过 install 修改
type SoftwareRequest struct {
	Name             string `json:"name" validate:"required,max=50"`
	Version          string `json:"version" validate:"required,max=50"`
	SupplierID       uint   `json:"supplier" validate:"required,gt=0"`
	LicenseKey       string `json:"license_key" validate:"required,max=50"`
	ExpireDate       string `json:"expire_date" validate:"required,datetime=2006-01-02"`
	MaxInstallations int    `json:"max_installations" validate:"required,min=1"`
}

// SoftwareUpdateRequest 更新软件
type SoftwareUpdateRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=50"`
	Version          *string `json:"version" validate:"omitempty,min=1,max=50"`
	SupplierID       *uint   `json:"supplier" validate:"omitempty,gt=0"`
	LicenseKey       *string `json:"license_key" validate:"omitempty,min=1,max=50"`
	ExpireDate       *string `json:"expire_date" validate:"omitempty,datetime=2006-01-02"`
	MaxInstallations *int    `json:"max_installations" validate:"omitempty,min=1"`
}
