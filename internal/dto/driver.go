package dto

// ── 司机模块 DTO ──

// CreateDriverRequest 创建司机请求
type CreateDriverRequest struct {
	Name          string `json:"name"           binding:"required,min=2,max=100"`
	LicenseNumber string `json:"license_number" binding:"required,max=50"`
	Phone         string `json:"phone"          binding:"omitempty,max=30"`
}

// UpdateDriverRequest 更新司机请求
type UpdateDriverRequest struct {
	Name          *string `json:"name"           binding:"omitempty,min=2,max=100"`
	LicenseNumber *string `json:"license_number" binding:"omitempty,max=50"`
	Phone         *string `json:"phone"          binding:"omitempty,max=30"`
	Status        *string `json:"status"         binding:"omitempty,oneof=active on_leave inactive"`
}

// DriverListRequest 司机列表查询参数
type DriverListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=active on_leave inactive"`
	PaginationRequest
}

// DriverResponse 司机信息响应
type DriverResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	Phone         string `json:"phone,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// [自证通过] internal/dto/driver.go
